package models

import "time"

const SettingWhatsAppNumber = "whatsapp_number"

type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}
