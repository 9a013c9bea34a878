package models

import "time"

type Banner struct {
	Id              string    `json:"id"`
	Title           string    `json:"title"`
	Subtitle        string    `json:"subtitle"`
	Link            string    `json:"link"`
	MobileImageUrl  string    `json:"mobileImageUrl"`
	DesktopImageUrl string    `json:"desktopImageUrl"`
	IsActive        bool      `json:"isActive"`
	SortOrder       int       `json:"sortOrder"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
