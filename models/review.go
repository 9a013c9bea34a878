package models

import "time"

const DefaultAvatarColor = "#D0AB64"

// Review is written by shoppers and only ever deleted by an admin.
// ProductSlug is a loose reference; nothing checks that the product exists.
type Review struct {
	Id           string    `json:"id"`
	ProductSlug  string    `json:"productSlug"`
	CustomerName string    `json:"customerName"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	AvatarColor  string    `json:"avatarColor"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"createdAt"`
}
