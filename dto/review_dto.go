package dto

type CreateReviewDTO struct {
	ProductSlug  string `json:"productSlug" binding:"required"`
	CustomerName string `json:"customerName" binding:"required,max=100"`
	Rating       int    `json:"rating" binding:"required,min=1,max=5"`
	Comment      string `json:"comment" binding:"required,max=2000"`
	AvatarColor  string `json:"avatarColor" binding:"omitempty,hexcolor"`
}
