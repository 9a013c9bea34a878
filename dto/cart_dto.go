package dto

type AddCartItemDTO struct {
	ProductID string `json:"productId" binding:"required"`
	Volume    string `json:"volume"`
}

type UpdateCartItemDTO struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// BuyNowDTO is the single-product checkout from the product page.
type BuyNowDTO struct {
	ProductID string `json:"productId" binding:"required"`
	Volume    string `json:"volume"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1,max=99"`
}
