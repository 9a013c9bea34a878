package dto

type VolumeDTO struct {
	Volume string  `json:"volume" binding:"required"`
	Price  float64 `json:"price" binding:"gt=0"`
}

type CreateProductDTO struct {
	Name        string      `json:"name" binding:"required"`
	Brand       string      `json:"brand"`
	Slug        string      `json:"slug"` // derived from Name if empty
	Price       float64     `json:"price" binding:"required,gt=0"`
	Category    string      `json:"category" binding:"required,oneof=attar perfume"`
	Gender      string      `json:"gender" binding:"omitempty,oneof=men women unisex"`
	ImageUrl    string      `json:"imageUrl"`
	Description string      `json:"description"`
	InStock     *bool       `json:"inStock"`
	Featured    *bool       `json:"featured"`
	Volumes     []VolumeDTO `json:"volumes" binding:"omitempty,dive"`
}

// UpdateProductDTO is a partial update; nil fields are left untouched. A non-nil Volumes replaces
// every volume of the product, an empty slice removes them all.
type UpdateProductDTO struct {
	Name        *string      `json:"name,omitempty"`
	Brand       *string      `json:"brand,omitempty"`
	Slug        *string      `json:"slug,omitempty"`
	Price       *float64     `json:"price,omitempty" binding:"omitempty,gt=0"`
	Category    *string      `json:"category,omitempty" binding:"omitempty,oneof=attar perfume"`
	Gender      *string      `json:"gender,omitempty" binding:"omitempty,oneof=men women unisex"`
	ImageUrl    *string      `json:"imageUrl,omitempty"`
	Description *string      `json:"description,omitempty"`
	InStock     *bool        `json:"inStock,omitempty"`
	Featured    *bool        `json:"featured,omitempty"`
	Volumes     *[]VolumeDTO `json:"volumes,omitempty" binding:"omitempty,dive"`
}
