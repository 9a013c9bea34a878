package models

import "time"

type Category string

const (
	CategoryAttar   Category = "attar"
	CategoryPerfume Category = "perfume"
)

// Categories is the display order of the shop tabs.
var Categories = []Category{CategoryAttar, CategoryPerfume}

func (c Category) Label() string {
	switch c {
	case CategoryAttar:
		return "Attars"
	case CategoryPerfume:
		return "Perfumes"
	}
	return string(c)
}

type Gender string

const (
	GenderMen    Gender = "men"
	GenderWomen  Gender = "women"
	GenderUnisex Gender = "unisex"
)

const PlaceholderImage = "/images/placeholder.png"

// VolumeOption is a purchasable size of a product with its own price.
type VolumeOption struct {
	Id     string  `json:"id,omitempty"`
	Volume string  `json:"volume"`
	Price  float64 `json:"price"`
}

type Product struct {
	Id          string         `json:"id"`
	Name        string         `json:"name"`
	Brand       string         `json:"brand"`
	Slug        string         `json:"slug"`
	Category    Category       `json:"category"`
	Gender      Gender         `json:"gender"`
	Price       float64        `json:"price"`
	ImageUrl    string         `json:"imageUrl"`
	Description string         `json:"description"`
	InStock     bool           `json:"inStock"`
	Featured    bool           `json:"featured"`
	Volumes     []VolumeOption `json:"volumes"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// FindVolume returns the volume option with the given label.
func (p Product) FindVolume(label string) (VolumeOption, bool) {
	for _, v := range p.Volumes {
		if v.Volume == label {
			return v, true
		}
	}
	return VolumeOption{}, false
}

// DefaultVolumeLabel is shown for products sold in a single size.
func (p Product) DefaultVolumeLabel() string {
	if p.Category == CategoryAttar {
		return "12ml"
	}
	return "100ml"
}
