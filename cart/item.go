package cart

import (
	"errors"
	"fmt"

	"github.com/choudharyperfumes/storefront/models"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownVolume = errors.New("unknown volume")
	ErrOutOfStock    = errors.New("product is out of stock")
)

// Item is a copy of the product taken when it was added, plus a quantity.
// Later catalog edits do not reach items already in a cart.
type Item struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Slug      string          `json:"slug"`
	Category  models.Category `json:"category"`
	ImageUrl  string          `json:"imageUrl"`
	Volume    string          `json:"volume,omitempty"`
	Price     float64         `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Key identifies a cart line: the product id, suffixed with the volume label
// when one was picked so two sizes of one product stay separate lines.
func (i Item) Key() string {
	if i.Volume == "" {
		return i.ProductID
	}
	return i.ProductID + "-" + i.Volume
}

func (i Item) UnitPrice() decimal.Decimal {
	return decimal.NewFromFloat(i.Price)
}

func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewItem snapshots p. A non-empty volume must be one of p's volume options
// and its price replaces the base price.
func NewItem(p models.Product, volume string) (Item, error) {
	if !p.InStock {
		return Item{}, fmt.Errorf("%w: %s", ErrOutOfStock, p.Name)
	}
	item := Item{
		ProductID: p.Id,
		Name:      p.Name,
		Brand:     p.Brand,
		Slug:      p.Slug,
		Category:  p.Category,
		ImageUrl:  p.ImageUrl,
		Price:     p.Price,
		Quantity:  1,
	}
	if volume != "" {
		v, ok := p.FindVolume(volume)
		if !ok {
			return Item{}, fmt.Errorf("%w %q for %s", ErrUnknownVolume, volume, p.Name)
		}
		item.Volume = v.Volume
		item.Price = v.Price
	}
	return item, nil
}
