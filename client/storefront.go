// Package client reads the storefront API the way server-rendered pages and
// the cartctl tool need it.
package client

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/choudharyperfumes/storefront/models"
	"github.com/go-resty/resty/v2"
)

// Product is a catalog entry after normalization. Volume is the label shown
// when the product has no volume options of its own.
type Product struct {
	models.Product
	Volume string `json:"volume"`
}

// rawProduct accepts both field spellings older API versions returned.
type rawProduct struct {
	Id            string                `json:"id"`
	Name          string                `json:"name"`
	Brand         *string               `json:"brand"`
	Slug          string                `json:"slug"`
	Category      models.Category       `json:"category"`
	Gender        models.Gender         `json:"gender"`
	Price         *float64              `json:"price"`
	Volume        string                `json:"volume"`
	ImageUrl      string                `json:"imageUrl"`
	ImageURLSnake string                `json:"image_url"`
	Description   string                `json:"description"`
	InStock       *bool                 `json:"inStock"`
	Featured      bool                  `json:"featured"`
	Volumes       []models.VolumeOption `json:"volumes"`
}

func normalize(r rawProduct) Product {
	p := Product{Product: models.Product{
		Id:          r.Id,
		Name:        r.Name,
		Slug:        r.Slug,
		Category:    r.Category,
		Gender:      r.Gender,
		ImageUrl:    r.ImageUrl,
		Description: r.Description,
		Featured:    r.Featured,
		Volumes:     r.Volumes,
	}}
	if r.Brand != nil {
		p.Brand = *r.Brand
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.InStock != nil {
		p.InStock = *r.InStock
	}
	if p.Gender == "" {
		p.Gender = models.GenderUnisex
	}
	if p.ImageUrl == "" {
		p.ImageUrl = r.ImageURLSnake
	}
	if p.Volumes == nil {
		p.Volumes = []models.VolumeOption{}
	}
	p.Volume = r.Volume
	if p.Volume == "" {
		p.Volume = p.DefaultVolumeLabel()
	}
	return p
}

type Storefront struct {
	http             *resty.Client
	fallbackWhatsApp string
}

func New(baseURL, fallbackWhatsApp string) *Storefront {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json")
	return &Storefront{http: c, fallbackWhatsApp: fallbackWhatsApp}
}

// GetProducts never fails: any error is logged and an empty list returned,
// so callers cannot tell an empty catalog from an outage.
func (s *Storefront) GetProducts(ctx context.Context) []Product {
	var raw []rawProduct
	resp, err := s.http.R().SetContext(ctx).SetResult(&raw).Get("/api/products")
	if err != nil {
		log.Printf("fetch products: %v", err)
		return []Product{}
	}
	if resp.IsError() {
		log.Printf("fetch products: status %d: %s", resp.StatusCode(), resp.String())
		return []Product{}
	}

	out := make([]Product, 0, len(raw))
	for _, r := range raw {
		out = append(out, normalize(r))
	}
	return out
}

func (s *Storefront) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	var raw rawProduct
	resp, err := s.http.R().
		SetContext(ctx).
		SetResult(&raw).
		Get("/api/products/slug/" + url.PathEscape(slug))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("product %q: status %d", slug, resp.StatusCode())
	}
	p := normalize(raw)
	return &p, nil
}

// WhatsAppNumber reads the whatsapp_number setting, falling back to the
// configured default when the API is unreachable or the value is blank.
func (s *Storefront) WhatsAppNumber(ctx context.Context) string {
	var setting models.Setting
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("key", models.SettingWhatsAppNumber).
		SetResult(&setting).
		Get("/api/settings")
	if err != nil || resp.IsError() || strings.TrimSpace(setting.Value) == "" {
		if err != nil {
			log.Printf("fetch whatsapp number: %v", err)
		}
		return s.fallbackWhatsApp
	}
	return strings.TrimSpace(setting.Value)
}
