package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/choudharyperfumes/storefront/models"
	"github.com/choudharyperfumes/storefront/utils"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrPartialWrite means a product and its volumes could not be written
	// together and the compensating write failed as well; the two may now
	// disagree until an admin edits the product again.
	ErrPartialWrite = errors.New("partial write: product and volumes are inconsistent")
)

type ProductStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	// CreateProduct assigns ids and timestamps to p and its volumes.
	CreateProduct(ctx context.Context, p *models.Product) error
	// UpdateProduct writes every field of p. When replaceVolumes is set the
	// stored volumes are dropped and p.Volumes inserted in their place.
	UpdateProduct(ctx context.Context, p *models.Product, replaceVolumes bool) error
	// DeleteProduct removes the product and all of its volumes.
	DeleteProduct(ctx context.Context, id string) error
	ListVolumes(ctx context.Context, productID string) ([]models.VolumeOption, error)
}

type BannerStore interface {
	// ListBanners orders by sort order ascending, then newest first.
	ListBanners(ctx context.Context) ([]models.Banner, error)
	GetBanner(ctx context.Context, id string) (*models.Banner, error)
	CreateBanner(ctx context.Context, b *models.Banner) error
	UpdateBanner(ctx context.Context, b *models.Banner) error
	DeleteBanner(ctx context.Context, id string) error
}

type ReviewStore interface {
	// ListReviews returns newest first; an empty slug means every product.
	ListReviews(ctx context.Context, productSlug string) ([]models.Review, error)
	CreateReview(ctx context.Context, r *models.Review) error
	DeleteReview(ctx context.Context, id string) error
}

type SettingStore interface {
	GetSetting(ctx context.Context, key string) (*models.Setting, error)
	ListSettings(ctx context.Context) ([]models.Setting, error)
	UpsertSetting(ctx context.Context, s *models.Setting) error
}

type AdminStore interface {
	// SeedAdmin inserts u unless an admin with that username exists.
	SeedAdmin(ctx context.Context, u *models.AdminUser) (bool, error)
	FindAdmin(ctx context.Context, username string) (*models.AdminUser, error)
	UpdateAdminPassword(ctx context.Context, username, passwordHash string) error
}

type SessionStore interface {
	CreateSession(ctx context.Context, s *models.AdminSession) error
	GetSession(ctx context.Context, id string) (*models.AdminSession, error)
	RevokeSession(ctx context.Context, id string) error
	// RevokeUserSessions revokes every live session of username.
	RevokeUserSessions(ctx context.Context, username string) error
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if utils.IsDuplicateKey(err) {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	}
	return err
}

type Store interface {
	ProductStore
	BannerStore
	ReviewStore
	SettingStore
	AdminStore
	SessionStore
	Close(ctx context.Context) error
}
