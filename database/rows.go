package database

import (
	"time"

	"github.com/choudharyperfumes/storefront/models"
	"github.com/google/uuid"
)

// Row types are the store-side shape of every entity: snake_case documents in
// Mongo and snake_case columns in Postgres. Nothing outside this package sees
// them; the to*/from* functions below are the only translation points.

type productRow struct {
	ID          string      `bson:"_id" gorm:"primaryKey;size:36"`
	Name        string      `bson:"name" gorm:"column:name;not null"`
	Brand       string      `bson:"brand" gorm:"column:brand"`
	Slug        string      `bson:"slug" gorm:"column:slug;uniqueIndex;not null"`
	Category    string      `bson:"category" gorm:"column:category;not null"`
	Gender      string      `bson:"gender" gorm:"column:gender"`
	Price       float64     `bson:"price" gorm:"column:price"`
	ImageURL    string      `bson:"image_url" gorm:"column:image_url"`
	Description string      `bson:"description" gorm:"column:description;type:text"`
	InStock     bool        `bson:"in_stock" gorm:"column:in_stock"`
	Featured    bool        `bson:"featured" gorm:"column:featured"`
	CreatedAt   time.Time   `bson:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time   `bson:"updated_at" gorm:"column:updated_at"`
	Volumes     []volumeRow `bson:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (productRow) TableName() string { return "products" }

type volumeRow struct {
	ID        string  `bson:"_id" gorm:"primaryKey;size:36"`
	ProductID string  `bson:"product_id" gorm:"column:product_id;size:36;index;not null"`
	Volume    string  `bson:"volume" gorm:"column:volume"`
	Price     float64 `bson:"price" gorm:"column:price"`
	Position  int     `bson:"position" gorm:"column:position"`
}

func (volumeRow) TableName() string { return "volumes" }

type bannerRow struct {
	ID              string    `bson:"_id" gorm:"primaryKey;size:36"`
	Title           string    `bson:"title" gorm:"column:title"`
	Subtitle        string    `bson:"subtitle" gorm:"column:subtitle"`
	Link            string    `bson:"link" gorm:"column:link"`
	MobileImageURL  string    `bson:"mobile_image_url" gorm:"column:mobile_image_url;not null"`
	DesktopImageURL string    `bson:"desktop_image_url" gorm:"column:desktop_image_url;not null"`
	IsActive        bool      `bson:"is_active" gorm:"column:is_active"`
	SortOrder       int       `bson:"sort_order" gorm:"column:sort_order"`
	CreatedAt       time.Time `bson:"created_at" gorm:"column:created_at"`
	UpdatedAt       time.Time `bson:"updated_at" gorm:"column:updated_at"`
}

func (bannerRow) TableName() string { return "banners" }

type reviewRow struct {
	ID           string    `bson:"_id" gorm:"primaryKey;size:36"`
	ProductSlug  string    `bson:"product_slug" gorm:"column:product_slug;index"`
	CustomerName string    `bson:"customer_name" gorm:"column:customer_name"`
	Rating       int       `bson:"rating" gorm:"column:rating"`
	Comment      string    `bson:"comment" gorm:"column:comment;type:text"`
	AvatarColor  string    `bson:"avatar_color" gorm:"column:avatar_color"`
	Verified     bool      `bson:"verified" gorm:"column:verified"`
	CreatedAt    time.Time `bson:"created_at" gorm:"column:created_at"`
}

func (reviewRow) TableName() string { return "reviews" }

type settingRow struct {
	Key       string    `bson:"_id" gorm:"primaryKey;column:key"`
	Value     string    `bson:"value" gorm:"column:value"`
	UpdatedAt time.Time `bson:"updated_at" gorm:"column:updated_at"`
}

func (settingRow) TableName() string { return "settings" }

type adminUserRow struct {
	ID           string    `bson:"_id" gorm:"primaryKey;size:36"`
	Username     string    `bson:"username" gorm:"column:username;uniqueIndex;not null"`
	PasswordHash string    `bson:"password_hash" gorm:"column:password_hash"`
	IsActive     bool      `bson:"is_active" gorm:"column:is_active"`
	CreatedAt    time.Time `bson:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `bson:"updated_at" gorm:"column:updated_at"`
}

func (adminUserRow) TableName() string { return "admin_users" }

type sessionRow struct {
	ID        string     `bson:"_id" gorm:"primaryKey;size:36"`
	Username  string     `bson:"username" gorm:"column:username"`
	CreatedAt time.Time  `bson:"created_at" gorm:"column:created_at"`
	ExpiresAt time.Time  `bson:"expires_at" gorm:"column:expires_at;index"`
	RevokedAt *time.Time `bson:"revoked_at,omitempty" gorm:"column:revoked_at"`
}

func (sessionRow) TableName() string { return "admin_sessions" }

// prepareProduct fills ids and timestamps before a first insert.
func prepareProduct(p *models.Product, now time.Time) {
	if p.Id == "" {
		p.Id = uuid.NewString()
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	prepareVolumes(p)
}

func prepareVolumes(p *models.Product) {
	if p.Volumes == nil {
		p.Volumes = []models.VolumeOption{}
	}
	for i := range p.Volumes {
		if p.Volumes[i].Id == "" {
			p.Volumes[i].Id = uuid.NewString()
		}
	}
}

func toProductRow(p *models.Product) productRow {
	return productRow{
		ID:          p.Id,
		Name:        p.Name,
		Brand:       p.Brand,
		Slug:        p.Slug,
		Category:    string(p.Category),
		Gender:      string(p.Gender),
		Price:       p.Price,
		ImageURL:    p.ImageUrl,
		Description: p.Description,
		InStock:     p.InStock,
		Featured:    p.Featured,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toVolumeRows(p *models.Product) []volumeRow {
	rows := make([]volumeRow, 0, len(p.Volumes))
	for i, v := range p.Volumes {
		rows = append(rows, volumeRow{ID: v.Id, ProductID: p.Id, Volume: v.Volume, Price: v.Price, Position: i})
	}
	return rows
}

func fromProductRow(r productRow, vols []volumeRow) models.Product {
	p := models.Product{
		Id:          r.ID,
		Name:        r.Name,
		Brand:       r.Brand,
		Slug:        r.Slug,
		Category:    models.Category(r.Category),
		Gender:      models.Gender(r.Gender),
		Price:       r.Price,
		ImageUrl:    r.ImageURL,
		Description: r.Description,
		InStock:     r.InStock,
		Featured:    r.Featured,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Volumes:     fromVolumeRows(vols),
	}
	if p.Gender == "" {
		p.Gender = models.GenderUnisex
	}
	return p
}

func fromVolumeRows(rows []volumeRow) []models.VolumeOption {
	out := make([]models.VolumeOption, 0, len(rows))
	for _, v := range rows {
		out = append(out, models.VolumeOption{Id: v.ID, Volume: v.Volume, Price: v.Price})
	}
	return out
}

func toBannerRow(b *models.Banner) bannerRow {
	return bannerRow{
		ID:              b.Id,
		Title:           b.Title,
		Subtitle:        b.Subtitle,
		Link:            b.Link,
		MobileImageURL:  b.MobileImageUrl,
		DesktopImageURL: b.DesktopImageUrl,
		IsActive:        b.IsActive,
		SortOrder:       b.SortOrder,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func fromBannerRow(r bannerRow) models.Banner {
	return models.Banner{
		Id:              r.ID,
		Title:           r.Title,
		Subtitle:        r.Subtitle,
		Link:            r.Link,
		MobileImageUrl:  r.MobileImageURL,
		DesktopImageUrl: r.DesktopImageURL,
		IsActive:        r.IsActive,
		SortOrder:       r.SortOrder,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toReviewRow(r *models.Review) reviewRow {
	return reviewRow{
		ID:           r.Id,
		ProductSlug:  r.ProductSlug,
		CustomerName: r.CustomerName,
		Rating:       r.Rating,
		Comment:      r.Comment,
		AvatarColor:  r.AvatarColor,
		Verified:     r.Verified,
		CreatedAt:    r.CreatedAt,
	}
}

func fromReviewRow(r reviewRow) models.Review {
	return models.Review{
		Id:           r.ID,
		ProductSlug:  r.ProductSlug,
		CustomerName: r.CustomerName,
		Rating:       r.Rating,
		Comment:      r.Comment,
		AvatarColor:  r.AvatarColor,
		Verified:     r.Verified,
		CreatedAt:    r.CreatedAt,
	}
}

func fromSettingRow(r settingRow) models.Setting {
	return models.Setting{Key: r.Key, Value: r.Value, UpdatedAt: r.UpdatedAt}
}

func toAdminUserRow(u *models.AdminUser) adminUserRow {
	return adminUserRow{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func fromAdminUserRow(r adminUserRow) models.AdminUser {
	return models.AdminUser{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toSessionRow(s *models.AdminSession) sessionRow {
	return sessionRow{ID: s.ID, Username: s.Username, CreatedAt: s.CreatedAt, ExpiresAt: s.ExpiresAt, RevokedAt: s.RevokedAt}
}

func fromSessionRow(r sessionRow) models.AdminSession {
	return models.AdminSession{ID: r.ID, Username: r.Username, CreatedAt: r.CreatedAt, ExpiresAt: r.ExpiresAt, RevokedAt: r.RevokedAt}
}
