package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/choudharyperfumes/storefront/models"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// PostgresStore relies on the volumes.product_id foreign key with ON DELETE
// CASCADE; product writes that touch volumes run in one transaction.
type PostgresStore struct {
	db *gorm.DB
}

func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) AutoMigrate() error {
	return s.db.AutoMigrate(
		&productRow{},
		&volumeRow{},
		&bannerRow{},
		&reviewRow{},
		&settingRow{},
		&adminUserRow{},
		&sessionRow{},
	)
}

func (s *PostgresStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func volumeOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	var rows []productRow
	err := s.db.WithContext(ctx).
		Preload("Volumes", volumeOrder).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromProductRow(r, r.Volumes))
	}
	return out, nil
}

func (s *PostgresStore) findProduct(ctx context.Context, query string, arg any) (*models.Product, error) {
	var row productRow
	err := s.db.WithContext(ctx).
		Preload("Volumes", volumeOrder).
		Where(query, arg).
		First(&row).Error
	if err != nil {
		return nil, notFound(err)
	}
	p := fromProductRow(row, row.Volumes)
	return &p, nil
}

func (s *PostgresStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.findProduct(ctx, "id = ?", id)
}

func (s *PostgresStore) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.findProduct(ctx, "slug = ?", slug)
}

func (s *PostgresStore) CreateProduct(ctx context.Context, p *models.Product) error {
	prepareProduct(p, time.Now().UTC())
	row := toProductRow(p)
	vols := toVolumeRows(p)

	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return err
		}
		if len(vols) == 0 {
			return nil
		}
		return tx.Create(&vols).Error
	}))
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, p *models.Product, replaceVolumes bool) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prev productRow
		if err := tx.Preload("Volumes", volumeOrder).Where("id = ?", p.Id).First(&prev).Error; err != nil {
			return notFound(err)
		}
		p.CreatedAt = prev.CreatedAt
		p.UpdatedAt = time.Now().UTC()
		if replaceVolumes {
			prepareVolumes(p)
		} else {
			p.Volumes = fromVolumeRows(prev.Volumes)
		}

		row := toProductRow(p)
		err := tx.Model(&productRow{}).
			Where("id = ?", p.Id).
			Select("*").
			Omit("id", "created_at", clause.Associations).
			Updates(&row).Error
		if err != nil {
			return err
		}
		if !replaceVolumes {
			return nil
		}
		if err := tx.Where("product_id = ?", p.Id).Delete(&volumeRow{}).Error; err != nil {
			return err
		}
		vols := toVolumeRows(p)
		if len(vols) == 0 {
			return nil
		}
		return tx.Create(&vols).Error
	}))
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&productRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListVolumes(ctx context.Context, productID string) ([]models.VolumeOption, error) {
	var rows []volumeRow
	if err := volumeOrder(s.db.WithContext(ctx)).Where("product_id = ?", productID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromVolumeRows(rows), nil
}

func (s *PostgresStore) ListBanners(ctx context.Context) ([]models.Banner, error) {
	var rows []bannerRow
	if err := s.db.WithContext(ctx).Order("sort_order asc").Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Banner, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromBannerRow(r))
	}
	return out, nil
}

func (s *PostgresStore) GetBanner(ctx context.Context, id string) (*models.Banner, error) {
	var row bannerRow
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	b := fromBannerRow(row)
	return &b, nil
}

func (s *PostgresStore) CreateBanner(ctx context.Context, b *models.Banner) error {
	if b.Id == "" {
		b.Id = uuid.NewString()
	}
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	row := toBannerRow(b)
	return translate(s.db.WithContext(ctx).Create(&row).Error)
}

func (s *PostgresStore) UpdateBanner(ctx context.Context, b *models.Banner) error {
	prev, err := s.GetBanner(ctx, b.Id)
	if err != nil {
		return err
	}
	b.CreatedAt = prev.CreatedAt
	b.UpdatedAt = time.Now().UTC()
	row := toBannerRow(b)
	return s.db.WithContext(ctx).Model(&bannerRow{}).
		Where("id = ?", b.Id).
		Select("*").
		Omit("id", "created_at").
		Updates(&row).Error
}

func (s *PostgresStore) DeleteBanner(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&bannerRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListReviews(ctx context.Context, productSlug string) ([]models.Review, error) {
	q := s.db.WithContext(ctx).Order("created_at desc")
	if productSlug != "" {
		q = q.Where("product_slug = ?", productSlug)
	}
	var rows []reviewRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Review, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromReviewRow(r))
	}
	return out, nil
}

func (s *PostgresStore) CreateReview(ctx context.Context, r *models.Review) error {
	if r.Id == "" {
		r.Id = uuid.NewString()
	}
	r.CreatedAt = time.Now().UTC()
	row := toReviewRow(r)
	return translate(s.db.WithContext(ctx).Create(&row).Error)
}

func (s *PostgresStore) DeleteReview(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&reviewRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	var row settingRow
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	st := fromSettingRow(row)
	return &st, nil
}

func (s *PostgresStore) ListSettings(ctx context.Context) ([]models.Setting, error) {
	var rows []settingRow
	if err := s.db.WithContext(ctx).Order("key asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Setting, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromSettingRow(r))
	}
	return out, nil
}

func (s *PostgresStore) UpsertSetting(ctx context.Context, st *models.Setting) error {
	st.UpdatedAt = time.Now().UTC()
	row := settingRow{Key: st.Key, Value: st.Value, UpdatedAt: st.UpdatedAt}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (s *PostgresStore) SeedAdmin(ctx context.Context, u *models.AdminUser) (bool, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	row := toAdminUserRow(u)
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: true,
	}).Create(&row)
	if res.Error != nil {
		return false, fmt.Errorf("seed admin insert failed: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *PostgresStore) FindAdmin(ctx context.Context, username string) (*models.AdminUser, error) {
	var row adminUserRow
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	u := fromAdminUserRow(row)
	return &u, nil
}

func (s *PostgresStore) UpdateAdminPassword(ctx context.Context, username, passwordHash string) error {
	res := s.db.WithContext(ctx).Model(&adminUserRow{}).
		Where("username = ?", username).
		Updates(map[string]interface{}{"password_hash": passwordHash, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateSession(ctx context.Context, sess *models.AdminSession) error {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	row := toSessionRow(sess)
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *PostgresStore) GetSession(ctx context.Context, id string) (*models.AdminSession, error) {
	var row sessionRow
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	sess := fromSessionRow(row)
	return &sess, nil
}

func (s *PostgresStore) RevokeSession(ctx context.Context, id string) error {
	if _, err := s.GetSession(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&sessionRow{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", time.Now().UTC()).Error
}

func (s *PostgresStore) RevokeUserSessions(ctx context.Context, username string) error {
	return s.db.WithContext(ctx).Model(&sessionRow{}).
		Where("username = ? AND revoked_at IS NULL", username).
		Update("revoked_at", time.Now().UTC()).Error
}
