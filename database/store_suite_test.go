package database

import (
	"context"
	"testing"
	"time"

	"github.com/choudharyperfumes/storefront/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreSuite checks the behaviour every backend must share.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("ProductLifecycle", func(t *testing.T) { testProductLifecycle(t, newStore(t)) })
	t.Run("DuplicateSlug", func(t *testing.T) { testDuplicateSlug(t, newStore(t)) })
	t.Run("ProductVolumes", func(t *testing.T) { testProductVolumes(t, newStore(t)) })
	t.Run("ProductNotFound", func(t *testing.T) { testProductNotFound(t, newStore(t)) })
	t.Run("Banners", func(t *testing.T) { testBanners(t, newStore(t)) })
	t.Run("Reviews", func(t *testing.T) { testReviews(t, newStore(t)) })
	t.Run("Settings", func(t *testing.T) { testSettings(t, newStore(t)) })
	t.Run("SeedAdmin", func(t *testing.T) { testSeedAdmin(t, newStore(t)) })
	t.Run("Sessions", func(t *testing.T) { testSessions(t, newStore(t)) })
}

func sampleProduct(name, slug string) *models.Product {
	return &models.Product{
		Name:     name,
		Brand:    "Choudhary",
		Slug:     slug,
		Category: models.CategoryAttar,
		Gender:   models.GenderUnisex,
		Price:    450,
		ImageUrl: models.PlaceholderImage,
		InStock:  true,
		Volumes: []models.VolumeOption{
			{Volume: "6ml", Price: 250},
			{Volume: "12ml", Price: 450},
		},
	}
}

func volumeLabels(vols []models.VolumeOption) []string {
	out := make([]string, 0, len(vols))
	for _, v := range vols {
		out = append(out, v.Volume)
	}
	return out
}

func testProductLifecycle(t *testing.T, s Store) {
	ctx := context.Background()

	first := sampleProduct("Royal Musk", "royal-musk")
	require.NoError(t, s.CreateProduct(ctx, first))
	assert.NotEmpty(t, first.Id)
	assert.False(t, first.CreatedAt.IsZero())
	for _, v := range first.Volumes {
		assert.NotEmpty(t, v.Id)
	}

	time.Sleep(5 * time.Millisecond)
	second := sampleProduct("Oud Wood", "oud-wood")
	second.Category = models.CategoryPerfume
	second.Volumes = nil
	require.NoError(t, s.CreateProduct(ctx, second))

	list, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "royal-musk", list[0].Slug)
	assert.Equal(t, []string{"6ml", "12ml"}, volumeLabels(list[0].Volumes))
	assert.NotNil(t, list[1].Volumes)
	assert.Empty(t, list[1].Volumes)

	got, err := s.GetProductBySlug(ctx, "oud-wood")
	require.NoError(t, err)
	assert.Equal(t, second.Id, got.Id)
	assert.Equal(t, models.CategoryPerfume, got.Category)

	got, err = s.GetProduct(ctx, first.Id)
	require.NoError(t, err)
	assert.Equal(t, "Royal Musk", got.Name)
	assert.True(t, got.InStock)

	got.Price = 500
	got.InStock = false
	require.NoError(t, s.UpdateProduct(ctx, got, false))
	got, err = s.GetProduct(ctx, first.Id)
	require.NoError(t, err)
	assert.Equal(t, 500.0, got.Price)
	assert.False(t, got.InStock)
	assert.Len(t, got.Volumes, 2)

	require.NoError(t, s.DeleteProduct(ctx, first.Id))
	_, err = s.GetProduct(ctx, first.Id)
	assert.ErrorIs(t, err, ErrNotFound)

	vols, err := s.ListVolumes(ctx, first.Id)
	require.NoError(t, err)
	assert.Empty(t, vols)
}

func testDuplicateSlug(t *testing.T, s Store) {
	ctx := context.Background()

	require.NoError(t, s.CreateProduct(ctx, sampleProduct("Royal Musk", "royal-musk")))
	err := s.CreateProduct(ctx, sampleProduct("Royal Musk Again", "royal-musk"))
	assert.ErrorIs(t, err, ErrDuplicateKey)

	other := sampleProduct("Amber", "amber")
	require.NoError(t, s.CreateProduct(ctx, other))
	other.Slug = "royal-musk"
	assert.ErrorIs(t, s.UpdateProduct(ctx, other, false), ErrDuplicateKey)

	list, err := s.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func testProductVolumes(t *testing.T, s Store) {
	ctx := context.Background()

	p := sampleProduct("Rose Attar", "rose-attar")
	require.NoError(t, s.CreateProduct(ctx, p))

	p.Volumes = []models.VolumeOption{{Volume: "3ml", Price: 150}, {Volume: "24ml", Price: 800}, {Volume: "50ml", Price: 1500}}
	require.NoError(t, s.UpdateProduct(ctx, p, true))

	vols, err := s.ListVolumes(ctx, p.Id)
	require.NoError(t, err)
	assert.Equal(t, []string{"3ml", "24ml", "50ml"}, volumeLabels(vols))

	p.Volumes = []models.VolumeOption{}
	require.NoError(t, s.UpdateProduct(ctx, p, true))
	vols, err = s.ListVolumes(ctx, p.Id)
	require.NoError(t, err)
	assert.Empty(t, vols)
}

func testProductNotFound(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetProductBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	p := sampleProduct("Ghost", "ghost")
	p.Id = "missing"
	assert.ErrorIs(t, s.UpdateProduct(ctx, p, true), ErrNotFound)
	assert.ErrorIs(t, s.DeleteProduct(ctx, "missing"), ErrNotFound)
}

func testBanners(t *testing.T, s Store) {
	ctx := context.Background()

	mk := func(title string, order int) *models.Banner {
		b := &models.Banner{
			Title:           title,
			MobileImageUrl:  "/uploads/" + title + "-m.jpg",
			DesktopImageUrl: "/uploads/" + title + "-d.jpg",
			IsActive:        true,
			SortOrder:       order,
		}
		require.NoError(t, s.CreateBanner(ctx, b))
		time.Sleep(5 * time.Millisecond)
		return b
	}
	older := mk("older", 1)
	newer := mk("newer", 1)
	first := mk("first", 0)

	list, err := s.ListBanners(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{first.Id, newer.Id, older.Id}, []string{list[0].Id, list[1].Id, list[2].Id})

	older.IsActive = false
	older.SortOrder = -1
	require.NoError(t, s.UpdateBanner(ctx, older))
	got, err := s.GetBanner(ctx, older.Id)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, -1, got.SortOrder)

	require.NoError(t, s.DeleteBanner(ctx, newer.Id))
	assert.ErrorIs(t, s.DeleteBanner(ctx, newer.Id), ErrNotFound)

	_, err = s.GetBanner(ctx, newer.Id)
	assert.ErrorIs(t, err, ErrNotFound)
	ghost := &models.Banner{Id: newer.Id}
	assert.ErrorIs(t, s.UpdateBanner(ctx, ghost), ErrNotFound)
}

func testReviews(t *testing.T, s Store) {
	ctx := context.Background()

	add := func(slug, name string) *models.Review {
		r := &models.Review{
			ProductSlug:  slug,
			CustomerName: name,
			Rating:       5,
			Comment:      "Lovely",
			AvatarColor:  models.DefaultAvatarColor,
		}
		require.NoError(t, s.CreateReview(ctx, r))
		time.Sleep(5 * time.Millisecond)
		return r
	}
	add("royal-musk", "Asha")
	latest := add("royal-musk", "Ravi")
	add("oud-wood", "Meera")

	all, err := s.ListReviews(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	musk, err := s.ListReviews(ctx, "royal-musk")
	require.NoError(t, err)
	require.Len(t, musk, 2)
	assert.Equal(t, latest.Id, musk[0].Id)
	assert.False(t, musk[0].Verified)

	require.NoError(t, s.DeleteReview(ctx, latest.Id))
	assert.ErrorIs(t, s.DeleteReview(ctx, latest.Id), ErrNotFound)
}

func testSettings(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.GetSetting(ctx, models.SettingWhatsAppNumber)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.UpsertSetting(ctx, &models.Setting{Key: models.SettingWhatsAppNumber, Value: "919999999999"}))
	require.NoError(t, s.UpsertSetting(ctx, &models.Setting{Key: models.SettingWhatsAppNumber, Value: "918888888888"}))

	got, err := s.GetSetting(ctx, models.SettingWhatsAppNumber)
	require.NoError(t, err)
	assert.Equal(t, "918888888888", got.Value)

	all, err := s.ListSettings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testSeedAdmin(t *testing.T, s Store) {
	ctx := context.Background()

	require.NoError(t, SeedAdminUser(ctx, s, " Admin ", "hash-1"))
	require.NoError(t, SeedAdminUser(ctx, s, "admin", "hash-2"))

	u, err := s.FindAdmin(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "hash-1", u.PasswordHash)
	assert.True(t, u.IsActive)

	_, err = s.FindAdmin(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, SeedAdminUser(ctx, s, "", "hash"))

	require.NoError(t, s.UpdateAdminPassword(ctx, "admin", "hash-3"))
	u, err = s.FindAdmin(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "hash-3", u.PasswordHash)
	assert.ErrorIs(t, s.UpdateAdminPassword(ctx, "nobody", "x"), ErrNotFound)
}

func testSessions(t *testing.T, s Store) {
	ctx := context.Background()
	now := time.Now().UTC()

	sess := &models.AdminSession{Username: "admin", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, s.CreateSession(ctx, sess))
	require.NotEmpty(t, sess.ID)

	got, err := s.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, got.Active(time.Now()))

	require.NoError(t, s.RevokeSession(ctx, sess.ID))
	require.NoError(t, s.RevokeSession(ctx, sess.ID))
	got, err = s.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, got.Active(time.Now()))

	assert.ErrorIs(t, s.RevokeSession(ctx, "missing"), ErrNotFound)

	a := &models.AdminSession{Username: "admin", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	b := &models.AdminSession{Username: "admin", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	other := &models.AdminSession{Username: "editor", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	for _, x := range []*models.AdminSession{a, b, other} {
		require.NoError(t, s.CreateSession(ctx, x))
	}
	require.NoError(t, s.RevokeUserSessions(ctx, "admin"))
	for _, x := range []*models.AdminSession{a, b} {
		got, err := s.GetSession(ctx, x.ID)
		require.NoError(t, err)
		assert.False(t, got.Active(time.Now()))
	}
	got, err = s.GetSession(ctx, other.ID)
	require.NoError(t, err)
	assert.True(t, got.Active(time.Now()))
}
