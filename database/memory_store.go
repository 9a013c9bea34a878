package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/choudharyperfumes/storefront/models"
	"github.com/google/uuid"
)

// MemoryStore keeps every table in maps guarded by one RWMutex. It backs the
// tests and DATABASE_DRIVER=memory; nothing survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]productRow
	volumes  map[string][]volumeRow // productID -> volumes in insertion order
	banners  map[string]bannerRow
	reviews  map[string]reviewRow
	settings map[string]settingRow
	admins   map[string]adminUserRow // username -> admin
	sessions map[string]sessionRow

	now  func() time.Time
	last time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]productRow),
		volumes:  make(map[string][]volumeRow),
		banners:  make(map[string]bannerRow),
		reviews:  make(map[string]reviewRow),
		settings: make(map[string]settingRow),
		admins:   make(map[string]adminUserRow),
		sessions: make(map[string]sessionRow),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Close(context.Context) error { return nil }

// stamp returns a strictly increasing write time so ordering by timestamp
// stays deterministic for writes within the same clock tick. Callers hold mu.
func (s *MemoryStore) stamp() time.Time {
	t := s.now()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func (s *MemoryStore) ListProducts(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]productRow, 0, len(s.products))
	for _, r := range s.products {
		rows = append(rows, r)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })

	out := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromProductRow(r, s.volumes[r.ID]))
	}
	return out, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	p := fromProductRow(r, s.volumes[id])
	return &p, nil
}

func (s *MemoryStore) GetProductBySlug(_ context.Context, slug string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.products {
		if r.Slug == slug {
			p := fromProductRow(r, s.volumes[r.ID])
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) slugTaken(slug, exceptID string) bool {
	for id, r := range s.products {
		if id != exceptID && r.Slug == slug {
			return true
		}
	}
	return false
}

func (s *MemoryStore) CreateProduct(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slugTaken(p.Slug, "") {
		return fmt.Errorf("%w: products.slug %q", ErrDuplicateKey, p.Slug)
	}
	prepareProduct(p, s.stamp())
	s.products[p.Id] = toProductRow(p)
	s.volumes[p.Id] = toVolumeRows(p)
	return nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, p *models.Product, replaceVolumes bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.products[p.Id]
	if !ok {
		return ErrNotFound
	}
	if s.slugTaken(p.Slug, p.Id) {
		return fmt.Errorf("%w: products.slug %q", ErrDuplicateKey, p.Slug)
	}

	p.CreatedAt = prev.CreatedAt
	p.UpdatedAt = s.stamp()
	s.products[p.Id] = toProductRow(p)
	if replaceVolumes {
		prepareVolumes(p)
		s.volumes[p.Id] = toVolumeRows(p)
	} else {
		p.Volumes = fromVolumeRows(s.volumes[p.Id])
	}
	return nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	delete(s.volumes, id)
	return nil
}

func (s *MemoryStore) ListVolumes(_ context.Context, productID string) ([]models.VolumeOption, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fromVolumeRows(s.volumes[productID]), nil
}

func (s *MemoryStore) ListBanners(_ context.Context) ([]models.Banner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Banner, 0, len(s.banners))
	for _, r := range s.banners {
		out = append(out, fromBannerRow(r))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) GetBanner(_ context.Context, id string) (*models.Banner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.banners[id]
	if !ok {
		return nil, ErrNotFound
	}
	b := fromBannerRow(r)
	return &b, nil
}

func (s *MemoryStore) CreateBanner(_ context.Context, b *models.Banner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.Id == "" {
		b.Id = uuid.NewString()
	}
	b.CreatedAt = s.stamp()
	b.UpdatedAt = b.CreatedAt
	s.banners[b.Id] = toBannerRow(b)
	return nil
}

func (s *MemoryStore) UpdateBanner(_ context.Context, b *models.Banner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.banners[b.Id]
	if !ok {
		return ErrNotFound
	}
	b.CreatedAt = prev.CreatedAt
	b.UpdatedAt = s.stamp()
	s.banners[b.Id] = toBannerRow(b)
	return nil
}

func (s *MemoryStore) DeleteBanner(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.banners[id]; !ok {
		return ErrNotFound
	}
	delete(s.banners, id)
	return nil
}

func (s *MemoryStore) ListReviews(_ context.Context, productSlug string) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Review, 0)
	for _, r := range s.reviews {
		if productSlug == "" || r.ProductSlug == productSlug {
			out = append(out, fromReviewRow(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) CreateReview(_ context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Id == "" {
		r.Id = uuid.NewString()
	}
	r.CreatedAt = s.stamp()
	s.reviews[r.Id] = toReviewRow(r)
	return nil
}

func (s *MemoryStore) DeleteReview(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reviews[id]; !ok {
		return ErrNotFound
	}
	delete(s.reviews, id)
	return nil
}

func (s *MemoryStore) GetSetting(_ context.Context, key string) (*models.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.settings[key]
	if !ok {
		return nil, ErrNotFound
	}
	st := fromSettingRow(r)
	return &st, nil
}

func (s *MemoryStore) ListSettings(_ context.Context) ([]models.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Setting, 0, len(s.settings))
	for _, r := range s.settings {
		out = append(out, fromSettingRow(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *MemoryStore) UpsertSetting(_ context.Context, st *models.Setting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st.UpdatedAt = s.stamp()
	s.settings[st.Key] = settingRow{Key: st.Key, Value: st.Value, UpdatedAt: st.UpdatedAt}
	return nil
}

func (s *MemoryStore) SeedAdmin(_ context.Context, u *models.AdminUser) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.admins[u.Username]; ok {
		return false, nil
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.admins[u.Username] = toAdminUserRow(u)
	return true, nil
}

func (s *MemoryStore) FindAdmin(_ context.Context, username string) (*models.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.admins[username]
	if !ok {
		return nil, ErrNotFound
	}
	u := fromAdminUserRow(r)
	return &u, nil
}

func (s *MemoryStore) UpdateAdminPassword(_ context.Context, username, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.admins[username]
	if !ok {
		return ErrNotFound
	}
	r.PasswordHash = passwordHash
	r.UpdatedAt = s.stamp()
	s.admins[username] = r
	return nil
}

func (s *MemoryStore) CreateSession(_ context.Context, sess *models.AdminSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	s.sessions[sess.ID] = toSessionRow(sess)
	return nil
}

func (s *MemoryStore) GetSession(_ context.Context, id string) (*models.AdminSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess := fromSessionRow(r)
	return &sess, nil
}

func (s *MemoryStore) RevokeSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	if r.RevokedAt == nil {
		now := s.stamp()
		r.RevokedAt = &now
		s.sessions[id] = r
	}
	return nil
}

func (s *MemoryStore) RevokeUserSessions(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.stamp()
	for id, r := range s.sessions {
		if r.Username == username && r.RevokedAt == nil {
			at := now
			r.RevokedAt = &at
			s.sessions[id] = r
		}
	}
	return nil
}
