// Package banner picks the homepage slides and rotates through them.
package banner

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/choudharyperfumes/storefront/models"
)

const DefaultInterval = 5 * time.Second

type Slide struct {
	ID              string `json:"id,omitempty"`
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	Link            string `json:"link"`
	MobileImageUrl  string `json:"mobileImageUrl"`
	DesktopImageUrl string `json:"desktopImageUrl"`
	Fallback        bool   `json:"fallback,omitempty"`
}

// Active keeps the active banners ordered by sort order, newest first on ties.
func Active(banners []models.Banner) []models.Banner {
	out := make([]models.Banner, 0, len(banners))
	for _, b := range banners {
		if b.IsActive {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

type Rotation struct {
	mu       sync.Mutex
	slides   []Slide
	interval time.Duration
	epoch    time.Time
	current  int
	fallback bool
}

// NewRotation builds the slide list from the active banners. With none
// active it holds a single slide showing fallbackImage. Indexes returned by
// At count whole intervals since epoch.
func NewRotation(banners []models.Banner, fallbackImage string, interval time.Duration, epoch time.Time) *Rotation {
	if interval <= 0 {
		interval = DefaultInterval
	}
	r := &Rotation{interval: interval, epoch: epoch}
	for _, b := range Active(banners) {
		r.slides = append(r.slides, Slide{
			ID:              b.Id,
			Title:           b.Title,
			Subtitle:        b.Subtitle,
			Link:            b.Link,
			MobileImageUrl:  b.MobileImageUrl,
			DesktopImageUrl: b.DesktopImageUrl,
		})
	}
	if len(r.slides) == 0 {
		r.fallback = true
		r.slides = []Slide{{MobileImageUrl: fallbackImage, DesktopImageUrl: fallbackImage, Fallback: true}}
	}
	return r
}

func (r *Rotation) Slides() []Slide {
	out := make([]Slide, len(r.slides))
	copy(out, r.slides)
	return out
}

func (r *Rotation) Len() int                { return len(r.slides) }
func (r *Rotation) Fallback() bool          { return r.fallback }
func (r *Rotation) Interval() time.Duration { return r.interval }

func (r *Rotation) Current() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Advance moves to the next slide, wrapping from the last to the first.
func (r *Rotation) Advance() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = (r.current + 1) % len(r.slides)
	return r.current
}

// At is the slide due at t.
func (r *Rotation) At(t time.Time) int {
	if len(r.slides) < 2 || t.Before(r.epoch) {
		return 0
	}
	ticks := int64(t.Sub(r.epoch) / r.interval)
	return int(ticks % int64(len(r.slides)))
}

// Run advances every interval and calls fn with the new slide until ctx is
// done. A single slide never rotates, so Run just waits.
func (r *Rotation) Run(ctx context.Context, fn func(index int, s Slide)) {
	if len(r.slides) < 2 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			i := r.Advance()
			fn(i, r.slides[i])
		case <-ctx.Done():
			return
		}
	}
}
