package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/shopspring/decimal"
)

// Engine owns one cart. It loads once in Open and saves after every
// mutation; Count and Total are derived from the items on each call.
type Engine struct {
	mu       sync.Mutex
	key      string
	items    []Item
	store    Persister
	notifier *Notifier
}

// Open restores the cart saved under key. Missing, unreadable or corrupt
// state yields an empty cart; the problem is logged, never returned.
func Open(ctx context.Context, key string, store Persister, notifier *Notifier) *Engine {
	e := &Engine{key: key, items: Clear(), store: store, notifier: notifier}

	data, err := store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNoState) {
			log.Printf("cart %s: load failed, starting empty: %v", key, err)
		}
		return e
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		log.Printf("cart %s: corrupt state, starting empty: %v", key, err)
		return e
	}
	e.items = sanitize(items)
	return e
}

// sanitize drops lines a well-behaved client could never have saved.
func sanitize(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" || it.Quantity < 1 || it.Price < 0 {
			continue
		}
		out = append(out, it)
	}
	return out
}

func (e *Engine) Key() string { return e.key }

func (e *Engine) Items() []Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return clone(e.items)
}

func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Count(e.items)
}

func (e *Engine) Total() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Total(e.items)
}

// apply keeps the current items when next cannot be saved.
func (e *Engine) apply(ctx context.Context, next []Item) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := e.store.Save(ctx, e.key, data); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	e.items = next
	return nil
}

func (e *Engine) Add(ctx context.Context, item Item) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.apply(ctx, Add(e.items, item)); err != nil {
		return err
	}
	if e.notifier != nil {
		e.notifier.Show(fmt.Sprintf("%s added to cart", item.Name))
	}
	return nil
}

func (e *Engine) SetQuantity(ctx context.Context, key string, n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.apply(ctx, SetQuantity(e.items, key, n))
}

func (e *Engine) Remove(ctx context.Context, key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.apply(ctx, Remove(e.items, key))
}

func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.apply(ctx, Clear())
}

func (e *Engine) Has(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, it := range e.items {
		if it.Key() == key {
			return true
		}
	}
	return false
}
