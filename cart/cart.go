// Package cart holds the shopper's in-progress order. The transition
// functions are pure: they never modify their input slice.
package cart

import "github.com/shopspring/decimal"

func clone(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Add bumps the quantity of the line with item's key, or appends item with
// quantity 1.
func Add(items []Item, item Item) []Item {
	out := clone(items)
	key := item.Key()
	for i := range out {
		if out[i].Key() == key {
			out[i].Quantity++
			return out
		}
	}
	item.Quantity = 1
	return append(out, item)
}

// SetQuantity sets the quantity to exactly n. n below 1 removes the line.
func SetQuantity(items []Item, key string, n int) []Item {
	if n < 1 {
		return Remove(items, key)
	}
	out := clone(items)
	for i := range out {
		if out[i].Key() == key {
			out[i].Quantity = n
		}
	}
	return out
}

// Remove drops the line with key; an unknown key is a no-op.
func Remove(items []Item, key string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Key() != key {
			out = append(out, it)
		}
	}
	return out
}

func Clear() []Item {
	return []Item{}
}

func Count(items []Item) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
