package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// CartItem is a point-in-time snapshot of a product taken at add time. It is
// not live-linked to the catalog; later price changes are not reflected.
type CartItem struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Cart is the client-local product selection, persisted as plain JSON under
// one fixed filename. There is no per-user namespacing: accounts sharing a
// state directory share one cart.
type Cart struct {
	path  string
	items []CartItem
}

// LoadCart reads the persisted cart from the state directory. A missing file
// yields an empty cart.
func LoadCart(dir string) (*Cart, error) {
	c := &Cart{path: filepath.Join(dir, "cart.json")}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	if err := json.Unmarshal(data, &c.items); err != nil {
		// A corrupt cart file starts over empty.
		c.items = nil
	}
	return c, nil
}

// Add appends a snapshot of the product. Adding the same product twice
// yields two entries, each counted separately.
func (c *Cart) Add(p Product) error {
	c.items = append(c.items, CartItem{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
	})
	return c.save()
}

// Remove drops ALL entries matching the id, not just one. With duplicates
// present this clears every copy at once; arguably surprising, but it is the
// long-observed behavior the views depend on.
func (c *Cart) Remove(id int64) error {
	kept := c.items[:0]
	for _, item := range c.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
	return c.save()
}

// Items returns a copy of the cart entries.
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of entries.
func (c *Cart) Len() int {
	return len(c.items)
}

// Total sums the snapshot prices of every entry.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.items {
		total += item.Price
	}
	return total
}

// Clear empties the cart and removes the persisted file.
func (c *Cart) Clear() error {
	c.items = nil
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (c *Cart) save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}
	items := c.items
	if items == nil {
		items = []CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write cart: %w", err)
	}
	return nil
}
