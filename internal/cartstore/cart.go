// Package cartstore holds the session cart and favorites collections.
//
// Both stores start uninitialized, hydrate once from a Storage, and write the
// whole collection back after every mutation. Callers must not read an
// uninitialized store as "confirmed empty".
package cartstore

import (
	"sync"

	"github.com/shopspring/decimal"

	"tiflisi/internal/domain"
)

// CartKey is the storage key of the cart collection.
const CartKey = "tiflisi_cart"

// LineID builds the composite identity of a cart line. Empty size or color
// mean the product has no such variant axis.
func LineID(productID, size, color string) string {
	if size == "" {
		size = "no-size"
	}
	if color == "" {
		color = "no-color"
	}
	return productID + "-" + size + "-" + color
}

type CartStore struct {
	mu          sync.Mutex
	storage     Storage
	lines       []domain.CartLine
	initialized bool
}

// NewCart returns an uninitialized cart. Call Hydrate before reading it.
func NewCart(s Storage) *CartStore {
	if s == nil {
		s = NopStorage{}
	}
	return &CartStore{storage: s}
}

// OpenCart returns a cart hydrated from s.
func OpenCart(s Storage) *CartStore {
	c := NewCart(s)
	c.Hydrate()
	return c
}

// Hydrate loads the persisted collection once. Later calls are no-ops.
func (c *CartStore) Hydrate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hydrateLocked()
}

func (c *CartStore) hydrateLocked() {
	if c.initialized {
		return
	}
	c.lines = sanitizeLines(hydrate[domain.CartLine](c.storage, CartKey))
	c.initialized = true
}

// sanitizeLines drops entries that break the line invariants (older stored
// shapes, hand-edited values) and merges duplicate keys.
func sanitizeLines(in []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(in))
	index := map[string]int{}
	for _, l := range in {
		if l.ProductID == "" || l.Quantity < 1 {
			continue
		}
		l.ID = LineID(l.ProductID, l.Size(), l.Color())
		if i, ok := index[l.ID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.ID] = len(out)
		out = append(out, l)
	}
	return out
}

func (c *CartStore) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

func (c *CartStore) find(id string) int {
	for i := range c.lines {
		if c.lines[i].ID == id {
			return i
		}
	}
	return -1
}

// Add merges qty into the line for (product, size, color) or creates it from
// a snapshot of the product. qty is trusted; stock is not consulted.
func (c *CartStore) Add(p domain.Product, qty int, size, color string) domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hydrateLocked()

	id := LineID(p.ID, size, color)
	if i := c.find(id); i >= 0 {
		c.lines[i].Quantity += qty
		line := c.lines[i]
		c.persistLocked()
		return line
	}
	line := domain.CartLine{
		ID:              id,
		ProductID:       p.ID,
		Name:            p.Name,
		Price:           p.Price,
		ImageURL:        p.PrimaryImage(),
		Slug:            p.Slug,
		Quantity:        qty,
		SelectedSize:    domain.OptionalString(size),
		SelectedColor:   domain.OptionalString(color),
		DataAIHint:      p.DataAIHint,
		AvailableSizes:  append([]string{}, p.Sizes...),
		AvailableColors: append([]string{}, p.Colors...),
	}
	c.lines = append(c.lines, line)
	c.persistLocked()
	return line
}

// Remove deletes the line and returns its name for the "removed" notice.
// Removing an absent line is not an error.
func (c *CartStore) Remove(id string) (name string, removed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hydrateLocked()
	return c.removeLocked(id)
}

func (c *CartStore) removeLocked(id string) (string, bool) {
	i := c.find(id)
	if i < 0 {
		return "", false
	}
	name := c.lines[i].Name
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	c.persistLocked()
	return name, true
}

// UpdateQuantity sets the absolute quantity; n <= 0 removes the line.
func (c *CartStore) UpdateQuantity(id string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hydrateLocked()
	if n <= 0 {
		c.removeLocked(id)
		return
	}
	i := c.find(id)
	if i < 0 || c.lines[i].Quantity == n {
		return
	}
	c.lines[i].Quantity = n
	c.persistLocked()
}

func (c *CartStore) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hydrateLocked()
	c.lines = nil
	c.persistLocked()
}

func (c *CartStore) persistLocked() { persist(c.storage, CartKey, c.lines) }

// Lines returns a copy of the lines in insertion order.
func (c *CartStore) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.CartLine{}, c.lines...)
}

func (c *CartStore) Line(id string) (domain.CartLine, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.find(id); i >= 0 {
		return c.lines[i], true
	}
	return domain.CartLine{}, false
}

func (c *CartStore) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// SubtotalDecimal is Σ price × quantity, recomputed on every call.
func (c *CartStore) SubtotalDecimal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

func (c *CartStore) Subtotal() float64 { return c.SubtotalDecimal().InexactFloat64() }

// TotalItemCount is Σ quantity.
func (c *CartStore) TotalItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}
