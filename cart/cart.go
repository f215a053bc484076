// Package cart holds the visitor's ticket selections in memory.
package cart

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrItemNotFound is returned when no line has the requested id.
	ErrItemNotFound = errors.New("cart: item not found")

	// ErrIndexOutOfRange is returned by Remove for an index outside the cart.
	ErrIndexOutOfRange = errors.New("cart: index out of range")

	// ErrInvalidItem is returned by Add for items that cannot be sold.
	ErrInvalidItem = errors.New("cart: invalid item")
)

// Item is one cart line: a ticket selection for a single event and date.
type Item struct {
	ID         string
	Name       string
	Date       string // YYYY-MM-DD
	Hours      string
	TicketType string
	Guests     map[string]int // per guest category
	Quantity   int
	Total      float64
	AddedAt    time.Time
}

// Cart is an ordered list of items. It is safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	items []Item
	now   func() time.Time
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{now: time.Now}
}

// Add appends item, assigns it a fresh line id and returns that id.
func (c *Cart) Add(item Item) (string, error) {
	switch {
	case item.Name == "":
		return "", fmt.Errorf("%w: missing name", ErrInvalidItem)
	case item.Quantity <= 0:
		return "", fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidItem, item.Quantity)
	case item.Total < 0:
		return "", fmt.Errorf("%w: negative total", ErrInvalidItem)
	}

	item.ID = uuid.NewString()
	item.Guests = maps.Clone(item.Guests)

	c.mu.Lock()
	defer c.mu.Unlock()

	item.AddedAt = c.now()
	c.items = append(c.items, item)
	return item.ID, nil
}

// Remove deletes the line at index, shifting later lines down.
func (c *Cart) Remove(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	c.items = slices.Delete(c.items, index, index+1)
	return nil
}

// RemoveByID deletes the line with the given id.
func (c *Cart) RemoveByID(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item.ID == id {
			c.items = slices.Delete(c.items, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Item, len(c.items))
	for i, item := range c.items {
		item.Guests = maps.Clone(item.Guests)
		out[i] = item
	}
	return out
}

// Count returns the number of lines, as shown on the cart badge.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Tickets returns the number of tickets across all lines.
func (c *Cart) Tickets() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

// Total returns the sum of all line totals.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var sum float64
	for _, item := range c.items {
		sum += item.Total
	}
	return sum
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}
