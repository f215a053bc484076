package booking

import (
	"fmt"
	"strings"
)

// GuestCategory is an admission category on the ticket form.
type GuestCategory string

const (
	Adult  GuestCategory = "Adult"
	Child  GuestCategory = "Child"
	Youth  GuestCategory = "Youth"
	Senior GuestCategory = "Senior"
)

var categoryPrices = map[GuestCategory]float64{
	Adult:  50,
	Child:  0,
	Youth:  30,
	Senior: 30,
}

// GuestCategories returns the categories in display order.
func GuestCategories() []GuestCategory {
	return []GuestCategory{Adult, Child, Youth, Senior}
}

// UnitPrice is the list price of one ticket in category c.
// Children are free when accompanied by an adult.
func (c GuestCategory) UnitPrice() float64 {
	return categoryPrices[c]
}

// Valid reports whether c is a known category.
func (c GuestCategory) Valid() bool {
	_, ok := categoryPrices[c]
	return ok
}

// ParseGuestCategory matches s against the known categories, ignoring case.
func ParseGuestCategory(s string) (GuestCategory, error) {
	for _, c := range GuestCategories() {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("booking: unknown guest category %q", s)
}

// Quantities holds the ticket count per guest category.
type Quantities map[GuestCategory]int

// Adjust adds delta to the count for c, never going below zero, and returns the
// new count.
func (q *Quantities) Adjust(c GuestCategory, delta int) (int, error) {
	if !c.Valid() {
		return 0, fmt.Errorf("booking: unknown guest category %q", c)
	}
	if *q == nil {
		*q = make(Quantities)
	}

	n := max((*q)[c]+delta, 0)
	(*q)[c] = n
	return n, nil
}

// Total returns the number of tickets across all categories.
func (q Quantities) Total() int {
	n := 0
	for _, v := range q {
		n += v
	}
	return n
}
