package order

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownFormat is returned when a format is not present in the catalog.
// It indicates a configuration or wiring error rather than bad user input:
// every format offered to the user must come from the catalog itself.
var ErrUnknownFormat = errors.New("unknown sticker format")

// Catalog is an immutable mapping of sticker format to unit price in rubles.
// It is constructed once at startup and never mutated.
type Catalog struct {
	prices  map[string]int
	formats []string
}

// NewCatalog builds a catalog from a format -> unit price table.
func NewCatalog(prices map[string]int) (*Catalog, error) {
	if len(prices) == 0 {
		return nil, errors.New("catalog: empty price table")
	}
	own := make(map[string]int, len(prices))
	formats := make([]string, 0, len(prices))
	for format, price := range prices {
		if format == "" {
			return nil, errors.New("catalog: empty format name")
		}
		if price <= 0 {
			return nil, fmt.Errorf("catalog: price for %q must be > 0, got %d", format, price)
		}
		own[format] = price
		formats = append(formats, format)
	}
	// Cheapest first, name as tie-breaker, so the selection keyboard has a
	// stable layout.
	sort.Slice(formats, func(i, j int) bool {
		if own[formats[i]] != own[formats[j]] {
			return own[formats[i]] < own[formats[j]]
		}
		return formats[i] < formats[j]
	})
	return &Catalog{prices: own, formats: formats}, nil
}

// PriceOf returns the unit price for the given format.
func (c *Catalog) PriceOf(format string) (int, error) {
	price, ok := c.prices[format]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return price, nil
}

// Has reports whether the format exists in the catalog.
func (c *Catalog) Has(format string) bool {
	_, ok := c.prices[format]
	return ok
}

// Formats returns all formats ordered by price ascending.
func (c *Catalog) Formats() []string {
	out := make([]string, len(c.formats))
	copy(out, c.formats)
	return out
}

// Len returns the number of formats in the catalog.
func (c *Catalog) Len() int {
	return len(c.prices)
}
