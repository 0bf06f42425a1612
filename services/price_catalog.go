package services

import (
	"sort"
	"strings"

	"github.com/mridulja/flightbookingagent/models"
)

// PriceCatalog is the deterministic destination price table. Lookups are
// pure: the same destination always yields the same quote within a process.
type PriceCatalog struct {
	prices   map[string]float64
	currency string
}

// NewPriceCatalog returns the catalog seeded with the supported routes.
func NewPriceCatalog() *PriceCatalog {
	return &PriceCatalog{
		prices: map[string]float64{
			"london": 799,
			"paris":  899,
			"tokyo":  1400,
			"rome":   929,
		},
		currency: "USD",
	}
}

// Lookup returns the quote for a destination, matched case-insensitively.
// Unknown destinations fail with UnknownDestinationError carrying the input.
func (c *PriceCatalog) Lookup(destination string) (*models.PriceQuote, error) {
	normalized := NormalizeDestination(destination)
	amount, ok := c.prices[normalized]
	if !ok {
		return nil, &UnknownDestinationError{Input: destination}
	}
	return &models.PriceQuote{
		Destination: normalized,
		Amount:      amount,
		Currency:    c.currency,
	}, nil
}

// Destinations lists the supported destinations in stable order.
func (c *PriceCatalog) Destinations() []string {
	out := make([]string, 0, len(c.prices))
	for d := range c.prices {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// NormalizeDestination lower-cases and trims a destination string.
func NormalizeDestination(destination string) string {
	return strings.ToLower(strings.TrimSpace(destination))
}
