package services_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mridulja/flightbookingagent/services"
)

func TestLookupIsDeterministic(t *testing.T) {
	catalog := services.NewPriceCatalog()

	for _, dest := range catalog.Destinations() {
		first, err := catalog.Lookup(dest)
		require.NoError(t, err)

		for i := 0; i < 10; i++ {
			again, err := catalog.Lookup(dest)
			require.NoError(t, err)
			assert.Equal(t, first.Amount, again.Amount)
			assert.Equal(t, first.Currency, again.Currency)
		}
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	catalog := services.NewPriceCatalog()

	for _, input := range []string{"london", "London", "LONDON", "  LoNdOn  "} {
		quote, err := catalog.Lookup(input)
		require.NoError(t, err)
		assert.Equal(t, "london", quote.Destination)
		assert.Equal(t, float64(799), quote.Amount)
		assert.Equal(t, "USD", quote.Currency)
	}
}

func TestLookupUnknownDestination(t *testing.T) {
	catalog := services.NewPriceCatalog()

	quote, err := catalog.Lookup("Atlantis")
	assert.Nil(t, quote)

	var unknownErr *services.UnknownDestinationError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, "Atlantis", unknownErr.Input)
}

func TestQuoteDisplay(t *testing.T) {
	catalog := services.NewPriceCatalog()

	quote, err := catalog.Lookup("london")
	require.NoError(t, err)
	assert.Equal(t, "$799", quote.Display())
}

func TestDestinationsStableOrder(t *testing.T) {
	catalog := services.NewPriceCatalog()
	assert.Equal(t, []string{"london", "paris", "rome", "tokyo"}, catalog.Destinations())
}
