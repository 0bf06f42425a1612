package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetDestinations lists supported destinations with their prices
func (h *Handler) GetDestinations(c *gin.Context) {
	destinations := h.catalog.Destinations()

	out := make([]gin.H, 0, len(destinations))
	for _, dest := range destinations {
		quote, err := h.catalog.Lookup(dest)
		if err != nil {
			continue
		}
		out = append(out, gin.H{
			"destination": quote.Destination,
			"amount":      quote.Amount,
			"currency":    quote.Currency,
			"display":     quote.Display(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"destinations": out})
}
