package handlers

import (
	"net/http"

	"github.com/andrifirman/camilanku-golang/internal/shipping"
	"github.com/gin-gonic/gin"
)

// ShippingQuoteInput is the body for POST /v1/shipping/quote.
// SellersCount defaults to 1; the fee is charged once per distinct
// seller in the checkout.
type ShippingQuoteInput struct {
	City           string `json:"city" binding:"required"`
	PostalCode     string `json:"postalCode"`
	ShippingMethod string `json:"shippingMethod" binding:"required"`
	SellersCount   int    `json:"sellersCount"`
}

// ShippingQuote is the handler for POST /v1/shipping/quote (public).
func (h *Handlers) ShippingQuote(c *gin.Context) {
	var input ShippingQuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	stores := input.SellersCount
	if stores < 1 {
		stores = 1
	}

	feePerStore, distanceKm, available := shipping.Quote(input.City, input.PostalCode, input.ShippingMethod)
	if !available {
		c.JSON(http.StatusBadRequest, gin.H{
			"ok":         false,
			"error":      "Shipping method not available for this destination",
			"method":     input.ShippingMethod,
			"distanceKm": distanceKm,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"method":      input.ShippingMethod,
		"distanceKm":  distanceKm,
		"feePerStore": feePerStore,
		"stores":      stores,
		"totalFee":    feePerStore * stores,
		"currency":    "IDR",
	})
}
