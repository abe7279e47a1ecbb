package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/andrifirman/camilanku-golang/internal/models"
	"github.com/andrifirman/camilanku-golang/internal/orders"
	"github.com/gin-gonic/gin"
)

//
// --- Order Handlers ---
//

// CustomerInput is the contact snapshot in the checkout body.
type CustomerInput struct {
	Email      string `json:"email" binding:"required,email"`
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
}

// OrderItemInput is one cart line in the checkout body.
type OrderItemInput struct {
	ProductID *int64             `json:"productId"`
	Name      string             `json:"name" binding:"required"`
	UnitPrice float64            `json:"unitPrice"`
	Quantity  int                `json:"quantity"`
	Options   models.ItemOptions `json:"selectedOptions"`
}

// CreateOrderInput is the body for POST /v1/orders. Total is accepted
// but ignored: the server recomputes every amount and responds with
// its own numbers, so a tampered client total buys nothing.
type CreateOrderInput struct {
	Customer       CustomerInput    `json:"customer" binding:"required"`
	Items          []OrderItemInput `json:"items"`
	ShippingMethod string           `json:"shippingMethod"`
	PaymentMethod  string           `json:"paymentMethod" binding:"omitempty,oneof=qris bank cod"`
	Discount       float64          `json:"discount"`
	OrderNumber    string           `json:"orderNumber"`
	Total          float64          `json:"total"`
}

// CreateOrder is the handler for POST /v1/orders (optional bearer).
func (h *Handlers) CreateOrder(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	// 2. --- Build the service input ---
	in := orders.CreateOrderInput{
		Customer: orders.CustomerInput{
			Email:      input.Customer.Email,
			Name:       input.Customer.Name,
			Phone:      input.Customer.Phone,
			Address:    input.Customer.Address,
			City:       input.Customer.City,
			Province:   input.Customer.Province,
			PostalCode: input.Customer.PostalCode,
		},
		ShippingMethod: input.ShippingMethod,
		PaymentMethod:  input.PaymentMethod,
		Discount:       input.Discount,
		OrderNumber:    input.OrderNumber,
	}
	for _, it := range input.Items {
		in.Items = append(in.Items, orders.ItemInput{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Options:   it.Options,
		})
	}
	if requester := identityFromContext(c); requester.UserID != 0 {
		in.UserID = &requester.UserID
	}

	// 3. --- Create the order ---
	result, err := h.Orders.CreateOrder(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrValidation), errors.Is(err, orders.ErrShippingUnavailable):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to create order"})
		}
		return
	}

	// 4. --- Send Success Response ---
	c.JSON(http.StatusCreated, gin.H{
		"ok":             true,
		"orderId":        result.OrderID,
		"orderNumber":    result.OrderNumber,
		"subtotal":       result.Subtotal,
		"discount":       result.Discount,
		"deliveryFee":    result.DeliveryFee,
		"total":          result.Total,
		"shippingMethod": input.ShippingMethod,
	})
}

// GetMyOrders is the handler for GET /v1/orders/my.
// Supports ?page, ?pageSize and ?status.
func (h *Handlers) GetMyOrders(c *gin.Context) {
	requester := identityFromContext(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	status := c.Query("status")

	list, err := h.Orders.ListCustomerOrders(c.Request.Context(), requester, status, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"orders":   list,
		"page":     page,
		"pageSize": pageSize,
	})
}

// GetOrderDetails is the handler for GET /v1/orders/:id (owner or admin).
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid order id"})
		return
	}

	order, err := h.Orders.GetOrder(c.Request.Context(), orderID, identityFromContext(c))
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "order": order})
}

// GetAllOrders is the handler for GET /v1/admin/orders.
func (h *Handlers) GetAllOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	status := c.Query("status")

	list, err := h.Orders.ListAllOrders(c.Request.Context(), status, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"orders":   list,
		"page":     page,
		"pageSize": pageSize,
	})
}

// UpdateOrderStatusInput is the body for PUT /v1/admin/orders/:id/status.
type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus is the handler for PUT /v1/admin/orders/:id/status.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid order id"})
		return
	}

	var input UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	requester := identityFromContext(c)
	order, err := h.Orders.SetStatus(c.Request.Context(), orderID, input.Status, requester.Role)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "order": order})
}

// UpdateOrderTrackingInput is the body for PUT /v1/admin/orders/:id/tracking.
// Nil fields are left untouched (merge, not replace).
type UpdateOrderTrackingInput struct {
	Provider       *string                `json:"provider"`
	TrackingNumber *string                `json:"tracking_number"`
	History        []models.TrackingEvent `json:"history"`
}

// UpdateOrderTracking is the handler for PUT /v1/admin/orders/:id/tracking.
func (h *Handlers) UpdateOrderTracking(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid order id"})
		return
	}

	var input UpdateOrderTrackingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	requester := identityFromContext(c)
	patch := orders.TrackingPatch{
		Provider:       input.Provider,
		TrackingNumber: input.TrackingNumber,
		History:        input.History,
	}
	meta, err := h.Orders.SetTracking(c.Request.Context(), orderID, patch, requester.Role)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "metadata": meta})
}

// RefreshOrderTracking is the handler for POST /v1/orders/:id/tracking/refresh
// (owner or admin). No body; replaces the tracking sub-document with
// the carrier's current answer.
func (h *Handlers) RefreshOrderTracking(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid order id"})
		return
	}

	meta, err := h.Orders.RefreshTracking(c.Request.Context(), orderID, identityFromContext(c))
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "metadata": meta})
}

// respondOrderError maps the pipeline's sentinel errors onto the HTTP
// taxonomy. Unrecognized errors (persistence, carrier) are 500s.
func (h *Handlers) respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, orders.ErrValidation),
		errors.Is(err, orders.ErrInvalidStatus),
		errors.Is(err, orders.ErrNoTrackingNumber):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, orders.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, orders.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Internal server error"})
	}
}
