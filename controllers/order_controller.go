package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/supplyline/supplyline-api/config"
	"github.com/supplyline/supplyline-api/models"
	"github.com/supplyline/supplyline-api/services"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	SupplierID           uint                      `json:"supplier_id" binding:"required"`
	Items                []services.OrderItemInput `json:"items" binding:"required"`
	ShippingAddress      models.ShippingAddress    `json:"shipping_address"`
	Notes                string                    `json:"notes"`
	ExpectedDeliveryDate *time.Time                `json:"expected_delivery_date"`
}

// UpdateOrderStatusRequest represents the request body for a status transition
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder handles POST /api/v1/orders - creates a new order (vendors only)
func CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	// Only vendors place orders
	if user.Role != models.RoleVendor {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only vendors can create orders")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	svc := services.NewOrderService(config.GetDB())
	order, err := svc.Create(user.ID, services.CreateOrderInput{
		SupplierID:           req.SupplierID,
		Items:                req.Items,
		ShippingAddress:      req.ShippingAddress,
		Notes:                req.Notes,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order created successfully",
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - lists the caller's orders with
// optional ?status= and counterparty filters (?supplier_id= for vendors,
// ?vendor_id= for suppliers)
func ListOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	filter := services.OrderFilter{Status: c.Query("status")}

	counterpartyParam := c.Query("supplier_id")
	if user.Role == models.RoleSupplier {
		counterpartyParam = c.Query("vendor_id")
	}
	if counterpartyParam != "" {
		counterpartyID, err := strconv.ParseUint(counterpartyParam, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid counterparty filter")
			return
		}
		filter.CounterpartyID = uint(counterpartyID)
	}

	svc := services.NewOrderService(config.GetDB())
	orders, err := svc.List(user.ID, user.Role, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id - returns one of the caller's orders
func GetOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewOrderService(config.GetDB())
	order, err := svc.Get(orderID, user.ID, user.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderStatus handles PUT /api/v1/orders/:id/status - applies a
// role-gated status transition (suppliers progress fulfillment, vendors cancel)
func UpdateOrderStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Status is required")
		return
	}

	svc := services.NewOrderService(config.GetDB())
	order, err := svc.SetStatus(orderID, req.Status, user.ID, user.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order status updated successfully",
		"data":    order,
	})
}
