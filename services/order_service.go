package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/supplyline/supplyline-api/models"
	"gorm.io/gorm"
)

// MaxOrderNotesLength is the longest order notes we accept
const MaxOrderNotesLength = 500

// OrderItemInput is one requested line item on a new order
type OrderItemInput struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// CreateOrderInput carries everything a vendor supplies when placing an order
type CreateOrderInput struct {
	SupplierID           uint
	Items                []OrderItemInput
	ShippingAddress      models.ShippingAddress
	Notes                string
	ExpectedDeliveryDate *time.Time
}

// OrderFilter narrows order listings. Zero values mean "no filter".
type OrderFilter struct {
	Status         string
	CounterpartyID uint // supplier for vendors, vendor for suppliers
}

// OrderService owns the order store and the lifecycle state machine. Orders
// are only ever visible to their two parties, and status changes go through
// SetStatus so the role gate and lifecycle stamps cannot be bypassed.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates a new order service backed by db
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// Create validates the items, computes the order total and persists a new
// pending order for the vendor. The total is derived from the items here and
// never edited afterwards.
func (s *OrderService) Create(vendorID uint, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ValidationError("At least one item is required")
	}
	for _, item := range input.Items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, ValidationError("Product name is required")
		}
		if item.Quantity < 1 {
			return nil, ValidationError("Quantity must be at least 1")
		}
		if item.Price < 0 {
			return nil, ValidationError("Price must be a positive number")
		}
	}
	if utf8.RuneCountInString(input.Notes) > MaxOrderNotesLength {
		return nil, ValidationError(fmt.Sprintf("Notes cannot be more than %d characters", MaxOrderNotesLength))
	}

	var supplier models.User
	if err := s.db.Where("id = ? AND role = ? AND is_active = ?",
		input.SupplierID, models.RoleSupplier, true).
		First(&supplier).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFoundError("Supplier not found")
		}
		return nil, fmt.Errorf("failed to fetch supplier: %w", err)
	}

	var total float64
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		total += float64(item.Quantity) * item.Price
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      strings.TrimSpace(item.Name),
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	order := models.Order{
		VendorID:             vendorID,
		SupplierID:           input.SupplierID,
		Items:                items,
		TotalAmount:          total,
		Status:               models.OrderStatusPending,
		ShippingAddress:      input.ShippingAddress,
		Notes:                input.Notes,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		Version:              1,
	}

	if err := s.db.Create(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return s.reload(order.ID)
}

// List returns the caller's orders, newest first, with optional status and
// counterparty filters. Role scoping is structural: vendors only ever query
// their vendor_id, suppliers their supplier_id.
func (s *OrderService) List(callerID uint, callerRole string, filter OrderFilter) ([]models.Order, error) {
	query := s.db.Preload("Vendor").Preload("Supplier").Preload("Items").
		Order("created_at DESC")

	switch callerRole {
	case models.RoleVendor:
		query = query.Where("vendor_id = ?", callerID)
		if filter.CounterpartyID != 0 {
			query = query.Where("supplier_id = ?", filter.CounterpartyID)
		}
	case models.RoleSupplier:
		query = query.Where("supplier_id = ?", callerID)
		if filter.CounterpartyID != 0 {
			query = query.Where("vendor_id = ?", filter.CounterpartyID)
		}
	default:
		return nil, ForbiddenError("Unknown role")
	}

	if filter.Status != "" && filter.Status != "all" {
		query = query.Where("status = ?", filter.Status)
	}

	orders := make([]models.Order, 0)
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, nil
}

// Get returns one of the caller's orders. NotFound covers both a missing
// order and an order the caller is not a party to.
func (s *OrderService) Get(orderID, callerID uint, callerRole string) (*models.Order, error) {
	order, err := s.findScoped(orderID, callerID, callerRole)
	if err != nil {
		return nil, err
	}
	return s.reload(order.ID)
}

// SetStatus applies a role-gated status transition:
// vendors may only cancel, suppliers may do anything but cancel. Delivered
// and cancelled orders accept no further transitions. The write is
// version-checked so a concurrent transition surfaces as a conflict instead
// of silently clobbering the other party's update.
func (s *OrderService) SetStatus(orderID uint, newStatus string, callerID uint, callerRole string) (*models.Order, error) {
	if !models.ValidOrderStatus(newStatus) {
		return nil, ValidationError("Invalid status")
	}

	order, err := s.findScoped(orderID, callerID, callerRole)
	if err != nil {
		return nil, err
	}

	switch callerRole {
	case models.RoleVendor:
		if newStatus != models.OrderStatusCancelled {
			return nil, ForbiddenError("Vendors can only cancel orders")
		}
	case models.RoleSupplier:
		if newStatus == models.OrderStatusCancelled {
			return nil, ForbiddenError("Suppliers cannot cancel orders")
		}
	}

	if models.TerminalOrderStatus(order.Status) {
		return nil, ValidationError(fmt.Sprintf("Order is %s and can no longer change status", order.Status))
	}

	updates := map[string]interface{}{
		"status":  newStatus,
		"version": order.Version + 1,
	}
	if newStatus == models.OrderStatusDelivered {
		updates["actual_delivery_date"] = time.Now()
	}

	result := s.db.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ConflictError("Order was changed by someone else, please retry")
	}

	return s.reload(order.ID)
}

// findScoped resolves an order restricted to the caller's side of it
func (s *OrderService) findScoped(orderID, callerID uint, callerRole string) (*models.Order, error) {
	query := s.db.Where("id = ?", orderID)
	switch callerRole {
	case models.RoleVendor:
		query = query.Where("vendor_id = ?", callerID)
	case models.RoleSupplier:
		query = query.Where("supplier_id = ?", callerID)
	default:
		return nil, ForbiddenError("Unknown role")
	}

	var order models.Order
	if err := query.First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFoundError("Order not found")
		}
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	return &order, nil
}

// reload fetches an order with both parties and items populated
func (s *OrderService) reload(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Vendor").Preload("Supplier").Preload("Items").
		First(&order, orderID).Error; err != nil {
		return nil, fmt.Errorf("failed to load order details: %w", err)
	}
	return &order, nil
}
