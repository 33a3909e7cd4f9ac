package models

import (
	"time"
)

// Order statuses. Suppliers move orders along the fulfillment path, vendors
// may only cancel. Delivered and cancelled are terminal.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// ValidOrderStatus reports whether status is one of the known order statuses
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// TerminalOrderStatus reports whether an order in this status accepts no
// further transitions
func TerminalOrderStatus(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}

// OrderItem is a single line item on an order
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"not null;index" json:"order_id"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Name      string  `gorm:"not null" json:"name"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"` // unit price at time of ordering
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// ShippingAddress is where a supplier should deliver an order
type ShippingAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// Order represents a purchase order placed by a vendor against a supplier.
// TotalAmount is computed from the items at creation time and never edited
// independently. Status only changes through the order service, which bumps
// Version on every write so concurrent transitions cannot silently clobber
// each other.
type Order struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	VendorID             uint            `gorm:"not null;index" json:"vendor_id"`
	Vendor               User            `gorm:"foreignKey:VendorID" json:"vendor"`
	SupplierID           uint            `gorm:"not null;index" json:"supplier_id"`
	Supplier             User            `gorm:"foreignKey:SupplierID" json:"supplier"`
	Items                []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount          float64         `gorm:"not null" json:"total_amount"`
	Status               string          `gorm:"not null;default:'pending';index" json:"status"`
	ShippingAddress      ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	Notes                string          `json:"notes"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date"`
	ActualDeliveryDate   *time.Time      `json:"actual_delivery_date"` // stamped on transition into delivered
	Version              int             `gorm:"not null;default:1" json:"-"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
