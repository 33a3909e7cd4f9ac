package models

import (
	"time"

	"gorm.io/gorm"
)

// Product represents an item in a supplier's catalog
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	SupplierID  uint           `gorm:"not null;index" json:"supplier_id"`
	Supplier    User           `gorm:"foreignKey:SupplierID" json:"-"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"index" json:"category"`
	Unit        string         `json:"unit"` // e.g. "kg", "litre", "dozen"
	Price       float64        `gorm:"not null" json:"price"` // price per unit
	InStock     bool           `gorm:"not null;default:true" json:"in_stock"`
	ImageS3Key  *string        `json:"image_s3_key"`                 // nullable, S3 key for uploaded image
	ImageURL    *string        `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for image
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}
