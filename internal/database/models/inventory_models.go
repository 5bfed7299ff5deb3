package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductArchived ProductStatus = "archived"
)

type Product struct {
	ID             uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID uint             `gorm:"not null;index" json:"organization_id"`
	Name           string           `gorm:"size:255;not null" json:"name"`
	SKU            *string          `gorm:"size:100" json:"sku,omitempty"`
	Category       *string          `gorm:"size:100" json:"category,omitempty"`
	Price          decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"price"`
	Cost           *decimal.Decimal `gorm:"type:decimal(12,2)" json:"cost,omitempty"`
	Stock          int              `gorm:"not null;default:0" json:"stock"`
	Unit           string           `gorm:"size:20;not null;default:pcs" json:"unit"`
	Status         ProductStatus    `gorm:"size:20;not null;default:active;index" json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

type MovementReason string

const (
	MovementSale       MovementReason = "sale"
	MovementAdjustment MovementReason = "adjustment"
)

// StockMovement records every change to Product.Stock. Quantity is signed.
type StockMovement struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID uint           `gorm:"not null;index" json:"organization_id"`
	ProductID      uint           `gorm:"not null;index" json:"product_id"`
	Quantity       int            `gorm:"not null" json:"quantity"`
	Reason         MovementReason `gorm:"size:20;not null" json:"reason"`
	ReferenceID    *uint          `json:"reference_id,omitempty"`
	Notes          *string        `gorm:"size:255" json:"notes,omitempty"`
	CreatedBy      uint           `gorm:"not null" json:"created_by"`
	CreatedAt      time.Time      `json:"created_at"`
}
