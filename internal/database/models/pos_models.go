package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID uint            `gorm:"not null;index" json:"organization_id"`
	SoldBy         uint            `gorm:"not null;index" json:"sold_by"`
	Reference      string          `gorm:"size:40;uniqueIndex;not null" json:"reference"`
	CustomerName   *string         `gorm:"size:255" json:"customer_name,omitempty"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Discount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	Tax            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	PaymentMethod  string          `gorm:"size:50;not null;default:cash" json:"payment_method"`
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
}

// SaleItem snapshots the product name and price at the time of sale.
type SaleItem struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleID      uint            `gorm:"not null;index" json:"sale_id"`
	ProductID   uint            `gorm:"not null;index" json:"product_id"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}
