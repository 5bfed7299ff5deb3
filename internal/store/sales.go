package store

import (
	"context"
	"time"

	"syntra-bizops/internal/database/models"
	"syntra-bizops/internal/tenant"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type saleRepo struct {
	db *gorm.DB
}

// Create inserts the sale together with its items.
func (r *saleRepo) Create(ctx context.Context, s *models.Sale) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func itemsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func (r *saleRepo) FindByID(ctx context.Context, orgID, id uint) (*models.Sale, error) {
	var s models.Sale
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Preload("Items", itemsInOrder).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *saleRepo) List(ctx context.Context, orgID uint) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Preload("Items", itemsInOrder).
		Order("created_at DESC").Order("id DESC").
		Find(&sales).Error
	return sales, translate(err)
}

// Summary counts sales created in [from, to).
func (r *saleRepo) Summary(ctx context.Context, orgID uint, from, to time.Time) (SalesSummary, error) {
	var row struct {
		Count   int64
		Revenue decimal.NullDecimal
	}
	err := r.db.WithContext(ctx).Model(&models.Sale{}).Scopes(tenant.Scope(orgID)).
		Select("COUNT(*) AS count, SUM(total) AS revenue").
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&row).Error
	if err != nil {
		return SalesSummary{}, translate(err)
	}
	return SalesSummary{Count: row.Count, Revenue: row.Revenue.Decimal.Round(2)}, nil
}

func (r *saleRepo) Totals(ctx context.Context, orgID uint, from, to time.Time) ([]SaleTotal, error) {
	var totals []SaleTotal
	err := r.db.WithContext(ctx).Model(&models.Sale{}).Scopes(tenant.Scope(orgID)).
		Select("created_at, total").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at").
		Scan(&totals).Error
	return totals, translate(err)
}

// TopProducts ranks products by units sold. Names come from the item
// snapshots so archived products still report.
func (r *saleRepo) TopProducts(ctx context.Context, orgID uint, limit int) ([]ProductSales, error) {
	var rows []struct {
		ProductID   uint
		ProductName string
		Quantity    int64
		Revenue     decimal.NullDecimal
	}
	err := r.db.WithContext(ctx).Table("sale_items").
		Select("sale_items.product_id, MAX(sale_items.product_name) AS product_name, "+
			"SUM(sale_items.quantity) AS quantity, SUM(sale_items.subtotal) AS revenue").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.organization_id = ?", orgID).
		Group("sale_items.product_id").
		Order("quantity DESC").Order("sale_items.product_id").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	out := make([]ProductSales, 0, len(rows))
	for _, row := range rows {
		out = append(out, ProductSales{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
			Revenue:     row.Revenue.Decimal.Round(2),
		})
	}
	return out, nil
}
