package store

import (
	"context"
	"time"

	"syntra-bizops/internal/database/models"
	"syntra-bizops/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepo struct {
	db *gorm.DB
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *productRepo) FindByID(ctx context.Context, orgID, id uint) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// LockForSale takes FOR UPDATE locks in ascending id order so concurrent
// sales over overlapping products cannot deadlock. Missing ids are simply
// absent from the result.
func (r *productRepo) LockForSale(ctx context.Context, orgID uint, ids []uint) (map[uint]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, translate(err)
	}

	out := make(map[uint]models.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

// Update writes the descriptive fields. Stock and status have their own
// guarded paths.
func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	return applied(r.db.WithContext(ctx).Model(&models.Product{}).Scopes(tenant.Scope(p.OrganizationID)).
		Where("id = ? AND status = ?", p.ID, models.ProductActive).
		Updates(map[string]any{
			"name":       p.Name,
			"sku":        p.SKU,
			"category":   p.Category,
			"price":      p.Price,
			"cost":       p.Cost,
			"unit":       p.Unit,
			"updated_at": p.UpdatedAt,
		}))
}

func (r *productRepo) AdjustStock(ctx context.Context, orgID, id uint, delta int) error {
	return applied(r.db.WithContext(ctx).Model(&models.Product{}).Scopes(tenant.Scope(orgID)).
		Where("id = ? AND status = ? AND stock + ? >= 0", id, models.ProductActive, delta).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": time.Now().UTC(),
		}))
}

func (r *productRepo) Archive(ctx context.Context, orgID, id uint) error {
	return applied(r.db.WithContext(ctx).Model(&models.Product{}).Scopes(tenant.Scope(orgID)).
		Where("id = ? AND status = ?", id, models.ProductActive).
		Updates(map[string]any{
			"status":     models.ProductArchived,
			"updated_at": time.Now().UTC(),
		}))
}

func (r *productRepo) ListActive(ctx context.Context, orgID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Where("status = ?", models.ProductActive).
		Order("name").Order("id").
		Find(&products).Error
	return products, translate(err)
}

func (r *productRepo) ListLowStock(ctx context.Context, orgID uint, threshold int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Where("status = ? AND stock <= ?", models.ProductActive, threshold).
		Order("stock").Order("id").
		Find(&products).Error
	return products, translate(err)
}

func (r *productRepo) RecordMovement(ctx context.Context, m *models.StockMovement) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *productRepo) ListMovements(ctx context.Context, orgID, productID uint) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Where("product_id = ?", productID).
		Order("id DESC").
		Find(&movements).Error
	return movements, translate(err)
}
