package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"syntra-bizops/internal/apperr"
	"syntra-bizops/internal/database/models"
	"syntra-bizops/internal/events"
	"syntra-bizops/internal/store"
	"syntra-bizops/internal/tenant"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const defaultUnit = "pcs"

type InventoryHandler struct {
	store             store.Store
	events            events.Publisher
	log               logrus.FieldLogger
	lowStockThreshold int
	now               func() time.Time
}

func NewInventoryHandler(st store.Store, pub events.Publisher, log logrus.FieldLogger, lowStockThreshold int) *InventoryHandler {
	return &InventoryHandler{
		store:             st,
		events:            pub,
		log:               log,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

type ProductInput struct {
	Name     string           `json:"name"`
	SKU      *string          `json:"sku,omitempty"`
	Category *string          `json:"category,omitempty"`
	Price    decimal.Decimal  `json:"price"`
	Cost     *decimal.Decimal `json:"cost,omitempty"`
	Stock    int              `json:"stock"`
	Unit     string           `json:"unit,omitempty"`
}

// ProductUpdate is a partial update; nil fields are left unchanged.
type ProductUpdate struct {
	Name     *string          `json:"name,omitempty"`
	SKU      *string          `json:"sku,omitempty"`
	Category *string          `json:"category,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Cost     *decimal.Decimal `json:"cost,omitempty"`
	Unit     *string          `json:"unit,omitempty"`
}

func validMoney(name string, v decimal.Decimal) error {
	if v.IsNegative() {
		return apperr.InvalidInput("%s cannot be negative", name)
	}
	return nil
}

func (h *InventoryHandler) AddProduct(ctx context.Context, caller tenant.Identity, in ProductInput) (*models.Product, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.InvalidInput("product name is required")
	}
	if err := validMoney("price", in.Price); err != nil {
		return nil, err
	}
	if in.Cost != nil {
		if err := validMoney("cost", *in.Cost); err != nil {
			return nil, err
		}
		c := in.Cost.Round(2)
		in.Cost = &c
	}
	if in.Stock < 0 {
		return nil, apperr.InvalidInput("stock cannot be negative")
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = defaultUnit
	}

	now := h.now().UTC()
	p := &models.Product{
		OrganizationID: caller.OrganizationID,
		Name:           name,
		SKU:            in.SKU,
		Category:       in.Category,
		Price:          in.Price.Round(2),
		Cost:           in.Cost,
		Stock:          in.Stock,
		Unit:           unit,
		Status:         models.ProductActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := h.store.Transact(ctx, func(r store.Repositories) error {
		if err := r.Products().Create(ctx, p); err != nil {
			return apperr.Internal(err, "create product")
		}
		if p.Stock == 0 {
			return nil
		}
		note := "opening stock"
		return recordMovement(ctx, r, &models.StockMovement{
			OrganizationID: p.OrganizationID,
			ProductID:      p.ID,
			Quantity:       p.Stock,
			Reason:         models.MovementAdjustment,
			Notes:          &note,
			CreatedBy:      caller.UserID,
			CreatedAt:      now,
		})
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func recordMovement(ctx context.Context, r store.Repositories, m *models.StockMovement) error {
	if err := r.Products().RecordMovement(ctx, m); err != nil {
		return apperr.Internal(err, "record stock movement for product %d", m.ProductID)
	}
	return nil
}

func (h *InventoryHandler) GetProduct(ctx context.Context, caller tenant.Identity, id uint) (*models.Product, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	p, err := h.store.Products().FindByID(ctx, caller.OrganizationID, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.WithCode(apperr.KindNotFound, apperr.CodeProductNotFound, "product %d not found", id)
	}
	if err != nil {
		return nil, apperr.Internal(err, "load product %d", id)
	}
	return p, nil
}

// UpdateProduct changes descriptive fields only; stock moves through
// AdjustStock and sales, status through ArchiveProduct.
func (h *InventoryHandler) UpdateProduct(ctx context.Context, caller tenant.Identity, id uint, upd ProductUpdate) (*models.Product, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	p, err := h.GetProduct(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if p.Status == models.ProductArchived {
		return nil, apperr.Conflict(apperr.CodeProductArchived, "product %d is archived", id)
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, apperr.InvalidInput("product name cannot be empty")
		}
		p.Name = name
	}
	if upd.SKU != nil {
		p.SKU = upd.SKU
	}
	if upd.Category != nil {
		p.Category = upd.Category
	}
	if upd.Price != nil {
		if err := validMoney("price", *upd.Price); err != nil {
			return nil, err
		}
		p.Price = upd.Price.Round(2)
	}
	if upd.Cost != nil {
		if err := validMoney("cost", *upd.Cost); err != nil {
			return nil, err
		}
		c := upd.Cost.Round(2)
		p.Cost = &c
	}
	if upd.Unit != nil && strings.TrimSpace(*upd.Unit) != "" {
		p.Unit = strings.TrimSpace(*upd.Unit)
	}
	p.UpdatedAt = h.now().UTC()

	if err := h.store.Products().Update(ctx, p); err != nil {
		if errors.Is(err, store.ErrNotApplied) {
			return nil, apperr.Conflict(apperr.CodeProductArchived, "product %d is archived", id)
		}
		return nil, apperr.Internal(err, "update product %d", id)
	}
	return p, nil
}

// ArchiveProduct withdraws a product from sale. Sale history keeps
// referring to it and there is no way back to active.
func (h *InventoryHandler) ArchiveProduct(ctx context.Context, caller tenant.Identity, id uint) error {
	if err := caller.RequireOwner(); err != nil {
		return err
	}
	p, err := h.GetProduct(ctx, caller, id)
	if err != nil {
		return err
	}
	if p.Status == models.ProductArchived {
		return apperr.Conflict(apperr.CodeProductArchived, "product %d is already archived", id)
	}
	if err := h.store.Products().Archive(ctx, caller.OrganizationID, id); err != nil {
		if errors.Is(err, store.ErrNotApplied) {
			return apperr.Conflict(apperr.CodeProductArchived, "product %d is already archived", id)
		}
		return apperr.Internal(err, "archive product %d", id)
	}
	return nil
}

// AdjustStock applies a signed restock or write-off.
func (h *InventoryHandler) AdjustStock(ctx context.Context, caller tenant.Identity, id uint, delta int, note string) (*models.Product, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	if delta == 0 {
		return nil, apperr.InvalidInput("stock adjustment cannot be zero")
	}
	orgID := caller.OrganizationID

	var p *models.Product
	err := h.store.Transact(ctx, func(r store.Repositories) error {
		current, err := r.Products().FindByID(ctx, orgID, id)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.WithCode(apperr.KindNotFound, apperr.CodeProductNotFound, "product %d not found", id)
		}
		if err != nil {
			return apperr.Internal(err, "load product %d", id)
		}
		if current.Status == models.ProductArchived {
			return apperr.Conflict(apperr.CodeProductArchived, "product %d is archived", id)
		}

		if err := r.Products().AdjustStock(ctx, orgID, id, delta); err != nil {
			if errors.Is(err, store.ErrNotApplied) {
				return apperr.InsufficientStock("product %d has %d in stock, cannot remove %d", id, current.Stock, -delta)
			}
			return apperr.Internal(err, "adjust stock of product %d", id)
		}

		m := &models.StockMovement{
			OrganizationID: orgID,
			ProductID:      id,
			Quantity:       delta,
			Reason:         models.MovementAdjustment,
			CreatedBy:      caller.UserID,
			CreatedAt:      h.now().UTC(),
		}
		if note = strings.TrimSpace(note); note != "" {
			m.Notes = &note
		}
		if err := recordMovement(ctx, r, m); err != nil {
			return err
		}

		p, err = r.Products().FindByID(ctx, orgID, id)
		if err != nil {
			return apperr.Internal(err, "reload product %d", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := h.events.Publish(ctx, events.New(events.StockAdjusted, orgID, caller.UserID, id, map[string]int{
		"delta": delta,
		"stock": p.Stock,
	})); err != nil {
		h.log.WithField("product_id", id).WithError(err).Warn("failed to publish event")
	}
	return p, nil
}

func (h *InventoryHandler) ListProducts(ctx context.Context, caller tenant.Identity) ([]models.Product, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	products, err := h.store.Products().ListActive(ctx, caller.OrganizationID)
	if err != nil {
		return nil, apperr.Internal(err, "list products")
	}
	return products, nil
}

// LowStock lists active products at or below threshold. A non-positive
// threshold means the configured default.
func (h *InventoryHandler) LowStock(ctx context.Context, caller tenant.Identity, threshold int) ([]models.Product, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	if threshold <= 0 {
		threshold = h.lowStockThreshold
	}
	products, err := h.store.Products().ListLowStock(ctx, caller.OrganizationID, threshold)
	if err != nil {
		return nil, apperr.Internal(err, "list low stock")
	}
	return products, nil
}

func (h *InventoryHandler) StockHistory(ctx context.Context, caller tenant.Identity, id uint) ([]models.StockMovement, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	if _, err := h.GetProduct(ctx, caller, id); err != nil {
		return nil, err
	}
	movements, err := h.store.Products().ListMovements(ctx, caller.OrganizationID, id)
	if err != nil {
		return nil, apperr.Internal(err, "list stock movements")
	}
	return movements, nil
}
