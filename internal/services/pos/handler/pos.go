package handler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"syntra-bizops/internal/apperr"
	"syntra-bizops/internal/database/models"
	"syntra-bizops/internal/events"
	"syntra-bizops/internal/store"
	"syntra-bizops/internal/tenant"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const defaultPaymentMethod = "cash"

// MaxItemQuantity bounds a single sale line.
const MaxItemQuantity = 1_000_000

type POSHandler struct {
	store  store.Store
	events events.Publisher
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewPOSHandler(st store.Store, pub events.Publisher, log logrus.FieldLogger) *POSHandler {
	return &POSHandler{
		store:  st,
		events: pub,
		log:    log,
		now:    time.Now,
	}
}

type SaleItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type SaleInput struct {
	CustomerName  *string         `json:"customer_name,omitempty"`
	Items         []SaleItemInput `json:"items"`
	Discount      decimal.Decimal `json:"discount"`
	Tax           decimal.Decimal `json:"tax"`
	PaymentMethod string          `json:"payment_method,omitempty"`
}

// round2 rounds half away from zero to two places.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func (in *SaleInput) validate() error {
	if len(in.Items) == 0 {
		return apperr.InvalidInput("sale must have at least one item")
	}
	for i, item := range in.Items {
		if item.ProductID == 0 {
			return apperr.InvalidInput("item %d: product_id is required", i+1)
		}
		if item.Quantity <= 0 {
			return apperr.InvalidInput("item %d: quantity must be positive", i+1)
		}
		if item.Quantity > MaxItemQuantity {
			return apperr.InvalidInput("item %d: quantity cannot exceed %d", i+1, MaxItemQuantity)
		}
	}
	if in.Discount.IsNegative() {
		return apperr.InvalidInput("discount cannot be negative")
	}
	if in.Tax.IsNegative() {
		return apperr.InvalidInput("tax cannot be negative")
	}
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	if in.PaymentMethod == "" {
		in.PaymentMethod = defaultPaymentMethod
	}
	return nil
}

// SaleTotals returns round2(sum of line subtotals) and
// round2(subtotal - discount + tax).
func SaleTotals(items []models.SaleItem, discount, tax decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Subtotal)
	}
	subtotal := round2(sum)
	return subtotal, round2(subtotal.Sub(discount).Add(tax))
}

func newReference() string {
	return "SL-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
}

// CreateSale records a sale and takes its items out of stock atomically.
// Every product is locked and every line validated before anything is
// written; the first failing line aborts the whole sale.
func (h *POSHandler) CreateSale(ctx context.Context, caller tenant.Identity, in SaleInput) (*models.Sale, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	orgID := caller.OrganizationID

	ids := make([]uint, 0, len(in.Items))
	seen := make(map[uint]bool, len(in.Items))
	for _, item := range in.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var sale *models.Sale
	err := h.store.Transact(ctx, func(r store.Repositories) error {
		products, err := r.Products().LockForSale(ctx, orgID, ids)
		if err != nil {
			return apperr.Internal(err, "lock products")
		}

		for _, item := range in.Items {
			p, ok := products[item.ProductID]
			if !ok || p.Status != models.ProductActive {
				return apperr.WithCode(apperr.KindNotFound, apperr.CodeProductNotFound, "product %d not found", item.ProductID)
			}
		}

		needed := make(map[uint]int, len(ids))
		for _, item := range in.Items {
			p := products[item.ProductID]
			// Compare against what is left so the running total never exceeds stock.
			if remaining := p.Stock - needed[item.ProductID]; item.Quantity > remaining {
				return apperr.InsufficientStock("insufficient stock for %s: requested %d, available %d",
					p.Name, item.Quantity, remaining)
			}
			needed[item.ProductID] += item.Quantity
		}

		now := h.now().UTC()
		items := make([]models.SaleItem, 0, len(in.Items))
		for _, item := range in.Items {
			p := products[item.ProductID]
			items = append(items, models.SaleItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    item.Quantity,
				UnitPrice:   p.Price,
				Subtotal:    round2(p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))),
			})
		}

		discount, tax := round2(in.Discount), round2(in.Tax)
		subtotal, total := SaleTotals(items, discount, tax)
		if total.IsNegative() {
			return apperr.InvalidInput("discount %s exceeds subtotal plus tax", discount.StringFixed(2))
		}

		sale = &models.Sale{
			OrganizationID: orgID,
			SoldBy:         caller.UserID,
			Reference:      newReference(),
			CustomerName:   in.CustomerName,
			Subtotal:       subtotal,
			Discount:       discount,
			Tax:            tax,
			Total:          total,
			PaymentMethod:  in.PaymentMethod,
			CreatedAt:      now,
			Items:          items,
		}
		if err := r.Sales().Create(ctx, sale); err != nil {
			return apperr.Internal(err, "create sale")
		}

		for _, id := range ids {
			if err := r.Products().AdjustStock(ctx, orgID, id, -needed[id]); err != nil {
				if errors.Is(err, store.ErrNotApplied) {
					return apperr.InsufficientStock("insufficient stock for product %d", id)
				}
				return apperr.Internal(err, "decrement stock of product %d", id)
			}
			saleID := sale.ID
			if err := r.Products().RecordMovement(ctx, &models.StockMovement{
				OrganizationID: orgID,
				ProductID:      id,
				Quantity:       -needed[id],
				Reason:         models.MovementSale,
				ReferenceID:    &saleID,
				CreatedBy:      caller.UserID,
				CreatedAt:      now,
			}); err != nil {
				return apperr.Internal(err, "record stock movement for product %d", id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.log.WithFields(logrus.Fields{
		"organization_id": orgID,
		"sale_id":         sale.ID,
		"reference":       sale.Reference,
		"total":           sale.Total.StringFixed(2),
	}).Info("sale created")

	if err := h.events.Publish(ctx, events.New(events.SaleCreated, orgID, caller.UserID, sale.ID, sale)); err != nil {
		h.log.WithField("sale_id", sale.ID).WithError(err).Warn("failed to publish event")
	}
	return sale, nil
}

func (h *POSHandler) GetSale(ctx context.Context, caller tenant.Identity, id uint) (*models.Sale, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	sale, err := h.store.Sales().FindByID(ctx, caller.OrganizationID, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("sale %d not found", id)
	}
	if err != nil {
		return nil, apperr.Internal(err, "load sale %d", id)
	}
	return sale, nil
}

func (h *POSHandler) ListSales(ctx context.Context, caller tenant.Identity) ([]models.Sale, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	sales, err := h.store.Sales().List(ctx, caller.OrganizationID)
	if err != nil {
		return nil, apperr.Internal(err, "list sales")
	}
	return sales, nil
}

// Receipt renders a plain-text receipt for printing at the till.
func (h *POSHandler) Receipt(ctx context.Context, caller tenant.Identity, id uint) (string, error) {
	sale, err := h.GetSale(ctx, caller, id)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Receipt %s\n", sale.Reference)
	fmt.Fprintf(&b, "%s\n", sale.CreatedAt.Format("2006-01-02 15:04"))
	if sale.CustomerName != nil {
		fmt.Fprintf(&b, "Customer: %s\n", *sale.CustomerName)
	}
	for _, item := range sale.Items {
		fmt.Fprintf(&b, "%-24s %3d x %10s %10s\n", item.ProductName, item.Quantity,
			item.UnitPrice.StringFixed(2), item.Subtotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "Subtotal %s\n", sale.Subtotal.StringFixed(2))
	if !sale.Discount.IsZero() {
		fmt.Fprintf(&b, "Discount -%s\n", sale.Discount.StringFixed(2))
	}
	if !sale.Tax.IsZero() {
		fmt.Fprintf(&b, "Tax %s\n", sale.Tax.StringFixed(2))
	}
	fmt.Fprintf(&b, "Total %s (%s)\n", sale.Total.StringFixed(2), sale.PaymentMethod)
	return b.String(), nil
}
