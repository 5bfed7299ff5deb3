package handler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"syntra-bizops/internal/apperr"
	"syntra-bizops/internal/database/dbtest"
	"syntra-bizops/internal/database/models"
	"syntra-bizops/internal/events"
	"syntra-bizops/internal/store"
	"syntra-bizops/internal/tenant"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func newHandler(t *testing.T) (*InventoryHandler, *gorm.DB, *events.Recorder) {
	t.Helper()
	db := dbtest.Open(t)
	log := logrus.New()
	log.SetOutput(io.Discard)
	rec := &events.Recorder{}
	h := NewInventoryHandler(store.New(db), rec, log, 5)
	h.now = func() time.Time { return time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC) }
	return h, db, rec
}

func ownerOf(tn dbtest.Tenant) tenant.Identity {
	return tenant.Identity{UserID: tn.Owner.ID, OrganizationID: tn.Org.ID, Role: models.RoleOwner}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAddProduct(t *testing.T) {
	h, db, _ := newHandler(t)
	tn := dbtest.SeedTenant(t, db, "acme")
	ctx := context.Background()

	p, err := h.AddProduct(ctx, ownerOf(tn), ProductInput{Name: "  tea ", Price: dec("12.505"), Stock: 7})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "tea" || !p.Price.Equal(dec("12.51")) || p.Unit != "pcs" || p.Status != models.ProductActive {
		t.Fatalf("product = %+v", p)
	}

	history, err := h.StockHistory(ctx, ownerOf(tn), p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Quantity != 7 {
		t.Fatalf("opening movement = %+v", history)
	}

	bad := map[string]ProductInput{
		"blank name":     {Name: " ", Price: dec("1")},
		"negative price": {Name: "x", Price: dec("-1")},
		"negative stock": {Name: "x", Price: dec("1"), Stock: -1},
	}
	for name, in := range bad {
		if _, err := h.AddProduct(ctx, ownerOf(tn), in); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("%s: got %v, want invalid input", name, err)
		}
	}

	staff := dbtest.SeedStaff(t, db, tn.Org.ID, "ravi")
	clerk := tenant.Identity{UserID: staff.ID, OrganizationID: tn.Org.ID, Role: models.RoleStaff}
	if _, err := h.AddProduct(ctx, clerk, ProductInput{Name: "x", Price: dec("1")}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("staff AddProduct: got %v", err)
	}
}

func TestAdjustStock(t *testing.T) {
	h, db, rec := newHandler(t)
	tn := dbtest.SeedTenant(t, db, "acme")
	p := dbtest.SeedProduct(t, db, tn.Org.ID, "tea", "1.00", 3)
	ctx := context.Background()

	got, err := h.AdjustStock(ctx, ownerOf(tn), p.ID, 4, " delivery ")
	if err != nil {
		t.Fatal(err)
	}
	if got.Stock != 7 {
		t.Fatalf("stock = %d, want 7", got.Stock)
	}

	if _, err := h.AdjustStock(ctx, ownerOf(tn), p.ID, -8, "write-off"); !errors.Is(err, apperr.ErrInsufficientStock) {
		t.Fatalf("over write-off: got %v", err)
	}
	if _, err := h.AdjustStock(ctx, ownerOf(tn), p.ID, 0, ""); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("zero delta: got %v", err)
	}

	history, err := h.StockHistory(ctx, ownerOf(tn), p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Notes == nil || *history[0].Notes != "delivery" {
		t.Fatalf("history = %+v", history)
	}
	if types := rec.Types(); len(types) != 1 || types[0] != events.StockAdjusted {
		t.Fatalf("events = %v", types)
	}
}

func TestArchiveProduct(t *testing.T) {
	h, db, _ := newHandler(t)
	tn := dbtest.SeedTenant(t, db, "acme")
	p := dbtest.SeedProduct(t, db, tn.Org.ID, "tea", "1.00", 3)
	ctx := context.Background()

	if err := h.ArchiveProduct(ctx, ownerOf(tn), p.ID); err != nil {
		t.Fatal(err)
	}
	if err := h.ArchiveProduct(ctx, ownerOf(tn), p.ID); apperr.CodeOf(err) != apperr.CodeProductArchived {
		t.Fatalf("second archive: got %v", err)
	}

	name := "green tea"
	if _, err := h.UpdateProduct(ctx, ownerOf(tn), p.ID, ProductUpdate{Name: &name}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("update archived: got %v", err)
	}
	if _, err := h.AdjustStock(ctx, ownerOf(tn), p.ID, 1, ""); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("restock archived: got %v", err)
	}

	products, err := h.ListProducts(ctx, ownerOf(tn))
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 0 {
		t.Fatalf("archived product still listed: %+v", products)
	}
}

func TestUpdateProductKeepsStock(t *testing.T) {
	h, db, _ := newHandler(t)
	tn := dbtest.SeedTenant(t, db, "acme")
	p := dbtest.SeedProduct(t, db, tn.Org.ID, "tea", "1.00", 3)
	price := dec("2.499")

	got, err := h.UpdateProduct(context.Background(), ownerOf(tn), p.ID, ProductUpdate{Price: &price})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Price.Equal(dec("2.50")) || got.Stock != 3 || got.Name != "tea" {
		t.Fatalf("updated = %+v", got)
	}
}

func TestLowStockAndTenantIsolation(t *testing.T) {
	h, db, _ := newHandler(t)
	acme := dbtest.SeedTenant(t, db, "acme")
	globex := dbtest.SeedTenant(t, db, "globex")
	low := dbtest.SeedProduct(t, db, acme.Org.ID, "tea", "1.00", 2)
	dbtest.SeedProduct(t, db, acme.Org.ID, "coffee", "1.00", 50)
	dbtest.SeedProduct(t, db, globex.Org.ID, "juice", "1.00", 1)
	ctx := context.Background()

	products, err := h.LowStock(ctx, ownerOf(acme), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 1 || products[0].ID != low.ID {
		t.Fatalf("low stock = %+v", products)
	}

	if _, err := h.GetProduct(ctx, ownerOf(globex), low.ID); !errors.Is(err, apperr.ErrProductNotFound) {
		t.Fatalf("foreign GetProduct: got %v", err)
	}
	if _, err := h.AdjustStock(ctx, ownerOf(globex), low.ID, 5, ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("foreign AdjustStock: got %v", err)
	}
}
