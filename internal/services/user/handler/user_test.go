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
	"syntra-bizops/internal/store"
	"syntra-bizops/internal/tenant"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func newHandler(t *testing.T) (*UserHandler, store.Store) {
	t.Helper()
	db := dbtest.Open(t)
	log := logrus.New()
	log.SetOutput(io.Discard)
	st := store.New(db)
	return NewUserHandler(st, log), st
}

func ownerIdentity(u *models.User) tenant.Identity {
	return tenant.Identity{UserID: u.ID, OrganizationID: *u.OrganizationID, Role: u.Role}
}

func TestRegisterOwner(t *testing.T) {
	h, _ := newHandler(t)
	ctx := context.Background()

	owner, org, err := h.RegisterOwner(ctx, "asha", "Asha Stores")
	if err != nil {
		t.Fatal(err)
	}
	if owner.OrganizationID == nil || *owner.OrganizationID != org.ID || *org.OwnerID != owner.ID {
		t.Fatalf("owner %+v org %+v", owner, org)
	}

	if _, _, err := h.RegisterOwner(ctx, "asha", "Other"); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate username: got %v", err)
	}
	if _, _, err := h.RegisterOwner(ctx, "bela", "Asha Stores"); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate organization: got %v", err)
	}
	got, err := h.GetOrganization(ctx, ownerIdentity(owner))
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Asha Stores" {
		t.Fatalf("organization = %+v", got)
	}
}

func TestStaffLifecycle(t *testing.T) {
	h, st := newHandler(t)
	ctx := context.Background()

	owner, _, err := h.RegisterOwner(ctx, "asha", "Asha Stores")
	if err != nil {
		t.Fatal(err)
	}
	caller := ownerIdentity(owner)

	staff, err := h.AddStaff(ctx, caller, "ravi")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.AddStaff(ctx, caller, "ravi"); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate staff: got %v", err)
	}

	orgID := caller.OrganizationID
	salary := &models.Salary{UserID: staff.ID, OrganizationID: orgID, BaseSalary: decimal.NewFromInt(100), Currency: "INR", EffectiveFrom: time.Now()}
	if err := st.Salaries().Save(ctx, salary); err != nil {
		t.Fatal(err)
	}

	list, err := h.ListStaff(ctx, caller)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Username != "ravi" {
		t.Fatalf("ListStaff = %+v", list)
	}

	if err := h.RemoveStaff(ctx, caller, owner.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("removing owner: got %v", err)
	}
	if err := h.RemoveStaff(ctx, caller, staff.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Salaries().FindByUser(ctx, orgID, staff.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("salary survived removal: %v", err)
	}
	if err := h.RemoveStaff(ctx, caller, staff.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second removal: got %v", err)
	}
}

func TestIssueBarcode(t *testing.T) {
	h, _ := newHandler(t)
	ctx := context.Background()

	owner, _, err := h.RegisterOwner(ctx, "asha", "Asha Stores")
	if err != nil {
		t.Fatal(err)
	}
	caller := ownerIdentity(owner)
	a, _ := h.AddStaff(ctx, caller, "ravi")
	b, _ := h.AddStaff(ctx, caller, "meera")

	codes := []string{"STF1-SAME", "STF1-SAME", "STF1-OTHER"}
	h.newBarcode = func(uint) string {
		c := codes[0]
		codes = codes[1:]
		return c
	}

	first, err := h.IssueBarcode(ctx, caller, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if *first.Barcode != "STF1-SAME" {
		t.Fatalf("barcode = %s", *first.Barcode)
	}

	second, err := h.IssueBarcode(ctx, caller, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if *second.Barcode != "STF1-OTHER" {
		t.Fatalf("collision not retried, barcode = %s", *second.Barcode)
	}

	if _, err := h.IssueBarcode(ctx, caller, a.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("reissue: got %v", err)
	}
}

func TestGenerateBarcodeFormat(t *testing.T) {
	code := generateBarcode(42)
	if len(code) != len("STF42-")+8 || code[:6] != "STF42-" {
		t.Fatalf("unexpected barcode %q", code)
	}
}
