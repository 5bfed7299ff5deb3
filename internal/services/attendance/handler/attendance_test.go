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

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	h      *AttendanceHandler
	rec    *events.Recorder
	owner  tenant.Identity
	staff  models.User
	clock  time.Time
	tenant dbtest.Tenant
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db := dbtest.Open(t)
	tn := dbtest.SeedTenant(t, db, "acme")
	staff := dbtest.SeedStaff(t, db, tn.Org.ID, "ravi")

	log := logrus.New()
	log.SetOutput(io.Discard)
	rec := &events.Recorder{}

	f := &fixture{
		db:     db,
		rec:    rec,
		staff:  staff,
		tenant: tn,
		clock:  time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
		owner:  tenant.Identity{UserID: tn.Owner.ID, OrganizationID: tn.Org.ID, Role: models.RoleOwner},
	}
	f.h = NewAttendanceHandler(store.New(db), rec, log)
	f.h.now = func() time.Time { return f.clock }
	return f
}

func TestCheckInTwiceConflicts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	rec, err := f.h.CheckIn(ctx, f.owner, f.staff.ID)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != models.StatusPresent || rec.CheckInTime == nil || rec.Day != "2024-03-04" {
		t.Fatalf("unexpected record %+v", rec)
	}

	f.clock = f.clock.Add(time.Hour)
	if _, err := f.h.CheckIn(ctx, f.owner, f.staff.ID); !errors.Is(err, apperr.ErrAlreadyCheckedIn) {
		t.Fatalf("second check-in: got %v", err)
	}
}

func TestCheckInUpgradesAbsentRecord(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	absent, err := f.h.Mark(ctx, f.owner, f.staff.ID, models.StatusAbsent)
	if err != nil {
		t.Fatal(err)
	}
	if absent.CheckInTime != nil {
		t.Fatal("absent mark must not carry a check-in")
	}

	rec, err := f.h.CheckIn(ctx, f.owner, f.staff.ID)
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != absent.ID || rec.Status != models.StatusPresent {
		t.Fatalf("expected record %d upgraded to Present, got %+v", absent.ID, rec)
	}
}

func TestCheckOutOnceOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	rec, err := f.h.CheckIn(ctx, f.owner, f.staff.ID)
	if err != nil {
		t.Fatal(err)
	}
	f.clock = f.clock.Add(8 * time.Hour)

	out, err := f.h.CheckOut(ctx, f.owner, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if out.CheckOutTime == nil || !out.CheckOutTime.Equal(f.clock) {
		t.Fatalf("check-out time = %v", out.CheckOutTime)
	}
	if _, err := f.h.CheckOut(ctx, f.owner, rec.ID); !errors.Is(err, apperr.ErrAlreadyCheckedOut) {
		t.Fatalf("second check-out: got %v", err)
	}
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	absent, err := f.h.Mark(ctx, f.owner, f.staff.ID, models.StatusAbsent)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.h.CheckOut(ctx, f.owner, absent.ID); err != nil {
		t.Fatalf("check-out without check-in should be permitted: %v", err)
	}
}

func TestMarkDuplicateDay(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if _, err := f.h.Mark(ctx, f.owner, f.staff.ID, models.StatusLate); err != nil {
		t.Fatal(err)
	}
	_, err := f.h.Mark(ctx, f.owner, f.staff.ID, models.StatusPresent)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("got %v, want conflict", err)
	}

	if _, err := f.h.Mark(ctx, f.owner, f.staff.ID, "Holiday"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("invalid status: got %v", err)
	}

	f.clock = f.clock.AddDate(0, 0, 1)
	if _, err := f.h.Mark(ctx, f.owner, f.staff.ID, models.StatusPresent); err != nil {
		t.Fatalf("next day: %v", err)
	}
}

func TestMarkByBarcodeIsIdempotent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	code := "STF1-ABCD1234"
	if err := f.db.Model(&models.User{}).Where("id = ?", f.staff.ID).Update("barcode", code).Error; err != nil {
		t.Fatal(err)
	}

	first, err := f.h.MarkByBarcode(ctx, f.owner, code)
	if err != nil {
		t.Fatal(err)
	}
	if first.MarkedBy != models.MarkedBarcode || first.Status != models.StatusPresent {
		t.Fatalf("unexpected record %+v", first)
	}

	f.clock = f.clock.Add(2 * time.Hour)
	second, err := f.h.MarkByBarcode(ctx, f.owner, code)
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Fatalf("second scan created record %d, want %d", second.ID, first.ID)
	}
	if len(f.rec.Events) != 1 {
		t.Fatalf("published %d events, want 1", len(f.rec.Events))
	}

	if _, err := f.h.MarkByBarcode(ctx, f.owner, "nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown barcode: got %v", err)
	}
}

func TestCrossTenantIsInvisible(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	other := dbtest.SeedTenant(t, f.db, "globex")
	intruder := tenant.Identity{UserID: other.Owner.ID, OrganizationID: other.Org.ID, Role: models.RoleOwner}

	rec, err := f.h.CheckIn(ctx, f.owner, f.staff.ID)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.h.CheckIn(ctx, intruder, f.staff.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("check-in of foreign user: got %v", err)
	}
	if _, err := f.h.CheckOut(ctx, intruder, rec.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("check-out of foreign record: got %v", err)
	}
	all, err := f.h.ListAll(ctx, intruder)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Fatalf("intruder sees %d records", len(all))
	}
}

func TestStaffCannotMark(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	caller := tenant.Identity{UserID: f.staff.ID, OrganizationID: f.tenant.Org.ID, Role: models.RoleStaff}

	if _, err := f.h.CheckIn(ctx, caller, f.staff.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("got %v, want forbidden", err)
	}

	if _, err := f.h.CheckIn(ctx, f.owner, f.staff.ID); err != nil {
		t.Fatal(err)
	}
	mine, err := f.h.ListMine(ctx, caller)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].UserID != f.staff.ID {
		t.Fatalf("ListMine = %+v", mine)
	}
}
