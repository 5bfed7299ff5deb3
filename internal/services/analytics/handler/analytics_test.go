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
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setup(t *testing.T) (*AnalyticsHandler, *gorm.DB, dbtest.Tenant, tenant.Identity) {
	t.Helper()
	db := dbtest.Open(t)
	tn := dbtest.SeedTenant(t, db, "acme")
	log := logrus.New()
	log.SetOutput(io.Discard)
	h := NewAnalyticsHandler(store.New(db), log, 5)
	h.now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	owner := tenant.Identity{UserID: tn.Owner.ID, OrganizationID: tn.Org.ID, Role: models.RoleOwner}
	return h, db, tn, owner
}

func attend(t *testing.T, db *gorm.DB, orgID, userID uint, day string, status models.AttendanceStatus) {
	t.Helper()
	d, _ := time.Parse(models.DayLayout, day)
	if err := db.Create(&models.Attendance{
		UserID: userID, OrganizationID: orgID, Day: day, Date: d, Status: status, MarkedBy: models.MarkedManual,
	}).Error; err != nil {
		t.Fatal(err)
	}
}

func sell(t *testing.T, db *gorm.DB, orgID, seller uint, at time.Time, total string, items ...models.SaleItem) {
	t.Helper()
	sale := models.Sale{
		OrganizationID: orgID, SoldBy: seller, Reference: "SL-" + at.Format("150405.000000") + total,
		Subtotal: dec(total), Discount: decimal.Zero, Tax: decimal.Zero, Total: dec(total),
		PaymentMethod: "cash", CreatedAt: at, Items: items,
	}
	if err := db.Create(&sale).Error; err != nil {
		t.Fatal(err)
	}
}

func TestAttendanceSummaryAndPerformance(t *testing.T) {
	h, db, tn, owner := setup(t)
	ctx := context.Background()
	a := dbtest.SeedStaff(t, db, tn.Org.ID, "a")
	b := dbtest.SeedStaff(t, db, tn.Org.ID, "b")

	attend(t, db, tn.Org.ID, a.ID, "2024-03-01", models.StatusPresent)
	attend(t, db, tn.Org.ID, a.ID, "2024-03-02", models.StatusLate)
	attend(t, db, tn.Org.ID, b.ID, "2024-03-01", models.StatusAbsent)
	attend(t, db, tn.Org.ID, b.ID, "2024-02-29", models.StatusPresent)

	s, err := h.AttendanceSummary(ctx, owner, 2024, 3)
	if err != nil {
		t.Fatal(err)
	}
	if s.TotalRecords != 3 || s.Present != 1 || s.Late != 1 || s.Absent != 1 {
		t.Fatalf("summary = %+v", s)
	}
	if !s.PresentPct.Equal(dec("33.3")) {
		t.Errorf("present pct = %s", s.PresentPct)
	}

	scores, err := h.StaffPerformance(ctx, owner, 2024, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 2 || scores[0].UserID != a.ID || !scores[0].Score.Equal(dec("100")) || !scores[1].Score.Equal(decimal.Zero) {
		t.Fatalf("scores = %+v", scores)
	}
}

func TestSalesReports(t *testing.T) {
	h, db, tn, owner := setup(t)
	ctx := context.Background()
	other := dbtest.SeedTenant(t, db, "globex")

	mar := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	sell(t, db, tn.Org.ID, tn.Owner.ID, mar, "10.50",
		models.SaleItem{ProductID: 1, ProductName: "tea", Quantity: 3, UnitPrice: dec("3.50"), Subtotal: dec("10.50")})
	sell(t, db, tn.Org.ID, tn.Owner.ID, mar.Add(time.Hour), "20.00",
		models.SaleItem{ProductID: 2, ProductName: "cake", Quantity: 1, UnitPrice: dec("20.00"), Subtotal: dec("20.00")})
	sell(t, db, tn.Org.ID, tn.Owner.ID, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), "5.00",
		models.SaleItem{ProductID: 1, ProductName: "tea", Quantity: 2, UnitPrice: dec("2.50"), Subtotal: dec("5.00")})
	sell(t, db, other.Org.ID, other.Owner.ID, mar, "99.00")

	report, err := h.SalesSummary(ctx, owner, 2024, 3)
	if err != nil {
		t.Fatal(err)
	}
	if report.Count != 2 || !report.Revenue.Equal(dec("30.50")) || !report.Average.Equal(dec("15.25")) {
		t.Fatalf("report = %+v", report)
	}

	top, err := h.TopProducts(ctx, owner, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 || top[0].ProductName != "tea" || top[0].Quantity != 5 || !top[0].Revenue.Equal(dec("15.50")) {
		t.Fatalf("top = %+v", top)
	}

	overview, err := h.Overview(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	if overview.MonthSales != 2 || !overview.MonthRevenue.Equal(dec("30.50")) {
		t.Fatalf("overview = %+v", overview)
	}
}

func TestPayrollSummary(t *testing.T) {
	h, db, tn, owner := setup(t)
	staff := dbtest.SeedStaff(t, db, tn.Org.ID, "a")

	for _, p := range []models.Payslip{
		{UserID: staff.ID, Month: 3, Year: 2024, NetSalary: dec("900.10"), Deductions: dec("99.90")},
		{UserID: tn.Owner.ID, Month: 3, Year: 2024, NetSalary: dec("1000"), Deductions: dec("0")},
		{UserID: staff.ID, Month: 2, Year: 2024, NetSalary: dec("1000"), Deductions: dec("0")},
	} {
		p.OrganizationID = tn.Org.ID
		p.BaseSalary = dec("1000")
		p.Currency = "INR"
		p.GeneratedAt = time.Now().UTC()
		if err := db.Create(&p).Error; err != nil {
			t.Fatal(err)
		}
	}

	report, err := h.PayrollSummary(context.Background(), owner, 2024, 3)
	if err != nil {
		t.Fatal(err)
	}
	if report.Payslips != 2 || !report.TotalNet.Equal(dec("1900.10")) || !report.TotalDeductions.Equal(dec("99.90")) {
		t.Fatalf("report = %+v", report)
	}
}

func TestAnalyticsOwnerOnly(t *testing.T) {
	h, db, tn, _ := setup(t)
	staff := dbtest.SeedStaff(t, db, tn.Org.ID, "a")
	clerk := tenant.Identity{UserID: staff.ID, OrganizationID: tn.Org.ID, Role: models.RoleStaff}

	if _, err := h.Overview(context.Background(), clerk); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("got %v", err)
	}
}

func TestDailyAttendance(t *testing.T) {
	h, db, tn, owner := setup(t)
	ctx := context.Background()
	a := dbtest.SeedStaff(t, db, tn.Org.ID, "a")
	b := dbtest.SeedStaff(t, db, tn.Org.ID, "b")
	other := dbtest.SeedTenant(t, db, "globex")
	c := dbtest.SeedStaff(t, db, other.Org.ID, "c")

	attend(t, db, tn.Org.ID, a.ID, "2024-03-12", models.StatusPresent)
	attend(t, db, tn.Org.ID, a.ID, "2024-03-13", models.StatusPresent)
	attend(t, db, tn.Org.ID, b.ID, "2024-03-13", models.StatusLate)
	attend(t, db, tn.Org.ID, a.ID, "2024-03-15", models.StatusAbsent)
	attend(t, db, other.Org.ID, c.ID, "2024-03-15", models.StatusPresent)

	got, err := h.DailyAttendance(ctx, owner, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []DailyAttendance{
		{Day: "2024-03-13", Present: 1, Late: 1},
		{Day: "2024-03-14"},
		{Day: "2024-03-15", Absent: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d days, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("day %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	all, err := h.DailyAttendance(ctx, owner, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 30 || all[0].Day != "2024-02-15" || all[29].Day != "2024-03-15" {
		t.Fatalf("default window = %s..%s (%d)", all[0].Day, all[len(all)-1].Day, len(all))
	}

	for _, days := range []int{-1, MaxTrendDays + 1} {
		if _, err := h.DailyAttendance(ctx, owner, days); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Errorf("days %d: got %v", days, err)
		}
	}
}

func TestDailySales(t *testing.T) {
	h, db, tn, owner := setup(t)
	ctx := context.Background()
	other := dbtest.SeedTenant(t, db, "globex")

	sell(t, db, tn.Org.ID, tn.Owner.ID, time.Date(2024, 3, 13, 23, 59, 0, 0, time.UTC), "4.00")
	sell(t, db, tn.Org.ID, tn.Owner.ID, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), "1.25")
	sell(t, db, tn.Org.ID, tn.Owner.ID, time.Date(2024, 3, 14, 18, 30, 0, 0, time.UTC), "2.50")
	sell(t, db, tn.Org.ID, tn.Owner.ID, time.Date(2024, 3, 12, 12, 0, 0, 0, time.UTC), "50.00")
	sell(t, db, other.Org.ID, other.Owner.ID, time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC), "99.00")

	got, err := h.DailySales(ctx, owner, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		day     string
		count   int
		revenue string
	}{
		{"2024-03-13", 1, "4.00"},
		{"2024-03-14", 2, "3.75"},
		{"2024-03-15", 0, "0"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d days, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Day != w.day || got[i].Count != w.count || !got[i].Revenue.Equal(dec(w.revenue)) {
			t.Errorf("day %d = %+v, want %+v", i, got[i], w)
		}
	}

	staff := dbtest.SeedStaff(t, db, tn.Org.ID, "a")
	clerk := tenant.Identity{UserID: staff.ID, OrganizationID: tn.Org.ID, Role: models.RoleStaff}
	if _, err := h.DailySales(ctx, clerk, 3); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("staff: got %v", err)
	}
}
