// Package handler serves read-only business reports for organization
// owners.
package handler

import (
	"context"
	"sort"
	"time"

	"syntra-bizops/internal/apperr"
	"syntra-bizops/internal/database/models"
	"syntra-bizops/internal/period"
	"syntra-bizops/internal/store"
	"syntra-bizops/internal/tenant"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	defaultTopProducts = 5
	maxTopProducts     = 50

	defaultTrendDays = 30
	// MaxTrendDays bounds the window of the daily reports.
	MaxTrendDays = 90
)

type AnalyticsHandler struct {
	store             store.Store
	log               logrus.FieldLogger
	lowStockThreshold int
	now               func() time.Time
}

func NewAnalyticsHandler(st store.Store, log logrus.FieldLogger, lowStockThreshold int) *AnalyticsHandler {
	return &AnalyticsHandler{
		store:             st,
		log:               log,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

type AttendanceSummary struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	TotalRecords int             `json:"total_records"`
	Present      int             `json:"present"`
	Late         int             `json:"late"`
	Absent       int             `json:"absent"`
	PresentPct   decimal.Decimal `json:"present_pct"`
	LatePct      decimal.Decimal `json:"late_pct"`
	AbsentPct    decimal.Decimal `json:"absent_pct"`
}

type StaffScore struct {
	UserID   uint            `json:"user_id"`
	Username string          `json:"username"`
	Present  int             `json:"present"`
	Late     int             `json:"late"`
	Absent   int             `json:"absent"`
	Score    decimal.Decimal `json:"score"`
}

type SalesReport struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Count   int64           `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
	Average decimal.Decimal `json:"average"`
}

type PayrollReport struct {
	Year            int             `json:"year"`
	Month           int             `json:"month"`
	Payslips        int             `json:"payslips"`
	TotalNet        decimal.Decimal `json:"total_net"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
}

type DailyAttendance struct {
	Day     string `json:"day"`
	Present int    `json:"present"`
	Late    int    `json:"late"`
	Absent  int    `json:"absent"`
}

type DailySales struct {
	Day     string          `json:"day"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type Overview struct {
	StaffCount    int64           `json:"staff_count"`
	PresentToday  int             `json:"present_today"`
	MonthSales    int64           `json:"month_sales"`
	MonthRevenue  decimal.Decimal `json:"month_revenue"`
	LowStockCount int             `json:"low_stock_count"`
}

// pct returns n as a percentage of total with one decimal place.
func pct(n, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(n)).Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).Round(1)
}

// trendDays returns the day keys of the window ending today, oldest first.
func (h *AnalyticsHandler) trendDays(days int) ([]string, error) {
	if days == 0 {
		days = defaultTrendDays
	}
	if days < 0 || days > MaxTrendDays {
		return nil, apperr.InvalidInput("days must be between 1 and %d, got %d", MaxTrendDays, days)
	}
	today := h.now().UTC()
	keys := make([]string, days)
	for i := range keys {
		keys[i] = today.AddDate(0, 0, i-days+1).Format(models.DayLayout)
	}
	return keys, nil
}

func (h *AnalyticsHandler) monthAttendance(ctx context.Context, orgID uint, m period.Month) ([]models.Attendance, error) {
	from, to := m.DayRange()
	records, err := h.store.Attendance().List(ctx, orgID, store.AttendanceFilter{FromDay: from, ToDay: to})
	if err != nil {
		return nil, apperr.Internal(err, "load attendance")
	}
	return records, nil
}

func (h *AnalyticsHandler) AttendanceSummary(ctx context.Context, caller tenant.Identity, year, month int) (*AttendanceSummary, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	m, err := period.New(year, month)
	if err != nil {
		return nil, err
	}
	records, err := h.monthAttendance(ctx, caller.OrganizationID, m)
	if err != nil {
		return nil, err
	}

	s := &AttendanceSummary{Year: year, Month: month, TotalRecords: len(records)}
	for _, r := range records {
		switch r.Status {
		case models.StatusPresent:
			s.Present++
		case models.StatusLate:
			s.Late++
		case models.StatusAbsent:
			s.Absent++
		}
	}
	s.PresentPct = pct(s.Present, s.TotalRecords)
	s.LatePct = pct(s.Late, s.TotalRecords)
	s.AbsentPct = pct(s.Absent, s.TotalRecords)
	return s, nil
}

// StaffPerformance scores each staff member by the share of recorded days
// they turned up, late or not. Best first.
func (h *AnalyticsHandler) StaffPerformance(ctx context.Context, caller tenant.Identity, year, month int) ([]StaffScore, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	m, err := period.New(year, month)
	if err != nil {
		return nil, err
	}
	staff, err := h.store.Users().ListByRole(ctx, caller.OrganizationID, models.RoleStaff)
	if err != nil {
		return nil, apperr.Internal(err, "list staff")
	}
	records, err := h.monthAttendance(ctx, caller.OrganizationID, m)
	if err != nil {
		return nil, err
	}

	byUser := make(map[uint]*StaffScore, len(staff))
	scores := make([]*StaffScore, 0, len(staff))
	for _, u := range staff {
		s := &StaffScore{UserID: u.ID, Username: u.Username}
		byUser[u.ID] = s
		scores = append(scores, s)
	}
	for _, r := range records {
		s, ok := byUser[r.UserID]
		if !ok {
			continue
		}
		switch r.Status {
		case models.StatusPresent:
			s.Present++
		case models.StatusLate:
			s.Late++
		case models.StatusAbsent:
			s.Absent++
		}
	}

	out := make([]StaffScore, 0, len(scores))
	for _, s := range scores {
		s.Score = pct(s.Present+s.Late, s.Present+s.Late+s.Absent)
		out = append(out, *s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Score.Cmp(out[j].Score); c != 0 {
			return c > 0
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

// DailyAttendance counts records per status for each of the last days days,
// today included. Days without records are reported with zero counts.
func (h *AnalyticsHandler) DailyAttendance(ctx context.Context, caller tenant.Identity, days int) ([]DailyAttendance, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	keys, err := h.trendDays(days)
	if err != nil {
		return nil, err
	}
	records, err := h.store.Attendance().List(ctx, caller.OrganizationID, store.AttendanceFilter{
		FromDay: keys[0],
		ToDay:   keys[len(keys)-1],
	})
	if err != nil {
		return nil, apperr.Internal(err, "load attendance")
	}

	out := make([]DailyAttendance, len(keys))
	index := make(map[string]int, len(keys))
	for i, k := range keys {
		out[i].Day = k
		index[k] = i
	}
	for _, r := range records {
		i, ok := index[r.Day]
		if !ok {
			continue
		}
		switch r.Status {
		case models.StatusPresent:
			out[i].Present++
		case models.StatusLate:
			out[i].Late++
		case models.StatusAbsent:
			out[i].Absent++
		}
	}
	return out, nil
}

// DailySales reports the number of sales and their revenue for each of the
// last days days, today included.
func (h *AnalyticsHandler) DailySales(ctx context.Context, caller tenant.Identity, days int) ([]DailySales, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	keys, err := h.trendDays(days)
	if err != nil {
		return nil, err
	}
	from, _ := time.Parse(models.DayLayout, keys[0])
	to, _ := time.Parse(models.DayLayout, keys[len(keys)-1])
	totals, err := h.store.Sales().Totals(ctx, caller.OrganizationID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, apperr.Internal(err, "load sales")
	}

	out := make([]DailySales, len(keys))
	index := make(map[string]int, len(keys))
	for i, k := range keys {
		out[i] = DailySales{Day: k, Revenue: decimal.Zero}
		index[k] = i
	}
	for _, t := range totals {
		i, ok := index[t.CreatedAt.UTC().Format(models.DayLayout)]
		if !ok {
			continue
		}
		out[i].Count++
		out[i].Revenue = out[i].Revenue.Add(t.Total)
	}
	for i := range out {
		out[i].Revenue = out[i].Revenue.Round(2)
	}
	return out, nil
}

func (h *AnalyticsHandler) SalesSummary(ctx context.Context, caller tenant.Identity, year, month int) (*SalesReport, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	m, err := period.New(year, month)
	if err != nil {
		return nil, err
	}
	sum, err := h.store.Sales().Summary(ctx, caller.OrganizationID, m.Start(), m.End())
	if err != nil {
		return nil, apperr.Internal(err, "summarize sales")
	}

	report := &SalesReport{Year: year, Month: month, Count: sum.Count, Revenue: sum.Revenue, Average: decimal.Zero}
	if sum.Count > 0 {
		report.Average = sum.Revenue.Div(decimal.NewFromInt(sum.Count)).Round(2)
	}
	return report, nil
}

func (h *AnalyticsHandler) TopProducts(ctx context.Context, caller tenant.Identity, limit int) ([]store.ProductSales, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTopProducts
	}
	if limit > maxTopProducts {
		limit = maxTopProducts
	}
	top, err := h.store.Sales().TopProducts(ctx, caller.OrganizationID, limit)
	if err != nil {
		return nil, apperr.Internal(err, "rank products")
	}
	return top, nil
}

func (h *AnalyticsHandler) PayrollSummary(ctx context.Context, caller tenant.Identity, year, month int) (*PayrollReport, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	if _, err := period.New(year, month); err != nil {
		return nil, err
	}
	payslips, err := h.store.Payslips().List(ctx, caller.OrganizationID, store.PayslipFilter{Year: year, Month: month})
	if err != nil {
		return nil, apperr.Internal(err, "list payslips")
	}

	report := &PayrollReport{Year: year, Month: month, Payslips: len(payslips), TotalNet: decimal.Zero, TotalDeductions: decimal.Zero}
	for _, p := range payslips {
		report.TotalNet = report.TotalNet.Add(p.NetSalary)
		report.TotalDeductions = report.TotalDeductions.Add(p.Deductions)
	}
	report.TotalNet = report.TotalNet.Round(2)
	report.TotalDeductions = report.TotalDeductions.Round(2)
	return report, nil
}

func (h *AnalyticsHandler) Overview(ctx context.Context, caller tenant.Identity) (*Overview, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	orgID := caller.OrganizationID
	now := h.now().UTC()
	today := now.Format(models.DayLayout)

	staffCount, err := h.store.Users().CountByRole(ctx, orgID, models.RoleStaff)
	if err != nil {
		return nil, apperr.Internal(err, "count staff")
	}
	records, err := h.store.Attendance().List(ctx, orgID, store.AttendanceFilter{FromDay: today, ToDay: today})
	if err != nil {
		return nil, apperr.Internal(err, "load attendance")
	}
	present := 0
	for _, r := range records {
		if r.Status != models.StatusAbsent {
			present++
		}
	}

	m := period.Of(now)
	sales, err := h.store.Sales().Summary(ctx, orgID, m.Start(), m.End())
	if err != nil {
		return nil, apperr.Internal(err, "summarize sales")
	}
	low, err := h.store.Products().ListLowStock(ctx, orgID, h.lowStockThreshold)
	if err != nil {
		return nil, apperr.Internal(err, "list low stock")
	}

	return &Overview{
		StaffCount:    staffCount,
		PresentToday:  present,
		MonthSales:    sales.Count,
		MonthRevenue:  sales.Revenue,
		LowStockCount: len(low),
	}, nil
}
