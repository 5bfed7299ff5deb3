package handler

import (
	"context"
	"errors"

	"syntra-bizops/internal/apperr"
	"syntra-bizops/internal/database/models"
	"syntra-bizops/internal/events"
	"syntra-bizops/internal/period"
	"syntra-bizops/internal/store"
	"syntra-bizops/internal/tenant"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// A late day costs half a day's pay.
var lateFactor = decimal.RequireFromString("0.5")

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

type Tally struct {
	Present int
	Late    int
	Absent  int
}

func TallyAttendance(records []models.Attendance) Tally {
	var t Tally
	for _, r := range records {
		switch r.Status {
		case models.StatusPresent:
			t.Present++
		case models.StatusLate:
			t.Late++
		case models.StatusAbsent:
			t.Absent++
		}
	}
	return t
}

// ComputePay returns the deductions and net pay for a month:
// perDay = base / max(workingDays, 1), absences cost a full day and late
// days half a day. Both results are rounded to two places.
func ComputePay(base decimal.Decimal, t Tally, workingDays int) (decimal.Decimal, decimal.Decimal) {
	if workingDays < 1 {
		workingDays = 1
	}
	perDay := base.Div(decimal.NewFromInt(int64(workingDays)))
	deductions := round2(perDay.Mul(decimal.NewFromInt(int64(t.Absent))).
		Add(perDay.Mul(decimal.NewFromInt(int64(t.Late))).Mul(lateFactor)))
	return deductions, round2(base.Sub(deductions))
}

// GeneratePayslip produces the payslip of userID for month/year. A payslip
// is generated at most once per period; repeated calls return the first one
// unchanged, even if attendance has changed since.
func (h *HRHandler) GeneratePayslip(ctx context.Context, caller tenant.Identity, userID uint, month, year int) (*models.Payslip, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	m, err := period.New(year, month)
	if err != nil {
		return nil, err
	}
	orgID := caller.OrganizationID

	var (
		payslip *models.Payslip
		created bool
	)
	err = h.store.Transact(ctx, func(r store.Repositories) error {
		if _, err := staffMember(ctx, r.Users(), caller, userID); err != nil {
			return err
		}

		salary, err := r.Salaries().FindByUser(ctx, orgID, userID)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.SalaryNotSet("salary not set for user %d", userID)
		}
		if err != nil {
			return apperr.Internal(err, "load salary")
		}

		existing, err := r.Payslips().FindByPeriod(ctx, orgID, userID, month, year)
		if err == nil {
			payslip = existing
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return apperr.Internal(err, "load payslip")
		}

		from, to := m.DayRange()
		records, err := r.Attendance().List(ctx, orgID, store.AttendanceFilter{UserID: userID, FromDay: from, ToDay: to})
		if err != nil {
			return apperr.Internal(err, "load attendance")
		}
		tally := TallyAttendance(records)
		workingDays := m.WorkingDays(h.weeklyOff)
		deductions, net := ComputePay(salary.BaseSalary, tally, workingDays)

		payslip = &models.Payslip{
			UserID:         userID,
			OrganizationID: orgID,
			Month:          month,
			Year:           year,
			BaseSalary:     salary.BaseSalary,
			Currency:       salary.Currency,
			WorkingDays:    workingDays,
			DaysPresent:    tally.Present,
			DaysAbsent:     tally.Absent,
			DaysLate:       tally.Late,
			Deductions:     deductions,
			NetSalary:      net,
			GeneratedAt:    h.now().UTC(),
		}
		if err := r.Payslips().Create(ctx, payslip); err != nil {
			return err
		}
		created = true
		return nil
	})

	if errors.Is(err, store.ErrDuplicate) {
		// a concurrent request generated it first
		existing, ferr := h.store.Payslips().FindByPeriod(ctx, orgID, userID, month, year)
		if ferr != nil {
			return nil, apperr.Internal(ferr, "load payslip")
		}
		return existing, nil
	}
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			return nil, apperr.Internal(err, "generate payslip")
		}
		return nil, err
	}

	if created {
		h.log.WithFields(logrus.Fields{
			"organization_id": orgID,
			"user_id":         userID,
			"period":          m.Start().Format("2006-01"),
			"net_salary":      payslip.NetSalary.StringFixed(2),
		}).Info("payslip generated")
		h.publish(ctx, events.New(events.PayslipGenerated, orgID, caller.UserID, payslip.ID, payslip))
	}
	return payslip, nil
}

func (h *HRHandler) ListPayslips(ctx context.Context, caller tenant.Identity, filter store.PayslipFilter) ([]models.Payslip, error) {
	if err := caller.RequireOwner(); err != nil {
		return nil, err
	}
	payslips, err := h.store.Payslips().List(ctx, caller.OrganizationID, filter)
	if err != nil {
		return nil, apperr.Internal(err, "list payslips")
	}
	return payslips, nil
}

func (h *HRHandler) MyPayslips(ctx context.Context, caller tenant.Identity) ([]models.Payslip, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	payslips, err := h.store.Payslips().List(ctx, caller.OrganizationID, store.PayslipFilter{UserID: caller.UserID})
	if err != nil {
		return nil, apperr.Internal(err, "list payslips")
	}
	return payslips, nil
}
