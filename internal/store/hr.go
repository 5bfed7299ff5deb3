package store

import (
	"context"
	"time"

	"syntra-bizops/internal/database/models"
	"syntra-bizops/internal/tenant"

	"gorm.io/gorm"
)

type salaryRepo struct {
	db *gorm.DB
}

func (r *salaryRepo) FindByUser(ctx context.Context, orgID, userID uint) (*models.Salary, error) {
	var s models.Salary
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Where("user_id = ?", userID).
		First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// Save inserts a new salary or replaces the amount of an existing one.
func (r *salaryRepo) Save(ctx context.Context, s *models.Salary) error {
	if s.ID == 0 {
		return translate(r.db.WithContext(ctx).Create(s).Error)
	}
	return applied(r.db.WithContext(ctx).Model(&models.Salary{}).Scopes(tenant.Scope(s.OrganizationID)).
		Where("id = ?", s.ID).
		Updates(map[string]any{
			"base_salary":    s.BaseSalary,
			"currency":       s.Currency,
			"effective_from": s.EffectiveFrom,
			"updated_at":     s.UpdatedAt,
		}))
}

func (r *salaryRepo) List(ctx context.Context, orgID uint) ([]models.Salary, error) {
	var salaries []models.Salary
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).Order("user_id").Find(&salaries).Error
	return salaries, translate(err)
}

func (r *salaryRepo) DeleteByUser(ctx context.Context, orgID, userID uint) error {
	return translate(r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Where("user_id = ?", userID).
		Delete(&models.Salary{}).Error)
}

type payslipRepo struct {
	db *gorm.DB
}

func (r *payslipRepo) Create(ctx context.Context, p *models.Payslip) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *payslipRepo) FindByPeriod(ctx context.Context, orgID, userID uint, month, year int) (*models.Payslip, error) {
	var p models.Payslip
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *payslipRepo) List(ctx context.Context, orgID uint, filter PayslipFilter) ([]models.Payslip, error) {
	q := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID))
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Year != 0 {
		q = q.Where("year = ?", filter.Year)
	}
	if filter.Month != 0 {
		q = q.Where("month = ?", filter.Month)
	}

	var payslips []models.Payslip
	err := q.Order("year DESC").Order("month DESC").Order("id DESC").Find(&payslips).Error
	return payslips, translate(err)
}

type leaveRepo struct {
	db *gorm.DB
}

func (r *leaveRepo) Create(ctx context.Context, l *models.Leave) error {
	return translate(r.db.WithContext(ctx).Create(l).Error)
}

func (r *leaveRepo) FindByID(ctx context.Context, orgID, id uint) (*models.Leave, error) {
	var l models.Leave
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Where("id = ?", id).
		First(&l).Error
	if err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (r *leaveRepo) Review(ctx context.Context, orgID, id uint, status models.LeaveStatus, reviewer uint, at time.Time) error {
	return applied(r.db.WithContext(ctx).Model(&models.Leave{}).Scopes(tenant.Scope(orgID)).
		Where("id = ? AND status = ?", id, models.LeavePending).
		Updates(map[string]any{
			"status":      status,
			"reviewed_at": at,
			"reviewed_by": reviewer,
		}))
}

// List returns the leaves of orgID, or of one user when userID is set.
func (r *leaveRepo) List(ctx context.Context, orgID, userID uint) ([]models.Leave, error) {
	q := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID))
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}

	var leaves []models.Leave
	err := q.Order("applied_at DESC").Order("id DESC").Find(&leaves).Error
	return leaves, translate(err)
}

func (r *leaveRepo) DeletePendingByUser(ctx context.Context, orgID, userID uint) error {
	return translate(r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Where("user_id = ? AND status = ?", userID, models.LeavePending).
		Delete(&models.Leave{}).Error)
}
