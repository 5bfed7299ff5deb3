package store

import (
	"context"
	"time"

	"syntra-bizops/internal/database/models"
	"syntra-bizops/internal/tenant"

	"gorm.io/gorm"
)

type attendanceRepo struct {
	db *gorm.DB
}

func (r *attendanceRepo) Create(ctx context.Context, a *models.Attendance) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *attendanceRepo) FindByID(ctx context.Context, orgID, id uint) (*models.Attendance, error) {
	var a models.Attendance
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *attendanceRepo) FindForDay(ctx context.Context, orgID, userID uint, day string) (*models.Attendance, error) {
	var a models.Attendance
	err := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID)).
		Where("user_id = ? AND day = ?", userID, day).
		First(&a).Error
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *attendanceRepo) SetCheckIn(ctx context.Context, orgID, id uint, at time.Time, status models.AttendanceStatus) error {
	return applied(r.db.WithContext(ctx).Model(&models.Attendance{}).Scopes(tenant.Scope(orgID)).
		Where("id = ? AND check_in_time IS NULL", id).
		Updates(map[string]any{"check_in_time": at, "status": status}))
}

func (r *attendanceRepo) SetCheckOut(ctx context.Context, orgID, id uint, at time.Time) error {
	return applied(r.db.WithContext(ctx).Model(&models.Attendance{}).Scopes(tenant.Scope(orgID)).
		Where("id = ? AND check_out_time IS NULL", id).
		Update("check_out_time", at))
}

func (r *attendanceRepo) List(ctx context.Context, orgID uint, filter AttendanceFilter) ([]models.Attendance, error) {
	q := r.db.WithContext(ctx).Scopes(tenant.Scope(orgID))
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.FromDay != "" {
		q = q.Where("day >= ?", filter.FromDay)
	}
	if filter.ToDay != "" {
		q = q.Where("day <= ?", filter.ToDay)
	}

	var records []models.Attendance
	err := q.Order("date DESC").Order("id DESC").Find(&records).Error
	return records, translate(err)
}
