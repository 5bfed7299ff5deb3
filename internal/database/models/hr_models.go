package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "INR"

type Salary struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint            `gorm:"not null;uniqueIndex" json:"user_id"`
	OrganizationID uint            `gorm:"not null;index" json:"organization_id"`
	BaseSalary     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_salary"`
	Currency       string          `gorm:"size:3;not null;default:INR" json:"currency"`
	EffectiveFrom  time.Time       `gorm:"not null" json:"effective_from"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type Payslip struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint            `gorm:"not null;uniqueIndex:idx_payslip_period" json:"user_id"`
	OrganizationID uint            `gorm:"not null;index" json:"organization_id"`
	Month          int             `gorm:"not null;uniqueIndex:idx_payslip_period" json:"month"`
	Year           int             `gorm:"not null;uniqueIndex:idx_payslip_period" json:"year"`
	BaseSalary     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_salary"`
	Currency       string          `gorm:"size:3;not null" json:"currency"`
	WorkingDays    int             `gorm:"not null" json:"working_days"`
	DaysPresent    int             `gorm:"not null" json:"days_present"`
	DaysAbsent     int             `gorm:"not null" json:"days_absent"`
	DaysLate       int             `gorm:"not null" json:"days_late"`
	Deductions     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"deductions"`
	NetSalary      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"net_salary"`
	GeneratedAt    time.Time       `gorm:"not null" json:"generated_at"`
}

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

type Leave struct {
	ID             uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint        `gorm:"not null;index" json:"user_id"`
	OrganizationID uint        `gorm:"not null;index" json:"organization_id"`
	LeaveType      string      `gorm:"size:50;not null" json:"leave_type"`
	StartDate      time.Time   `gorm:"not null" json:"start_date"`
	EndDate        time.Time   `gorm:"not null" json:"end_date"`
	Reason         string      `gorm:"type:text" json:"reason,omitempty"`
	Status         LeaveStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	AppliedAt      time.Time   `gorm:"not null" json:"applied_at"`
	ReviewedAt     *time.Time  `json:"reviewed_at,omitempty"`
	ReviewedBy     *uint       `json:"reviewed_by,omitempty"`
}
