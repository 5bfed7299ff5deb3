package models

import "time"

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "Present"
	StatusLate    AttendanceStatus = "Late"
	StatusAbsent  AttendanceStatus = "Absent"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent:
		return true
	}
	return false
}

type MarkingSource string

const (
	MarkedManual  MarkingSource = "manual"
	MarkedBarcode MarkingSource = "barcode"
)

// DayLayout is the layout of Attendance.Day, the calendar day in UTC.
const DayLayout = "2006-01-02"

// Attendance is one user's record for one calendar day.
type Attendance struct {
	ID             uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint             `gorm:"not null;uniqueIndex:idx_attendance_user_day" json:"user_id"`
	OrganizationID uint             `gorm:"not null;index" json:"organization_id"`
	Day            string           `gorm:"size:10;not null;uniqueIndex:idx_attendance_user_day" json:"day"`
	Date           time.Time        `gorm:"not null;index" json:"date"`
	CheckInTime    *time.Time       `json:"check_in_time,omitempty"`
	CheckOutTime   *time.Time       `json:"check_out_time,omitempty"`
	Status         AttendanceStatus `gorm:"size:10;not null" json:"status"`
	MarkedBy       MarkingSource    `gorm:"size:20;not null;default:manual" json:"marked_by"`
	Barcode        *string          `gorm:"size:64" json:"barcode,omitempty"`
}

func (Attendance) TableName() string {
	return "attendance"
}
