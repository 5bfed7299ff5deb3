package models

import "time"

type UserRole string

const (
	RoleOwner UserRole = "owner"
	RoleStaff UserRole = "staff"
)

type Organization struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	OwnerID   *uint     `json:"owner_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// User.OrganizationID is nil only while an owner is being bootstrapped.
type User struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username       string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Role           UserRole  `gorm:"size:20;not null" json:"role"`
	OrganizationID *uint     `gorm:"index" json:"organization_id,omitempty"`
	Barcode        *string   `gorm:"size:64;uniqueIndex" json:"barcode,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
