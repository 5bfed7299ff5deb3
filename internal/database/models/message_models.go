package models

import "time"

type MessageKind string

const (
	MessageNormal  MessageKind = "normal"
	MessageWarning MessageKind = "warning"
	MessageReply   MessageKind = "reply"
)

// Message is a note between an owner and one of their staff. Owners send
// normal messages and warnings; staff answer with replies to the owner.
type Message struct {
	ID             uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID uint        `gorm:"not null;index" json:"organization_id"`
	SenderID       uint        `gorm:"not null;index" json:"sender_id"`
	ReceiverID     uint        `gorm:"not null;index" json:"receiver_id"`
	ParentID       *uint       `gorm:"index" json:"parent_id,omitempty"`
	Kind           MessageKind `gorm:"size:20;not null;default:normal" json:"type"`
	Body           string      `gorm:"type:text;not null" json:"message"`
	ReadAt         *time.Time  `json:"read_at,omitempty"`
	CreatedAt      time.Time   `gorm:"index" json:"created_at"`
}
