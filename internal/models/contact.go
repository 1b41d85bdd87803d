package models

import (
	"time"

	"gorm.io/gorm"
)

// Contact submission statuses.
const (
	ContactStatusNew       = "new"
	ContactStatusRead      = "read"
	ContactStatusResponded = "responded"
)

// ValidContactStatus reports whether s is a known workflow status.
func ValidContactStatus(s string) bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusResponded:
		return true
	}
	return false
}

// Contact is a message submitted through the public contact form.
type Contact struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Email       string         `gorm:"not null" json:"email"`
	Phone       string         `json:"phone"`
	Subject     string         `gorm:"not null" json:"subject"`
	Message     string         `gorm:"type:text;not null" json:"message"`
	Status      string         `gorm:"not null;default:new;index" json:"status"`
	RespondedBy *uint          `json:"responded_by,omitempty"`
	RespondedAt *time.Time     `json:"responded_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
