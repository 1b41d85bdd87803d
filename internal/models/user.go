// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is a user's position in the congregation.
type Role string

const (
	RoleMember Role = "member"
	RoleLeader Role = "leader"
	RolePastor Role = "pastor"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleMember, RoleLeader, RolePastor:
		return true
	}
	return false
}

// Elevated reports whether the role carries moderation and publishing rights.
func (r Role) Elevated() bool {
	return r == RoleLeader || r == RolePastor
}

// User account statuses.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User represents a member of the Glory Harbor community.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"unique;not null" json:"email"`
	Password     string         `gorm:"not null" json:"-"`
	FirstName    string         `gorm:"not null" json:"first_name"`
	LastName     string         `gorm:"not null" json:"last_name"`
	Role         Role           `gorm:"not null;default:member" json:"role"`
	Status       string         `gorm:"not null;default:active" json:"status"`
	AvatarURL    string         `json:"avatar_url"`
	Availability []Availability `gorm:"foreignKey:UserID" json:"availability,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Availability is a weekly serving slot a leader or member has offered.
type Availability struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"-"`
	Day    string `gorm:"not null" json:"day"`
	Start  string `json:"start"`
	End    string `json:"end"`
}
