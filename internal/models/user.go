package models

import "time"

// Admin roles.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// User is a back-office account.
type User struct {
	ID                  uint        `gorm:"primaryKey" json:"id"`
	Username            string      `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password            string      `gorm:"size:255;not null" json:"-"`
	Role                string      `gorm:"size:16;not null;default:admin" json:"role"`
	Active              bool        `gorm:"not null" json:"active"`
	LastLogin           *time.Time  `json:"last_login"`
	FailedLoginAttempts int         `gorm:"not null;default:0" json:"failed_login_attempts"`
	LockedUntil         *time.Time  `json:"locked_until"`
	Tag                 string      `gorm:"size:64" json:"tag"`
	Permissions         Permissions `gorm:"type:text;serializer:json" json:"permissions"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// IsSuperAdmin reports whether the account holds the super admin capabilities.
func (u User) IsSuperAdmin() bool {
	return u.Permissions.IsSuperAdmin()
}

// IsLocked reports whether the lockout window is still running at now.
func (u User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// UserTag is a department label that can be attached to admin users.
type UserTag struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Active      bool      `gorm:"not null" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
