package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents the user model stored in the database.
// A user belongs to exactly one tenant; the username is unique within that
// tenant while the email is unique across the whole panel.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	FirstName string         `json:"first_name" gorm:"type:varchar(100)"`
	LastName  string         `json:"last_name" gorm:"type:varchar(100)"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Username  string         `json:"username" gorm:"type:varchar(50);not null;uniqueIndex:idx_tenant_username"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	TenantID  uint           `json:"tenant_id" gorm:"index;not null;uniqueIndex:idx_tenant_username"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// FullName returns the display name embedded in issued tokens.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
