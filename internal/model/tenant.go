package model

import (
	"time"

	"gorm.io/gorm"
)

// Tenant types. HOST is the operator running the panel, RESELLER and
// CUSTOMER are the reseller hierarchy below it.
const (
	TenantTypeHost     = "HOST"
	TenantTypeReseller = "RESELLER"
	TenantTypeCustomer = "CUSTOMER"
)

// Tenant represents the tenant model stored in the database.
// Every business record in the panel is partitioned by tenant ID, and the
// domain column decides which tenant a login request targets.
type Tenant struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Name       string         `json:"name" gorm:"type:varchar(100);not null"`
	Domain     string         `json:"domain" gorm:"type:varchar(255);uniqueIndex;not null"`
	Title      string         `json:"title" gorm:"type:varchar(255)"`
	TenantType string         `json:"tenant_type" gorm:"type:varchar(20);not null;default:'CUSTOMER'"`
	Credit     int            `json:"credit" gorm:"default:0"`
	Logo       string         `json:"logo,omitempty" gorm:"type:varchar(255)"`
	Favicon    string         `json:"favicon,omitempty" gorm:"type:varchar(255)"`
	IsActive   bool           `json:"is_active" gorm:"default:true"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// ValidTenantType reports whether t is one of the known tenant types.
func ValidTenantType(t string) bool {
	switch t {
	case TenantTypeHost, TenantTypeReseller, TenantTypeCustomer:
		return true
	}
	return false
}
