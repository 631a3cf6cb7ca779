package model

import (
	"time"

	"gorm.io/gorm"
)

// OwnedModel is embedded by every record that belongs to a tenant.
// It carries the tenant foreign key and the soft-delete flag, and exposes
// the accessors the tenant-scoped repository relies on to stamp and check
// ownership. Once a record is deactivated there is no reactivation path.
type OwnedModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TenantID  uint           `json:"tenant_id" gorm:"index;not null"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// RecordID returns the primary key.
func (m *OwnedModel) RecordID() uint { return m.ID }

// TenantRef returns the owning tenant ID.
func (m *OwnedModel) TenantRef() uint { return m.TenantID }

// SetTenant stamps the owning tenant ID.
func (m *OwnedModel) SetTenant(id uint) { m.TenantID = id }

// SetActive flips the soft-delete flag.
func (m *OwnedModel) SetActive(active bool) { m.IsActive = active }
