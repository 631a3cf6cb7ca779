// Package repository is the only place tenant filtering happens. Every
// query it runs is restricted to the tenant in the scope, every record it
// writes is stamped with that tenant, and a record owned by another tenant
// is reported as absent rather than forbidden.
package repository

import (
	"errors"

	"gorm.io/gorm"

	"smspanel/internal/domain"
)

// Scope identifies the authenticated tenant and user a request acts for.
// It is produced by the authorization gate and never taken from request
// bodies or query parameters.
type Scope struct {
	TenantID uint
	UserID   uint
}

// Record is implemented by every tenant-owned model (via model.OwnedModel).
type Record interface {
	RecordID() uint
	TenantRef() uint
	SetTenant(id uint)
	SetActive(active bool)
}

// Repository is a tenant-scoped data access wrapper for one owned record
// type. order is the resource's natural listing order.
type Repository[T any, PT interface {
	Record
	*T
}] struct {
	db    *gorm.DB
	order string
}

// New creates a repository for T ordered by the given clause when listing.
func New[T any, PT interface {
	Record
	*T
}](db *gorm.DB, order string) *Repository[T, PT] {
	return &Repository[T, PT]{db: db, order: order}
}

// List returns all active records of the scope's tenant in the repository's
// natural order.
func (r *Repository[T, PT]) List(scope Scope) ([]T, error) {
	var out []T
	err := r.db.
		Where("tenant_id = ? AND is_active = ?", scope.TenantID, true).
		Order(r.order).
		Find(&out).Error
	return out, err
}

// ListWhere returns the scope's active records narrowed by an extra
// condition.
func (r *Repository[T, PT]) ListWhere(scope Scope, query string, args ...interface{}) ([]T, error) {
	var out []T
	err := r.db.
		Where("tenant_id = ? AND is_active = ?", scope.TenantID, true).
		Where(query, args...).
		Order(r.order).
		Find(&out).Error
	return out, err
}

// Create persists rec for the scope's tenant. Any tenant ID already present
// on the record is overwritten; clients cannot create records under another
// tenant.
func (r *Repository[T, PT]) Create(scope Scope, rec PT) error {
	return create(r.db, scope, rec)
}

// BulkCreate applies Create semantics to every record inside a single
// transaction. If any insert fails nothing is committed.
func (r *Repository[T, PT]) BulkCreate(scope Scope, recs []PT) error {
	if len(recs) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, rec := range recs {
			if err := create(tx, scope, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// Find loads a record by ID and checks ownership. A missing record and a
// record owned by another tenant both come back as domain.ErrNotFound.
func (r *Repository[T, PT]) Find(scope Scope, id uint) (PT, error) {
	var zero PT

	var rec T
	pt := PT(&rec)
	if err := r.db.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, domain.ErrNotFound
		}
		return zero, err
	}
	if pt.TenantRef() != scope.TenantID {
		return zero, domain.ErrNotFound
	}
	return pt, nil
}

// Update applies the given column updates after the ownership check.
// tenant_id and id are never updatable.
func (r *Repository[T, PT]) Update(scope Scope, id uint, updates map[string]interface{}) (PT, error) {
	var zero PT

	rec, err := r.Find(scope, id)
	if err != nil {
		return zero, err
	}

	delete(updates, "id")
	delete(updates, "tenant_id")
	if len(updates) == 0 {
		return rec, nil
	}

	if err := r.db.Model(rec).Updates(updates).Error; err != nil {
		return zero, err
	}
	if err := r.db.First(rec, id).Error; err != nil {
		return zero, err
	}
	return rec, nil
}

// SoftDelete marks the record inactive after the ownership check. Deleting
// an already-inactive record succeeds and leaves it inactive.
func (r *Repository[T, PT]) SoftDelete(scope Scope, id uint) (PT, error) {
	var zero PT

	rec, err := r.Find(scope, id)
	if err != nil {
		return zero, err
	}

	if err := r.db.Model(rec).Update("is_active", false).Error; err != nil {
		return zero, err
	}
	rec.SetActive(false)
	return rec, nil
}

func create[PT Record](tx *gorm.DB, scope Scope, rec PT) error {
	rec.SetTenant(scope.TenantID)
	rec.SetActive(true)
	return tx.Create(rec).Error
}
