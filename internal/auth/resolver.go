package auth

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"smspanel/internal/domain"
	"smspanel/internal/model"
)

// TenantResolver maps the Host header of a login request to the tenant whose
// user table should be searched. It is only consulted before a token exists.
type TenantResolver struct {
	db *gorm.DB
}

// NewTenantResolver creates a resolver bound to the given database handle.
func NewTenantResolver(db *gorm.DB) *TenantResolver {
	return &TenantResolver{db: db}
}

// ResolveByDomain strips any port suffix from the host header and looks up
// the tenant registered for exactly that domain. No wildcard or subdomain
// matching.
func (r *TenantResolver) ResolveByDomain(host string) (*model.Tenant, error) {
	domainName := host
	if i := strings.IndexByte(host, ':'); i >= 0 {
		domainName = host[:i]
	}
	if domainName == "" {
		return nil, domain.ErrTenantNotFound
	}

	var tenant model.Tenant
	err := r.db.Where("domain = ?", domainName).First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, err
	}

	return &tenant, nil
}
