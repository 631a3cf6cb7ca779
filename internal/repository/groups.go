package repository

import (
	"gorm.io/gorm"

	"smspanel/internal/model"
)

// GroupRepository extends the generic tenant-scoped repository with contact
// counts for the listing view.
type GroupRepository struct {
	*Repository[model.Group, *model.Group]
	db *gorm.DB
}

// NewGroups creates the group repository. Groups list by name ascending.
func NewGroups(db *gorm.DB) *GroupRepository {
	return &GroupRepository{
		Repository: New[model.Group](db, "name ASC"),
		db:         db,
	}
}

// ListWithCounts returns the tenant's active groups with the number of
// active contacts linked to each.
func (r *GroupRepository) ListWithCounts(scope Scope) ([]model.Group, error) {
	groups, err := r.List(scope)
	if err != nil {
		return nil, err
	}

	counts, err := r.contactCounts(scope)
	if err != nil {
		return nil, err
	}

	for i := range groups {
		groups[i].ContactCount = counts[groups[i].ID]
	}
	return groups, nil
}

func (r *GroupRepository) contactCounts(scope Scope) (map[uint]int64, error) {
	type row struct {
		GroupID uint
		Total   int64
	}
	var rows []row
	err := r.db.Model(&model.ContactGroup{}).
		Select("contact_groups.group_id AS group_id, count(*) AS total").
		Joins("JOIN contacts ON contacts.id = contact_groups.contact_id").
		Where("contacts.tenant_id = ? AND contacts.is_active = ?", scope.TenantID, true).
		Group("contact_groups.group_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.GroupID] = r.Total
	}
	return counts, nil
}
