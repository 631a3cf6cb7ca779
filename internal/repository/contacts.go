package repository

import (
	"errors"

	"gorm.io/gorm"

	"smspanel/internal/domain"
	"smspanel/internal/model"
)

// ContactImportItem is one row of a spreadsheet import. GroupID is optional;
// when set, the contact is linked to that group in the same transaction.
type ContactImportItem struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Title      string `json:"title"`
	Notes      string `json:"notes"`
	GroupID    uint   `json:"group_id,omitempty"`
}

// ContactRepository extends the generic tenant-scoped repository with the
// bulk import operation.
type ContactRepository struct {
	*Repository[model.Contact, *model.Contact]
	db *gorm.DB
}

// NewContacts creates the contact repository. Contacts list newest first.
func NewContacts(db *gorm.DB) *ContactRepository {
	return &ContactRepository{
		Repository: New[model.Contact](db, "created_at DESC"),
		db:         db,
	}
}

// Import creates every contact, and its optional group link, as one atomic
// unit. Any invalid item or a group the tenant does not own aborts the whole
// batch; nothing is committed partially.
func (r *ContactRepository) Import(scope Scope, items []ContactImportItem) ([]model.Contact, error) {
	if len(items) == 0 {
		return nil, domain.Validationf("no contacts to import")
	}

	var created []model.Contact
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for i, item := range items {
			if item.Phone == "" {
				return domain.Validationf("contact %d: phone is required", i+1)
			}

			contact := model.Contact{
				FirstName:  item.FirstName,
				LastName:   item.LastName,
				Phone:      item.Phone,
				Email:      item.Email,
				Department: item.Department,
				Title:      item.Title,
				Notes:      item.Notes,
			}
			if err := create(tx, scope, &contact); err != nil {
				return err
			}

			if item.GroupID != 0 {
				var group model.Group
				err := tx.
					Where("id = ? AND tenant_id = ? AND is_active = ?", item.GroupID, scope.TenantID, true).
					First(&group).Error
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return domain.ErrNotFound
					}
					return err
				}
				link := model.ContactGroup{ContactID: contact.ID, GroupID: group.ID}
				if err := tx.Create(&link).Error; err != nil {
					return err
				}
			}

			created = append(created, contact)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
