package model

// Contact represents an SMS recipient stored in a tenant's phone book.
type Contact struct {
	OwnedModel
	FirstName  string `json:"first_name" gorm:"type:varchar(100)"`
	LastName   string `json:"last_name" gorm:"type:varchar(100)"`
	Phone      string `json:"phone" gorm:"type:varchar(20);index;not null"`
	Email      string `json:"email" gorm:"type:varchar(100)"`
	Department string `json:"department" gorm:"type:varchar(100)"`
	Title      string `json:"title" gorm:"type:varchar(100)"`
	Notes      string `json:"notes" gorm:"type:text"`
}

// ContactGroup links a contact to a group. Link rows are created inside the
// same transaction as their contact and carry no tenant ID of their own;
// ownership is derived from the contact.
type ContactGroup struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	ContactID uint `json:"contact_id" gorm:"index;not null;uniqueIndex:idx_contact_group"`
	GroupID   uint `json:"group_id" gorm:"index;not null;uniqueIndex:idx_contact_group"`
}
