package model

// Group represents a named collection of contacts within a tenant.
type Group struct {
	OwnedModel
	Name        string `json:"name" gorm:"type:varchar(100);not null"`
	Description string `json:"description" gorm:"type:text"`
	Color       string `json:"color" gorm:"type:varchar(20)"`

	// ContactCount is filled by the repository when listing; it is not a
	// column.
	ContactCount int64 `json:"contact_count" gorm:"-"`
}
