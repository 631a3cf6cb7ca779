package model

// Blacklist represents a phone number a tenant must never message.
type Blacklist struct {
	OwnedModel
	Phone       string `json:"phone" gorm:"type:varchar(20);index;not null"`
	Description string `json:"description" gorm:"type:text"`
}
