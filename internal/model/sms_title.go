package model

// Sender title types. Alphanumeric titles show a name on the handset,
// numeric titles show a phone number.
const (
	TitleTypeAlphanumeric = "ALPHANUMERIC"
	TitleTypeNumeric      = "NUMERIC"
)

// MaxTitleLength is the GSM limit for an alphanumeric sender ID.
const MaxTitleLength = 11

// SmsTitle represents a registered SMS sender title for a tenant.
type SmsTitle struct {
	OwnedModel
	Title     string `json:"title" gorm:"type:varchar(11);not null"`
	TitleType string `json:"title_type" gorm:"type:varchar(20);not null;default:'ALPHANUMERIC'"`
}

// ValidTitleType reports whether t is a known sender title type.
func ValidTitleType(t string) bool {
	return t == TitleTypeAlphanumeric || t == TitleTypeNumeric
}
