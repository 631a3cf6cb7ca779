package model

// SMS message statuses. Messages are only ever queued here; handing them to
// a transport is outside this service.
const (
	SmsStatusPending = "PENDING"
)

// SmsMessage represents a queued SMS for one recipient.
type SmsMessage struct {
	OwnedModel
	TitleID uint   `json:"title_id" gorm:"index;not null"`
	Phone   string `json:"phone" gorm:"type:varchar(20);not null"`
	Body    string `json:"body" gorm:"type:text;not null"`
	Status  string `json:"status" gorm:"type:varchar(20);not null;default:'PENDING'"`
	Cost    int    `json:"cost" gorm:"default:1"`
}
