package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SmsTypeInbox = "inbox"
	SmsTypeSent  = "sent"
)

// Sms is a message log entry synced from a user's device.
type Sms struct {
	BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sms_user_sms" json:"userId"`
	SmsID   string    `gorm:"not null;uniqueIndex:idx_sms_user_sms" json:"smsId"`
	Address string    `gorm:"index" json:"address"`
	Body    string    `json:"body"`
	Date    time.Time `gorm:"index" json:"date"`
	Type    string    `gorm:"index;default:inbox" json:"type"`
}

// TableName keeps the table singular to match the device payload naming.
func (Sms) TableName() string {
	return "sms"
}
