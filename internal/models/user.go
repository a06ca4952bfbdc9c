package models

import (
	"time"
)

// User is a customer identified by a verified phone number.
type User struct {
	BaseModel
	PhoneNumber       string     `gorm:"size:10;uniqueIndex;not null" json:"phoneNumber"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Address           string     `json:"address"`
	OTP               *string    `gorm:"column:otp" json:"-"`
	OTPExpiry         *time.Time `gorm:"column:otp_expiry" json:"-"`
	IsVerified        bool       `gorm:"default:false" json:"isVerified"`
	SmsPermission     bool       `gorm:"default:false" json:"smsPermission"`
	ContactPermission bool       `gorm:"default:false" json:"contactPermission"`
	IsProfileComplete bool       `gorm:"default:false" json:"isProfileComplete"`
	DeviceToken       string     `json:"deviceToken,omitempty"`

	// Legacy embedded copies kept for older clients; Contact and Sms tables are authoritative.
	Contacts []UserContact `gorm:"serializer:json;type:text" json:"contacts,omitempty"`
	SmsLogs  []UserSmsLog  `gorm:"serializer:json;type:text" json:"smsLogs,omitempty"`
}

// UserContact is the legacy embedded contact entry.
type UserContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// UserSmsLog is the legacy embedded SMS entry.
type UserSmsLog struct {
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
	Sender  string    `json:"sender"`
}

// ProfileComplete reports whether the fields needed for a pickup are present.
func (u *User) ProfileComplete() bool {
	return u.Name != "" && u.Address != ""
}
