package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact is an address-book entry synced from a user's device.
type Contact struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_contacts_user_phone" json:"userId"`
	Name        string    `json:"name"`
	PhoneNumber string    `gorm:"not null;uniqueIndex:idx_contacts_user_phone" json:"phoneNumber"`
	Email       string    `json:"email,omitempty"`
	SyncedAt    time.Time `json:"syncedAt"`
}
