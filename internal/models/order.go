package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPicked    = "picked"
	OrderStatusInProcess = "in-process"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses lists every valid status in lifecycle order.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusPicked,
	OrderStatusInProcess,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Order is a laundry pickup booked by a user.
//
// ServiceID is an opaque reference: it is not required to resolve to a
// catalog Service so orders outlive catalog changes.
type Order struct {
	BaseModel
	UserID        uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	User          *User     `json:"user,omitempty"`
	ServiceID     string    `json:"serviceId"`
	ServiceName   string    `json:"serviceName"`
	PickupDate    time.Time `json:"pickupDate"`
	PickupTime    string    `json:"pickupTime"`
	Status        string    `gorm:"index;default:pending" json:"status"`
	Amount        float64   `json:"amount"`
	Address       string    `json:"address"`
	Notes         string    `json:"notes"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	PlacedAt      time.Time `gorm:"index" json:"placedAt"`
}

// ValidOrderStatus reports whether status is part of the order lifecycle.
func ValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Cancellable reports whether the order may still be cancelled.
func (o *Order) Cancellable() bool {
	return o.Status != OrderStatusDelivered && o.Status != OrderStatusCancelled
}
