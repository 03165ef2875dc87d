package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status tracks the lifecycle of a pending booking record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
)

// SchedulingDetails captures everything needed to place a pickup on the
// calendar. Fields that could not be resolved carry the literal
// "Not provided" or "Not specified" — downstream summary generation depends
// on those exact strings.
type SchedulingDetails struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	PickupDate    string `json:"pickup_date"`
	PickupTime    string `json:"pickup_time"`
	PickupAddress string `json:"pickup_address"`
	ServiceType   string `json:"service_type"`
	Notes         string `json:"notes"`
	Urgency       string `json:"urgency"`
}

// PendingBooking is the per-conversation ephemeral record awaiting customer
// confirmation. At most one exists per conversation.
type PendingBooking struct {
	ID          uuid.UUID         `json:"id"`
	Details     SchedulingDetails `json:"details"`
	Status      Status            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	ConfirmedAt *time.Time        `json:"confirmed_at,omitempty"`
}

// Key identifies a conversation across tenants in the pending-booking store.
func Key(accountID string, conversationID int) string {
	return fmt.Sprintf("conv:%s:%d", accountID, conversationID)
}
