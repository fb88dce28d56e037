package notifications

import (
	"time"

	"github.com/meridian-invest/meridian/internal/shared"
)

// Delivery status of a notification.
const (
	StatusDraft      = "DRAFT"
	StatusQueued     = "QUEUED"
	StatusDispatched = "DISPATCHED"
)

// Audience selects who receives a notification.
const (
	AudienceAll  = "all"
	AudienceUser = "user"
)

// Notification is an announcement pushed to customers.
type Notification struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	Audience     string     `json:"audience"`
	UserID       *int64     `json:"user_id,omitempty"`
	Status       string     `json:"status"`
	DispatchedAt *time.Time `json:"dispatched_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Filters narrows notification listings.
type Filters struct {
	shared.ListQuery
	Status string
}
