package users

import (
	"time"

	"github.com/meridian-invest/meridian/internal/shared"
)

// User is a platform customer account managed by admins.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	Country      string    `json:"country"`
	ReferralCode string    `json:"referral_code"`
	ReferredBy   *int64    `json:"referred_by,omitempty"`
	Suspended    bool      `json:"suspended"`
	Blacklisted  bool      `json:"blacklisted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName joins the name fields for audit titles and exports.
func (u User) DisplayName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Filters narrows user listings.
type Filters struct {
	shared.ListQuery
	Blacklisted *bool
	Suspended   *bool
}
