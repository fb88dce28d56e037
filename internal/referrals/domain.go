package referrals

import (
	"time"

	"github.com/meridian-invest/meridian/internal/shared"
)

// Stat aggregates one referrer's performance.
type Stat struct {
	UserID        int64  `json:"user_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	ReferralCode  string `json:"referral_code"`
	TotalReferred int    `json:"total_referred"`
}

// Referred is one account signed up through a referral code.
type Referred struct {
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	JoinedAt  time.Time `json:"joined_at"`
}

// CodeOwner is the public view of a referral code.
type CodeOwner struct {
	Name         string `json:"name"`
	ReferralCode string `json:"referral_code"`
}

// Filters narrows referrer listings.
type Filters struct {
	shared.ListQuery
}
