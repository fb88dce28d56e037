package banks

import (
	"time"

	"github.com/meridian-invest/meridian/internal/shared"
)

// Account is a customer's payout bank account.
type Account struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	BankName      string    `json:"bank_name"`
	BankCode      string    `json:"bank_code"`
	AccountNumber string    `json:"account_number"`
	AccountName   string    `json:"account_name"`
	Currency      string    `json:"currency"`
	Verified      bool      `json:"verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Filters narrows bank account listings.
type Filters struct {
	shared.ListQuery
	UserID   *int64
	Verified *bool
}
