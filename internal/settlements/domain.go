package settlements

import (
	"time"

	"github.com/meridian-invest/meridian/internal/shared"
)

// Account is a platform-owned settlement account that customer deposits are
// reconciled against.
type Account struct {
	ID            int64     `json:"id"`
	Label         string    `json:"label"`
	BankName      string    `json:"bank_name"`
	AccountNumber string    `json:"account_number"`
	AccountName   string    `json:"account_name"`
	Currency      string    `json:"currency"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Filters narrows settlement account listings.
type Filters struct {
	shared.ListQuery
	Currency string
	Active   *bool
}
