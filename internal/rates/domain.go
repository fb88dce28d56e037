package rates

import (
	"time"

	"github.com/meridian-invest/meridian/internal/shared"
)

// Rate is one exchange-rate quote for a currency pair. The newest
// effective_at per pair is the current rate.
type Rate struct {
	ID          int64     `json:"id"`
	Base        string    `json:"base"`
	Quote       string    `json:"quote"`
	Rate        float64   `json:"rate"`
	EffectiveAt time.Time `json:"effective_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filters narrows rate listings.
type Filters struct {
	shared.ListQuery
	Base  string
	Quote string
}
