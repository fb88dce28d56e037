package faqs

import (
	"time"

	"github.com/meridian-invest/meridian/internal/shared"
)

// FAQ is a question/answer entry shown on the landing site.
type FAQ struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Category  string    `json:"category"`
	Position  int       `json:"position"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Filters narrows FAQ listings.
type Filters struct {
	shared.ListQuery
	Category  string
	Published *bool
}
