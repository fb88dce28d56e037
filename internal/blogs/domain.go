package blogs

import (
	"time"

	"github.com/meridian-invest/meridian/internal/shared"
)

// Publication states.
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
)

// Post is an editorial article shown on the landing site once published.
type Post struct {
	ID          int64      `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	CoverURL    string     `json:"cover_url,omitempty"`
	Status      string     `json:"status"`
	AuthorID    int64      `json:"author_id"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Filters narrows post listings.
type Filters struct {
	shared.ListQuery
	Status string
}
