package audit

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-invest/meridian/internal/shared"
)

// ActivityType categorises what kind of action was performed.
type ActivityType string

// ActivityStatus records the outcome of the action.
type ActivityStatus string

const (
	ActivityAccess   ActivityType = "ACCESS"
	ActivityAudit    ActivityType = "AUDIT"
	ActivityDownload ActivityType = "DOWNLOAD"

	StatusSuccess ActivityStatus = "SUCCESS"
	StatusFailure ActivityStatus = "FAILURE"
)

// Record is one immutable audit-trail row. Actor name and request metadata
// are snapshots taken at write time; later changes to the actor never alter
// historical records.
type Record struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	ActorID   int64          `json:"actor_id"`
	ActorName string         `json:"actor_name"`
	Type      ActivityType   `json:"activity_type"`
	Status    ActivityStatus `json:"activity_status"`
	Headers   http.Header    `json:"headers"`
	Payload   map[string]any `json:"payload,omitempty"`
	SourceIP  string         `json:"source_ip"`
	Path      string         `json:"path"`
	CreatedAt time.Time      `json:"created_at"`
}

// Filters narrows audit listings: the shared time-window/search/paging
// convention plus the two categorical columns.
type Filters struct {
	shared.ListQuery
	Type   ActivityType
	Status ActivityStatus
}
