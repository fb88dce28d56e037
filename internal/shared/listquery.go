package shared

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
	dateLayout     = "2006-01-02"
)

// ListQuery carries the filtering convention shared by every listing
// endpoint: page/perpage, a free-text search term, and a time window.
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	From    time.Time
	To      time.Time
}

// ParseListQuery reads the shared listing parameters from the request,
// clamping page/perpage to sane bounds. Dates use YYYY-MM-DD; the `to` bound
// is advanced to the end of its day so the window is inclusive.
func ParseListQuery(r *http.Request) ListQuery {
	q := r.URL.Query()

	lq := ListQuery{Page: 1, PerPage: defaultPerPage}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		lq.Page = v
	}
	if v, err := strconv.Atoi(q.Get("perpage")); err == nil && v > 0 {
		lq.PerPage = v
	}
	if lq.PerPage > maxPerPage {
		lq.PerPage = maxPerPage
	}

	lq.Search = strings.TrimSpace(q.Get("search"))

	if v, err := time.Parse(dateLayout, q.Get("from")); err == nil {
		lq.From = v
	}
	if v, err := time.Parse(dateLayout, q.Get("to")); err == nil {
		lq.To = v.Add(24*time.Hour - time.Nanosecond)
	}
	return lq
}

// Offset returns the row offset for the current page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PerPage
}
