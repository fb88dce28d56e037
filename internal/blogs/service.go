package blogs

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
	"github.com/meridian-invest/meridian/internal/shared"
)

// Service coordinates blog post administration.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns one page of posts for the admin view.
func (s *Service) List(ctx context.Context, filters Filters) ([]Post, shared.Pagination, error) {
	list, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list posts: %w", err)
	}
	return list, shared.NewPagination(filters.Page, filters.PerPage, total), nil
}

// ListPublished returns one page of published posts for the landing site.
func (s *Service) ListPublished(ctx context.Context, filters Filters) ([]Post, shared.Pagination, error) {
	list, total, err := s.repo.ListPublished(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list published posts: %w", err)
	}
	return list, shared.NewPagination(filters.Page, filters.PerPage, total), nil
}

// Get loads one post by id.
func (s *Service) Get(ctx context.Context, id int64) (*Post, error) {
	return s.repo.Get(ctx, id)
}

// GetPublished loads one published post by slug. Drafts resolve as not found
// so unpublished work never leaks to the landing site.
func (s *Service) GetPublished(ctx context.Context, slug string) (*Post, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusPublished {
		return nil, httpx.ErrNotFound
	}
	return p, nil
}

// Create stores a new draft. An empty slug is derived from the title.
func (s *Service) Create(ctx context.Context, p Post) (*Post, error) {
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if p.Slug == "" {
		return nil, fmt.Errorf("%w: a slug could not be derived from the title", httpx.ErrValidation)
	}
	p.Status = StatusDraft
	p.PublishedAt = nil
	return s.repo.Create(ctx, &p)
}

// Update rewrites a post's content. Publication state is changed through
// Publish/Unpublish only.
func (s *Service) Update(ctx context.Context, p Post) (*Post, error) {
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	return s.repo.Update(ctx, &p)
}

// Publish makes the post visible on the landing site.
func (s *Service) Publish(ctx context.Context, id int64) (*Post, error) {
	now := s.now().UTC()
	if err := s.repo.SetStatus(ctx, id, StatusPublished, &now); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Unpublish returns the post to draft.
func (s *Service) Unpublish(ctx context.Context, id int64) (*Post, error) {
	if err := s.repo.SetStatus(ctx, id, StatusDraft, nil); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes a post.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the title and collapses runs of non-alphanumerics into
// single hyphens.
func Slugify(title string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
