package rates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/meridian-invest/meridian/internal/platform/httpx"
)

type stubRepo struct {
	byID   map[int64]*Rate
	nextID int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{byID: make(map[int64]*Rate), nextID: 1}
}

func (r *stubRepo) List(_ context.Context, _ Filters) ([]Rate, int, error) {
	var list []Rate
	for _, rate := range r.byID {
		list = append(list, *rate)
	}
	return list, len(list), nil
}

func (r *stubRepo) Get(_ context.Context, id int64) (*Rate, error) {
	rate, ok := r.byID[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *rate
	return &copied, nil
}

func (r *stubRepo) Current(_ context.Context, base, quote string) (*Rate, error) {
	var latest *Rate
	for _, rate := range r.byID {
		if rate.Base != base || rate.Quote != quote {
			continue
		}
		if latest == nil || rate.EffectiveAt.After(latest.EffectiveAt) {
			latest = rate
		}
	}
	if latest == nil {
		return nil, httpx.ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

func (r *stubRepo) Create(_ context.Context, rate *Rate) (*Rate, error) {
	rate.ID = r.nextID
	r.nextID++
	r.byID[rate.ID] = rate
	copied := *rate
	return &copied, nil
}

func (r *stubRepo) Update(_ context.Context, rate *Rate) (*Rate, error) {
	existing, ok := r.byID[rate.ID]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	existing.Rate = rate.Rate
	existing.EffectiveAt = rate.EffectiveAt
	copied := *existing
	return &copied, nil
}

func (r *stubRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func TestCreateNormalizesPair(t *testing.T) {
	svc := NewService(newStubRepo())

	rate, err := svc.Create(context.Background(), Rate{Base: "usd", Quote: "ngn", Rate: 1520.5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rate.Base != "USD" || rate.Quote != "NGN" {
		t.Fatalf("pair not normalized: %s/%s", rate.Base, rate.Quote)
	}
	if rate.EffectiveAt.IsZero() {
		t.Fatal("zero effective time must default to now")
	}
}

func TestCreateRejectsBadPairs(t *testing.T) {
	svc := NewService(newStubRepo())

	cases := []Rate{
		{Base: "USD", Quote: "USD", Rate: 1},
		{Base: "US", Quote: "NGN", Rate: 1},
		{Base: "USD", Quote: "ZZZ", Rate: 1},
		{Base: "USD", Quote: "NGN", Rate: 0},
		{Base: "USD", Quote: "NGN", Rate: -3},
	}
	for i, rate := range cases {
		if _, err := svc.Create(context.Background(), rate); !errors.Is(err, httpx.ErrValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestCurrentPicksNewestEffective(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	old := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Create(context.Background(), Rate{Base: "USD", Quote: "NGN", Rate: 1500, EffectiveAt: old}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), Rate{Base: "USD", Quote: "NGN", Rate: 1520, EffectiveAt: old.Add(24 * time.Hour)}); err != nil {
		t.Fatalf("create: %v", err)
	}

	current, err := svc.Current(context.Background(), "usd", "ngn")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.Rate != 1520 {
		t.Fatalf("expected newest quote, got %v", current.Rate)
	}
}

func TestCurrentUnknownPair(t *testing.T) {
	svc := NewService(newStubRepo())
	if _, err := svc.Current(context.Background(), "EUR", "JPY"); !errors.Is(err, httpx.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
