package jobs

import (
	"context"
	"time"

	"github.com/meridian-invest/meridian/internal/audit"
)

type stubTrailRepo struct {
	failures int64
	calls    int
}

func (r *stubTrailRepo) Insert(_ context.Context, rec audit.Record) (audit.Record, error) {
	return rec, nil
}

func (r *stubTrailRepo) List(_ context.Context, _ audit.Filters) ([]audit.Record, int, error) {
	return nil, 0, nil
}

func (r *stubTrailRepo) ListAll(_ context.Context, _ audit.Filters) ([]audit.Record, error) {
	return nil, nil
}

func (r *stubTrailRepo) CountFailuresSince(_ context.Context, _ time.Time) (int64, error) {
	r.calls++
	return r.failures, nil
}

func newAuditService(repo audit.Repository) *audit.Service {
	return audit.NewService(repo)
}
