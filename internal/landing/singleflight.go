package landing

import (
	"context"

	"golang.org/x/sync/singleflight"
)

var rateLookupGroup singleflight.Group

// singleflightRate collapses concurrent lookups for the same currency pair
// into one database round trip. Anonymous traffic tends to hammer a handful
// of popular pairs.
func singleflightRate(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	resultChan := rateLookupGroup.DoChan(key, func() (interface{}, error) {
		return fn(ctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		return res.Val, res.Err
	}
}
