// Package cache provides a generic TTL cache-aside helper. The insight cache
// (24 h) and the subscription status cache (1 h) share its semantics: serve
// fresh-enough cached data, refresh when stale, and degrade to last-known
// data when the refresh source fails.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Source tags which path produced a lookup result, so callers and tests can
// assert cache behaviour instead of guessing from timestamps.
type Source string

const (
	// SourceHit means the cached value was fresh enough and returned as-is.
	SourceHit Source = "hit"
	// SourceRefreshed means the value was recomputed or refetched.
	SourceRefreshed Source = "refreshed"
	// SourceStale means the refresh failed and the stale cached value was
	// returned as a fallback.
	SourceStale Source = "stale"
)

// Lookup resolves a value through the cache-aside pattern:
//
//  1. read the cached value; if present and younger than ttl, return it;
//  2. otherwise refresh from the source of truth, persist through store and
//     return the fresh value;
//  3. if the refresh fails but a cached value exists, return it stale.
//
// The returned error is non-nil only when there is neither a usable cache
// entry nor a successful refresh. A store failure does not discard a
// successful refresh; the fresh value still wins.
func Lookup[T any](
	ctx context.Context,
	ttl time.Duration,
	read func(ctx context.Context) (*T, time.Time, error),
	refresh func(ctx context.Context) (*T, error),
	store func(ctx context.Context, value *T) error,
) (*T, Source, error) {
	cached, cachedAt, err := read(ctx)
	if err != nil {
		// A broken cache read degrades to a plain refresh.
		cached = nil
	}
	if cached != nil && time.Since(cachedAt) < ttl {
		return cached, SourceHit, nil
	}

	fresh, err := refresh(ctx)
	if err != nil {
		if cached != nil {
			return cached, SourceStale, nil
		}
		return nil, "", fmt.Errorf("refresh failed with no cached fallback: %w", err)
	}

	if store != nil {
		// Best effort: losing the cache write costs a future recompute,
		// not correctness.
		_ = store(ctx, fresh)
	}
	return fresh, SourceRefreshed, nil
}
