package match

import (
	"context"
	"time"
)

// PayloadRepository persists the output of the previous run.
type PayloadRepository interface {
	// Load returns the previous payload; ok is false when none exists.
	Load(ctx context.Context) (payload Payload, ok bool, err error)
	Save(ctx context.Context, payload Payload) error
}

// FeedProvider fetches one upstream listing and maps it onto Match records.
// Records come back with ID, Sport and League already resolved.
type FeedProvider interface {
	Name() string
	Fetch(ctx context.Context, now time.Time) ([]Match, error)
}
