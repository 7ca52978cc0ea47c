package cache

import (
	"context"
	"time"
)

const (
	// FrontPageKey caches the first unfiltered page of the post listing.
	FrontPageKey = "posts:frontpage"
	// StatsKey caches the aggregate blog statistics.
	StatsKey = "stats"
)

const (
	FrontPageTTL = 1 * time.Minute
	StatsTTL     = 5 * time.Minute
)

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidatePosts drops every cached view derived from the post table.
func InvalidatePosts(ctx context.Context) {
	Invalidate(ctx, FrontPageKey, StatsKey)
}
