package domain

import "context"

// LikeAggregateRepository persists aggregated like counts.
type LikeAggregateRepository interface {
	// GetLikeAggregate returns false if no likes were ever flushed for the tweet.
	GetLikeAggregate(ctx context.Context, tweetID int64) (int64, bool, error)

	// ApplyLikeDeltas adds every delta to its tweet's aggregate, creating missing
	// aggregates, in a single transaction. Either all deltas land or none do.
	// It returns the committed totals of the tweets that were updated.
	ApplyLikeDeltas(ctx context.Context, deltas map[int64]int64) (map[int64]int64, error)
}

// LikeBatcher coalesces likes in memory and flushes them periodically.
type LikeBatcher interface {
	Start()
	// AddLike never performs I/O.
	AddLike(tweetID int64)
	// Pending returns likes that are not yet visible in the durable store.
	Pending(tweetID int64) int64
	Flush(ctx context.Context) error
	Stop(ctx context.Context)
}
