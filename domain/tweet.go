package domain

import (
	"context"
	"time"
)

// TweetMaxLength is the maximum number of characters of a tweet body
const TweetMaxLength = 280

// Tweet is representing the Tweet data struct
type Tweet struct {
	ID        int64     // Unique identifier, assigned by the durable store
	Content   string    // Tweet body
	Account   Account   // Author, only ID is guaranteed to be filled by repositories
	LikeCount int64     // Aggregated likes, eventually consistent
	CreatedAt time.Time // Creation timestamp, also the recent-feed score
	UpdatedAt time.Time // Last edit timestamp
}

// TweetDBRepository defines the contract for tweet persistence in the durable store.
type TweetDBRepository interface {
	// Fetch returns tweets newest first, skipping the first `skip` rows.
	Fetch(ctx context.Context, skip, limit int64) ([]Tweet, error)

	// GetByID returns ErrNotFound if the tweet doesn't exist.
	GetByID(ctx context.Context, id int64) (Tweet, error)

	// Store creates the tweet and backfills ID, CreatedAt and UpdatedAt.
	Store(ctx context.Context, t *Tweet) error

	// Update changes the content and UpdatedAt of an existing tweet.
	// Returns ErrNotFound if the tweet doesn't exist.
	Update(ctx context.Context, t *Tweet) error

	// Delete removes the tweet together with its like aggregate.
	// Returns ErrNotFound if the tweet doesn't exist.
	Delete(ctx context.Context, id int64) error

	// FetchIDs pages through tweet ids greater than cursor in ascending order.
	FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error)

	// GetByIDs returns the tweets that exist among ids, in no particular order.
	GetByIDs(ctx context.Context, ids []int64) ([]Tweet, error)
}

// TweetCache is the read-through / write-through cache for single tweets plus
// the recent-feed index ordered by creation time.
//
// Every method is best effort: backend failures are logged and never returned,
// a failing Get behaves like a miss.
type TweetCache interface {
	// Get returns false on a miss.
	Get(ctx context.Context, id int64) (Tweet, bool)

	// Put overwrites the cached entry and upserts it into the recent-feed index.
	Put(ctx context.Context, t *Tweet)

	// Invalidate removes the cached entry and its index membership. Absent keys are fine.
	Invalidate(ctx context.Context, id int64)

	// Recent returns up to limit entries starting at rank skip, newest first.
	// Index members whose entry has gone are skipped.
	Recent(ctx context.Context, skip, limit int64) []Tweet

	// RecentReady reports whether the recent-feed index holds every tweet.
	// Until then Recent pages may have holes and must not be served.
	RecentReady(ctx context.Context) bool

	// MarkRecentReady is called once the index has been rebuilt from the durable store.
	MarkRecentReady(ctx context.Context)

	// SetLikeCounts overwrites like_count of entries that are currently cached.
	SetLikeCounts(ctx context.Context, totals map[int64]int64)
}

// TweetRepository coordinates the durable store and the cache.
type TweetRepository interface {
	Fetch(ctx context.Context, skip, limit int64) ([]Tweet, error)
	GetByID(ctx context.Context, id int64) (Tweet, error)
	Store(ctx context.Context, t *Tweet) error
	Update(ctx context.Context, t *Tweet) error
	Delete(ctx context.Context, id int64) error
	FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error)
	// WarmRecent rebuilds the recent-feed index from the durable store and marks it ready.
	WarmRecent(ctx context.Context) error
}

type TweetUsecase interface {
	Fetch(ctx context.Context, skip, limit int64) ([]Tweet, error)
	GetByID(ctx context.Context, id int64) (Tweet, error)
	Store(ctx context.Context, t *Tweet) error
	// Update only lets the owner (t.Account.ID) edit the content.
	Update(ctx context.Context, t *Tweet) error
	Delete(ctx context.Context, id int64, accountID int64) error
	// Like queues one like for aggregation. It never waits for the durable store.
	Like(ctx context.Context, id int64) error
	InitBloomFilter(ctx context.Context) error
	InitRecentFeed(ctx context.Context) error
}
