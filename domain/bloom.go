package domain

import "context"

// BloomRepository answers "might this tweet exist" without touching the durable store.
type BloomRepository interface {
	// Add 将 tweet ID 加入过滤器
	Add(ctx context.Context, id int64) error

	// Exists reports whether the id may exist.
	// false means definitely absent, callers can answer 404 directly.
	// Before the filter is marked ready every id may exist.
	Exists(ctx context.Context, id int64) (bool, error)

	// BulkAdd is used to warm up the filter at startup.
	BulkAdd(ctx context.Context, ids []int64) error

	// Ready reports whether the filter was fully warmed and has not been lost since.
	Ready(ctx context.Context) (bool, error)

	// MarkReady is called after every stored id has been added.
	MarkReady(ctx context.Context) error
}
