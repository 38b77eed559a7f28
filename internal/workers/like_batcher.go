package workers

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/tweetfeed/domain"
)

// DefaultFlushInterval is used when NewLikeBatcher receives a non-positive interval
const DefaultFlushInterval = 5 * time.Second

type batcherState int8

const (
	stateIdle batcherState = iota
	stateRunning
	stateDraining
	stateStopped
)

func (s batcherState) String() string {
	switch s {
	case stateIdle:
		return "IDLE"
	case stateRunning:
		return "RUNNING"
	case stateDraining:
		return "DRAINING"
	case stateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// LikeCountSink receives the committed totals of every successful flush.
type LikeCountSink interface {
	SetLikeCounts(ctx context.Context, totals map[int64]int64)
}

type Option func(*likeBatcher)

// WithRequeueOnFailure merges a snapshot whose flush failed back into the live counters.
// Without it the failed batch is logged and dropped.
func WithRequeueOnFailure(requeue bool) Option {
	return func(b *likeBatcher) {
		b.requeue = requeue
	}
}

// WithLikeCountSink forwards committed totals, typically to the tweet cache.
func WithLikeCountSink(sink LikeCountSink) Option {
	return func(b *likeBatcher) {
		b.sink = sink
	}
}

// likeBatcher 在内存中合并点赞，定时批量写入数据库
//
// Lifecycle: IDLE -> RUNNING (Start) -> DRAINING (Stop) -> STOPPED.
// AddLike must not be called once Stop has returned.
type likeBatcher struct {
	store    domain.LikeAggregateRepository
	sink     LikeCountSink
	interval time.Duration
	requeue  bool

	// mu guards pending and inflight. No I/O happens while it is held.
	mu       sync.Mutex
	pending  map[int64]int64
	inflight map[int64]int64

	// flushMu keeps at most one flush body running.
	flushMu sync.Mutex

	lifeMu sync.Mutex
	state  batcherState
	cancel context.CancelFunc
	done   chan struct{}
}

var _ domain.LikeBatcher = (*likeBatcher)(nil)

func NewLikeBatcher(store domain.LikeAggregateRepository, interval time.Duration, opts ...Option) *likeBatcher {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	b := &likeBatcher{
		store:    store,
		interval: interval,
		pending:  make(map[int64]int64),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start begins periodic flushing. It is a no-op unless the batcher is idle.
func (b *likeBatcher) Start() {
	b.lifeMu.Lock()
	defer b.lifeMu.Unlock()

	if b.state != stateIdle {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.done = make(chan struct{})
	b.state = stateRunning

	go b.run(ctx)
	logrus.Infof("LikeBatcher running: flush every %s", b.interval)
}

func (b *likeBatcher) run(ctx context.Context) {
	defer close(b.done)

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// 刷写失败已在 Flush 内记录日志
			_ = b.Flush(context.Background())
		}
	}
}

func (b *likeBatcher) AddLike(tweetID int64) {
	b.mu.Lock()
	b.pending[tweetID]++
	b.mu.Unlock()
}

func (b *likeBatcher) Pending(tweetID int64) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending[tweetID] + b.inflight[tweetID]
}

// Flush snapshots and clears the counters, then writes the snapshot in one transaction.
// Likes arriving meanwhile accumulate into the fresh map for the next cycle.
func (b *likeBatcher) Flush(ctx context.Context) error {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	b.mu.Lock()
	if len(b.pending) == 0 {
		b.mu.Unlock()
		logrus.Debug("LikeBatcher flush called but no likes to process")
		return nil
	}
	batch := b.pending
	b.pending = make(map[int64]int64)
	b.inflight = batch
	b.mu.Unlock()

	var total int64
	for _, n := range batch {
		total += n
	}
	logger := logrus.WithFields(logrus.Fields{
		"likes":  total,
		"tweets": len(batch),
	})

	start := time.Now()
	totals, err := b.store.ApplyLikeDeltas(ctx, batch)
	if err == nil && b.sink != nil && len(totals) > 0 {
		b.sink.SetLikeCounts(ctx, totals)
	}

	b.mu.Lock()
	b.inflight = nil
	if err != nil && b.requeue {
		for id, n := range batch {
			b.pending[id] += n
		}
	}
	b.mu.Unlock()

	if err != nil {
		logger.WithField("requeued", b.requeue).Errorf("error flushing likes to the database: %v", err)
		return err
	}
	logger.WithField("duration", time.Since(start)).Info("LikeBatcher flush successful")
	return nil
}

// Stop cancels the periodic loop, waits for an in-progress flush and drains what is left.
// It returns after the final flush attempt, whatever its outcome.
func (b *likeBatcher) Stop(ctx context.Context) {
	b.lifeMu.Lock()
	defer b.lifeMu.Unlock()

	from := b.state
	switch b.state {
	case stateStopped, stateDraining:
		return
	case stateRunning:
		b.state = stateDraining
		b.cancel()
		<-b.done
	default:
		b.state = stateDraining
	}

	logrus.WithField("from", from).Info("shutting down LikeBatcher, flushing remaining likes...")
	_ = b.Flush(ctx)
	b.state = stateStopped
}
