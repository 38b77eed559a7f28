package workers

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultWarmInterval is used when NewCacheWarmer receives a non-positive interval
const DefaultWarmInterval = time.Minute

// WarmTask rebuilds one redis structure whose readiness marker has gone,
// e.g. after a FLUSHALL or an eviction.
type WarmTask struct {
	Name  string
	Ready func(ctx context.Context) bool
	Warm  func(ctx context.Context) error
}

// cacheWarmer 定期检查预热标记，缺失时从数据库重建
type cacheWarmer struct {
	tasks    []WarmTask
	interval time.Duration

	lifeMu  sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewCacheWarmer(interval time.Duration, tasks ...WarmTask) *cacheWarmer {
	if interval <= 0 {
		interval = DefaultWarmInterval
	}
	return &cacheWarmer{
		tasks:    tasks,
		interval: interval,
	}
}

// Start begins the periodic check. Calling it on a running warmer is a no-op.
func (w *cacheWarmer) Start() {
	w.lifeMu.Lock()
	defer w.lifeMu.Unlock()

	if w.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	w.running = true

	go w.run(ctx)
	logrus.Infof("CacheWarmer running: check every %s", w.interval)
}

func (w *cacheWarmer) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}

// Check runs Warm for every task that is not ready. Failures are logged and retried on the next tick.
func (w *cacheWarmer) Check(ctx context.Context) {
	for _, task := range w.tasks {
		if task.Ready(ctx) {
			continue
		}

		logger := logrus.WithField("task", task.Name)
		logger.Warn("cache not ready, warming up")
		start := time.Now()
		if err := task.Warm(ctx); err != nil {
			logger.Errorf("failed to warm cache: %v", err)
			continue
		}
		logger.WithField("duration", time.Since(start)).Info("cache warmed")
	}
}

// Stop cancels the loop and waits for an in-progress check to return.
func (w *cacheWarmer) Stop() {
	w.lifeMu.Lock()
	defer w.lifeMu.Unlock()

	if !w.running {
		return
	}
	w.cancel()
	<-w.done
	w.running = false
}
