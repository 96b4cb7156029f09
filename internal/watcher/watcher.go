// Package watcher runs the periodic fetch, filter, notify pipeline.
package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-mostaql-watcher/internal/dedup"
	"go-mostaql-watcher/internal/filter"
	"go-mostaql-watcher/internal/metrics"
	"go-mostaql-watcher/internal/scraper"
)

const (
	DefaultMaxItems     = 25
	DefaultInterval     = 45 * time.Second
	DefaultInitialDelay = 3 * time.Second
)

// Notifier delivers projects and cycle failure reports to the chat.
type Notifier interface {
	SendProject(ctx context.Context, p scraper.Project) error
	SendError(ctx context.Context, err error) error
}

type Options struct {
	Interval     time.Duration
	InitialDelay time.Duration
	MaxItems     int
}

// Status is a snapshot of the last cycle, for the health endpoint.
type Status struct {
	Running      bool      `json:"running"`
	Cycles       int64     `json:"cycles"`
	LastStarted  time.Time `json:"last_started,omitempty"`
	LastFinished time.Time `json:"last_finished,omitempty"`
	LastError    string    `json:"last_error,omitempty"`
	LastNotified int       `json:"last_notified"`
}

type Watcher struct {
	lister    scraper.Lister
	extractor scraper.Extractor
	store     dedup.Store
	notifier  Notifier
	metrics   *metrics.Metrics
	logger    *zap.Logger
	opts      Options

	mu     sync.Mutex
	status Status
}

func New(
	lister scraper.Lister,
	extractor scraper.Extractor,
	store dedup.Store,
	notifier Notifier,
	m *metrics.Metrics,
	logger *zap.Logger,
	opts Options,
) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = DefaultInitialDelay
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultMaxItems
	}
	return &Watcher{
		lister:    lister,
		extractor: extractor,
		store:     store,
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
		opts:      opts,
	}
}

// Run waits InitialDelay, then runs a cycle every Interval until ctx is cancelled.
// Cycles never overlap: ticks that fire while a cycle is running are dropped.
// A failed cycle is reported and the loop carries on.
func (w *Watcher) Run(ctx context.Context) {
	w.logger.Info("watcher started",
		zap.Duration("interval", w.opts.Interval),
		zap.Duration("initial_delay", w.opts.InitialDelay),
		zap.Int("max_items", w.opts.MaxItems))

	delay := time.NewTimer(w.opts.InitialDelay)
	defer delay.Stop()
	select {
	case <-ctx.Done():
		w.logger.Info("watcher stopping")
		return
	case <-delay.C:
	}

	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	for {
		w.tick(ctx)
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopping")
			return
		case <-ticker.C:
		}
	}
}

// tick runs one cycle and absorbs its failure.
func (w *Watcher) tick(ctx context.Context) {
	cycleID := uuid.NewString()
	log := w.logger.With(zap.String("cycle_id", cycleID))

	if err := w.RunCycle(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Error("watcher cycle failed", zap.Error(err))
		if sendErr := w.notifier.SendError(ctx, err); sendErr != nil {
			log.Warn("failed to report cycle error", zap.Error(sendErr))
		}
	}
}

// RunCycle performs one listing → dedupe → detail → filter → notify pass.
// Links are processed one at a time, in listing order. A listing, detail, or
// store failure aborts the rest of the cycle; unprocessed links stay unseen.
func (w *Watcher) RunCycle(ctx context.Context) (err error) {
	started := time.Now()
	w.begin(started)
	notified := 0
	defer func() {
		w.finish(err, notified)
		w.metrics.ObserveCycle(err, time.Since(started).Seconds())
	}()

	links, err := w.lister.FetchLinks(ctx)
	if err != nil {
		return err
	}
	if len(links) > w.opts.MaxItems {
		links = links[:w.opts.MaxItems]
	}
	w.logger.Debug("listing fetched", zap.Int("links", len(links)))

	for _, link := range links {
		seen, err := w.store.Has(ctx, link)
		if err != nil {
			return err
		}
		if seen {
			w.metrics.ObserveItem(metrics.OutcomeSeen)
			continue
		}

		project, err := w.extractor.FetchDetail(ctx, link)
		if err != nil {
			return err
		}

		if !filter.IsOverThreshold(project.Budget) {
			w.logger.Debug("project below budget threshold",
				zap.String("url", link), zap.String("budget", project.Budget))
			w.metrics.ObserveItem(metrics.OutcomeFiltered)
			if err := w.store.Add(ctx, link); err != nil {
				return err
			}
			continue
		}

		// Marked seen even when the send fails: no duplicate spam over guaranteed delivery.
		if sendErr := w.notifier.SendProject(ctx, project); sendErr != nil {
			w.logger.Warn("failed to send project", zap.String("url", link), zap.Error(sendErr))
			w.metrics.ObserveItem(metrics.OutcomeSendFailed)
		} else {
			w.logger.Info("project sent",
				zap.String("url", link), zap.String("title", project.Title), zap.String("budget", project.Budget))
			w.metrics.ObserveItem(metrics.OutcomeNotified)
			notified++
		}

		if err := w.store.Add(ctx, link); err != nil {
			return err
		}
	}

	return nil
}

func (w *Watcher) begin(at time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status.Running = true
	w.status.LastStarted = at
}

func (w *Watcher) finish(err error, notified int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status.Running = false
	w.status.Cycles++
	w.status.LastFinished = time.Now()
	w.status.LastNotified = notified
	w.status.LastError = ""
	if err != nil {
		w.status.LastError = err.Error()
	}
}

func (w *Watcher) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}
