// Package scheduler defers dispatch of post notifications. The host
// forum announces a post as soon as it is published; the scheduler
// waits out the configured delay so short-lived posts (deleted or
// unlisted right after publishing) never reach any chat provider.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Dispatcher runs one notification cycle for a post.
type Dispatcher interface {
	TriggerNotifications(ctx context.Context, postID int64) error
}

// Scheduler holds one pending timer per post. Scheduling a post that is
// already pending resets its timer, so rapid edits collapse into a
// single dispatch after the last one.
type Scheduler struct {
	dispatcher Dispatcher
	delay      time.Duration
	timeout    time.Duration
	enabled    func() bool
	log        *slog.Logger

	mu      sync.Mutex
	pending map[int64]*time.Timer
	closed  bool
	wg      sync.WaitGroup
}

const defaultDispatchTimeout = 2 * time.Minute

// New creates a Scheduler firing each post after delay. A zero delay
// dispatches on the next timer tick, effectively immediately.
func New(dispatcher Dispatcher, delay time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{
		dispatcher: dispatcher,
		delay:      delay,
		timeout:    defaultDispatchTimeout,
		log:        log,
		pending:    make(map[int64]*time.Timer),
	}
}

// SetEnabledCheck installs a guard consulted when a timer fires.
// When the guard reports false the cycle is skipped, covering the case
// of the integration being disabled after a post was scheduled. Must be
// called before the first Schedule.
func (s *Scheduler) SetEnabledCheck(fn func() bool) {
	s.enabled = fn
}

// Schedule queues a dispatch for the post. Returns false when the
// scheduler is shut down or the post is rescheduled rather than newly
// queued.
func (s *Scheduler) Schedule(postID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.log.Warn("dispatch rejected, scheduler is shut down", slog.Int64("post_id", postID))
		return false
	}

	if timer, ok := s.pending[postID]; ok {
		timer.Reset(s.delay)
		s.log.Debug("dispatch rescheduled", slog.Int64("post_id", postID), slog.Duration("delay", s.delay))
		return false
	}

	s.pending[postID] = time.AfterFunc(s.delay, func() { s.fire(postID) })
	s.log.Debug("dispatch scheduled", slog.Int64("post_id", postID), slog.Duration("delay", s.delay))
	return true
}

// Cancel drops the pending dispatch for the post, if any. A dispatch
// that already fired is not interrupted.
func (s *Scheduler) Cancel(postID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.pending[postID]
	if !ok {
		return false
	}
	timer.Stop()
	delete(s.pending, postID)
	s.log.Debug("dispatch canceled", slog.Int64("post_id", postID))
	return true
}

// PendingCount reports how many posts currently await dispatch.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Scheduler) fire(postID int64) {
	s.mu.Lock()
	if s.closed {
		delete(s.pending, postID)
		s.mu.Unlock()
		return
	}
	delete(s.pending, postID)
	s.wg.Add(1)
	s.mu.Unlock()

	defer s.wg.Done()

	if s.enabled != nil && !s.enabled() {
		s.log.Info("dispatch skipped, integration disabled", slog.Int64("post_id", postID))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.dispatcher.TriggerNotifications(ctx, postID); err != nil {
		s.log.Error("dispatch failed",
			slog.Int64("post_id", postID),
			slog.Any("error", err))
	}
}

// Shutdown stops all pending timers and waits for in-flight dispatches
// to finish or ctx to expire.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	for postID, timer := range s.pending {
		timer.Stop()
		delete(s.pending, postID)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
