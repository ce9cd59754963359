package search

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStale marks a response that lost to a newer query and must be dropped.
var ErrStale = errors.New("stale search response")

// DebounceDelay is the search-as-you-type settle time.
const DebounceDelay = 300 * time.Millisecond

type SearchFunc func(ctx context.Context, query string, from, size int) (Results, error)

// Searcher serializes header searches: each new query cancels the in-flight
// one, and a response is only surfaced while its sequence number is still
// the latest. A slow early response can no longer overwrite a newer one.
type Searcher struct {
	do SearchFunc

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewSearcher(do SearchFunc) *Searcher {
	return &Searcher{do: do}
}

func (s *Searcher) Search(ctx context.Context, query string, from, size int) (Results, error) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.seq++
	mine := s.seq
	s.mu.Unlock()

	res, err := s.do(ctx, query, from, size)

	s.mu.Lock()
	latest := s.seq == mine
	if latest {
		s.cancel = nil
		cancel()
	}
	s.mu.Unlock()

	if !latest {
		return Results{}, ErrStale
	}
	return res, err
}

// Debouncer delays a callback until input has settled; a new call replaces
// the pending one.
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
