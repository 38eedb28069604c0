// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/parlor-foundation/parlor/lib/clock"
)

// FetchFunc fetches the current value of one resource.
type FetchFunc func(ctx context.Context) (any, error)

// Snapshot is one publication for a key. When Err is non-nil the
// fetch failed and Value carries the previous good value (nil if none
// ever succeeded) — stale but available. The poller does not retry
// early on failure; it waits for the next natural tick.
type Snapshot struct {
	Key       Key
	Value     any
	Err       error
	FetchedAt time.Time
}

// Poller runs one fetch loop per active key. Fetches for different
// keys run independently; fetches for one key are sequential, which
// is what makes publication per key monotonic in completion order.
//
// updates is buffered; if the consumer falls far enough behind that
// the buffer fills, publications are dropped with a warning rather
// than stalling the fetch loops. Latest always has the newest value.
type Poller struct {
	clock   clock.Clock
	logger  *slog.Logger
	updates chan Snapshot

	mu     sync.Mutex
	active map[Key]*pollEntry
	latest map[Key]Snapshot
}

type pollEntry struct {
	stop    chan struct{}
	refresh chan struct{}
}

// PollerConfig holds configuration for creating a Poller.
type PollerConfig struct {
	// Clock drives tick scheduling. If nil, the real clock is used.
	Clock clock.Clock
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
	// UpdateBuffer is the updates channel capacity. If zero, 64.
	UpdateBuffer int
}

// NewPoller creates an idle Poller. Keys become active via Start.
func NewPoller(config PollerConfig) *Poller {
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	buffer := config.UpdateBuffer
	if buffer == 0 {
		buffer = 64
	}
	return &Poller{
		clock:   clk,
		logger:  logger,
		updates: make(chan Snapshot, buffer),
		active:  make(map[Key]*pollEntry),
		latest:  make(map[Key]Snapshot),
	}
}

// Updates returns the publication channel shared by all keys.
func (p *Poller) Updates() <-chan Snapshot { return p.updates }

// Latest returns the newest snapshot for key, if any has ever been
// published. Snapshots survive Stop so a re-selected resource can
// render stale data while its first fresh fetch runs.
func (p *Poller) Latest(key Key) (Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	snapshot, ok := p.latest[key]
	return snapshot, ok
}

// Start activates a key: an immediate fetch, then one per interval.
// Starting an already-active key restarts its loop; the old loop's
// in-flight result, if any, is discarded. Start returns an error
// rather than polling with an unusable interval.
func (p *Poller) Start(ctx context.Context, key Key, interval time.Duration, fetch FetchFunc) error {
	if interval <= 0 {
		return fmt.Errorf("sync: poll interval for %s must be positive, got %v", key, interval)
	}
	if fetch == nil {
		return fmt.Errorf("sync: fetch function for %s is required", key)
	}

	entry := &pollEntry{
		stop:    make(chan struct{}),
		refresh: make(chan struct{}, 1),
	}

	p.mu.Lock()
	if previous, ok := p.active[key]; ok {
		close(previous.stop)
	}
	p.active[key] = entry
	p.mu.Unlock()

	go p.run(ctx, entry, key, interval, fetch)
	return nil
}

// Stop deactivates a key. Future ticks cease; an in-flight fetch is
// not aborted, but its result is discarded when it lands.
func (p *Poller) Stop(key Key) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if entry, ok := p.active[key]; ok {
		close(entry.stop)
		delete(p.active, key)
	}
}

// StopAll deactivates every key.
func (p *Poller) StopAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, entry := range p.active {
		close(entry.stop)
		delete(p.active, key)
	}
}

// Refresh asks an active key to fetch immediately and reset its tick
// clock, so the next periodic fetch is a full interval away. Used
// after successful mutations. A refresh already pending, or an
// inactive key, makes this a no-op.
func (p *Poller) Refresh(key Key) {
	p.mu.Lock()
	entry, ok := p.active[key]
	p.mu.Unlock()
	if !ok {
		return
	}
	select {
	case entry.refresh <- struct{}{}:
	default:
	}
}

func (p *Poller) run(ctx context.Context, entry *pollEntry, key Key, interval time.Duration, fetch FetchFunc) {
	p.fetchAndPublish(ctx, entry, key, fetch)

	ticker := p.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-entry.stop:
			return
		case <-entry.refresh:
			// Reset before fetching: the next periodic tick is a full
			// interval after the refresh, same as after a tick-driven
			// fetch.
			ticker.Reset(interval)
			p.fetchAndPublish(ctx, entry, key, fetch)
		case <-ticker.C:
			p.fetchAndPublish(ctx, entry, key, fetch)
			// A tick that fired during a slow fetch would be waiting
			// in the channel now. Drop it: skipped, not queued.
			select {
			case <-ticker.C:
			default:
			}
		}
	}
}

// fetchAndPublish runs one fetch and publishes the result, unless the
// key was stopped or restarted while the fetch was in flight, in
// which case the result is discarded.
func (p *Poller) fetchAndPublish(ctx context.Context, entry *pollEntry, key Key, fetch FetchFunc) {
	value, err := fetch(ctx)

	p.mu.Lock()
	if p.active[key] != entry {
		p.mu.Unlock()
		p.logger.Debug("discarding stale poll result", "key", key.String())
		return
	}

	snapshot := Snapshot{Key: key, FetchedAt: p.clock.Now()}
	if err != nil {
		snapshot.Err = err
		if previous, ok := p.latest[key]; ok {
			snapshot.Value = previous.Value
		}
	} else {
		snapshot.Value = value
	}
	p.latest[key] = snapshot
	p.mu.Unlock()

	if err != nil {
		p.logger.Warn("poll fetch failed", "key", key.String(), "error", err)
	}

	select {
	case p.updates <- snapshot:
	default:
		p.logger.Warn("updates channel full, dropping publication", "key", key.String())
	}
}
