// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package sync

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/parlor-foundation/parlor/lib/clock"
	"github.com/parlor-foundation/parlor/lib/testutil"
	"github.com/parlor-foundation/parlor/remote"
)

func testChannelScope() remote.ChannelScope {
	return remote.ChannelScope{Kind: remote.ChannelHost, ID: 5}
}

const waitTimeout = 5 * time.Second

// quietWindow is how long tests watch the updates channel to assert
// that nothing was published.
const quietWindow = 200 * time.Millisecond

func newTestPoller(fake *clock.FakeClock) *Poller {
	return NewPoller(PollerConfig{Clock: fake})
}

func TestPollerImmediateFetchThenTicks(t *testing.T) {
	fake := clock.Fake(time.Unix(1000, 0))
	poller := newTestPoller(fake)
	defer poller.StopAll()

	var calls atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		return calls.Add(1), nil
	}
	key := ChannelsKey()
	if err := poller.Start(context.Background(), key, 5*time.Second, fetch); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	first := testutil.RequireReceive(t, poller.Updates(), waitTimeout, "immediate first fetch")
	if first.Key != key || first.Value.(int64) != 1 || first.Err != nil {
		t.Fatalf("first snapshot = %+v", first)
	}

	fake.WaitForTimers(1)
	fake.Advance(5 * time.Second)
	second := testutil.RequireReceive(t, poller.Updates(), waitTimeout, "tick-driven fetch")
	if second.Value.(int64) != 2 {
		t.Fatalf("second snapshot value = %v", second.Value)
	}

	latest, ok := poller.Latest(key)
	if !ok || latest.Value.(int64) != 2 {
		t.Errorf("Latest = %+v, %v", latest, ok)
	}
}

func TestPollerSkipsTickDuringSlowFetch(t *testing.T) {
	fake := clock.Fake(time.Unix(1000, 0))
	poller := newTestPoller(fake)
	defer poller.StopAll()

	var calls atomic.Int64
	release := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		n := calls.Add(1)
		if n == 2 {
			<-release
		}
		return n, nil
	}
	key := DocumentsKey()
	if err := poller.Start(context.Background(), key, 5*time.Second, fetch); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	testutil.RequireReceive(t, poller.Updates(), waitTimeout, "first fetch")
	fake.WaitForTimers(1)

	// Tick once to begin the slow second fetch, then tick twice more
	// while it is blocked. Those ticks must be skipped, not queued.
	fake.Advance(5 * time.Second)
	fake.Advance(5 * time.Second)
	fake.Advance(5 * time.Second)
	close(release)

	second := testutil.RequireReceive(t, poller.Updates(), waitTimeout, "slow fetch result")
	if second.Value.(int64) != 2 {
		t.Fatalf("second snapshot value = %v", second.Value)
	}
	testutil.RequireNoReceive(t, poller.Updates(), quietWindow,
		"ticks during the slow fetch should not queue extra fetches")
	if got := calls.Load(); got != 2 {
		t.Errorf("fetch calls = %d, want 2", got)
	}

	// The next natural tick polls again.
	fake.Advance(5 * time.Second)
	third := testutil.RequireReceive(t, poller.Updates(), waitTimeout, "next natural tick")
	if third.Value.(int64) != 3 {
		t.Fatalf("third snapshot value = %v", third.Value)
	}
}

func TestPollerRefreshFetchesImmediatelyAndResetsTick(t *testing.T) {
	fake := clock.Fake(time.Unix(1000, 0))
	poller := newTestPoller(fake)
	defer poller.StopAll()

	var calls atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		return calls.Add(1), nil
	}
	key := SessionKey()
	if err := poller.Start(context.Background(), key, 10*time.Second, fetch); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	testutil.RequireReceive(t, poller.Updates(), waitTimeout, "first fetch")
	fake.WaitForTimers(1)

	// Part-way through the interval, refresh: an immediate fetch with
	// no clock movement.
	fake.Advance(6 * time.Second)
	poller.Refresh(key)
	refreshed := testutil.RequireReceive(t, poller.Updates(), waitTimeout, "refresh fetch")
	if refreshed.Value.(int64) != 2 {
		t.Fatalf("refresh snapshot value = %v", refreshed.Value)
	}

	// The old tick would have fired 4s after the refresh. The reset
	// pushed it out to a full interval.
	fake.Advance(6 * time.Second)
	testutil.RequireNoReceive(t, poller.Updates(), quietWindow,
		"tick clock should have been reset by the refresh")

	fake.Advance(4 * time.Second)
	ticked := testutil.RequireReceive(t, poller.Updates(), waitTimeout, "tick after reset interval")
	if ticked.Value.(int64) != 3 {
		t.Fatalf("post-reset snapshot value = %v", ticked.Value)
	}
}

func TestPollerStopDiscardsInFlightResult(t *testing.T) {
	fake := clock.Fake(time.Unix(1000, 0))
	poller := newTestPoller(fake)

	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		close(started)
		<-release
		return "late", nil
	}
	key := MessagesKey(testChannelScope())
	if err := poller.Start(context.Background(), key, 3*time.Second, fetch); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	testutil.RequireReceive(t, started, waitTimeout, "fetch started")
	poller.Stop(key)
	close(release)

	testutil.RequireNoReceive(t, poller.Updates(), quietWindow,
		"result arriving after Stop must be discarded")
	if _, ok := poller.Latest(key); ok {
		t.Error("discarded result reached Latest")
	}
}

func TestPollerRetainsSnapshotAcrossFetchFailure(t *testing.T) {
	fake := clock.Fake(time.Unix(1000, 0))
	poller := newTestPoller(fake)
	defer poller.StopAll()

	var calls atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		if calls.Add(1) > 1 {
			return nil, fmt.Errorf("authority unreachable")
		}
		return "good", nil
	}
	key := ChannelsKey()
	if err := poller.Start(context.Background(), key, 5*time.Second, fetch); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	testutil.RequireReceive(t, poller.Updates(), waitTimeout, "first fetch")

	poller.Refresh(key)
	failed := testutil.RequireReceive(t, poller.Updates(), waitTimeout, "failed fetch")
	if failed.Err == nil {
		t.Fatal("snapshot for failed fetch has no error")
	}
	if failed.Value != "good" {
		t.Errorf("failed snapshot value = %v, want the previous good value", failed.Value)
	}

	latest, ok := poller.Latest(key)
	if !ok || latest.Value != "good" || latest.Err == nil {
		t.Errorf("Latest = %+v, %v", latest, ok)
	}
}

func TestPollerStartValidation(t *testing.T) {
	poller := newTestPoller(clock.Fake(time.Unix(0, 0)))
	fetch := func(ctx context.Context) (any, error) { return nil, nil }

	if err := poller.Start(context.Background(), SessionKey(), 0, fetch); err == nil {
		t.Error("expected error for zero interval")
	}
	if err := poller.Start(context.Background(), SessionKey(), time.Second, nil); err == nil {
		t.Error("expected error for nil fetch")
	}
}
