// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

func TestFakeAfter(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)
	fake := Fake(start)

	ch := fake.After(5 * time.Second)
	select {
	case <-ch:
		t.Fatal("After fired before the clock advanced")
	default:
	}

	fake.Advance(4 * time.Second)
	select {
	case <-ch:
		t.Fatal("After fired one second early")
	default:
	}

	fake.Advance(time.Second)
	select {
	case fired := <-ch:
		if !fired.Equal(start.Add(5 * time.Second)) {
			t.Errorf("fired at %v, want %v", fired, start.Add(5*time.Second))
		}
	default:
		t.Fatal("After did not fire at its deadline")
	}
}

func TestFakeAfterNonPositive(t *testing.T) {
	fake := Fake(time.Unix(0, 0))
	select {
	case <-fake.After(0):
	default:
		t.Fatal("After(0) should receive immediately")
	}
}

func TestFakeTickerFiresPerInterval(t *testing.T) {
	fake := Fake(time.Unix(1000, 0))
	ticker := fake.NewTicker(time.Second)
	defer ticker.Stop()

	// Advancing across three intervals fires three times, but the
	// channel holds one tick at most, matching time.Ticker.
	fake.Advance(3 * time.Second)
	ticks := 0
	for {
		select {
		case <-ticker.C:
			ticks++
			continue
		default:
		}
		break
	}
	if ticks != 1 {
		t.Errorf("buffered ticks = %d, want 1 (overflow dropped)", ticks)
	}
}

func TestFakeTickerReset(t *testing.T) {
	fake := Fake(time.Unix(1000, 0))
	ticker := fake.NewTicker(10 * time.Second)
	defer ticker.Stop()

	fake.Advance(9 * time.Second)
	ticker.Reset(10 * time.Second)

	// The old deadline (t+10s) no longer applies after the reset.
	fake.Advance(2 * time.Second)
	select {
	case <-ticker.C:
		t.Fatal("ticker fired on the pre-reset deadline")
	default:
	}

	fake.Advance(8 * time.Second)
	select {
	case <-ticker.C:
	default:
		t.Fatal("ticker did not fire on the post-reset deadline")
	}
}

func TestFakeTickerStop(t *testing.T) {
	fake := Fake(time.Unix(0, 0))
	ticker := fake.NewTicker(time.Second)
	ticker.Stop()
	fake.Advance(5 * time.Second)
	select {
	case <-ticker.C:
		t.Fatal("stopped ticker fired")
	default:
	}
	if fake.PendingCount() != 0 {
		t.Errorf("PendingCount = %d after stop, want 0", fake.PendingCount())
	}
}

func TestWaitForTimers(t *testing.T) {
	fake := Fake(time.Unix(0, 0))
	done := make(chan struct{})
	go func() {
		<-fake.After(time.Minute)
		close(done)
	}()

	fake.WaitForTimers(1)
	fake.Advance(time.Minute)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("goroutine never observed the advanced clock")
	}
}
