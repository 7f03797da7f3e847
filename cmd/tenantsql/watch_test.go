package main

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	var runs atomic.Int32
	deb := newDebouncer(50*time.Millisecond, func() {
		runs.Add(1)
	})

	for i := 0; i < 20; i++ {
		deb.trigger()
		time.Sleep(time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return runs.Load() == 1
	}, time.Second, 10*time.Millisecond, "a burst of triggers must collapse into one run")
}

func TestDebouncerNeverOverlapsRuns(t *testing.T) {
	var active atomic.Int32
	var overlapped atomic.Bool
	var runs atomic.Int32

	deb := newDebouncer(5*time.Millisecond, func() {
		if active.Add(1) > 1 {
			overlapped.Store(true)
		}
		time.Sleep(30 * time.Millisecond)
		active.Add(-1)
		runs.Add(1)
	})

	// Each trigger lands after the previous quiet window, so each starts
	// its own timer goroutine while the prior run may still be inside fn.
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			deb.trigger()
		}()
		time.Sleep(15 * time.Millisecond)
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
	require.False(t, overlapped.Load(), "runs must be serialized")
}
