// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collider

import (
	"math/rand/v2"
	"sync/atomic"
	"testing"
)

// lcgAdapter is a tiny synthetic hash built from a linear congruential
// step, split into two "variants" by adding a different constant.
// It's non-cryptographic and exists only to drive the engine in
// tests; it collides quickly because its distinguishing mask is
// coarse.
type lcgAdapter struct {
	mask         uint64
	trailLimit   uint64
	found        atomic.Bool
	lastA, lastB atomic.Uint64
}

func (a *lcgAdapter) MakePoint(rng *rand.Rand) uint64 { return rng.Uint64() & 0xffffffff }
func (a *lcgAdapter) TrailLimit() uint64              { return a.trailLimit }
func (a *lcgAdapter) IsDistinguishing(x uint64) bool  { return x&a.mask == 0 }
func (a *lcgAdapter) Bifurcation(x uint64) bool       { return x&1 != 0 }
func (a *lcgAdapter) NextPoint(x uint64, bi bool) uint64 {
	c := uint64(1)
	if !bi {
		c = 42
	}
	return (x*1103515245 + 12345 + c) & 0xffffffff
}
func (a *lcgAdapter) ReportCollision(x, y uint64) StopPolicy {
	a.found.Store(true)
	a.lastA.Store(x)
	a.lastB.Store(y)
	return StopSearch
}
func (a *lcgAdapter) ReportSelfCollision(x, y uint64) StopPolicy {
	return ContinueSearch
}

func TestRunStopsAfterCallbackReturns(t *testing.T) {
	a := &lcgAdapter{mask: 0xf, trailLimit: 1 << 16}
	c := New[uint64](a)

	done := make(chan struct{})
	c.Run(4, func(c *Collider[uint64]) {
		close(done)
	})

	select {
	case <-done:
	default:
		t.Fatal("callback never ran")
	}
	if c.running.Load() {
		t.Error("running is still true after Run returned")
	}
}

func TestRunSingleWorkerNoLockContention(t *testing.T) {
	// spec §8 boundary: N=1 worker, no lock contention events.
	a := &lcgAdapter{mask: 0x1f, trailLimit: 1 << 16}
	c := New[uint64](a)

	trailTarget := uint64(200)
	c.Run(1, func(c *Collider[uint64]) {
		for c.ReportStats().Trails < trailTarget {
			// Busy-poll; this is a test, not production code.
		}
	})

	stats := c.ReportStats()
	if stats.LockContentions != 0 {
		t.Errorf("single worker saw %d lock contentions, want 0", stats.LockContentions)
	}
	if stats.Trails < trailTarget {
		t.Errorf("Trails = %d, want >= %d", stats.Trails, trailTarget)
	}
}

func TestRunStopPropagation(t *testing.T) {
	// spec §8 scenario 6: an adapter whose ReportCollision returns
	// StopSearch must cause Run to return.
	a := &lcgAdapter{mask: 0x3, trailLimit: 1 << 12}
	c := New[uint64](a)

	stopped := make(chan struct{})
	c.Run(4, func(c *Collider[uint64]) {
		for {
			if !c.running.Load() {
				close(stopped)
				return
			}
		}
	})

	select {
	case <-stopped:
	default:
		t.Fatal("run did not observe adapter-requested stop")
	}
	if !a.found.Load() {
		t.Error("adapter never reported a collision")
	}
}

// noopBifurcationAdapter always picks variant "true", so cross-variant
// collisions (which require one walk to pick true and the other
// false at the merge step) can never happen: spec §8 scenario 3.
type noopBifurcationAdapter struct {
	mask       uint64
	trailLimit uint64
	sawGood    atomic.Bool
	sawSelf    atomic.Bool
}

func (a *noopBifurcationAdapter) MakePoint(rng *rand.Rand) uint64 { return rng.Uint64() & 0xffff }
func (a *noopBifurcationAdapter) TrailLimit() uint64              { return a.trailLimit }
func (a *noopBifurcationAdapter) IsDistinguishing(x uint64) bool  { return x&a.mask == 0 }
func (a *noopBifurcationAdapter) Bifurcation(x uint64) bool       { return true }
func (a *noopBifurcationAdapter) NextPoint(x uint64, bi bool) uint64 {
	return (x*1103515245 + 12345) & 0xffff
}
func (a *noopBifurcationAdapter) ReportCollision(x, y uint64) StopPolicy {
	a.sawGood.Store(true)
	return ContinueSearch
}
func (a *noopBifurcationAdapter) ReportSelfCollision(x, y uint64) StopPolicy {
	a.sawSelf.Store(true)
	return ContinueSearch
}

func TestNoopBifurcationNeverGoodCollision(t *testing.T) {
	a := &noopBifurcationAdapter{mask: 0x1f, trailLimit: 1 << 12}
	c := New[uint64](a)

	trailTarget := uint64(500)
	c.Run(4, func(c *Collider[uint64]) {
		for c.ReportStats().Trails < trailTarget {
		}
	})

	if a.sawGood.Load() {
		t.Error("constant bifurcation produced a GoodCollision, which should be impossible")
	}
	stats := c.ReportStats()
	if stats.Collisions != 0 {
		t.Errorf("Collisions = %d, want 0 under constant bifurcation", stats.Collisions)
	}
}

func TestTrailLimitZeroBailsOutImmediately(t *testing.T) {
	// spec §8 boundary: trail_limit = 0, every start that isn't
	// already distinguishing bails out on its first step.
	a := &lcgAdapter{mask: 0x1, trailLimit: 0}
	c := New[uint64](a)

	c.Run(1, func(c *Collider[uint64]) {
		for c.ReportStats().Bailouts+c.ReportStats().Trails < 50 {
		}
	})

	stats := c.ReportStats()
	// Every completed iteration is either an immediate distinguished
	// start (trail length 0, never exceeds the limit) or a bailout.
	if stats.Bailouts == 0 && stats.Trails == 0 {
		t.Fatal("worker made no progress at all")
	}
	// A trail that took even one step would have bailed out, so no
	// completed trail contributes any hashes.
	if stats.Hashes != 0 {
		t.Errorf("Hashes = %d, want 0 with a zero trail limit", stats.Hashes)
	}
}
