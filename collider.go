// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collider

import (
	"log"
	"math/rand/v2"
	"sync"
	"sync/atomic"
)

// Collider drives a parallel distinguished-point collision search
// over Adapter. The zero value is not usable; construct one with
// New.
//
// A Collider is meant to be used for exactly one Run call at a time,
// but nothing stops two independent Colliders (even over different
// Adapter types) from running concurrently in the same process —
// there is no package-level state.
type Collider[P comparable] struct {
	adapter Adapter[P]
	running atomic.Bool
	stats   atomicStats

	mu     sync.Mutex
	trails map[P][]trailSummary[P]
}

// New returns a Collider that searches using adapter.
func New[P comparable](adapter Adapter[P]) *Collider[P] {
	return &Collider[P]{
		adapter: adapter,
		trails:  make(map[P][]trailSummary[P]),
	}
}

// ReportStats returns a snapshot of the search's counters so far.
// Safe to call from any goroutine, including from inside the
// callback passed to Run.
func (c *Collider[P]) ReportStats() Stats {
	return c.stats.report()
}

// Run starts count worker goroutines and runs f synchronously on the
// calling goroutine. f is the sole driver of termination: Run returns
// only after f returns, so f is expected to block until some
// condition holds (for instance, polling ReportStats for a
// collision). An Adapter's ReportCollision/ReportSelfCollision
// returning StopSearch from inside a worker makes every worker exit,
// but it does not interrupt f: if f never returns, neither does Run.
// When f returns, Run stops every worker and waits for them to exit
// before returning itself — no worker goroutine outlives a Run call.
func (c *Collider[P]) Run(count int, f func(*Collider[P])) {
	if count < 1 {
		panic("collider: Run requires at least one worker")
	}

	c.running.Store(true)

	var wg sync.WaitGroup
	wg.Add(count)
	for i := 0; i < count; i++ {
		go func() {
			defer wg.Done()
			c.worker()
		}()
	}

	f(c)

	c.running.Store(false)
	wg.Wait()
}

// worker runs the outer trail-generation loop from spec §4.2 until
// running is cleared.
func (c *Collider[P]) worker() {
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	trailLimit := c.adapter.TrailLimit()

	for c.running.Load() {
		start := c.adapter.MakePoint(rng)
		point := start
		var length uint64

		bailedOut := false
		for !c.adapter.IsDistinguishing(point) {
			bi := c.adapter.Bifurcation(point)
			point = c.adapter.NextPoint(point, bi)
			length++
			if length > trailLimit {
				c.stats.bailouts.Add(1)
				bailedOut = true
				break
			}
		}
		if bailedOut {
			continue
		}

		c.stats.trails.Add(1)
		c.stats.hashes.Add(length)

		summary := trailSummary[P]{start: start, length: length}

		var priorTrails []trailSummary[P]
		if c.mu.TryLock() {
			priorTrails = c.insertLocked(point, summary)
			c.mu.Unlock()
		} else {
			c.stats.lockContentions.Add(1)
			c.mu.Lock()
			priorTrails = c.insertLocked(point, summary)
			c.mu.Unlock()
		}

		// The lock is released before the (potentially
		// O(length)) reconstruction below runs, so trace
		// collision never serializes the rest of the fleet.
		for _, prev := range priorTrails {
			c.classify(prev, summary)
		}
	}
}

// insertLocked records summary under key end and returns a copy of
// whatever summaries were already there (nil if end is new). Must be
// called with c.mu held.
func (c *Collider[P]) insertLocked(end P, summary trailSummary[P]) []trailSummary[P] {
	existing := c.trails[end]
	var prior []trailSummary[P]
	if len(existing) > 0 {
		prior = make([]trailSummary[P], len(existing))
		copy(prior, existing)
	}
	c.trails[end] = append(existing, summary)
	return prior
}

// classify reconciles prev and cur, which both ended at the same
// distinguished point, and reports the result to the adapter.
func (c *Collider[P]) classify(prev, cur trailSummary[P]) {
	result := traceCollision(c.adapter, prev, cur)
	switch result.kind {
	case traceGoodCollision:
		c.stats.collisions.Add(1)
		if c.adapter.ReportCollision(result.a, result.b) == StopSearch {
			c.running.Store(false)
		}
	case traceSelfCollision:
		c.stats.selfCollisions.Add(1)
		if c.adapter.ReportSelfCollision(result.a, result.b) == StopSearch {
			c.running.Store(false)
		}
	case traceRobinHood:
		c.stats.robinHoods.Add(1)
	case traceNotFound:
		c.stats.errors.Add(1)
		log.Printf("collider: trace-collision found no merge for summaries ending at the same point (a=%v len=%d, b=%v len=%d); adapter may be nondeterministic",
			prev.start, prev.length, cur.start, cur.length)
	}
}
