// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collider

import (
	"math"
	"sync/atomic"
)

// atomicStats holds the engine's eight monotonic counters as
// atomics. Every field is only ever incremented, so relaxed,
// uncoordinated loads in report are fine: a snapshot may tear across
// counters, but each counter on its own is always non-decreasing.
type atomicStats struct {
	trails          atomic.Uint64
	hashes          atomic.Uint64
	collisions      atomic.Uint64
	robinHoods      atomic.Uint64
	selfCollisions  atomic.Uint64
	bailouts        atomic.Uint64
	errors          atomic.Uint64
	lockContentions atomic.Uint64
}

func (s *atomicStats) report() Stats {
	return Stats{
		Trails:          s.trails.Load(),
		Hashes:          s.hashes.Load(),
		Collisions:      s.collisions.Load(),
		RobinHoods:      s.robinHoods.Load(),
		SelfCollisions:  s.selfCollisions.Load(),
		Bailouts:        s.bailouts.Load(),
		Errors:          s.errors.Load(),
		LockContentions: s.lockContentions.Load(),
	}
}

// Stats is a point-in-time snapshot of a Collider's counters.
type Stats struct {
	Trails          uint64
	Hashes          uint64
	Collisions      uint64
	RobinHoods      uint64
	SelfCollisions  uint64
	Bailouts        uint64
	Errors          uint64
	LockContentions uint64
}

// EstimateTimeToHash returns the expected additional time, in
// seconds, to find a cross-variant collision in a search space of
// 2^bits points, given that this snapshot's Hashes were computed over
// elapsedSecs seconds so far.
//
// The birthday bound says the expected number of hashes to find a
// collision in a 2^bits space is about sqrt(pi/2 * 2^bits); solving
// the equation (h + rate*dt)^2 - h^2 = 2*2^bits for dt gives the
// formula below. The trailing *2 is this estimator's fixed convention
// to account for running two variants side by side; it is not a
// correction derived from first principles, and implementations
// should keep it as-is so ETA columns stay comparable across runs.
//
// If elapsedSecs is 0 or no hashes have been done yet, there is no
// rate to extrapolate from and the result is +Inf.
func (s Stats) EstimateTimeToHash(bits int, elapsedSecs float64) float64 {
	searchSpace := math.Pow(2, float64(bits))
	h := float64(s.Hashes)
	if elapsedSecs == 0 || h == 0 {
		return math.Inf(1)
	}
	rate := h / elapsedSecs
	return (math.Sqrt(2*searchSpace+h*h) - h) * 2 / rate
}
