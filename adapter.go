// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package collider implements a parallel distinguished-point
// collision search over a pluggable hash-walk adapter, following the
// Van Oorschot-Wiener approach to finding collisions in narrow hash
// functions without enumerating the whole space.
//
// The hard part is generic: Collider drives any number of worker
// goroutines that walk random starting points through an
// Adapter-defined step function until they hit a sparse
// "distinguished" point, then reconciles walks that land on the same
// point to tell a real cross-variant collision apart from a
// self-collision or a Robin Hood (a merge that happened upstream of
// where it was detected). Everything hash-specific — the step
// function, the distinguishing predicate, the variant selector — is
// supplied by the caller via Adapter.
package collider

import "math/rand/v2"

// Adapter supplies the hash-specific behavior that Collider walks.
// P is the point type: the state of one hash walk. It must be cheap
// to copy and comparable, since it's stored by value in trail
// summaries and compared for equality when two trails converge.
//
// Implementations must not mutate any state an Adapter method reads;
// all methods are called concurrently from every worker goroutine.
type Adapter[P comparable] interface {
	// MakePoint produces a uniformly random starting point.
	MakePoint(rng *rand.Rand) P

	// TrailLimit bounds how many steps a single trail may take
	// before the worker gives up and calls it a bailout. Choose
	// something like 20x the expected distance between
	// distinguished points so an undetected cycle in the walk
	// doesn't stall a worker forever.
	TrailLimit() uint64

	// IsDistinguishing reports whether p is a distinguished point:
	// a walk halts here and its trail is recorded. Must be
	// deterministic, and its density (the fraction of points it
	// accepts) must be known so trail lengths can be tuned via
	// TrailLimit.
	IsDistinguishing(p P) bool

	// Bifurcation is a deterministic, ideally balanced, binary
	// choice of which hash variant NextPoint applies at p.
	Bifurcation(p P) bool

	// NextPoint steps the walk from p, applying variant A when
	// bi is true and variant B when bi is false.
	NextPoint(p P, bi bool) P

	// ReportCollision is called with a cross-variant collision:
	// NextPoint(a, true) == NextPoint(b, false). Returning
	// StopSearch tells the engine to wind down; ContinueSearch
	// keeps every worker running.
	ReportCollision(a, b P) StopPolicy

	// ReportSelfCollision is called when two trails merge on the
	// same variant — not a cross-variant collision, but still
	// useful for tuning Bifurcation's balance. Adapters that don't
	// care just return ContinueSearch unconditionally.
	ReportSelfCollision(a, b P) StopPolicy
}

// StopPolicy is returned from an Adapter's report callbacks to tell
// the engine whether to keep searching.
type StopPolicy int

const (
	// ContinueSearch keeps every worker running.
	ContinueSearch StopPolicy = iota
	// StopSearch cooperatively stops the workers: running workers
	// finish their current trail, then exit. Run itself still
	// returns only once its callback does.
	StopSearch
)
