// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ahash looks for collisions in a seeded xxhash64 instance,
// standing in for the Rust original's demonstration against the
// ahash crate: both are fast, keyed, non-cryptographic 64-bit hashes
// from the same "general purpose hash table hash" family.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/cespare/xxhash/v2"

	collider "github.com/aclements/hash-collider"
)

const distinguishMask = 0x3ffff

type ahashAdapter struct {
	seedA, seedB uint64
}

func newAhashAdapter() *ahashAdapter {
	return &ahashAdapter{seedA: 1234, seedB: 5678}
}

func (a *ahashAdapter) MakePoint(rng *rand.Rand) uint64 { return rng.Uint64() }
func (a *ahashAdapter) TrailLimit() uint64              { return distinguishMask * 20 }
func (a *ahashAdapter) IsDistinguishing(x uint64) bool   { return x&distinguishMask == 0 }
func (a *ahashAdapter) Bifurcation(x uint64) bool        { return x&1 != 0 }

func (a *ahashAdapter) NextPoint(x uint64, bi bool) uint64 {
	// Prefix the walk state with a per-variant constant, the same
	// trick examples/ahash.rs uses to derive two "keyed" hashers
	// from one seed: write the prefix, then the running state.
	prefix := uint64(42)
	seed := a.seedB
	if bi {
		prefix = 0
		seed = a.seedA
	}
	d := xxhash.NewWithSeed(seed)
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], prefix)
	binary.LittleEndian.PutUint64(buf[8:16], x)
	d.Write(buf[:])
	return d.Sum64()
}

func (a *ahashAdapter) ReportCollision(x, y uint64) collider.StopPolicy {
	fmt.Printf("found collision! (0, %#x) (42, %#x)\n", x, y)
	return collider.ContinueSearch
}

func (a *ahashAdapter) ReportSelfCollision(x, y uint64) collider.StopPolicy {
	return collider.ContinueSearch
}

func main() {
	workers := flag.Int("workers", runtime.NumCPU(), "run `N` worker goroutines")
	interval := flag.Duration("interval", time.Second, "progress reporting interval")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage: %s [flags]

ahash searches for collisions between two seeded xxhash64 instances,
run indefinitely unless -stop-on-found is set.

`, os.Args[0])
		flag.PrintDefaults()
	}
	stopOnFound := flag.Bool("stop-on-found", false, "stop after the first collision instead of continuing to collect more")
	flag.Parse()
	if flag.NArg() != 0 {
		flag.Usage()
		os.Exit(2)
	}

	adapter := newAhashAdapter()
	c := collider.New[uint64](adapter)
	found := collider.ContinueOnFound
	if *stopOnFound {
		found = collider.StopOnFound
	}
	c.Run(*workers, collider.StatPrinter[uint64](*interval, 64, found))
	if !*stopOnFound {
		log.Println("ahash: run ended")
	}
}
