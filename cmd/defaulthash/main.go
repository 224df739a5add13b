// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command defaulthash looks for collisions in a truncated instance of
// Go's built-in hash/maphash hash, the closest Go analogue of Rust's
// std::collections::hash_map::DefaultHasher: a fast, seeded,
// non-cryptographic hash meant for hash tables, not security.
//
// Like the original Rust demo this is modeled on, it hashes a
// (variant-prefix, state) pair and truncates the result to a narrow
// bit width, which is what makes a collision findable in a reasonable
// amount of time: the birthday bound on an n-bit hash is roughly
// sqrt(2^n) evaluations, so at 42 bits that's on the order of 2^21,
// not the 2^32 a full 64-bit hash would need.
//
// hash/maphash is not bit-compatible with Rust's DefaultHasher (it's
// a different, AES- or wyhash-derived construction depending on
// hardware support), so this does not reproduce the literal reference
// pair from the Rust original bit-for-bit; it demonstrates the same
// narrow-hash weakness using Go's own default hash.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"hash/maphash"
	"log"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	collider "github.com/aclements/hash-collider"
)

type defaultHashAdapter struct {
	seed       maphash.Seed
	mask       uint64
	trailLimit uint64
}

func newDefaultHashAdapter(bits int) *defaultHashAdapter {
	mask := uint64(1)<<uint(bits) - 1
	// Keep the distinguished-point density independent of the
	// overall truncation width, following the reference scenario's
	// 0x3ffff (18-bit) distinguishing mask.
	distMask := uint64(0x3ffff)
	if distMask > mask {
		distMask = mask
	}
	return &defaultHashAdapter{
		seed:       maphash.MakeSeed(),
		mask:       mask,
		trailLimit: distMask * 20,
	}
}

func (a *defaultHashAdapter) MakePoint(rng *rand.Rand) uint64 {
	return rng.Uint64() & a.mask
}

func (a *defaultHashAdapter) TrailLimit() uint64 { return a.trailLimit }

func (a *defaultHashAdapter) IsDistinguishing(x uint64) bool {
	return x&0x3ffff == 0
}

func (a *defaultHashAdapter) Bifurcation(x uint64) bool {
	return x&1 != 0
}

func (a *defaultHashAdapter) NextPoint(x uint64, bi bool) uint64 {
	var prefix uint64 = 42
	if bi {
		prefix = 0
	}
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], prefix)
	binary.LittleEndian.PutUint64(buf[8:16], x)

	var h maphash.Hash
	h.SetSeed(a.seed)
	h.Write(buf[:])
	return h.Sum64() & a.mask
}

func (a *defaultHashAdapter) ReportCollision(x, y uint64) collider.StopPolicy {
	fmt.Printf("found collision! (0, %#x) (42, %#x)\n", x, y)
	return collider.StopSearch
}

func (a *defaultHashAdapter) ReportSelfCollision(x, y uint64) collider.StopPolicy {
	return collider.ContinueSearch
}

func main() {
	workers := flag.Int("workers", runtime.NumCPU(), "run `N` worker goroutines")
	bits := flag.Int("bits", 42, "truncate the hash to `N` bits")
	interval := flag.Duration("interval", time.Second, "progress reporting interval")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage: %s [flags]

defaulthash searches for a collision between two prefixed instances of
Go's hash/maphash default hash, truncated to -bits bits.

`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *bits <= 0 || *bits > 64 {
		log.Fatalf("-bits must be in (0, 64], got %d", *bits)
	}

	adapter := newDefaultHashAdapter(*bits)
	c := collider.New[uint64](adapter)
	c.Run(*workers, collider.StatPrinter[uint64](*interval, *bits, collider.StopOnFound))
}
