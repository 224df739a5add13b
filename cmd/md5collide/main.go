// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command md5collide demonstrates a 96-bit collision search against
// the MD5 compression function, the same scenario as the Rust
// original's examples/md5. A point is the first three words of the
// 128-bit MD5 internal state (the fourth word is dropped, narrowing
// the birthday bound to 96 bits); each step re-runs one MD5
// compression round from one of two fixed initial states, folding the
// current point into the last three words (words 13 to 15) of an
// otherwise-zero 64-byte block.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	collider "github.com/aclements/hash-collider"
)

const trailMask = 0xfffff

// point is the first three words of the MD5 state after one
// compression round; the fourth word is discarded, which is what
// narrows the search to 96 bits.
type point = [3]uint32

type md5Adapter struct {
	ihvA, ihvB [4]uint32
}

func newMD5Adapter() *md5Adapter {
	return &md5Adapter{
		ihvA: [4]uint32{0x266e2670, 0x9b8a1b87, 0x923fd523, 0x8c4fcf12},
		ihvB: [4]uint32{0xa0da787b, 0xb3cb406c, 0xfe644118, 0xd7c59003},
	}
}

func (a *md5Adapter) MakePoint(rng *rand.Rand) point {
	return point{rng.Uint32(), rng.Uint32(), rng.Uint32()}
}

func (a *md5Adapter) TrailLimit() uint64 { return trailMask * 20 }

func (a *md5Adapter) IsDistinguishing(x point) bool {
	return x[0]&trailMask == 0
}

func (a *md5Adapter) Bifurcation(x point) bool {
	return x[0] < x[1]
}

func (a *md5Adapter) NextPoint(x point, bi bool) point {
	ihv := a.ihvB
	if bi {
		ihv = a.ihvA
	}
	var data [16]uint32
	data[13], data[14], data[15] = x[0], x[1], x[2]
	md5Compress(&ihv, &data)
	return point{ihv[0], ihv[1], ihv[2]}
}

func (a *md5Adapter) ReportCollision(x, y point) collider.StopPolicy {
	fmt.Printf("found collision! (ihvA, %#x) (ihvB, %#x)\n", x, y)
	return collider.ContinueSearch
}

func (a *md5Adapter) ReportSelfCollision(x, y point) collider.StopPolicy {
	return collider.ContinueSearch
}

func main() {
	workers := flag.Int("workers", runtime.NumCPU(), "run `N` worker goroutines")
	interval := flag.Duration("interval", time.Second, "progress reporting interval")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage: %s [flags]

md5collide searches for a 96-bit collision against the MD5 compression
function, run from two distinct fixed initial states.

`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	adapter := newMD5Adapter()
	c := collider.New[point](adapter)
	c.Run(*workers, collider.StatPrinter[point](*interval, 96, collider.ContinueOnFound))
}
