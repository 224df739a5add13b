// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command typeid demonstrates the scenario that motivated the
// original Rust tool: colliding the stable, cross-compilation
// identifier a compiler derives for two different source-level items.
// rustc derives crate/module/type identifiers by running everything
// through a keyed SipHash-128 (its internal StableHasher); this
// reproduces that shape using github.com/dchest/siphash in place of
// rustc's own sip128 implementation, with a two-level module-id then
// field-id derivation standing in for rustc's full DefId encoding.
//
// A found collision here means two distinctly-named fields in two
// differently-named structs would be assigned the same stable hash,
// exactly the kind of bug this tool was built to surface in rustc
// (see original_source/examples/type_id and type_id_128 for the
// motivating incident).
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/dchest/siphash"

	collider "github.com/aclements/hash-collider"
)

const distinguishMask = 0x3ffff

// moduleID is a stand-in for rustc's crate-and-module fingerprint: a
// 128-bit value (as two u64 words) derived once per crate name, the
// root all per-item identifiers are hashed from.
type moduleID struct {
	lo, hi uint64
}

func newModuleID(crateName string) moduleID {
	lo, hi := siphash.Hash128(0, 0, []byte(crateName))
	return moduleID{lo, hi}
}

// fieldID hashes (modID, structName, fieldName) down to a single
// 64-bit stable identifier, the same role rustc's DefId hashing
// plays for a struct field.
func fieldID(mod moduleID, structName, fieldName string) uint64 {
	var buf []byte
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], mod.lo)
	buf = append(buf, tmp[:]...)
	binary.LittleEndian.PutUint64(tmp[:], mod.hi)
	buf = append(buf, tmp[:]...)
	buf = append(buf, structName...)
	buf = append(buf, 0)
	buf = append(buf, fieldName...)
	lo, _ := siphash.Hash128(mod.lo, mod.hi, buf)
	return lo
}

type typeIDAdapter struct {
	mod moduleID
}

func newTypeIDAdapter(crateName string) *typeIDAdapter {
	return &typeIDAdapter{mod: newModuleID(crateName)}
}

func (a *typeIDAdapter) MakePoint(rng *rand.Rand) uint64 {
	return rng.Uint64()
}

func (a *typeIDAdapter) TrailLimit() uint64 { return distinguishMask * 20 }

func (a *typeIDAdapter) IsDistinguishing(x uint64) bool { return x&distinguishMask == 0 }

func (a *typeIDAdapter) Bifurcation(x uint64) bool { return x&1 != 0 }

func (a *typeIDAdapter) NextPoint(x uint64, bi bool) uint64 {
	structName := "Bar"
	if bi {
		structName = "Foo"
	}
	fieldName := fmt.Sprintf("x%016x", x)
	return fieldID(a.mod, structName, fieldName)
}

func (a *typeIDAdapter) ReportCollision(x, y uint64) collider.StopPolicy {
	fmt.Printf("found collision! struct Foo { x%016x: usize } struct Bar { x%016x: usize }\n", x, y)
	return collider.StopSearch
}

func (a *typeIDAdapter) ReportSelfCollision(x, y uint64) collider.StopPolicy {
	return collider.ContinueSearch
}

func main() {
	workers := flag.Int("workers", runtime.NumCPU(), "run `N` worker goroutines")
	interval := flag.Duration("interval", time.Second, "progress reporting interval")
	crateName := flag.String("crate", "playground", "crate name to seed the module identifier from")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage: %s [flags]

typeid searches for a collision between two compiler-style stable
field identifiers belonging to differently-named structs.

`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	adapter := newTypeIDAdapter(*crateName)
	c := collider.New[uint64](adapter)
	c.Run(*workers, collider.StatPrinter[uint64](*interval, 64, collider.StopOnFound))
}
