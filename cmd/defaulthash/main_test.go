// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import "testing"

func TestNextPointDeterministic(t *testing.T) {
	a := newDefaultHashAdapter(42)
	x := uint64(0x1234567890abcdef) & a.mask

	got1 := a.NextPoint(x, true)
	got2 := a.NextPoint(x, true)
	if got1 != got2 {
		t.Errorf("NextPoint(x, true) not deterministic: %#x != %#x", got1, got2)
	}

	if a.NextPoint(x, true) == a.NextPoint(x, false) {
		t.Error("the two variants produced the same next point for this input; if they agreed everywhere, every merge would be a self-collision")
	}
}

func TestNextPointStaysWithinMask(t *testing.T) {
	a := newDefaultHashAdapter(20)
	for _, x := range []uint64{0, 1, a.mask, 0xdeadbeef} {
		for _, bi := range []bool{true, false} {
			got := a.NextPoint(x&a.mask, bi)
			if got&^a.mask != 0 {
				t.Errorf("NextPoint(%#x, %v) = %#x, has bits outside mask %#x", x, bi, got, a.mask)
			}
		}
	}
}

func TestTrailLimitIndependentOfBits(t *testing.T) {
	small := newDefaultHashAdapter(20)
	large := newDefaultHashAdapter(50)
	if small.TrailLimit() != large.TrailLimit() {
		t.Errorf("distinguishing density should be independent of -bits: got %d and %d", small.TrailLimit(), large.TrailLimit())
	}
}
