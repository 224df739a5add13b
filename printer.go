// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collider

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/crypto/ssh/terminal"
)

// StatPrinter returns a callback suitable for Run's f parameter: it
// prints a header row once, then one stats row every interval,
// computing the hash rate as the delta in Hashes over the delta in
// wall time. bits is the search space width, used for the ETA
// estimate. If onFound is StopOnFound, the callback returns (ending
// the run) as soon as a snapshot shows Collisions > 0.
//
// Column order is a stable contract for anything scraping this
// output: trails hashes mh/s ETA coll rh self bail locc err. When
// stdout is a terminal, each row after the header overwrites the
// previous one in place rather than scrolling; when it's redirected
// to a file or pipe, rows are left alone so the output stays a clean,
// greppable log.
func StatPrinter[P comparable](interval time.Duration, bits int, onFound FoundPolicy) func(*Collider[P]) {
	redraw := terminal.IsTerminal(int(os.Stdout.Fd()))
	return statPrinterTo[P](os.Stdout, interval, bits, onFound, redraw)
}

// FoundPolicy controls whether StatPrinter stops the run on the first
// observed collision.
type FoundPolicy int

const (
	// ContinueOnFound keeps the run going after a collision is
	// reported; useful for gathering many collisions in one run.
	ContinueOnFound FoundPolicy = iota
	// StopOnFound ends the run as soon as a snapshot shows at
	// least one collision.
	StopOnFound
)

// StatPrinterTo is StatPrinter with an explicit output writer, mainly
// for tests. It always uses the plain, one-row-per-tick format, since
// there is no terminal to redraw in place.
func StatPrinterTo[P comparable](w io.Writer, interval time.Duration, bits int, onFound FoundPolicy) func(*Collider[P]) {
	return statPrinterTo[P](w, interval, bits, onFound, false)
}

func statPrinterTo[P comparable](w io.Writer, interval time.Duration, bits int, onFound FoundPolicy, redraw bool) func(*Collider[P]) {
	return func(c *Collider[P]) {
		fmt.Fprintf(w, "%9s %14s %9s %6s %5s %5s %5s %5s %6s %5s\n",
			"trails", "hashes", "mh/s", "ETA", "coll", "rh", "self", "bail", "locc", "err")

		start := time.Now()
		prevT := start
		var prevH uint64

		for {
			time.Sleep(interval)
			now := time.Now()
			stats := c.ReportStats()

			hps := float64(stats.Hashes-prevH) / now.Sub(prevT).Seconds()
			prevT = now
			prevH = stats.Hashes

			eta := stats.EstimateTimeToHash(bits, now.Sub(start).Seconds())

			if redraw {
				fmt.Fprint(w, "\r")
			}
			fmt.Fprintf(w, "%9d %14d %9.2f %6.1f %5d %5d %5d %5d %6d %5d",
				stats.Trails, stats.Hashes, hps/1e6, eta,
				stats.Collisions, stats.RobinHoods, stats.SelfCollisions,
				stats.Bailouts, stats.LockContentions, stats.Errors)
			if redraw {
				fmt.Fprint(w, "\033[K")
			} else {
				fmt.Fprint(w, "\n")
			}

			if onFound == StopOnFound && stats.Collisions > 0 {
				if redraw {
					fmt.Fprint(w, "\n")
				}
				return
			}
		}
	}
}
