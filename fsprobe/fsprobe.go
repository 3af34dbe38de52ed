// Package fsprobe holds the filesystem probe registry of spec.md
// §4.5: a list of candidate filesystem modules, each exposing a
// tiered Test(volume, level) predicate. Mirrors the teacher's
// mediaType() dispatch-by-extension-or-flag helper in cmd/, generalized
// to dispatch-by-content-probe. To avoid an import cycle, this package
// never imports a format package directly — each format package
// registers itself via init(), the same self-registration pattern
// Go's database/sql drivers use.
package fsprobe

import (
	"fmt"
	"io"
	"log"

	"vtfs/volume"
)

// MaxLevel is the highest probe tier (spec.md §4.5's table, levels 0-6).
const MaxLevel = 6

// Probe is one filesystem module's entry point.
type Probe struct {
	// Name identifies the filesystem for diagnostics and the type_id
	// returned by a successful probe.
	Name string
	// Test runs the filesystem's tiered validation up to level and
	// reports success, the computed filesystem size in blocks (-1 if
	// unknown at this level), and the type_id. sink receives diagnostic
	// text; it may be nil.
	Test func(v volume.Volume, level int, sink *log.Logger) (ok bool, size int64, typeID string)
	// Open constructs a mounted fsys.FileSystem once Test has
	// succeeded at MaxLevel. Returning (nil, err) aborts the mount.
	Open func(v volume.Volume) (interface{}, error)
}

var registry []Probe

// Register adds a probe to the registry. Called from each format
// package's init(), never from fsprobe itself.
func Register(p Probe) {
	registry = append(registry, p)
}

// Registered returns the probes registered so far, in registration order.
func Registered() []Probe {
	out := make([]Probe, len(registry))
	copy(out, registry)
	return out
}

// Result is one candidate's outcome against a volume.
type Result struct {
	Probe      Probe
	Ok         bool
	Size       int64
	TypeID     string
	HighestOK  int
}

// Run probes every registered filesystem at MaxLevel, returning the
// first candidate whose test succeeds at MaxLevel (spec.md §4.5: "the
// probe registry invokes candidates at level 6 and mounts the first
// that succeeds"). w, if non-nil, receives one summary line per
// candidate tried and is also the diagnostic sink passed to each
// candidate's Test.
func Run(v volume.Volume, w io.Writer) (*Result, []Result) {
	var logger *log.Logger
	if w != nil {
		logger = log.New(w, "", 0)
	}
	var all []Result
	for _, p := range registry {
		ok, size, typeID := p.Test(v, MaxLevel, logger)
		highest := highestPassing(p, v, logger)
		r := Result{Probe: p, Ok: ok, Size: size, TypeID: typeID, HighestOK: highest}
		all = append(all, r)
		if logger != nil {
			logger.Printf("probe %s: ok=%v level=%d size=%d type=%s", p.Name, ok, highest, size, typeID)
		}
		if ok {
			return &r, all
		}
	}
	return nil, all
}

// highestPassing walks levels 0..MaxLevel and returns the highest one
// that still succeeds, enforcing the monotonicity property of spec.md
// §8 by construction: it stops at the first failing level rather than
// probing out of order.
func highestPassing(p Probe, v volume.Volume, logger *log.Logger) int {
	highest := -1
	for lvl := 0; lvl <= MaxLevel; lvl++ {
		ok, _, _ := p.Test(v, lvl, logger)
		if !ok {
			break
		}
		highest = lvl
	}
	return highest
}

// Describe renders a one-line summary of a probe result for CLI output.
func Describe(r Result) string {
	if r.Ok {
		return fmt.Sprintf("%s: mounted (size=%d blocks)", r.Probe.Name, r.Size)
	}
	return fmt.Sprintf("%s: rejected at level %d", r.Probe.Name, r.HighestOK+1)
}
