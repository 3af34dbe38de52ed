package fsprobe

import (
	"bytes"
	"log"
	"testing"

	"vtfs/volume"
)

// withRegistry saves and restores the package-level registry so tests
// can register fixture probes without leaking into other tests.
func withRegistry(t *testing.T, probes ...Probe) {
	t.Helper()
	saved := registry
	registry = nil
	t.Cleanup(func() { registry = saved })
	for _, p := range probes {
		Register(p)
	}
}

func TestRunReturnsFirstCandidateThatPassesMaxLevel(t *testing.T) {
	v := volume.NewLbaVolume(512, 1, "x")
	withRegistry(t,
		Probe{Name: "rejects", Test: func(v volume.Volume, level int, _ *log.Logger) (bool, int64, string) {
			return false, 0, "rejects"
		}},
		Probe{Name: "accepts", Test: func(v volume.Volume, level int, _ *log.Logger) (bool, int64, string) {
			return true, 7, "accepts"
		}},
	)
	result, all := Run(v, nil)
	if result == nil || result.TypeID != "accepts" {
		t.Fatalf("Run() result = %+v, want type accepts", result)
	}
	if len(all) != 2 {
		t.Fatalf("len(all) = %d, want 2", len(all))
	}
}

func TestRunWritesOneDiagnosticLinePerCandidate(t *testing.T) {
	v := volume.NewLbaVolume(512, 1, "x")
	withRegistry(t,
		Probe{Name: "a", Test: func(v volume.Volume, level int, _ *log.Logger) (bool, int64, string) {
			return level == 0, 1, "a"
		}},
	)
	var buf bytes.Buffer
	Run(v, &buf)
	if buf.Len() == 0 {
		t.Fatalf("Run with a non-nil writer produced no diagnostic output")
	}
	if n := bytes.Count(buf.Bytes(), []byte("\n")); n != 1 {
		t.Fatalf("Run wrote %d lines for one candidate, want 1", n)
	}
}

func TestHighestPassingStopsAtFirstFailure(t *testing.T) {
	v := volume.NewLbaVolume(512, 1, "x")
	p := Probe{
		Name: "steps",
		Test: func(v volume.Volume, level int, _ *log.Logger) (bool, int64, string) {
			return level <= 3, 0, "steps"
		},
	}
	if got := highestPassing(p, v, nil); got != 3 {
		t.Fatalf("highestPassing = %d, want 3", got)
	}
}

func TestDescribeFormatsMountedAndRejected(t *testing.T) {
	ok := Describe(Result{Ok: true, Probe: Probe{Name: "rt11"}, Size: 10})
	if !bytes.Contains([]byte(ok), []byte("mounted")) {
		t.Fatalf("Describe(ok) = %q, want it to mention mounted", ok)
	}
	rejected := Describe(Result{Ok: false, Probe: Probe{Name: "rt11"}, HighestOK: 2})
	if !bytes.Contains([]byte(rejected), []byte("rejected at level 3")) {
		t.Fatalf("Describe(rejected) = %q, want it to name level 3", rejected)
	}
}
