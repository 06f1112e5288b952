package metrics

import (
	"math"
	"testing"
	"time"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSearchStats_Percentiles(t *testing.T) {
	stats := NewSearchStats(time.Hour)
	for i := 1; i <= 5; i++ {
		stats.Record("document", time.Duration(i*100)*time.Millisecond, i)
	}

	snap := stats.Snapshot().All
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%f max=%f", snap.MinMs, snap.MaxMs)
	}
	if !approx(snap.AvgMs, 300) {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if !approx(snap.P50Ms, 300) {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if !approx(snap.P95Ms, 480) {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if !approx(snap.P99Ms, 496) {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
	if snap.Matches != 15 || !approx(snap.AvgMatches, 3) {
		t.Fatalf("expected 15 matches avg 3, got %d avg %f", snap.Matches, snap.AvgMatches)
	}
}

func TestSearchStats_ByKind(t *testing.T) {
	stats := NewSearchStats(time.Hour)
	stats.Record("document", 10*time.Millisecond, 2)
	stats.Record("multi", 30*time.Millisecond, 5)
	stats.Record("multi", 50*time.Millisecond, 1)

	snap := stats.Snapshot()
	if snap.All.Count != 3 {
		t.Errorf("expected 3 samples overall, got %d", snap.All.Count)
	}
	if got := snap.ByKind["multi"]; got.Count != 2 || !approx(got.AvgMs, 40) {
		t.Errorf("expected multi count=2 avg=40, got %+v", got)
	}
	if got := snap.ByKind["document"]; got.Matches != 2 {
		t.Errorf("expected document matches=2, got %d", got.Matches)
	}
}

func TestSearchStats_PrunesExpiredSamples(t *testing.T) {
	stats := NewSearchStats(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	stats.now = func() time.Time { return now }

	stats.Record("document", 100*time.Millisecond, 1)
	now = now.Add(2 * time.Minute)

	if snap := stats.Snapshot(); snap.All.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.All.Count)
	}

	stats.Record("document", 200*time.Millisecond, 1)
	snap := stats.Snapshot().All
	if snap.Count != 1 || snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected one fresh sample of 200ms, got %+v", snap)
	}
}

func TestSearchStats_ClampsNegative(t *testing.T) {
	stats := NewSearchStats(time.Hour)
	stats.Record("resolve", -10*time.Millisecond, -1)
	snap := stats.Snapshot().All
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.Matches != 0 {
		t.Fatalf("expected clamped values, got %+v", snap)
	}
}

func TestSearchStats_EmptySnapshot(t *testing.T) {
	snap := NewSearchStats(0).Snapshot()
	if snap.All.Count != 0 || len(snap.ByKind) != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
	if snap.Window != "1h0m0s" {
		t.Errorf("expected default window 1h0m0s, got %q", snap.Window)
	}
}
