// Package metrics keeps rolling-window search latency statistics.
package metrics

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	at      time.Time
	kind    string
	ms      float64
	matches int
}

// Summary aggregates the samples of one kind (or all of them).
type Summary struct {
	Count      int     `json:"count"`
	Matches    int     `json:"matches"`
	AvgMatches float64 `json:"avg_matches"`
	MinMs      float64 `json:"min_ms"`
	MaxMs      float64 `json:"max_ms"`
	AvgMs      float64 `json:"avg_ms"`
	P50Ms      float64 `json:"p50_ms"`
	P95Ms      float64 `json:"p95_ms"`
	P99Ms      float64 `json:"p99_ms"`
}

// Snapshot is a point-in-time view of the window.
type Snapshot struct {
	Window string             `json:"window"`
	All    Summary            `json:"all"`
	ByKind map[string]Summary `json:"by_kind"`
}

// SearchStats tracks recent search latencies within a rolling window.
type SearchStats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
	now     func() time.Time
}

func NewSearchStats(maxAge time.Duration) *SearchStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &SearchStats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// Record adds one search of the given kind ("document", "multi",
// "resolve") that took d and produced matches results.
func (s *SearchStats) Record(kind string, d time.Duration, matches int) {
	d = max(d, 0)
	matches = max(matches, 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	s.samples = append(s.samples, sample{
		at:      now,
		kind:    kind,
		ms:      float64(d) / float64(time.Millisecond),
		matches: matches,
	})
}

func (s *SearchStats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())

	byKind := make(map[string][]sample)
	for _, sm := range s.samples {
		byKind[sm.kind] = append(byKind[sm.kind], sm)
	}
	snap := Snapshot{
		Window: s.maxAge.String(),
		All:    summarize(s.samples),
		ByKind: make(map[string]Summary, len(byKind)),
	}
	for kind, samples := range byKind {
		snap.ByKind[kind] = summarize(samples)
	}
	return snap
}

func (s *SearchStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	s.samples = slices.DeleteFunc(s.samples, func(sm sample) bool {
		return sm.at.Before(cutoff)
	})
}

func summarize(samples []sample) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	values := make([]float64, 0, len(samples))
	var sum float64
	matches := 0
	for _, sm := range samples {
		values = append(values, sm.ms)
		sum += sm.ms
		matches += sm.matches
	}
	slices.Sort(values)

	n := float64(len(values))
	return Summary{
		Count:      len(values),
		Matches:    matches,
		AvgMatches: float64(matches) / n,
		MinMs:      values[0],
		MaxMs:      values[len(values)-1],
		AvgMs:      sum / n,
		P50Ms:      percentile(values, 50),
		P95Ms:      percentile(values, 95),
		P99Ms:      percentile(values, 99),
	}
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}

	index := float64(len(sorted)-1) * pct / 100
	lower := int(index)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower] + (sorted[lower+1]-sorted[lower])*weight
}
