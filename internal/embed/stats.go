package embed

import (
	"math"
	"slices"
	"sort"
	"sync"
	"time"
)

// StatsSnapshot is a point-in-time aggregate of embedding call latencies.
type StatsSnapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Stats tracks embedding call latencies over a rolling time window.
// Samples older than the window are discarded lazily on the next
// Record or Snapshot. Recording appends in arrival order, so the
// timestamp slice stays sorted and expiry is a binary search.
type Stats struct {
	mu     sync.Mutex
	at     []time.Time
	ms     []int64
	window time.Duration
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{window: window}
}

// Record adds one latency sample in milliseconds. Negative values
// (clock adjustments mid-call) are clamped to zero.
func (s *Stats) Record(durationMs int64) {
	durationMs = max(durationMs, 0)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.expire(time.Now())
	s.at = append(s.at, time.Now())
	s.ms = append(s.ms, durationMs)
}

// Snapshot aggregates the live samples. An empty window yields the
// zero snapshot.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expire(time.Now())

	n := len(s.ms)
	if n == 0 {
		return StatsSnapshot{}
	}

	sorted := slices.Clone(s.ms)
	slices.Sort(sorted)

	var sum int64
	for _, v := range sorted {
		sum += v
	}

	return StatsSnapshot{
		Count: n,
		MinMs: sorted[0],
		MaxMs: sorted[n-1],
		AvgMs: float64(sum) / float64(n),
		P50Ms: quantile(sorted, 0.50),
		P95Ms: quantile(sorted, 0.95),
		P99Ms: quantile(sorted, 0.99),
	}
}

// expire drops samples older than the window. at is sorted by
// construction, so the survivors start at the first in-window index.
func (s *Stats) expire(now time.Time) {
	cutoff := now.Add(-s.window)
	keep := sort.Search(len(s.at), func(i int) bool {
		return !s.at[i].Before(cutoff)
	})
	if keep == 0 {
		return
	}
	s.at = slices.Delete(s.at, 0, keep)
	s.ms = slices.Delete(s.ms, 0, keep)
}

// quantile reads q in [0,1] from a sorted slice with linear
// interpolation between the two straddling ranks.
func quantile(sorted []int64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := q * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi >= len(sorted) {
		hi = len(sorted) - 1
	}
	if lo == hi {
		return float64(sorted[lo])
	}
	frac := rank - float64(lo)
	return float64(sorted[lo])*(1-frac) + float64(sorted[hi])*frac
}
