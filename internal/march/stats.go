package march

import (
	"fmt"
	"sync/atomic"
)

// Stats aggregates trace outcomes across renderer workers. A nil *Stats
// is a valid no-op sink.
type Stats struct {
	hits      atomic.Int64
	misses    atomic.Int64
	exhausted atomic.Int64
	steps     atomic.Int64
}

func (s *Stats) Add(r Result) {
	if s == nil {
		return
	}
	switch r.Outcome {
	case Hit:
		s.hits.Add(1)
	case Miss:
		s.misses.Add(1)
	case StepExhausted:
		s.exhausted.Add(1)
	}
	s.steps.Add(int64(r.Steps))
}

// Snapshot is a consistent-enough copy for reporting; counters may keep
// moving while it is taken.
type Snapshot struct {
	Hits          int64
	Misses        int64
	StepExhausted int64
	Steps         int64
}

func (sn Snapshot) Rays() int64 {
	return sn.Hits + sn.Misses + sn.StepExhausted
}

func (s *Stats) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	return Snapshot{
		Hits:          s.hits.Load(),
		Misses:        s.misses.Load(),
		StepExhausted: s.exhausted.Load(),
		Steps:         s.steps.Load(),
	}
}

func (sn Snapshot) String() string {
	rays := sn.Rays()
	if rays == 0 {
		return "no rays traced"
	}
	pct := func(n int64) float64 { return 100 * float64(n) / float64(rays) }
	return fmt.Sprintf("rays %d: %.1f%% hit, %.1f%% miss, %.1f%% exhausted, %.1f steps/ray",
		rays, pct(sn.Hits), pct(sn.Misses), pct(sn.StepExhausted),
		float64(sn.Steps)/float64(rays))
}
