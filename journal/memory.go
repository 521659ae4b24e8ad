package journal

import (
	"slices"
	"sync"
)

// Memory keeps everything it is given. It is used by tests and by callers
// that want to inspect a run without touching disk.
type Memory struct {
	mu        sync.Mutex
	snapshots []Snapshot
	coupons   []Coupon
	runs      []Run
}

// NewMemory returns an empty in-memory journal.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) RecordSnapshot(s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.Positions = slices.Clone(s.Positions)
	m.snapshots = append(m.snapshots, s)
	return nil
}

func (m *Memory) RecordCoupon(c Coupon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coupons = append(m.coupons, c)
	return nil
}

func (m *Memory) RecordRun(r Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, r)
	return nil
}

func (m *Memory) Close() error { return nil }

// Snapshots returns the snapshots of a run, or of every run when runID is
// empty.
func (m *Memory) Snapshots(runID string) []Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Snapshot
	for _, s := range m.snapshots {
		if runID == "" || s.RunID == runID {
			out = append(out, s)
		}
	}
	return out
}

// Coupons returns the coupons of a run, or of every run when runID is empty.
func (m *Memory) Coupons(runID string) []Coupon {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Coupon
	for _, c := range m.coupons {
		if runID == "" || c.RunID == runID {
			out = append(out, c)
		}
	}
	return out
}

// Runs returns every recorded run.
func (m *Memory) Runs() []Run {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.runs)
}
