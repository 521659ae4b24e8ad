// Package journal records simulation output: monthly snapshots, coupon
// payouts and run summaries.
package journal

import (
	"errors"
	"time"
)

// ErrRunNotFound is returned by queries for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Position is the state of one instrument in a snapshot.
type Position struct {
	Instrument string
	Value      float64
	Principal  float64
	Interest   float64
}

// Snapshot is the portfolio at the end of one simulated month.
type Snapshot struct {
	RunID     string
	Month     time.Time
	Total     float64
	Positions []Position
}

// Coupon is one payout of accumulated interest.
type Coupon struct {
	RunID      string
	Month      time.Time
	Instrument string
	Amount     float64
}

// Journal is where a simulation run writes its output. Implementations
// must be safe for concurrent use: scenario runs share one journal.
type Journal interface {
	RecordSnapshot(Snapshot) error
	RecordCoupon(Coupon) error
	RecordRun(Run) error
	Close() error
}

// Discard is a Journal that drops everything.
var Discard Journal = discard{}

type discard struct{}

func (discard) RecordSnapshot(Snapshot) error { return nil }
func (discard) RecordCoupon(Coupon) error     { return nil }
func (discard) RecordRun(Run) error           { return nil }
func (discard) Close() error                  { return nil }

// Tee writes every record to all the given journals, stopping at the first
// error. Close closes them all and returns the first error.
func Tee(js ...Journal) Journal { return tee(js) }

type tee []Journal

func (t tee) RecordSnapshot(s Snapshot) error {
	for _, j := range t {
		if err := j.RecordSnapshot(s); err != nil {
			return err
		}
	}
	return nil
}

func (t tee) RecordCoupon(c Coupon) error {
	for _, j := range t {
		if err := j.RecordCoupon(c); err != nil {
			return err
		}
	}
	return nil
}

func (t tee) RecordRun(r Run) error {
	for _, j := range t {
		if err := j.RecordRun(r); err != nil {
			return err
		}
	}
	return nil
}

func (t tee) Close() error {
	var first error
	for _, j := range t {
		if err := j.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
