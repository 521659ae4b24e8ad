package journal

import (
	"time"
)

// Run summarises one simulation run. It mirrors the runs table.
type Run struct {
	ID       string
	Name     string // portfolio name
	Scenario string
	Created  time.Time

	Start  time.Time
	End    time.Time
	Months int

	Instruments []string

	Initial     float64
	Final       float64
	Contributed float64
	Coupons     float64

	// Returns are decimals: 0.12 is 12%.
	TotalReturn  float64
	AnnualReturn float64

	OrgPath string
	Notes   []string
}

// Gain is what the portfolio earned over the run, counting the coupons paid
// out and discounting the money put in.
func (r Run) Gain() float64 {
	return r.Final + r.Coupons - r.Initial - r.Contributed
}
