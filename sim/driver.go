// Package sim drives portfolio simulations month by month, applying periodic
// contributions and writing every month to a journal.
package sim

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rustyeddy/rendafixa/apperrors"
	"github.com/rustyeddy/rendafixa/calendar"
	"github.com/rustyeddy/rendafixa/instrument"
	"github.com/rustyeddy/rendafixa/internal/id"
	"github.com/rustyeddy/rendafixa/journal"
	"github.com/rustyeddy/rendafixa/portfolio"
)

// Contribution is a periodic deposit into a held instrument.
type Contribution struct {
	Instrument string  `json:"instrument" yaml:"instrument"`
	Amount     float64 `json:"amount" yaml:"amount"`
	// Every is the number of months between deposits, counted from the
	// first simulated month. The first month itself gets none.
	Every int `json:"every" yaml:"every"`
}

// Due reports whether a deposit falls on the n-th month of a run (0-based).
func (c Contribution) Due(n int) bool {
	return n > 0 && n%c.Every == 0
}

// Driver runs a portfolio through a simulation window.
type Driver struct {
	Portfolio     *portfolio.Portfolio
	Journal       journal.Journal // nil discards
	Contributions []Contribution
	Logger        *log.Logger // nil uses log.Default()

	Name     string // defaults to the portfolio name
	Scenario string
	OrgPath  string // recorded on the run; the caller writes the report
	Notes    []string

	IDs func() string    // nil uses id.New
	Now func() time.Time // nil uses time.Now
}

type dueContribution struct {
	Contribution
	target *instrument.Instrument
}

// Run simulates every month from start to end, both included, and returns
// the run summary. It stops between months when ctx is done.
func (d *Driver) Run(ctx context.Context, start, end time.Time) (journal.Run, error) {
	if d.Portfolio == nil {
		return journal.Run{}, fmt.Errorf("sim: portfolio is required: %w", apperrors.ErrConfiguration)
	}
	contribs, err := d.resolveContributions()
	if err != nil {
		return journal.Run{}, err
	}

	j := d.Journal
	if j == nil {
		j = journal.Discard
	}
	logger := d.Logger
	if logger == nil {
		logger = log.Default()
	}
	newID := d.IDs
	if newID == nil {
		newID = id.New
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}

	p := d.Portfolio
	run := journal.Run{
		ID:       newID(),
		Name:     d.Name,
		Scenario: d.Scenario,
		Created:  now().UTC(),
		OrgPath:  d.OrgPath,
		Notes:    d.Notes,
	}
	if run.Name == "" {
		run.Name = p.Name
	}

	if err := p.Begin(start, end); err != nil {
		return journal.Run{}, err
	}
	logger.Printf("sim: run %s %q%s from %s to %s, %d instruments",
		run.ID, run.Name, scenarioSuffix(run.Scenario),
		start.Format("2006-01"), end.Format("2006-01"), p.Len())

	instruments := p.Instruments()
	for n, m := range calendar.Months(start, end) {
		if err := ctx.Err(); err != nil {
			return journal.Run{}, fmt.Errorf("sim: run %s stopped before %s: %w", run.ID, m.Format("2006-01"), err)
		}

		for _, c := range contribs {
			if c.Due(n) {
				if err := c.target.Contribute(c.Amount); err != nil {
					return journal.Run{}, err
				}
			}
		}

		row, err := p.Advance(m)
		if err != nil {
			return journal.Run{}, err
		}
		if err := record(j, run.ID, row, instruments); err != nil {
			return journal.Run{}, fmt.Errorf("sim: journal %s: %w", m.Format("2006-01"), err)
		}
	}

	res, err := p.Finish()
	if err != nil {
		return journal.Run{}, err
	}
	summarize(&run, res)

	if err := j.RecordRun(run); err != nil {
		return journal.Run{}, fmt.Errorf("sim: journal run %s: %w", run.ID, err)
	}
	logger.Printf("sim: run %s done, final %.2f, coupons %.2f, return %.2f%% (%.2f%% a year)",
		run.ID, run.Final, run.Coupons, run.TotalReturn*100, run.AnnualReturn*100)
	return run, nil
}

func (d *Driver) resolveContributions() ([]dueContribution, error) {
	out := make([]dueContribution, 0, len(d.Contributions))
	for _, c := range d.Contributions {
		if c.Amount <= 0 {
			return nil, fmt.Errorf("sim: contribution to %q must be positive, got %v: %w",
				c.Instrument, c.Amount, apperrors.ErrConfiguration)
		}
		if c.Every <= 0 {
			return nil, fmt.Errorf("sim: contribution to %q needs a positive interval, got %d: %w",
				c.Instrument, c.Every, apperrors.ErrConfiguration)
		}
		target, ok := d.Portfolio.Find(c.Instrument)
		if !ok {
			return nil, fmt.Errorf("sim: contribution to %q: %w", c.Instrument, portfolio.ErrNotHeld)
		}
		out = append(out, dueContribution{Contribution: c, target: target})
	}
	return out, nil
}

func record(j journal.Journal, runID string, row portfolio.Row, instruments []*instrument.Instrument) error {
	snap := journal.Snapshot{
		RunID:     runID,
		Month:     row.Month,
		Total:     row.Total,
		Positions: make([]journal.Position, len(instruments)),
	}
	for i, in := range instruments {
		rec, _ := in.Latest()
		snap.Positions[i] = journal.Position{
			Instrument: in.Name(),
			Value:      rec.Value,
			Principal:  rec.Principal,
			Interest:   rec.Interest,
		}
	}
	if err := j.RecordSnapshot(snap); err != nil {
		return err
	}

	for i, amount := range row.Coupons {
		if amount <= 0 {
			continue
		}
		if err := j.RecordCoupon(journal.Coupon{
			RunID:      runID,
			Month:      row.Month,
			Instrument: instruments[i].Name(),
			Amount:     amount,
		}); err != nil {
			return err
		}
	}
	return nil
}

// summarize fills the run figures from a finished result. Returns count
// coupons as received and contributions as invested.
func summarize(run *journal.Run, res *portfolio.Result) {
	run.Start = res.Start
	run.End = res.End
	run.Months = len(res.Rows)
	run.Instruments = res.Names
	run.Initial = res.Initial()
	run.Final = res.Final()
	run.Contributed = res.TotalContributions()
	run.Coupons = res.TotalCoupons()

	if invested := run.Initial + run.Contributed; invested > 0 {
		run.TotalReturn = (run.Final+run.Coupons)/invested - 1
	}
	if days := calendar.Days(run.Start, run.End); days > 0 {
		run.AnnualReturn = portfolio.Annualize(run.TotalReturn, days)
	}
}

func scenarioSuffix(s string) string {
	if s == "" {
		return ""
	}
	return " scenario " + s
}
