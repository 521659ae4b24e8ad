// Package portfolio composes instruments into one monthly time series.
package portfolio

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/rustyeddy/rendafixa/apperrors"
	"github.com/rustyeddy/rendafixa/calendar"
	"github.com/rustyeddy/rendafixa/index"
	"github.com/rustyeddy/rendafixa/instrument"
	"github.com/rustyeddy/rendafixa/series"
)

// ErrNotHeld is returned when removing an instrument the portfolio does not
// hold.
var ErrNotHeld = errors.New("instrument not held")

// Portfolio is an ordered set of instruments simulated together. Instruments
// keep their insertion order; duplicate names are allowed and told apart by
// position.
//
// A portfolio owns its instruments while simulating: nothing else may step
// them during a run.
type Portfolio struct {
	Name string

	instruments []*instrument.Instrument
	result      *Result // last finished run
	running     *Result // run between Begin and Finish
	next        time.Time
}

// New returns a portfolio holding the given instruments.
func New(name string, instruments ...*instrument.Instrument) *Portfolio {
	return &Portfolio{Name: name, instruments: slices.Clone(instruments)}
}

// Add appends an instrument.
func (p *Portfolio) Add(in *instrument.Instrument) {
	p.instruments = append(p.instruments, in)
}

// Remove drops the first instrument with the given name.
func (p *Portfolio) Remove(name string) error {
	i := p.find(name)
	if i < 0 {
		return fmt.Errorf("portfolio %q: %q: %w", p.Name, name, ErrNotHeld)
	}
	p.instruments = slices.Delete(p.instruments, i, i+1)
	return nil
}

// Find returns the first instrument with the given name.
func (p *Portfolio) Find(name string) (*instrument.Instrument, bool) {
	if i := p.find(name); i >= 0 {
		return p.instruments[i], true
	}
	return nil, false
}

func (p *Portfolio) find(name string) int {
	return slices.IndexFunc(p.instruments, func(in *instrument.Instrument) bool {
		return in.Name() == name
	})
}

// Instruments returns the held instruments in insertion order.
func (p *Portfolio) Instruments() []*instrument.Instrument { return slices.Clone(p.instruments) }

// Len returns the number of held instruments.
func (p *Portfolio) Len() int { return len(p.instruments) }

// Result returns the last finished run.
func (p *Portfolio) Result() (*Result, bool) { return p.result, p.result != nil }

// Simulate steps every instrument through every month from start to end and
// returns the aggregated result.
func (p *Portfolio) Simulate(start, end time.Time) (*Result, error) {
	if err := p.Begin(start, end); err != nil {
		return nil, err
	}
	for _, m := range calendar.Months(start, end) {
		if _, err := p.Advance(m); err != nil {
			return nil, err
		}
	}
	return p.Finish()
}

// Begin resets every instrument and prepares a run over [start, end].
// Months are then fed one at a time with Advance.
func (p *Portfolio) Begin(start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("portfolio %q: end %s is not after start %s: %w", p.Name,
			end.Format(time.DateOnly), start.Format(time.DateOnly), apperrors.ErrRange)
	}
	if len(p.instruments) == 0 {
		return fmt.Errorf("portfolio %q: no instruments: %w", p.Name, apperrors.ErrConfiguration)
	}
	for _, in := range p.instruments {
		if !in.Covers(start, end) {
			return fmt.Errorf("portfolio %q: %q lives %s..%s, outside %s..%s: %w", p.Name, in.Name(),
				in.Start().Format("2006-01"), in.Maturity().Format("2006-01"),
				start.Format("2006-01"), end.Format("2006-01"), apperrors.ErrConfiguration)
		}
	}

	names := make([]string, len(p.instruments))
	for i, in := range p.instruments {
		in.Reset()
		names[i] = in.Name()
	}
	n := calendar.MonthsBetween(start, end) + 1
	p.running = &Result{
		Name:   p.Name,
		Start:  calendar.FirstOfMonth(start),
		End:    calendar.FirstOfMonth(end),
		Names:  names,
		Rows:   make([]Row, 0, n),
		Totals: series.New[float64](n),
	}
	p.next = p.running.Start
	return nil
}

// Advance steps every instrument to month and records the aggregated row.
func (p *Portfolio) Advance(month time.Time) (Row, error) {
	r := p.running
	if r == nil {
		return Row{}, fmt.Errorf("portfolio %q: advance without begin: %w", p.Name, apperrors.ErrSequence)
	}
	m := calendar.FirstOfMonth(month)
	if !m.Equal(p.next) || m.After(r.End) {
		return Row{}, fmt.Errorf("portfolio %q: advanced to %s, expected %s: %w", p.Name,
			m.Format("2006-01"), p.next.Format("2006-01"), apperrors.ErrSequence)
	}

	row := Row{
		Month:         m,
		Values:        make([]float64, len(p.instruments)),
		Coupons:       make([]float64, len(p.instruments)),
		Contributions: make([]float64, len(p.instruments)),
	}
	for i, in := range p.instruments {
		v, err := in.Step(m)
		if err != nil {
			return Row{}, fmt.Errorf("portfolio %q: %w", p.Name, err)
		}
		rec, _ := in.Latest()
		row.Values[i] = v
		row.Coupons[i] = rec.Coupon
		row.Contributions[i] = rec.Contribution
		row.Total += v
	}

	if err := r.Totals.Append(m, row.Total); err != nil {
		return Row{}, fmt.Errorf("portfolio %q: %w", p.Name, err)
	}
	r.Rows = append(r.Rows, row)
	p.next = calendar.AddMonths(m, 1)
	return row, nil
}

// Finish closes the run started by Begin. A run stopped early keeps the
// months advanced so far and ends at the last of them.
func (p *Portfolio) Finish() (*Result, error) {
	r := p.running
	if r == nil || len(r.Rows) == 0 {
		return nil, fmt.Errorf("portfolio %q: no months simulated: %w", p.Name, apperrors.ErrNotSimulated)
	}
	r.End = r.Rows[len(r.Rows)-1].Month
	p.result = r
	p.running = nil
	return r, nil
}

// ValueAt returns the total value at the latest simulated month on or before t.
func (p *Portfolio) ValueAt(t time.Time) (float64, error) {
	if p.result == nil {
		return 0, fmt.Errorf("portfolio %q: %w", p.Name, apperrors.ErrNotSimulated)
	}
	return p.result.ValueAt(t)
}

// ReturnOverPeriod is ValueAt(end)/ValueAt(start) - 1.
func (p *Portfolio) ReturnOverPeriod(start, end time.Time) (float64, error) {
	v0, err := p.ValueAt(start)
	if err != nil {
		return 0, err
	}
	v1, err := p.ValueAt(end)
	if err != nil {
		return 0, err
	}
	return v1/v0 - 1, nil
}

// AnnualizedReturn scales ReturnOverPeriod to a 365.25-day year.
func (p *Portfolio) AnnualizedReturn(start, end time.Time) (float64, error) {
	days := calendar.Days(start, end)
	if days <= 0 {
		return 0, fmt.Errorf("portfolio %q: %s is not after %s: %w", p.Name,
			end.Format(time.DateOnly), start.Format(time.DateOnly), apperrors.ErrRange)
	}
	total, err := p.ReturnOverPeriod(start, end)
	if err != nil {
		return 0, err
	}
	return Annualize(total, days), nil
}

// Annualize converts a return earned over days into a yearly rate.
func Annualize(total, days float64) float64 {
	return math.Pow(1+total, 365.25/days) - 1
}

// Clone returns a portfolio with fresh copies of every instrument reading
// index rates from src. A nil src keeps each instrument's own source.
func (p *Portfolio) Clone(src index.Source) *Portfolio {
	c := &Portfolio{Name: p.Name, instruments: make([]*instrument.Instrument, len(p.instruments))}
	for i, in := range p.instruments {
		c.instruments[i] = in.WithRates(src)
	}
	return c
}
