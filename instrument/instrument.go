// Package instrument models a single fixed-income position and advances it
// one calendar month at a time.
//
// All variants share one state machine. What differs is how the monthly
// index correction and interest rate are resolved, which is a switch on the
// resolved index (see rates).
package instrument

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/rustyeddy/rendafixa/apperrors"
	"github.com/rustyeddy/rendafixa/calendar"
	"github.com/rustyeddy/rendafixa/index"
	"github.com/rustyeddy/rendafixa/series"
)

// Params are the construction parameters of an instrument. They do not change
// after New.
type Params struct {
	Name      string
	Principal float64
	Start     time.Time
	End       time.Time

	// Rate is the contractual rate: an annual decimal for fixed rates and
	// spreads (0.12 = 12% a year), or a multiplier of the index for the
	// multiplicative operator (1.05 = 105% of CDI).
	Rate     float64
	Operator Operator
	Index    index.Index

	// IndexRate pins the monthly index rate for this instrument, overriding
	// Rates.
	IndexRate *float64

	SemiannualCoupon bool
	CouponMonths     CouponMonths

	// Rates supplies monthly index rates. Nil means index.Defaults().
	Rates index.Source
}

// Record is the state of an instrument at the end of one simulated month.
type Record struct {
	Month        time.Time
	Value        float64 // principal + unpaid interest
	Principal    float64
	Interest     float64 // accumulated, unpaid
	Accrued      float64 // interest earned this month
	Coupon       float64 // paid out this month
	Contribution float64
	IndexRate    float64 // monthly index rate used this month
	PeriodRate   float64 // monthly interest rate applied this month
	Redeemed     bool
}

// Instrument is a fixed-income position. It is not safe for concurrent use.
type Instrument struct {
	kind     Kind
	p        Params
	start    time.Time // first month of life
	maturity time.Time // month of End

	principal float64
	interest  float64
	pending   float64
	last      time.Time

	history []Record
	values  *series.Series[float64]
}

// New validates p against the kind and returns an instrument with no history.
func New(kind Kind, p Params) (*Instrument, error) {
	if err := resolve(kind, &p); err != nil {
		return nil, fmt.Errorf("instrument %q: %w", p.Name, err)
	}
	return newResolved(kind, p), nil
}

func newResolved(kind Kind, p Params) *Instrument {
	in := &Instrument{
		kind:     kind,
		p:        p,
		start:    calendar.FirstOfMonth(p.Start),
		maturity: calendar.FirstOfMonth(p.End),
	}
	in.Reset()
	return in
}

// resolve fills the kind defaults into p and validates the result.
func resolve(kind Kind, p *Params) error {
	if kind < Generic || kind > PolicyRate {
		return fmt.Errorf("%w: unknown kind %d", apperrors.ErrConfiguration, int(kind))
	}
	if p.Principal <= 0 {
		return fmt.Errorf("%w: principal must be positive, got %v", apperrors.ErrConfiguration, p.Principal)
	}
	if !p.End.After(p.Start) {
		return fmt.Errorf("%w: end %s is not after start %s", apperrors.ErrConfiguration,
			p.End.Format(time.DateOnly), p.Start.Format(time.DateOnly))
	}

	if p.Index == index.None {
		if idx, ok := kind.defaultIndex(); ok {
			p.Index = idx
		}
	}
	if !kind.accepts(p.Index) {
		return fmt.Errorf("%w: %s instruments cannot follow the %s index", apperrors.ErrConfiguration, kind, p.Index)
	}

	switch p.Operator {
	case DefaultOperator:
		p.Operator = kind.defaultOperator()
	case Additive, Multiplicative:
	default:
		return fmt.Errorf("%w: unknown operator %d", apperrors.ErrConfiguration, int(p.Operator))
	}
	if p.Operator == Multiplicative && (p.Index == index.Inflation || p.Index == index.None) {
		return fmt.Errorf("%w: the multiplicative operator needs a floating index, got %s", apperrors.ErrConfiguration, p.Index)
	}

	if p.CouponMonths.IsZero() {
		p.CouponMonths = DefaultCouponMonths
	}
	if err := p.CouponMonths.Validate(); err != nil {
		return err
	}

	if p.Rates == nil {
		p.Rates = index.Defaults()
	}
	return nil
}

// Name returns the instrument name.
func (in *Instrument) Name() string { return in.p.Name }

// Kind returns the variant.
func (in *Instrument) Kind() Kind { return in.kind }

// Params returns the resolved parameters.
func (in *Instrument) Params() Params { return in.p }

// Start returns the first month of the instrument's life.
func (in *Instrument) Start() time.Time { return in.start }

// Maturity returns the month the instrument is redeemed.
func (in *Instrument) Maturity() time.Time { return in.maturity }

// Covers reports whether every month from start to end lies within the
// instrument's life.
func (in *Instrument) Covers(start, end time.Time) bool {
	return !calendar.FirstOfMonth(start).Before(in.start) && !calendar.FirstOfMonth(end).After(in.maturity)
}

// Reset discards the history, any pending contribution and returns the
// position to its initial principal.
func (in *Instrument) Reset() {
	in.principal = in.p.Principal
	in.interest = 0
	in.pending = 0
	in.last = time.Time{}
	in.history = nil
	in.values = series.New[float64](calendar.MonthsBetween(in.start, in.maturity) + 1)
}

// History returns a copy of the monthly records in chronological order.
func (in *Instrument) History() []Record { return slices.Clone(in.history) }

// Values returns the month to value series. The caller must not modify it.
func (in *Instrument) Values() *series.Series[float64] { return in.values }

// Latest returns the most recent record and false when nothing was simulated.
func (in *Instrument) Latest() (Record, bool) {
	if len(in.history) == 0 {
		return Record{}, false
	}
	return in.history[len(in.history)-1], true
}

// ValueAt returns the value at the latest simulated month on or before t.
func (in *Instrument) ValueAt(t time.Time) (float64, error) {
	if in.values.Len() == 0 {
		return 0, fmt.Errorf("instrument %q: %w", in.p.Name, apperrors.ErrNotSimulated)
	}
	_, v, ok := in.values.AsOf(t)
	if !ok {
		first, _ := in.values.First()
		return 0, fmt.Errorf("instrument %q: %s precedes first month %s: %w", in.p.Name,
			t.Format(time.DateOnly), first.Format(time.DateOnly), apperrors.ErrRange)
	}
	return v, nil
}

// Return is value(end)/value(start) - 1 over the simulated history.
func (in *Instrument) Return(start, end time.Time) (float64, error) {
	v0, err := in.ValueAt(start)
	if err != nil {
		return 0, err
	}
	v1, err := in.ValueAt(end)
	if err != nil {
		return 0, err
	}
	return v1/v0 - 1, nil
}

// Coupons returns the records of the months in which a coupon was paid.
func (in *Instrument) Coupons() []Record {
	var out []Record
	for _, r := range in.history {
		if r.Coupon > 0 {
			out = append(out, r)
		}
	}
	return out
}

// TotalCoupons sums every coupon paid so far.
func (in *Instrument) TotalCoupons() float64 {
	total := 0.0
	for _, r := range in.history {
		total += r.Coupon
	}
	return total
}

// Contribute queues an amount to be added to the principal at the next step.
func (in *Instrument) Contribute(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("instrument %q: contribution must be positive, got %v: %w",
			in.p.Name, amount, apperrors.ErrConfiguration)
	}
	in.pending += amount
	return nil
}

// Clone returns an instrument with the same parameters and no history.
func (in *Instrument) Clone() *Instrument { return newResolved(in.kind, in.p) }

// WithRates is Clone reading index rates from src instead.
func (in *Instrument) WithRates(src index.Source) *Instrument {
	p := in.p
	if src != nil {
		p.Rates = src
	}
	return newResolved(in.kind, p)
}

// MonthlyRate converts an annual rate to the equivalent monthly rate.
func MonthlyRate(annual float64) float64 {
	return math.Pow(1+annual, 1.0/12) - 1
}

func (in *Instrument) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) %.2f, %s to %s, %s",
		in.p.Name, in.kind, in.p.Principal,
		in.start.Format("2006-01"), in.maturity.Format("2006-01"), in.describeRate())
	if in.p.SemiannualCoupon {
		fmt.Fprintf(&b, ", semi-annual coupons %s", in.p.CouponMonths)
	}
	return b.String()
}

func (in *Instrument) describeRate() string {
	switch {
	case in.p.Index == index.None:
		return fmt.Sprintf("%.2f%% a year", in.p.Rate*100)
	case in.p.Operator == Multiplicative:
		return fmt.Sprintf("%.2f%% of %s", in.p.Rate*100, in.p.Index)
	default:
		return fmt.Sprintf("%s + %.2f%% a year", in.p.Index, in.p.Rate*100)
	}
}
