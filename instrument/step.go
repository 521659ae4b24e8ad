package instrument

import (
	"fmt"
	"time"

	"github.com/rustyeddy/rendafixa/apperrors"
	"github.com/rustyeddy/rendafixa/calendar"
	"github.com/rustyeddy/rendafixa/index"
	"github.com/rustyeddy/rendafixa/series"
)

// Step advances the instrument to month and returns its value at the end of
// that month.
//
// The first step may land on any month of the instrument's life and only
// records the principal. Every later step must be the month right after the
// previous one.
func (in *Instrument) Step(month time.Time) (float64, error) {
	m := calendar.FirstOfMonth(month)
	if err := in.checkSequence(m); err != nil {
		return 0, fmt.Errorf("instrument %q: %w", in.p.Name, err)
	}

	rec := Record{Month: m}
	if len(in.history) > 0 {
		c, r, i := in.rates(m)
		accrued := (in.principal + in.interest) * (1 + c) * r
		in.principal *= 1 + c
		in.interest = in.interest*(1+c) + accrued

		rec.Accrued = accrued
		rec.IndexRate = i
		rec.PeriodRate = r

		if in.p.SemiannualCoupon && in.p.CouponMonths.Contains(m.Month()) {
			rec.Coupon = in.interest
			in.interest = 0
		}
	}

	if in.pending > 0 {
		in.principal += in.pending
		rec.Contribution = in.pending
		in.pending = 0
	}

	rec.Principal = in.principal
	rec.Interest = in.interest
	rec.Value = in.principal + in.interest
	rec.Redeemed = m.Equal(in.maturity)

	if err := in.values.Append(m, rec.Value); err != nil {
		return 0, fmt.Errorf("instrument %q: %w", in.p.Name, err)
	}
	in.history = append(in.history, rec)
	in.last = m
	return rec.Value, nil
}

func (in *Instrument) checkSequence(m time.Time) error {
	if m.After(in.maturity) {
		return fmt.Errorf("%w: %s is past maturity %s", apperrors.ErrSequence,
			m.Format("2006-01"), in.maturity.Format("2006-01"))
	}
	if len(in.history) == 0 {
		if m.Before(in.start) {
			return fmt.Errorf("%w: %s precedes the start %s", apperrors.ErrSequence,
				m.Format("2006-01"), in.start.Format("2006-01"))
		}
		return nil
	}
	if next := calendar.AddMonths(in.last, 1); !m.Equal(next) {
		return fmt.Errorf("%w: stepped to %s, expected %s", apperrors.ErrSequence,
			m.Format("2006-01"), next.Format("2006-01"))
	}
	return nil
}

// rates resolves, for the month, the index correction c applied to the
// principal, the interest rate r and the raw index rate i.
func (in *Instrument) rates(month time.Time) (c, r, i float64) {
	switch in.p.Index {
	case index.None:
		return 0, MonthlyRate(in.p.Rate), 0
	case index.Inflation:
		i = in.indexRate(month)
		return i, MonthlyRate(in.p.Rate), i
	default:
		i = in.indexRate(month)
		if in.p.Operator == Multiplicative {
			return 0, i * in.p.Rate, i
		}
		return 0, i + MonthlyRate(in.p.Rate), i
	}
}

func (in *Instrument) indexRate(month time.Time) float64 {
	if in.p.IndexRate != nil {
		return *in.p.IndexRate
	}
	return in.p.Rates.Monthly(in.p.Index, month)
}

// Simulate resets the instrument and steps it through every month from start
// to end, both included. It returns the resulting value series.
func (in *Instrument) Simulate(start, end time.Time) (*series.Series[float64], error) {
	if !end.After(start) {
		return nil, fmt.Errorf("instrument %q: end %s is not after start %s: %w", in.p.Name,
			end.Format(time.DateOnly), start.Format(time.DateOnly), apperrors.ErrRange)
	}
	if !in.Covers(start, end) {
		return nil, fmt.Errorf("instrument %q: window %s..%s is outside its life %s..%s: %w", in.p.Name,
			start.Format("2006-01"), end.Format("2006-01"),
			in.start.Format("2006-01"), in.maturity.Format("2006-01"), apperrors.ErrConfiguration)
	}

	in.Reset()
	for _, m := range calendar.Months(start, end) {
		if _, err := in.Step(m); err != nil {
			return nil, err
		}
	}
	return in.values, nil
}
