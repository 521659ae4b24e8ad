package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/rustyeddy/rendafixa/apperrors"
	"github.com/rustyeddy/rendafixa/index"
	"github.com/rustyeddy/rendafixa/instrument"
	"github.com/rustyeddy/rendafixa/portfolio"
	"github.com/rustyeddy/rendafixa/sim"
)

// BaseScenario names the scenario built from the rates section alone.
const BaseScenario = "base"

// Window returns the simulation start and end.
func (c *Config) Window() (start, end time.Time) {
	return c.Simulation.Start.Time(), c.Simulation.End.Time()
}

// Source returns the index rates of the base scenario.
func (c *Config) Source() index.Source {
	return c.source(index.Rates{})
}

func (c *Config) source(override index.Rates) index.Source {
	rates := index.Defaults().Merge(c.Rates.Monthly).Merge(override)
	if c.Rates.Historical {
		return index.Historical(rates)
	}
	return rates
}

// Build returns a fresh portfolio whose instruments read index rates from
// src (the base scenario when nil).
func (c *Config) Build(src index.Source) (*portfolio.Portfolio, error) {
	if src == nil {
		src = c.Source()
	}
	p := portfolio.New(c.Portfolio.Name)
	for i, ic := range c.Portfolio.Instruments {
		in, err := ic.Instrument(src)
		if err != nil {
			return nil, fmt.Errorf("portfolio.instruments[%d]: %w", i, err)
		}
		p.Add(in)
	}

	for _, ct := range c.Simulation.Contributions {
		if _, ok := p.Find(ct.Instrument); !ok {
			return nil, fmt.Errorf("contribution to %q: %w", ct.Instrument, portfolio.ErrNotHeld)
		}
	}
	return p, nil
}

// Instrument parses the textual fields and builds the instrument.
func (ic InstrumentConfig) Instrument(src index.Source) (*instrument.Instrument, error) {
	kind, err := instrument.ParseKind(ic.Kind)
	if err != nil {
		return nil, err
	}
	op, err := instrument.ParseOperator(ic.Operator)
	if err != nil {
		return nil, err
	}
	idx, err := index.Parse(ic.Index)
	if err != nil {
		return nil, err
	}

	var months instrument.CouponMonths
	switch len(ic.CouponMonths) {
	case 0:
	case 2:
		months = instrument.CouponMonths{time.Month(ic.CouponMonths[0]), time.Month(ic.CouponMonths[1])}
	default:
		return nil, fmt.Errorf("%q: coupon_months needs exactly two months, got %v: %w",
			ic.Name, ic.CouponMonths, apperrors.ErrConfiguration)
	}

	return instrument.New(kind, instrument.Params{
		Name:             ic.Name,
		Principal:        ic.Principal,
		Start:            ic.Start.Time(),
		End:              ic.End.Time(),
		Rate:             ic.Rate,
		Operator:         op,
		Index:            idx,
		IndexRate:        ic.IndexRate,
		SemiannualCoupon: ic.SemiannualCoupon,
		CouponMonths:     months,
		Rates:            src,
	})
}

// BuildScenarios returns the base scenario followed by the configured ones.
// A configured scenario named "base" replaces the default one.
func (c *Config) BuildScenarios() ([]sim.Scenario, error) {
	out := make([]sim.Scenario, 0, len(c.Scenarios)+1)
	if !slices.ContainsFunc(c.Scenarios, func(s ScenarioConfig) bool { return s.Name == BaseScenario }) {
		out = append(out, sim.Scenario{Name: BaseScenario, Rates: c.Source()})
	}

	for _, s := range c.Scenarios {
		tbl := index.NewTable(c.source(s.Rates))
		for _, o := range s.Overrides {
			idx, err := index.Parse(o.Index)
			if err != nil {
				return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
			}
			tbl.Set(idx, o.Month.Time(), o.Rate)
		}
		out = append(out, sim.Scenario{Name: s.Name, Rates: tbl})
	}
	return out, nil
}
