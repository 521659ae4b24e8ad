package index

import (
	"time"

	"github.com/rustyeddy/rendafixa/calendar"
)

// Table overrides the rate of an index for specific months and falls back to
// another Source for every month it does not know. It is how scenarios and
// historical series are expressed.
//
// A Table must be fully populated before a simulation starts; it is read
// concurrently by scenario runs.
type Table struct {
	fallback Source
	rates    map[Index]map[time.Time]float64
}

// NewTable returns an empty table over fallback (Defaults() when nil).
func NewTable(fallback Source) *Table {
	if fallback == nil {
		fallback = Defaults()
	}
	return &Table{fallback: fallback, rates: make(map[Index]map[time.Time]float64)}
}

// Set overrides the rate of idx for the month containing on.
func (t *Table) Set(idx Index, on time.Time, rate float64) *Table {
	m, ok := t.rates[idx]
	if !ok {
		m = make(map[time.Time]float64)
		t.rates[idx] = m
	}
	m[calendar.FirstOfMonth(on)] = rate
	return t
}

// SetYear overrides the twelve monthly rates of a year. Missing trailing
// values are left to the fallback.
func (t *Table) SetYear(idx Index, year int, rates ...float64) *Table {
	for i, r := range rates {
		if i >= 12 {
			break
		}
		t.Set(idx, time.Date(year, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC), r)
	}
	return t
}

// Lookup returns the override for the month and whether there was one.
func (t *Table) Lookup(idx Index, month time.Time) (float64, bool) {
	r, ok := t.rates[idx][calendar.FirstOfMonth(month)]
	return r, ok
}

// Len returns the number of overridden months across all indices.
func (t *Table) Len() int {
	n := 0
	for _, m := range t.rates {
		n += len(m)
	}
	return n
}

// Monthly implements Source.
func (t *Table) Monthly(idx Index, month time.Time) float64 {
	if r, ok := t.Lookup(idx, month); ok {
		return r
	}
	return t.fallback.Monthly(idx, month)
}

var _ Source = (*Table)(nil)

// Historical returns the monthly IPCA and CDI series for 2020-2024 followed by
// flat projections (0.40% IPCA, 0.90% CDI per month) up to 2035. Months
// outside the table use fallback (Defaults() when nil).
func Historical(fallback Source) *Table {
	t := NewTable(fallback)

	t.SetYear(Inflation, 2020, 0.0021, 0.0025, 0.0007, -0.0031, -0.0038, 0.0026, 0.0036, 0.0024, 0.0064, 0.0086, 0.0089, 0.0123)
	t.SetYear(Inflation, 2021, 0.0025, 0.0086, 0.0093, 0.0031, 0.0083, 0.0053, 0.0096, 0.0087, 0.0044, 0.0106, 0.0095, 0.0073)
	t.SetYear(Inflation, 2022, 0.0054, 0.0099, 0.0062, 0.0106, 0.0047, 0.0067, -0.0068, -0.0036, -0.0029, 0.0059, 0.0041, 0.0062)
	t.SetYear(Inflation, 2023, 0.0053, 0.0084, 0.0071, 0.0061, 0.0023, -0.0008, 0.0012, 0.0023, 0.0026, 0.0024, 0.0028, 0.0056)
	t.SetYear(Inflation, 2024, 0.0042, 0.0083, 0.0016, 0.0057, 0.0046, 0.0062, 0.0070, 0.0074, 0.0050, 0.0048, 0.0040, 0.0038)

	t.SetYear(Interbank, 2020, 0.0038, 0.0029, 0.0034, 0.0028, 0.0024, 0.0021, 0.0019, 0.0016, 0.0016, 0.0016, 0.0015, 0.0016)
	t.SetYear(Interbank, 2021, 0.0015, 0.0013, 0.0020, 0.0021, 0.0027, 0.0031, 0.0036, 0.0042, 0.0044, 0.0048, 0.0059, 0.0077)
	t.SetYear(Interbank, 2022, 0.0073, 0.0075, 0.0092, 0.0083, 0.0103, 0.0108, 0.0109, 0.0114, 0.0113, 0.0119, 0.0113, 0.0112)
	t.SetYear(Interbank, 2023, 0.0121, 0.0092, 0.0113, 0.0092, 0.0098, 0.0102, 0.0103, 0.0104, 0.0105, 0.0105, 0.0098, 0.0097)
	t.SetYear(Interbank, 2024, 0.0096, 0.0092, 0.0097, 0.0092, 0.0093, 0.0094, 0.0094, 0.0095, 0.0095, 0.0095, 0.0096, 0.0096)

	for year := 2025; year <= 2035; year++ {
		t.SetYear(Inflation, year, flat(0.0040)...)
		t.SetYear(Interbank, year, flat(0.0090)...)
	}
	return t
}

func flat(r float64) []float64 {
	out := make([]float64, 12)
	for i := range out {
		out[i] = r
	}
	return out
}
