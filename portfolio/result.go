package portfolio

import (
	"fmt"
	"time"

	"github.com/rustyeddy/rendafixa/apperrors"
	"github.com/rustyeddy/rendafixa/series"
)

// TotalColumn is the header of the aggregate column in tables.
const TotalColumn = "Total"

// Row is one simulated month. Slices are indexed by instrument position.
type Row struct {
	Month         time.Time
	Values        []float64
	Coupons       []float64
	Contributions []float64
	Total         float64
}

// CouponTotal sums the coupons paid in the month.
func (r Row) CouponTotal() float64 {
	total := 0.0
	for _, c := range r.Coupons {
		total += c
	}
	return total
}

// Result is the aggregated outcome of a portfolio run.
type Result struct {
	Name   string
	Start  time.Time
	End    time.Time
	Names  []string
	Rows   []Row
	Totals *series.Series[float64]
}

// Months lists the simulated months.
func (r *Result) Months() []time.Time { return r.Totals.Dates() }

// Initial is the total of the first simulated month.
func (r *Result) Initial() float64 {
	_, v := r.Totals.First()
	return v
}

// Final is the total of the last simulated month.
func (r *Result) Final() float64 {
	_, v := r.Totals.Latest()
	return v
}

// ValueAt returns the total at the latest simulated month on or before t.
func (r *Result) ValueAt(t time.Time) (float64, error) {
	_, v, ok := r.Totals.AsOf(t)
	if !ok {
		return 0, fmt.Errorf("%s precedes the first simulated month %s: %w",
			t.Format(time.DateOnly), r.Start.Format(time.DateOnly), apperrors.ErrRange)
	}
	return v, nil
}

// TotalCoupons sums every coupon paid during the run.
func (r *Result) TotalCoupons() float64 {
	total := 0.0
	for _, row := range r.Rows {
		total += row.CouponTotal()
	}
	return total
}

// TotalContributions sums every contribution applied during the run.
func (r *Result) TotalContributions() float64 {
	total := 0.0
	for _, row := range r.Rows {
		for _, c := range row.Contributions {
			total += c
		}
	}
	return total
}

// Table is a month by instrument grid with a trailing total column.
type Table struct {
	Header []string // instrument names then TotalColumn
	Rows   []TableRow
}

// TableRow holds one cell per header column.
type TableRow struct {
	Month time.Time
	Cells []float64
}

// Table returns the value of every position in every month.
func (r *Result) Table() Table {
	t := Table{Header: r.header(), Rows: make([]TableRow, 0, len(r.Rows))}
	for _, row := range r.Rows {
		t.Rows = append(t.Rows, TableRow{Month: row.Month, Cells: withTotal(row.Values, row.Total)})
	}
	return t
}

// CouponTable returns the coupons paid, only for months with at least one
// payout.
func (r *Result) CouponTable() Table {
	t := Table{Header: r.header()}
	for _, row := range r.Rows {
		total := row.CouponTotal()
		if total == 0 {
			continue
		}
		t.Rows = append(t.Rows, TableRow{Month: row.Month, Cells: withTotal(row.Coupons, total)})
	}
	return t
}

func (r *Result) header() []string {
	h := make([]string, 0, len(r.Names)+1)
	h = append(h, r.Names...)
	return append(h, TotalColumn)
}

func withTotal(cells []float64, total float64) []float64 {
	out := make([]float64, 0, len(cells)+1)
	out = append(out, cells...)
	return append(out, total)
}
