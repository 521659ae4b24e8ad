package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const runColumns = `run_id, name, scenario, created, start_month, end_month, months, instruments,
	initial, final, contributed, coupons, total_return, annual_return, org_path`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		r           Run
		instruments string
	)
	err := s.Scan(
		&r.ID,
		&r.Name,
		&r.Scenario,
		&r.Created,
		&r.Start,
		&r.End,
		&r.Months,
		&instruments,
		&r.Initial,
		&r.Final,
		&r.Contributed,
		&r.Coupons,
		&r.TotalReturn,
		&r.AnnualReturn,
		&r.OrgPath,
	)
	if instruments != "" {
		r.Instruments = strings.Split(instruments, "\n")
	}
	return r, err
}

// GetRun returns a single run summary by ID.
func (j *SQLiteJournal) GetRun(ctx context.Context, runID string) (Run, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("run %q: %w", runID, ErrRunNotFound)
		}
		return Run{}, err
	}
	return r, nil
}

// ListRuns returns every run, newest first.
func (j *SQLiteJournal) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created DESC, run_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSnapshots returns the monthly snapshots of a run in month order, each
// with its positions in portfolio order.
func (j *SQLiteJournal) ListSnapshots(ctx context.Context, runID string) ([]Snapshot, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT month, total
		FROM snapshots
		WHERE run_id = ?
		ORDER BY month ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		s := Snapshot{RunID: runID}
		if err := rows.Scan(&s.Month, &s.Total); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prows, err := j.db.QueryContext(ctx, `
		SELECT month, instrument, value, principal, interest
		FROM positions
		WHERE run_id = ?
		ORDER BY month ASC, position ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer prows.Close()

	i := 0
	for prows.Next() {
		var p Position
		var month sql.NullTime
		if err := prows.Scan(&month, &p.Instrument, &p.Value, &p.Principal, &p.Interest); err != nil {
			return nil, err
		}
		for i < len(out) && out[i].Month.Before(month.Time) {
			i++
		}
		if i == len(out) {
			break
		}
		out[i].Positions = append(out[i].Positions, p)
	}
	if err := prows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCoupons returns the coupons of a run in month order.
func (j *SQLiteJournal) ListCoupons(ctx context.Context, runID string) ([]Coupon, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT month, instrument, amount
		FROM coupons
		WHERE run_id = ?
		ORDER BY month ASC, rowid ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Coupon
	for rows.Next() {
		c := Coupon{RunID: runID}
		if err := rows.Scan(&c.Month, &c.Instrument, &c.Amount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CouponTotals sums the coupons of a run per instrument.
func (j *SQLiteJournal) CouponTotals(ctx context.Context, runID string) (map[string]float64, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT instrument, SUM(amount)
		FROM coupons
		WHERE run_id = ?
		GROUP BY instrument`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var (
			name  string
			total float64
		)
		if err := rows.Scan(&name, &total); err != nil {
			return nil, err
		}
		out[name] = total
	}
	return out, rows.Err()
}
