package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteJournal stores runs in a SQLite database. Writes are serialised so a
// single journal can back concurrent scenario runs.
type SQLiteJournal struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies Schema.
func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

// RecordSnapshot stores the month total and every position in one
// transaction.
func (j *SQLiteJournal) RecordSnapshot(s Snapshot) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO snapshots (run_id, month, total)
		VALUES (?, ?, ?)`,
		s.RunID, s.Month, s.Total,
	); err != nil {
		return err
	}

	for i, p := range s.Positions {
		if _, err := tx.Exec(`
			INSERT INTO positions (run_id, month, position, instrument, value, principal, interest)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.RunID, s.Month, i, p.Instrument, p.Value, p.Principal, p.Interest,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (j *SQLiteJournal) RecordCoupon(c Coupon) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(`
		INSERT INTO coupons (run_id, month, instrument, amount)
		VALUES (?, ?, ?, ?)`,
		c.RunID, c.Month, c.Instrument, c.Amount,
	)
	return err
}

// RecordRun inserts the run summary, replacing a previous one with the same
// ID.
func (j *SQLiteJournal) RecordRun(r Run) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO runs
		(run_id, name, scenario, created, start_month, end_month, months, instruments,
		 initial, final, contributed, coupons, total_return, annual_return, org_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Scenario, r.Created, r.Start, r.End, r.Months,
		strings.Join(r.Instruments, "\n"),
		r.Initial, r.Final, r.Contributed, r.Coupons, r.TotalReturn, r.AnnualReturn, r.OrgPath,
	)
	return err
}

// ExportRunOrg loads a run with its snapshots and coupons and returns the
// Org report.
func (j *SQLiteJournal) ExportRunOrg(ctx context.Context, runID string) (string, error) {
	run, err := j.GetRun(ctx, runID)
	if err != nil {
		return "", err
	}
	snaps, err := j.ListSnapshots(ctx, runID)
	if err != nil {
		return "", err
	}
	coupons, err := j.ListCoupons(ctx, runID)
	if err != nil {
		return "", err
	}
	return FormatRunOrg(OrgReport{Run: run, Snapshots: snaps, Coupons: coupons})
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
