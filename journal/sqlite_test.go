package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLiteJournal, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func sampleRun() Run {
	return Run{
		ID:           "01HZRUN",
		Name:         "carteira",
		Scenario:     "pessimista",
		Created:      time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Start:        month(2024, time.January),
		End:          month(2024, time.December),
		Months:       12,
		Instruments:  []string{"CDB", "Tesouro IPCA+"},
		Initial:      15000,
		Final:        16200.5,
		Contributed:  1000,
		Coupons:      310.25,
		TotalReturn:  0.08003,
		AnnualReturn: 0.0873,
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table'`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	for _, table := range []string{"runs", "snapshots", "positions", "coupons"} {
		assert.True(t, found[table], table)
	}
}

func TestSQLiteRecordSnapshot(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	snap := Snapshot{
		RunID: "R1",
		Month: month(2024, time.February),
		Total: 15100.25,
		Positions: []Position{
			{Instrument: "CDB", Value: 10080, Principal: 10000, Interest: 80},
			{Instrument: "IPCA+", Value: 5020.25, Principal: 5020.25},
		},
	}
	require.NoError(t, j.RecordSnapshot(snap))
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		gotMonth time.Time
		total    float64
		count    int
	)
	require.NoError(t, db.QueryRow(`SELECT month, total FROM snapshots LIMIT 1`).Scan(&gotMonth, &total))
	assert.True(t, gotMonth.Equal(snap.Month))
	assert.InDelta(t, snap.Total, total, 1e-9)

	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM positions WHERE run_id = 'R1'`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestSQLiteDuplicateSnapshotRollsBack(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	snap := Snapshot{
		RunID:     "R1",
		Month:     month(2024, time.February),
		Total:     100,
		Positions: []Position{{Instrument: "CDB", Value: 100, Principal: 100}},
	}
	require.NoError(t, j.RecordSnapshot(snap))
	assert.Error(t, j.RecordSnapshot(snap))

	snaps, err := j.ListSnapshots(context.Background(), "R1")
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Len(t, snaps[0].Positions, 1)
}

func TestSQLiteRunRoundTrip(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	want := sampleRun()
	require.NoError(t, j.RecordRun(want))

	got, err := j.GetRun(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Scenario, got.Scenario)
	assert.True(t, want.Created.Equal(got.Created))
	assert.True(t, want.Start.Equal(got.Start))
	assert.True(t, want.End.Equal(got.End))
	assert.Equal(t, want.Months, got.Months)
	assert.Equal(t, want.Instruments, got.Instruments)
	assert.InDelta(t, want.Final, got.Final, 1e-9)
	assert.InDelta(t, want.Coupons, got.Coupons, 1e-9)
	assert.InDelta(t, want.AnnualReturn, got.AnnualReturn, 1e-12)

	_, err = j.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSQLiteListRuns(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	older := sampleRun()
	newer := sampleRun()
	newer.ID = "01HZRUN2"
	newer.Created = older.Created.Add(time.Hour)

	require.NoError(t, j.RecordRun(older))
	require.NoError(t, j.RecordRun(newer))

	runs, err := j.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, older.ID, runs[1].ID)
}

func TestSQLiteListSnapshotsAndCoupons(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	for i, total := range []float64{100, 101, 102} {
		m := month(2024, time.Month(i+1))
		require.NoError(t, j.RecordSnapshot(Snapshot{
			RunID: "R1",
			Month: m,
			Total: total,
			Positions: []Position{
				{Instrument: "a", Value: total - 40},
				{Instrument: "b", Value: 40},
			},
		}))
	}
	require.NoError(t, j.RecordSnapshot(Snapshot{RunID: "other", Month: month(2024, time.January), Total: 1}))

	require.NoError(t, j.RecordCoupon(Coupon{RunID: "R1", Month: month(2024, time.January), Instrument: "b", Amount: 2}))
	require.NoError(t, j.RecordCoupon(Coupon{RunID: "R1", Month: month(2024, time.March), Instrument: "b", Amount: 3}))
	require.NoError(t, j.RecordCoupon(Coupon{RunID: "R1", Month: month(2024, time.March), Instrument: "a", Amount: 1.5}))

	snaps, err := j.ListSnapshots(ctx, "R1")
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	for i, s := range snaps {
		assert.True(t, s.Month.Equal(month(2024, time.Month(i+1))))
		require.Len(t, s.Positions, 2)
		assert.Equal(t, "a", s.Positions[0].Instrument)
		assert.Equal(t, "b", s.Positions[1].Instrument)
		assert.InDelta(t, s.Total, s.Positions[0].Value+s.Positions[1].Value, 1e-9)
	}

	coupons, err := j.ListCoupons(ctx, "R1")
	require.NoError(t, err)
	require.Len(t, coupons, 3)
	assert.Equal(t, 2.0, coupons[0].Amount)

	totals, err := j.CouponTotals(ctx, "R1")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, totals["b"], 1e-9)
	assert.InDelta(t, 1.5, totals["a"], 1e-9)
}

func TestSQLiteConcurrentWrites(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func(run string) {
			defer wg.Done()
			for i := 0; i < 12; i++ {
				assert.NoError(t, j.RecordSnapshot(Snapshot{
					RunID: run,
					Month: month(2024, time.Month(i+1)),
					Total: float64(i),
				}))
			}
		}(string(rune('A' + r)))
	}
	wg.Wait()

	snaps, err := j.ListSnapshots(context.Background(), "C")
	require.NoError(t, err)
	assert.Len(t, snaps, 12)
}

func TestSQLiteExportRunOrg(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	run := sampleRun()
	require.NoError(t, j.RecordRun(run))
	require.NoError(t, j.RecordSnapshot(Snapshot{RunID: run.ID, Month: month(2024, time.January), Total: 15000}))
	require.NoError(t, j.RecordCoupon(Coupon{RunID: run.ID, Month: month(2024, time.July), Instrument: "Tesouro IPCA+", Amount: 310.25}))

	org, err := j.ExportRunOrg(ctx, run.ID)
	require.NoError(t, err)
	assert.Contains(t, org, "* SIMULATION: carteira / pessimista")
	assert.Contains(t, org, ":RUN_ID:       01HZRUN")
	assert.Contains(t, org, "| 2024-07 | Tesouro IPCA+ | 310.25 |")

	_, err = j.ExportRunOrg(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}
