package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	j, err := NewCSV(dir)
	require.NoError(t, err)
	assert.NoError(t, j.Close())

	assert.Equal(t,
		[]string{"run_id", "month", "instrument", "value", "principal", "interest"},
		readCSV(t, filepath.Join(dir, SnapshotsFile))[0])
	assert.Equal(t,
		[]string{"run_id", "month", "instrument", "amount"},
		readCSV(t, filepath.Join(dir, CouponsFile))[0])
	assert.Len(t, readCSV(t, filepath.Join(dir, RunsFile))[0], 14)
}

func TestCSVJournalRecordSnapshot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	j, err := NewCSV(dir)
	require.NoError(t, err)

	err = j.RecordSnapshot(Snapshot{
		RunID: "R1",
		Month: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Total: 15075.555,
		Positions: []Position{
			{Instrument: "CDB", Value: 10050.125, Principal: 10000, Interest: 50.125},
			{Instrument: "IPCA+", Value: 5025.43, Principal: 5000, Interest: 25.43},
		},
	})
	require.NoError(t, err)
	require.NoError(t, j.Close())

	rows := readCSV(t, filepath.Join(dir, SnapshotsFile))
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"R1", "2024-03-01", "CDB", "10050.13", "10000.00", "50.13"}, rows[1])
	assert.Equal(t, []string{"R1", "2024-03-01", "IPCA+", "5025.43", "5000.00", "25.43"}, rows[2])
	assert.Equal(t, []string{"R1", "2024-03-01", TotalName, "15075.56", "", ""}, rows[3])
}

func TestCSVJournalRecordCouponAndRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	j, err := NewCSV(dir)
	require.NoError(t, err)

	month := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordCoupon(Coupon{RunID: "R1", Month: month, Instrument: "IPCA+", Amount: 137.5}))
	require.NoError(t, j.RecordRun(Run{
		ID:           "R1",
		Name:         "carteira",
		Scenario:     "base",
		Created:      time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Start:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:          month,
		Months:       7,
		Instruments:  []string{"CDB", "IPCA+"},
		Initial:      15000,
		Final:        15500,
		TotalReturn:  0.0333333,
		AnnualReturn: 0.05,
	}))
	require.NoError(t, j.Close())

	coupons := readCSV(t, filepath.Join(dir, CouponsFile))
	require.Len(t, coupons, 2)
	assert.Equal(t, []string{"R1", "2024-07-01", "IPCA+", "137.50"}, coupons[1])

	runs := readCSV(t, filepath.Join(dir, RunsFile))
	require.Len(t, runs, 2)
	assert.Equal(t, "R1", runs[1][0])
	assert.Equal(t, "2024-01-02T03:04:05Z", runs[1][3])
	assert.Equal(t, "7", runs[1][6])
	assert.Equal(t, "CDB;IPCA+", runs[1][7])
	assert.Equal(t, "15500.00", runs[1][9])
	assert.Equal(t, "0.033333", runs[1][12])
}
