package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// CSV file names written by NewCSV.
const (
	SnapshotsFile = "snapshots.csv"
	CouponsFile   = "coupons.csv"
	RunsFile      = "runs.csv"
)

// CSVJournal writes one row per position per month, one row per coupon and
// one row per run into three files of a directory. Money is rounded to
// centavos.
type CSVJournal struct {
	mu        sync.Mutex
	snapshots *csv.Writer
	coupons   *csv.Writer
	runs      *csv.Writer
	files     []*os.File
}

// NewCSV creates dir if needed and truncates the three journal files in it.
func NewCSV(dir string) (*CSVJournal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	j := &CSVJournal{}
	open := func(name string, header []string) (*csv.Writer, error) {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		j.files = append(j.files, f)
		w := csv.NewWriter(f)
		if err := w.Write(header); err != nil {
			return nil, err
		}
		w.Flush()
		return w, w.Error()
	}

	var err error
	if j.snapshots, err = open(SnapshotsFile, []string{"run_id", "month", "instrument", "value", "principal", "interest"}); err != nil {
		j.closeFiles()
		return nil, err
	}
	if j.coupons, err = open(CouponsFile, []string{"run_id", "month", "instrument", "amount"}); err != nil {
		j.closeFiles()
		return nil, err
	}
	if j.runs, err = open(RunsFile, []string{
		"run_id", "name", "scenario", "created", "start", "end", "months", "instruments",
		"initial", "final", "contributed", "coupons", "total_return", "annual_return",
	}); err != nil {
		j.closeFiles()
		return nil, err
	}
	return j, nil
}

// RecordSnapshot writes one row per position followed by a row for the
// portfolio total.
func (j *CSVJournal) RecordSnapshot(s Snapshot) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	month := s.Month.Format(time.DateOnly)
	for _, p := range s.Positions {
		if err := j.snapshots.Write([]string{
			s.RunID, month, p.Instrument, money(p.Value), money(p.Principal), money(p.Interest),
		}); err != nil {
			return err
		}
	}
	if err := j.snapshots.Write([]string{s.RunID, month, TotalName, money(s.Total), "", ""}); err != nil {
		return err
	}
	j.snapshots.Flush()
	return j.snapshots.Error()
}

func (j *CSVJournal) RecordCoupon(c Coupon) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.coupons.Write([]string{
		c.RunID, c.Month.Format(time.DateOnly), c.Instrument, money(c.Amount),
	}); err != nil {
		return err
	}
	j.coupons.Flush()
	return j.coupons.Error()
}

func (j *CSVJournal) RecordRun(r Run) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.runs.Write([]string{
		r.ID,
		r.Name,
		r.Scenario,
		r.Created.Format(time.RFC3339),
		r.Start.Format(time.DateOnly),
		r.End.Format(time.DateOnly),
		strconv.Itoa(r.Months),
		strings.Join(r.Instruments, ";"),
		money(r.Initial),
		money(r.Final),
		money(r.Contributed),
		money(r.Coupons),
		f(r.TotalReturn),
		f(r.AnnualReturn),
	}); err != nil {
		return err
	}
	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSVJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, w := range []*csv.Writer{j.snapshots, j.coupons, j.runs} {
		w.Flush()
		if err := w.Error(); err != nil {
			j.closeFiles()
			return err
		}
	}
	return j.closeFiles()
}

func (j *CSVJournal) closeFiles() error {
	var first error
	for _, f := range j.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	j.files = nil
	return first
}

// TotalName labels the portfolio total among instrument rows.
const TotalName = "Total"

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

func money(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2)
}
