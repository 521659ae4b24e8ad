// Package report prints simulation results for people: run summaries,
// scenario comparisons and monthly tables.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/rendafixa/journal"
	"github.com/rustyeddy/rendafixa/portfolio"
)

const rule = "--------------------------------------------------"

// BRL formats an amount in reais, rounded to centavos.
func BRL(amount float64) string {
	cents := decimal.NewFromFloat(amount).Round(2).Shift(2).IntPart()
	return money.New(cents, money.BRL).Display()
}

// Percent formats a decimal rate as a percentage with two places.
func Percent(x float64) string {
	return decimal.NewFromFloat(x).Shift(2).StringFixed(2) + "%"
}

// PrintRun writes a run summary.
func PrintRun(w io.Writer, r journal.Run) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Simulation Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.ID)
	fmt.Fprintf(w, "Created:       %s\n", r.Created.Format(time.RFC3339))
	fmt.Fprintf(w, "Portfolio:     %s\n", r.Name)
	if r.Scenario != "" {
		fmt.Fprintf(w, "Scenario:      %s\n", r.Scenario)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Start:         %s\n", r.Start.Format("2006-01"))
	fmt.Fprintf(w, "End:           %s\n", r.End.Format("2006-01"))
	fmt.Fprintf(w, "Months:        %d\n", r.Months)

	if len(r.Instruments) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Instruments")
		fmt.Fprintln(w, rule)
		for _, name := range r.Instruments {
			fmt.Fprintf(w, "- %s\n", name)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Initial:       %s\n", BRL(r.Initial))
	if r.Contributed > 0 {
		fmt.Fprintf(w, "Contributed:   %s\n", BRL(r.Contributed))
	}
	fmt.Fprintf(w, "Final:         %s\n", BRL(r.Final))
	if r.Coupons > 0 {
		fmt.Fprintf(w, "Coupons:       %s\n", BRL(r.Coupons))
	}
	fmt.Fprintf(w, "Gain:          %s\n", BRL(r.Gain()))
	fmt.Fprintf(w, "Return:        %s\n", Percent(r.TotalReturn))
	fmt.Fprintf(w, "Annualized:    %s\n", Percent(r.AnnualReturn))

	if r.OrgPath != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Org report:    %s\n", r.OrgPath)
	}
}

// PrintScenarios writes one line per run so scenarios can be compared.
func PrintScenarios(w io.Writer, runs []journal.Run) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Scenario\tInitial\tFinal\tCoupons\tReturn\tAnnualized\tYears\t")
	for _, r := range runs {
		years := float64(r.Months-1) / 12
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%.2f\t\n",
			r.Scenario, BRL(r.Initial), BRL(r.Final), BRL(r.Coupons),
			Percent(r.TotalReturn), Percent(r.AnnualReturn), years)
	}
	return tw.Flush()
}

// PrintTable writes a month by instrument table with values in reais.
func PrintTable(w io.Writer, t portfolio.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Month\t%s\t\n", strings.Join(t.Header, "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = BRL(c)
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", row.Month.Format("2006-01"), strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// WriteCSV writes the table as CSV with amounts rounded to centavos.
func WriteCSV(w io.Writer, t portfolio.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"month"}, t.Header...)); err != nil {
		return err
	}
	for _, row := range t.Rows {
		rec := make([]string, 0, len(row.Cells)+1)
		rec = append(rec, row.Month.Format(time.DateOnly))
		for _, c := range row.Cells {
			rec = append(rec, decimal.NewFromFloat(c).StringFixed(2))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
