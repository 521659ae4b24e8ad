package journal

import (
	"bytes"
	"os"
	"text/template"
	"time"
)

// OrgReport is everything rendered into an Org-mode run report.
type OrgReport struct {
	Run       Run
	Snapshots []Snapshot
	Coupons   []Coupon
}

// Yearly returns the January snapshots plus the last one, which is enough
// for a readable table over long horizons.
func (o OrgReport) Yearly() []Snapshot {
	var out []Snapshot
	for i, s := range o.Snapshots {
		if s.Month.Month() == time.January || i == len(o.Snapshots)-1 {
			out = append(out, s)
		}
	}
	return out
}

var runOrgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var runOrgTemplate = template.Must(template.New("run").Funcs(runOrgFuncs).Parse(RunOrgTemplate))

// FormatRunOrg renders the report as an Org heading.
func FormatRunOrg(o OrgReport) (string, error) {
	buf := new(bytes.Buffer)
	if err := runOrgTemplate.Execute(buf, o); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteRunOrg renders the report to path.
func WriteRunOrg(path string, o OrgReport) error {
	s, err := FormatRunOrg(o)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0644)
}

const RunOrgTemplate = `
* SIMULATION: {{.Run.Name}}{{if .Run.Scenario}} / {{.Run.Scenario}}{{end}}
:PROPERTIES:
:RUN_ID:       {{if .Run.ID}}{{.Run.ID}}{{else}}(run-id?){{end}}
:PORTFOLIO:    {{.Run.Name}}
:SCENARIO:     {{if .Run.Scenario}}{{.Run.Scenario}}{{else}}(base){{end}}
:START_DATE:   {{.Run.Start.Format "2006-01-02"}}
:END_DATE:     {{.Run.End.Format "2006-01-02"}}
:MONTHS:       {{.Run.Months}}
:INITIAL:      {{printf "%.2f" .Run.Initial}}
:FINAL:        {{printf "%.2f" .Run.Final}}
:CONTRIBUTED:  {{printf "%.2f" .Run.Contributed}}
:COUPONS:      {{printf "%.2f" .Run.Coupons}}
:RETURN_PCT:   {{printf "%.2f" (mul100 .Run.TotalReturn)}}
:ANNUAL_PCT:   {{printf "%.2f" (mul100 .Run.AnnualReturn)}}
:CREATED:      [{{(orTime .Run.Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Instruments
{{- range .Run.Instruments }}
- {{.}}
{{- end }}

** Performance Summary
- Final value:      *{{printf "%.2f" .Run.Final}}*
- Coupons paid:     *{{printf "%.2f" .Run.Coupons}}*
- Gain:             *{{printf "%.2f" .Run.Gain}}*
- Return:           *{{printf "%.2f" (mul100 .Run.TotalReturn)}}%*
- Annualized:       *{{printf "%.2f" (mul100 .Run.AnnualReturn)}}%*

{{- if .Snapshots }}

** Values
| Month   | Total |
|---------+-------|
{{- range .Yearly }}
| {{.Month.Format "2006-01"}} | {{printf "%.2f" .Total}} |
{{- end }}
{{- end }}

{{- if .Coupons }}

** Coupons
| Month   | Instrument | Amount |
|---------+------------+--------|
{{- range .Coupons }}
| {{.Month.Format "2006-01"}} | {{.Instrument}} | {{printf "%.2f" .Amount}} |
{{- end }}
{{- end }}

{{- if .Run.Notes }}

** Notes
{{- range .Run.Notes }}
- {{.}}
{{- end }}
{{- end }}
`
