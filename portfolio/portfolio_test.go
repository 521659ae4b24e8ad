package portfolio

import (
	"math"
	"testing"
	"time"

	"github.com/rustyeddy/rendafixa/apperrors"
	"github.com/rustyeddy/rendafixa/index"
	"github.com/rustyeddy/rendafixa/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func mustInstrument(t *testing.T, kind instrument.Kind, name string, p instrument.Params) *instrument.Instrument {
	t.Helper()
	p.Name = name
	if p.Principal == 0 {
		p.Principal = 10000
	}
	if p.Start.IsZero() {
		p.Start = month(2023, time.January)
	}
	if p.End.IsZero() {
		p.End = month(2030, time.January)
	}
	in, err := instrument.New(kind, p)
	require.NoError(t, err)
	return in
}

func mixedPortfolio(t *testing.T) *Portfolio {
	t.Helper()
	return New("mixed",
		mustInstrument(t, instrument.Inflation, "Tesouro IPCA+ 2030", instrument.Params{
			Principal:        5000,
			Rate:             0.055,
			SemiannualCoupon: true,
		}),
		mustInstrument(t, instrument.Interbank, "CDB 105%", instrument.Params{Rate: 1.05}),
		mustInstrument(t, instrument.Fixed, "Prefixado 2030", instrument.Params{Principal: 3000, Rate: 0.12}),
		mustInstrument(t, instrument.PolicyRate, "Tesouro Selic", instrument.Params{Principal: 2000, Rate: 1.0}),
	)
}

func TestAdditivity(t *testing.T) {
	p := mixedPortfolio(t)
	res, err := p.Simulate(month(2023, time.January), month(2025, time.December))
	require.NoError(t, err)
	require.Len(t, res.Rows, 36)

	for _, m := range res.Months() {
		sum := 0.0
		for _, in := range p.Instruments() {
			v, err := in.ValueAt(m)
			require.NoError(t, err)
			sum += v
		}
		total, err := p.ValueAt(m)
		require.NoError(t, err)
		assert.Equal(t, sum, total, m.Format("2006-01"))
	}

	assert.Equal(t, 20000.0, res.Initial())
}

func TestReturnRoundTrip(t *testing.T) {
	p := mixedPortfolio(t)
	_, err := p.Simulate(month(2023, time.January), month(2024, time.December))
	require.NoError(t, err)

	pairs := [][2]time.Time{
		{month(2023, time.January), month(2024, time.December)},
		{month(2023, time.March), month(2023, time.August)},
		{month(2024, time.June), month(2024, time.July)},
	}
	for _, pr := range pairs {
		v0, err := p.ValueAt(pr[0])
		require.NoError(t, err)
		v1, err := p.ValueAt(pr[1])
		require.NoError(t, err)

		ret, err := p.ReturnOverPeriod(pr[0], pr[1])
		require.NoError(t, err)
		assert.InDelta(t, v1/v0-1, ret, 1e-12)
	}
}

func TestAnnualizedReturn(t *testing.T) {
	p := New("fixed", mustInstrument(t, instrument.Fixed, "pre", instrument.Params{Rate: 0.12}))
	start, end := month(2023, time.January), month(2024, time.January)
	_, err := p.Simulate(start, end)
	require.NoError(t, err)

	got, err := p.AnnualizedReturn(start, end)
	require.NoError(t, err)
	assert.InDelta(t, math.Pow(1.12, 365.25/365)-1, got, 1e-9)

	_, err = p.AnnualizedReturn(end, start)
	assert.ErrorIs(t, err, apperrors.ErrRange)
	_, err = p.AnnualizedReturn(start, start)
	assert.ErrorIs(t, err, apperrors.ErrRange)
}

func TestValueAtErrors(t *testing.T) {
	p := mixedPortfolio(t)

	_, err := p.ValueAt(month(2023, time.January))
	assert.ErrorIs(t, err, apperrors.ErrNotSimulated)

	_, err = p.Simulate(month(2023, time.June), month(2023, time.December))
	require.NoError(t, err)

	_, err = p.ValueAt(month(2023, time.May))
	assert.ErrorIs(t, err, apperrors.ErrRange)

	// after the last month reads the last total
	last, err := p.ValueAt(month(2026, time.January))
	require.NoError(t, err)
	res, _ := p.Result()
	assert.Equal(t, res.Final(), last)
}

func TestSimulateValidation(t *testing.T) {
	p := mixedPortfolio(t)

	_, err := p.Simulate(month(2023, time.June), month(2023, time.June))
	assert.ErrorIs(t, err, apperrors.ErrRange)

	_, err = p.Simulate(month(2022, time.June), month(2023, time.June))
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)

	_, err = p.Simulate(month(2029, time.June), month(2031, time.June))
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)

	_, err = New("empty").Simulate(month(2023, time.January), month(2023, time.June))
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestAdvanceSequence(t *testing.T) {
	p := mixedPortfolio(t)

	_, err := p.Advance(month(2023, time.January))
	assert.ErrorIs(t, err, apperrors.ErrSequence)

	require.NoError(t, p.Begin(month(2023, time.January), month(2023, time.March)))
	_, err = p.Advance(month(2023, time.February))
	assert.ErrorIs(t, err, apperrors.ErrSequence)

	row, err := p.Advance(month(2023, time.January))
	require.NoError(t, err)
	assert.Equal(t, 20000.0, row.Total)

	_, err = p.Advance(month(2023, time.February))
	require.NoError(t, err)

	// stopping early keeps what was simulated
	res, err := p.Finish()
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
	assert.Equal(t, month(2023, time.February), res.End)

	_, err = p.Finish()
	assert.ErrorIs(t, err, apperrors.ErrNotSimulated)
}

func TestAddRemove(t *testing.T) {
	p := New("p")
	a := mustInstrument(t, instrument.Fixed, "a", instrument.Params{Rate: 0.1})
	b1 := mustInstrument(t, instrument.Fixed, "b", instrument.Params{Rate: 0.1})
	b2 := mustInstrument(t, instrument.Fixed, "b", instrument.Params{Rate: 0.2})
	p.Add(a)
	p.Add(b1)
	p.Add(b2)
	assert.Equal(t, 3, p.Len())

	found, ok := p.Find("b")
	require.True(t, ok)
	assert.Same(t, b1, found)

	require.NoError(t, p.Remove("b"))
	assert.Equal(t, 2, p.Len())
	found, _ = p.Find("b")
	assert.Same(t, b2, found)

	err := p.Remove("zzz")
	assert.ErrorIs(t, err, ErrNotHeld)
}

func TestDuplicateNamesKeepPositions(t *testing.T) {
	p := New("dups",
		mustInstrument(t, instrument.Fixed, "pre", instrument.Params{Rate: 0.1}),
		mustInstrument(t, instrument.Fixed, "pre", instrument.Params{Principal: 500, Rate: 0.1}),
	)
	res, err := p.Simulate(month(2023, time.January), month(2023, time.February))
	require.NoError(t, err)

	tbl := res.Table()
	assert.Equal(t, []string{"pre", "pre", TotalColumn}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []float64{10000, 500, 10500}, tbl.Rows[0].Cells)
}

func TestCouponTable(t *testing.T) {
	p := New("coupons",
		mustInstrument(t, instrument.Fixed, "pre", instrument.Params{
			Rate:             0.1,
			SemiannualCoupon: true,
			CouponMonths:     instrument.CouponMonths{time.May, time.November},
		}),
		mustInstrument(t, instrument.Inflation, "ipca", instrument.Params{
			Rate:             0.06,
			SemiannualCoupon: true,
		}),
		mustInstrument(t, instrument.Interbank, "cdb", instrument.Params{Rate: 1.0}),
	)
	res, err := p.Simulate(month(2023, time.January), month(2023, time.December))
	require.NoError(t, err)

	ct := res.CouponTable()
	require.Len(t, ct.Rows, 3)
	assert.Equal(t, month(2023, time.May), ct.Rows[0].Month)
	assert.Equal(t, month(2023, time.July), ct.Rows[1].Month)
	assert.Equal(t, month(2023, time.November), ct.Rows[2].Month)

	may := ct.Rows[0].Cells
	assert.Greater(t, may[0], 0.0)
	assert.Equal(t, 0.0, may[1])
	assert.Equal(t, 0.0, may[2])
	assert.Equal(t, may[0], may[3])

	sum := 0.0
	for _, row := range ct.Rows {
		sum += row.Cells[len(row.Cells)-1]
	}
	assert.InDelta(t, sum, res.TotalCoupons(), 1e-9)
}

func TestCloneIsIndependent(t *testing.T) {
	p := New("p", mustInstrument(t, instrument.Interbank, "cdb", instrument.Params{Rate: 1.0}))
	_, err := p.Simulate(month(2023, time.January), month(2023, time.December))
	require.NoError(t, err)
	base, _ := p.Result()

	c := p.Clone(index.Rates{Interbank: 0.01})
	res, err := c.Simulate(month(2023, time.January), month(2023, time.December))
	require.NoError(t, err)

	assert.InDelta(t, 10000*math.Pow(1.01, 11), res.Final(), 1e-6)
	assert.InDelta(t, 10000*math.Pow(1.008, 11), base.Final(), 1e-6)

	// the source portfolio keeps its own history
	v, err := p.Instruments()[0].ValueAt(month(2023, time.December))
	require.NoError(t, err)
	assert.Equal(t, base.Final(), v)
}
