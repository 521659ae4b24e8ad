// Package index provides the floating reference rates instruments are
// indexed to: inflation (IPCA), the interbank rate (CDI) and the central bank
// policy rate (Selic).
//
// Rates are monthly decimals (0.004 = 0.4% per month). A simulation reads
// them through a Source, which is immutable for the duration of a run.
package index

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/rendafixa/apperrors"
)

// Index selects the floating reference rate an instrument follows.
type Index int

const (
	None Index = iota
	Inflation
	Interbank
	PolicyRate
)

func (i Index) String() string {
	switch i {
	case None:
		return "none"
	case Inflation:
		return "inflation"
	case Interbank:
		return "interbank"
	case PolicyRate:
		return "policy_rate"
	default:
		return fmt.Sprintf("index(%d)", int(i))
	}
}

// Parse accepts the index names as well as the Brazilian index tickers.
func Parse(s string) (Index, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "prefixado":
		return None, nil
	case "inflation", "ipca":
		return Inflation, nil
	case "interbank", "cdi":
		return Interbank, nil
	case "policy_rate", "policy-rate", "selic":
		return PolicyRate, nil
	default:
		return None, fmt.Errorf("%w: unsupported index %q", apperrors.ErrConfiguration, s)
	}
}

// Default monthly rates used when nothing else is configured.
const (
	DefaultInflation  = 0.004 // ~5% per year
	DefaultInterbank  = 0.008 // ~10% per year
	DefaultPolicyRate = 0.008 // tracks the interbank rate
)

// Source yields the monthly rate of an index for a given month.
type Source interface {
	Monthly(idx Index, month time.Time) float64
}

// Rates is a Source with one constant monthly rate per index.
type Rates struct {
	Inflation  float64 `json:"inflation" yaml:"inflation"`
	Interbank  float64 `json:"interbank" yaml:"interbank"`
	PolicyRate float64 `json:"policy_rate" yaml:"policy_rate"`
}

// Defaults returns the documented default monthly rates.
func Defaults() Rates {
	return Rates{
		Inflation:  DefaultInflation,
		Interbank:  DefaultInterbank,
		PolicyRate: DefaultPolicyRate,
	}
}

// Monthly implements Source. The month is ignored.
func (r Rates) Monthly(idx Index, _ time.Time) float64 {
	switch idx {
	case Inflation:
		return r.Inflation
	case Interbank:
		return r.Interbank
	case PolicyRate:
		return r.PolicyRate
	default:
		return 0
	}
}

// Merge returns r with every non-zero field of o applied on top.
func (r Rates) Merge(o Rates) Rates {
	if o.Inflation != 0 {
		r.Inflation = o.Inflation
	}
	if o.Interbank != 0 {
		r.Interbank = o.Interbank
	}
	if o.PolicyRate != 0 {
		r.PolicyRate = o.PolicyRate
	}
	return r
}

var _ Source = Rates{}
