package instrument

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/rendafixa/apperrors"
	"github.com/rustyeddy/rendafixa/index"
)

// Kind is the indexation family of an instrument.
type Kind int

const (
	Generic    Kind = iota // index and operator are taken as given
	Inflation              // IPCA + spread, e.g. Tesouro IPCA+
	Interbank              // percentage of (or spread over) CDI, e.g. CDB, LCI
	Fixed                  // prefixado, e.g. Tesouro Prefixado
	PolicyRate             // percentage of Selic, e.g. Tesouro Selic
)

func (k Kind) String() string {
	switch k {
	case Generic:
		return "generic"
	case Inflation:
		return "inflation"
	case Interbank:
		return "interbank"
	case Fixed:
		return "fixed"
	case PolicyRate:
		return "policy_rate"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts the kind names as well as the usual Brazilian labels.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic", "":
		return Generic, nil
	case "inflation", "ipca", "ipca+":
		return Inflation, nil
	case "interbank", "cdi":
		return Interbank, nil
	case "fixed", "prefixado":
		return Fixed, nil
	case "policy_rate", "policy-rate", "selic":
		return PolicyRate, nil
	default:
		return Generic, fmt.Errorf("%w: unknown instrument kind %q", apperrors.ErrConfiguration, s)
	}
}

// defaultIndex is the index implied by the kind. ok is false for Generic.
func (k Kind) defaultIndex() (idx index.Index, ok bool) {
	switch k {
	case Inflation:
		return index.Inflation, true
	case Interbank:
		return index.Interbank, true
	case PolicyRate:
		return index.PolicyRate, true
	case Fixed:
		return index.None, true
	default:
		return index.None, false
	}
}

// Operator tells how the contractual rate combines with a floating index.
type Operator int

const (
	DefaultOperator Operator = iota // resolved from the kind and index
	Additive                        // index + spread, e.g. IPCA + 5.5%
	Multiplicative                  // index x multiplier, e.g. 105% of CDI
)

func (o Operator) String() string {
	switch o {
	case DefaultOperator:
		return "default"
	case Additive:
		return "additive"
	case Multiplicative:
		return "multiplicative"
	default:
		return fmt.Sprintf("operator(%d)", int(o))
	}
}

// ParseOperator accepts "additive"/"+" and "multiplicative"/"x".
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultOperator, nil
	case "additive", "+", "somado":
		return Additive, nil
	case "multiplicative", "x", "*", "multiplicado":
		return Multiplicative, nil
	default:
		return DefaultOperator, fmt.Errorf("%w: unknown operator %q", apperrors.ErrConfiguration, s)
	}
}

// defaultOperator: floating-rate kinds are quoted as a percentage of the
// index, everything else as a spread.
func (k Kind) defaultOperator() Operator {
	switch k {
	case Interbank, PolicyRate:
		return Multiplicative
	default:
		return Additive
	}
}

// accepts reports whether idx is a valid index for the kind. Interbank and
// policy-rate instruments may follow either floating rate.
func (k Kind) accepts(idx index.Index) bool {
	switch k {
	case Inflation:
		return idx == index.Inflation
	case Interbank, PolicyRate:
		return idx == index.Interbank || idx == index.PolicyRate
	case Fixed:
		return idx == index.None
	default:
		return idx >= index.None && idx <= index.PolicyRate
	}
}
