package instrument

import (
	"fmt"
	"time"

	"github.com/rustyeddy/rendafixa/apperrors"
)

// CouponMonths is the pair of calendar months in which semi-annual coupons
// are paid. The zero value means the default (January, July).
type CouponMonths [2]time.Month

// DefaultCouponMonths is used when no pair is configured.
var DefaultCouponMonths = CouponMonths{time.January, time.July}

// IsZero reports whether no pair was configured.
func (c CouponMonths) IsZero() bool { return c[0] == 0 && c[1] == 0 }

// Validate checks that both months are distinct, valid and six months apart.
func (c CouponMonths) Validate() error {
	for _, m := range c {
		if m < time.January || m > time.December {
			return fmt.Errorf("%w: coupon month %d out of range", apperrors.ErrConfiguration, int(m))
		}
	}
	if c[0] == c[1] {
		return fmt.Errorf("%w: coupon months must be distinct, got %d twice", apperrors.ErrConfiguration, int(c[0]))
	}
	if dist := monthDistance(c[0], c[1]); dist != 6 {
		return fmt.Errorf("%w: coupon months %d and %d are %d months apart, want 6",
			apperrors.ErrConfiguration, int(c[0]), int(c[1]), dist)
	}
	return nil
}

// Contains reports whether m is a coupon month.
func (c CouponMonths) Contains(m time.Month) bool { return m == c[0] || m == c[1] }

func (c CouponMonths) String() string { return fmt.Sprintf("(%d,%d)", int(c[0]), int(c[1])) }

// monthDistance is the shorter way around the year between two months.
func monthDistance(a, b time.Month) int {
	d := (int(b) - int(a) + 12) % 12
	if d > 6 {
		d = 12 - d
	}
	return d
}
