package coupon

import (
	"errors"
	"strings"
	"time"

	"github.com/pedimenu/pedimenu-backend/internal/money"
)

// Eligibility errors, one per distinct rejection so the storefront can show
// a specific message. ErrNotFound is produced by the lookup, the rest by Check.
var (
	ErrNotFound      = errors.New("coupon not found")
	ErrInactive      = errors.New("coupon is not active")
	ErrExpired       = errors.New("coupon is outside its validity window")
	ErrUsageExceeded = errors.New("coupon usage limit reached")
	ErrBelowMinimum  = errors.New("cart subtotal is below the coupon minimum")
)

// NormalizeCode canonicalizes a user-entered coupon code. Codes are
// case-insensitive and stored upper-case.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Check runs the eligibility rules in order; the first failure wins.
func Check(c *Coupon, now time.Time, subtotal money.Cents) error {
	if !c.IsActive {
		return ErrInactive
	}
	if now.Before(c.ValidFrom) || now.After(c.ValidUntil) {
		return ErrExpired
	}
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return ErrUsageExceeded
	}
	if subtotal < c.MinOrderValue {
		return ErrBelowMinimum
	}
	return nil
}

// Discount computes the coupon's discount for the given subtotal.
// Percentage discounts are clamped to [0, subtotal]; fixed discounts
// never exceed the subtotal.
func Discount(c *Coupon, subtotal money.Cents) money.Cents {
	return discountFor(c.DiscountType, c.DiscountValue, subtotal)
}

func discountFor(t DiscountType, value int64, subtotal money.Cents) money.Cents {
	if subtotal <= 0 {
		return 0
	}
	switch t {
	case Percentage:
		d := subtotal.PercentOf(value)
		if d > subtotal {
			return subtotal
		}
		return d
	case Fixed:
		d := money.Cents(value)
		if d < 0 {
			return 0
		}
		if d > subtotal {
			return subtotal
		}
		return d
	}
	return 0
}
