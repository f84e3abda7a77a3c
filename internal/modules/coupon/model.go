package coupon

import (
	"time"

	"github.com/google/uuid"

	"github.com/pedimenu/pedimenu-backend/internal/money"
)

// DiscountType distinguishes percentage coupons from fixed-amount coupons.
type DiscountType string

const (
	Percentage DiscountType = "PERCENTAGE"
	Fixed      DiscountType = "FIXED"
)

// Coupon is a merchant-authored discount code. Codes are unique per company,
// case-insensitive, stored upper-case. UsageCount moves only when an order
// is finalized, never when a coupon is merely applied to a cart.
type Coupon struct {
	ID            uuid.UUID    `json:"id"`
	CompanyID     uuid.UUID    `json:"company_id"`
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue int64        `json:"discount_value"` // percent for PERCENTAGE, cents for FIXED
	MinOrderValue money.Cents  `json:"min_order_value"`
	UsageLimit    *int         `json:"usage_limit,omitempty"` // nil = unlimited
	UsageCount    int          `json:"usage_count"`
	ValidFrom     time.Time    `json:"valid_from"`
	ValidUntil    time.Time    `json:"valid_until"`
	IsActive      bool         `json:"is_active"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Applied is the snapshot a cart keeps of a coupon at application time.
// The discount is always recomputed from this snapshot, never stored.
type Applied struct {
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue int64        `json:"discount_value"`
}

// Discount computes the snapshot's discount for the given subtotal.
func (a *Applied) Discount(subtotal money.Cents) money.Cents {
	return discountFor(a.DiscountType, a.DiscountValue, subtotal)
}

// CreateCouponRequest is the payload for creating a coupon.
type CreateCouponRequest struct {
	CompanyID     string      `json:"company_id"`
	Code          string      `json:"code"`
	DiscountType  string      `json:"discount_type"`
	DiscountValue int64       `json:"discount_value"`
	MinOrderValue money.Cents `json:"min_order_value"`
	UsageLimit    *int        `json:"usage_limit,omitempty"`
	ValidFrom     time.Time   `json:"valid_from"`
	ValidUntil    time.Time   `json:"valid_until"`
	IsActive      bool        `json:"is_active"`
}
