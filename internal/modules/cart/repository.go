package cart

import (
	"context"

	"github.com/pedimenu/pedimenu-backend/internal/modules/coupon"
)

// Repository defines cart persistence. Update is conditional on the version
// the caller read: a concurrent write in between yields ErrStaleCart.
type Repository interface {
	Create(ctx context.Context, c *Cart) error
	Get(ctx context.Context, id string) (*Cart, error)
	Update(ctx context.Context, c *Cart, expectedVersion int64) error

	// GetCoupon reads the live coupon row for eligibility checks at apply
	// time. Usage counters are untouched here; they move at finalize.
	GetCoupon(ctx context.Context, companyID, code string) (*coupon.Coupon, error)
}
