package order

import (
	"context"
	"time"
)

// Repository defines order persistence operations.
type Repository interface {
	// CreateOrder allocates the next merchant-scoped order number, inserts
	// the snapshot, bumps the coupon's usage counter when one was applied,
	// and deletes the source cart — all in one transaction. The cart delete
	// is conditional on cartVersion; a concurrent cart write after the
	// finalize read aborts the transaction with cart.ErrStaleCart.
	CreateOrder(ctx context.Context, o *Order, cartID string, cartVersion int64) error

	GetByID(ctx context.Context, id string) (*Order, error)
	GetByNumber(ctx context.Context, companyID string, number int64) (*Order, error)
	ListByCompany(ctx context.Context, companyID string, status string) ([]*Order, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus) error

	// Confirm flips whatsapp_confirmed to true once. It reports whether this
	// call was the one that flipped it; a false result with no error means
	// the order was already confirmed.
	Confirm(ctx context.Context, id string, at time.Time) (bool, error)
}
