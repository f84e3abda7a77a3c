package coupon

import "context"

// Repository defines coupon persistence operations.
type Repository interface {
	Create(ctx context.Context, c *Coupon) error
	Update(ctx context.Context, c *Coupon) error
	GetByCode(ctx context.Context, companyID, code string) (*Coupon, error)
	ListByCompany(ctx context.Context, companyID string) ([]*Coupon, error)
}
