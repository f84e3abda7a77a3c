package company

import "context"

// Repository defines company persistence operations.
type Repository interface {
	Create(ctx context.Context, c *Company) error
	GetByID(ctx context.Context, id string) (*Company, error)
	GetBySlug(ctx context.Context, slug string) (*Company, error)
	UpdateSettings(ctx context.Context, c *Company) error
}
