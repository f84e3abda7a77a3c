package catalog

import "context"

// Repository defines catalog persistence operations.
type Repository interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListCompanyProducts(ctx context.Context, companyID string) ([]*Product, error)
	SaveGroups(ctx context.Context, productID string, groups []ComplementGroup) error
}
