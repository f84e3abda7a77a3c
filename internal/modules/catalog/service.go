package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service defines the catalog business logic consumed by the storefront
// and the merchant admin.
type Service interface {
	// CreateProduct creates a product with no complement groups.
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)

	// GetProduct retrieves a product with its complement groups.
	GetProduct(ctx context.Context, id string) (*Product, error)

	// ListCompanyProducts returns all products for a company.
	ListCompanyProducts(ctx context.Context, companyID string) ([]*Product, error)

	// SaveGroups validates and persists a product's complement groups.
	// On validation failure the full violation list is returned and
	// nothing is saved; the editor stays open with all problems shown.
	SaveGroups(ctx context.Context, productID string, groups []ComplementGroup) ([]SchemaError, error)
}

type service struct {
	repo Repository
}

// NewService creates a new catalog service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("price must not be negative")
	}
	if req.DiscountPrice != nil && *req.DiscountPrice < 0 {
		return nil, fmt.Errorf("discount price must not be negative")
	}
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("invalid company_id: %w", err)
	}

	p := &Product{
		ID:            uuid.New(),
		CompanyID:     companyID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		IsActive:      true,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *service) ListCompanyProducts(ctx context.Context, companyID string) ([]*Product, error) {
	return s.repo.ListCompanyProducts(ctx, companyID)
}

func (s *service) SaveGroups(ctx context.Context, productID string, groups []ComplementGroup) ([]SchemaError, error) {
	if errs := ValidateSchema(groups); len(errs) > 0 {
		return errs, nil
	}

	// New groups and options authored in the editor arrive without ids.
	for gi := range groups {
		if groups[gi].ID == uuid.Nil {
			groups[gi].ID = uuid.New()
		}
		for oi := range groups[gi].Options {
			if groups[gi].Options[oi].ID == uuid.Nil {
				groups[gi].Options[oi].ID = uuid.New()
			}
		}
	}

	if err := s.repo.SaveGroups(ctx, productID, groups); err != nil {
		return nil, err
	}
	return nil, nil
}
