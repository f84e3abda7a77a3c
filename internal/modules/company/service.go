package company

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service defines the merchant settings business logic.
type Service interface {
	// Create onboards a merchant. New companies start closed with a fixed
	// zero fee until settings are configured.
	Create(ctx context.Context, req CreateCompanyRequest) (*Company, error)

	// GetByID retrieves a company by UUID.
	GetByID(ctx context.Context, id string) (*Company, error)

	// GetBySlug retrieves a company by its storefront slug.
	GetBySlug(ctx context.Context, slug string) (*Company, error)

	// UpdateSettings applies a merchant's settings change.
	UpdateSettings(ctx context.Context, id string, req UpdateSettingsRequest) (*Company, error)
}

type service struct {
	repo Repository
}

// NewService creates a new company service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateCompanyRequest) (*Company, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("company name is required")
	}
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if slug == "" {
		return nil, fmt.Errorf("slug is required")
	}
	if strings.ContainsAny(slug, " /") {
		return nil, fmt.Errorf("invalid slug: %s", req.Slug)
	}
	methods := req.PaymentMethods
	if len(methods) == 0 {
		methods = []string{"pix"}
	}

	c := &Company{
		ID:             uuid.New(),
		Name:           req.Name,
		Slug:           slug,
		WhatsappNumber: req.WhatsappNumber,
		Address:        req.Address,
		DeliveryOption: DeliveryFixed,
		PaymentMethods: methods,
		IsOpen:         false,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Company, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Company, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) UpdateSettings(ctx context.Context, id string, req UpdateSettingsRequest) (*Company, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("company not found: %w", err)
	}

	opt := DeliveryOption(strings.ToUpper(req.DeliveryOption))
	switch opt {
	case DeliveryFixed, DeliveryAutomatic, DeliveryCustomerPickup:
	default:
		return nil, fmt.Errorf("invalid delivery_option: %s", req.DeliveryOption)
	}
	if req.FixedFee < 0 || req.KmRate < 0 || req.MinimumOrder < 0 {
		return nil, fmt.Errorf("fees must not be negative")
	}
	if opt == DeliveryAutomatic && c.Address == "" && req.Address == "" {
		return nil, fmt.Errorf("automatic delivery requires a store address")
	}
	if len(req.PaymentMethods) == 0 {
		return nil, fmt.Errorf("at least one payment method is required")
	}

	if req.Name != "" {
		c.Name = req.Name
	}
	c.WhatsappNumber = req.WhatsappNumber
	if req.Address != "" {
		c.Address = req.Address
	}
	c.DeliveryOption = opt
	c.FixedFee = req.FixedFee
	c.KmRate = req.KmRate
	c.MinimumOrder = req.MinimumOrder
	c.PaymentMethods = req.PaymentMethods
	c.IsOpen = req.IsOpen

	if err := s.repo.UpdateSettings(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
