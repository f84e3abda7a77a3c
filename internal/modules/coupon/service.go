package coupon

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service defines the merchant-facing coupon management logic. Applying a
// coupon to a cart lives in the cart module; this service owns authoring.
type Service interface {
	Create(ctx context.Context, req CreateCouponRequest) (*Coupon, error)
	Update(ctx context.Context, id string, req CreateCouponRequest) (*Coupon, error)
	GetByCode(ctx context.Context, companyID, code string) (*Coupon, error)
	ListByCompany(ctx context.Context, companyID string) ([]*Coupon, error)
}

type service struct {
	repo Repository
}

// NewService creates a new coupon service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateCouponRequest) (*Coupon, error) {
	c, err := couponFromRequest(req)
	if err != nil {
		return nil, err
	}
	c.ID = uuid.New()
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, id string, req CreateCouponRequest) (*Coupon, error) {
	c, err := couponFromRequest(req)
	if err != nil {
		return nil, err
	}
	cid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid coupon id: %w", err)
	}
	c.ID = cid
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetByCode(ctx context.Context, companyID, code string) (*Coupon, error) {
	return s.repo.GetByCode(ctx, companyID, code)
}

func (s *service) ListByCompany(ctx context.Context, companyID string) ([]*Coupon, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

func couponFromRequest(req CreateCouponRequest) (*Coupon, error) {
	code := NormalizeCode(req.Code)
	if code == "" {
		return nil, fmt.Errorf("coupon code is required")
	}
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("invalid company_id: %w", err)
	}

	dt := DiscountType(strings.ToUpper(req.DiscountType))
	switch dt {
	case Percentage:
		if req.DiscountValue <= 0 || req.DiscountValue > 100 {
			return nil, fmt.Errorf("percentage discount must be between 1 and 100")
		}
	case Fixed:
		if req.DiscountValue <= 0 {
			return nil, fmt.Errorf("fixed discount must be greater than zero")
		}
	default:
		return nil, fmt.Errorf("invalid discount_type: %s", req.DiscountType)
	}

	if req.MinOrderValue < 0 {
		return nil, fmt.Errorf("min_order_value must not be negative")
	}
	if req.UsageLimit != nil && *req.UsageLimit <= 0 {
		return nil, fmt.Errorf("usage_limit must be greater than zero when set")
	}
	if !req.ValidUntil.After(req.ValidFrom) {
		return nil, fmt.Errorf("valid_until must be after valid_from")
	}

	return &Coupon{
		CompanyID:     companyID,
		Code:          code,
		DiscountType:  dt,
		DiscountValue: req.DiscountValue,
		MinOrderValue: req.MinOrderValue,
		UsageLimit:    req.UsageLimit,
		ValidFrom:     req.ValidFrom,
		ValidUntil:    req.ValidUntil,
		IsActive:      req.IsActive,
	}, nil
}
