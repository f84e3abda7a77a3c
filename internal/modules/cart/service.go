package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pedimenu/pedimenu-backend/internal/modules/catalog"
	"github.com/pedimenu/pedimenu-backend/internal/modules/company"
	"github.com/pedimenu/pedimenu-backend/internal/modules/coupon"
)

// ProductSource reads catalog products for line pricing. Satisfied by the
// catalog repository.
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// CompanySource reads merchant settings for delivery-fee resolution.
// Satisfied by the company repository.
type CompanySource interface {
	GetByID(ctx context.Context, id string) (*company.Company, error)
}

// Pick is one option choice sent by the storefront when adding a line.
type Pick struct {
	GroupID  string `json:"group_id"`
	OptionID string `json:"option_id"`
	Quantity int    `json:"quantity"` // defaults to 1
}

// AddLineRequest is the payload for configuring and adding a product line.
type AddLineRequest struct {
	Version   int64  `json:"version"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Comment   string `json:"comment,omitempty"`
	Picks     []Pick `json:"picks,omitempty"`
}

// SetDeliveryRequest switches delivery type and, for deliveries, the address.
type SetDeliveryRequest struct {
	Version      int64    `json:"version"`
	DeliveryType string   `json:"delivery_type"`
	Address      *Address `json:"address,omitempty"`
}

// Service owns cart mutations. Every mutating operation carries the version
// the caller read; a mismatch is rejected as a stale write.
type Service interface {
	Create(ctx context.Context, companyID string) (*Cart, error)
	Get(ctx context.Context, id string) (*Cart, error)

	// AddLine validates the picks against the product's complement groups,
	// prices the line and appends (or merges) it.
	// Selection violations come back as []SelectionError; the cart is untouched.
	AddLine(ctx context.Context, cartID string, req AddLineRequest) (*Cart, []SelectionError, error)

	UpdateLineQuantity(ctx context.Context, cartID string, version int64, index, quantity int) (*Cart, error)
	RemoveLine(ctx context.Context, cartID string, version int64, index int) (*Cart, error)

	// UpdateClient is the autosave target for shopper contact data. The
	// client debounces keystrokes; whatever arrives last wins under the
	// version guard.
	UpdateClient(ctx context.Context, cartID string, version int64, client Client) (*Cart, error)

	SetDelivery(ctx context.Context, cartID string, req SetDeliveryRequest) (*Cart, error)

	ApplyCoupon(ctx context.Context, cartID string, version int64, code string) (*Cart, error)
	RemoveCoupon(ctx context.Context, cartID string, version int64) (*Cart, error)
}

type service struct {
	repo      Repository
	products  ProductSource
	companies CompanySource
	distancer Distancer
	log       *zap.Logger
}

// NewService creates a new cart service.
func NewService(repo Repository, products ProductSource, companies CompanySource, distancer Distancer, log *zap.Logger) Service {
	return &service{repo: repo, products: products, companies: companies, distancer: distancer, log: log}
}

func (s *service) Create(ctx context.Context, companyID string) (*Cart, error) {
	cid, err := uuid.Parse(companyID)
	if err != nil {
		return nil, fmt.Errorf("invalid company_id: %w", err)
	}
	if _, err := s.companies.GetByID(ctx, companyID); err != nil {
		return nil, fmt.Errorf("company not found: %w", err)
	}

	c := &Cart{
		ID:           uuid.New(),
		CompanyID:    cid,
		Version:      1,
		DeliveryType: Pickup,
		DeliveryFee:  AmountFee(0),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, id string) (*Cart, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) AddLine(ctx context.Context, cartID string, req AddLineRequest) (*Cart, []SelectionError, error) {
	if req.Quantity < 1 {
		return nil, nil, fmt.Errorf("quantity must be at least 1")
	}

	c, err := s.repo.Get(ctx, cartID)
	if err != nil {
		return nil, nil, err
	}

	p, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, nil, fmt.Errorf("product not found: %w", err)
	}
	if !p.IsActive {
		return nil, nil, fmt.Errorf("product %s is currently unavailable", p.Name)
	}

	sel, err := buildSelection(p, req.Picks)
	if err != nil {
		return nil, nil, err
	}
	if errs := ValidateSelection(p.Groups, sel); len(errs) > 0 {
		return nil, errs, nil
	}

	line := CartLine{
		ProductID:     p.ID,
		ProductName:   p.Name,
		BaseUnitPrice: p.BaseUnitPrice(),
		Quantity:      req.Quantity,
		Options:       Flatten(p.Groups, sel),
		Comment:       req.Comment,
	}
	next := AddLine(*c, line)
	if err := s.repo.Update(ctx, &next, req.Version); err != nil {
		return nil, nil, err
	}
	return &next, nil, nil
}

func (s *service) UpdateLineQuantity(ctx context.Context, cartID string, version int64, index, quantity int) (*Cart, error) {
	c, err := s.repo.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	next, err := UpdateQuantity(*c, index, quantity)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &next, version); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *service) RemoveLine(ctx context.Context, cartID string, version int64, index int) (*Cart, error) {
	c, err := s.repo.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	next, err := RemoveLine(*c, index)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &next, version); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *service) UpdateClient(ctx context.Context, cartID string, version int64, client Client) (*Cart, error) {
	c, err := s.repo.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	next := cloneCart(*c)
	next.Client = client
	if err := s.repo.Update(ctx, &next, version); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *service) SetDelivery(ctx context.Context, cartID string, req SetDeliveryRequest) (*Cart, error) {
	c, err := s.repo.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	var t DeliveryType
	switch DeliveryType(req.DeliveryType) {
	case Pickup:
		t = Pickup
	case Delivery:
		t = Delivery
	default:
		return nil, fmt.Errorf("invalid delivery_type: %s", req.DeliveryType)
	}

	next := SetDeliveryType(*c, t)

	if t == Delivery && req.Address != nil {
		co, err := s.companies.GetByID(ctx, c.CompanyID.String())
		if err != nil {
			return nil, fmt.Errorf("company not found: %w", err)
		}
		fee, err := resolveFee(ctx, co, req.Address, s.distancer)
		if err != nil {
			// Keep the cart's last-known-good state; the shopper retries.
			s.log.Warn("delivery fee resolution failed",
				zap.String("cart_id", cartID), zap.Error(err))
			return nil, err
		}
		next.Address = req.Address
		next.DeliveryFee = fee
		next = Recompute(next)
	}

	if err := s.repo.Update(ctx, &next, req.Version); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *service) ApplyCoupon(ctx context.Context, cartID string, version int64, code string) (*Cart, error) {
	c, err := s.repo.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	cp, err := s.repo.GetCoupon(ctx, c.CompanyID.String(), code)
	if err != nil {
		return nil, err
	}
	if err := coupon.Check(cp, time.Now(), c.Subtotal); err != nil {
		return nil, err
	}

	next := cloneCart(*c)
	next.Coupon = &coupon.Applied{
		Code:          cp.Code,
		DiscountType:  cp.DiscountType,
		DiscountValue: cp.DiscountValue,
	}
	next = Recompute(next)
	if err := s.repo.Update(ctx, &next, version); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *service) RemoveCoupon(ctx context.Context, cartID string, version int64) (*Cart, error) {
	c, err := s.repo.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	next := cloneCart(*c)
	next.Coupon = nil
	next = Recompute(next)
	if err := s.repo.Update(ctx, &next, version); err != nil {
		return nil, err
	}
	return &next, nil
}

// buildSelection replays the storefront's picks through the selector so the
// per-group cardinality rules hold no matter what the client sent.
func buildSelection(p *catalog.Product, picks []Pick) (Selection, error) {
	sel := Selection{}
	for _, pick := range picks {
		gid, err := uuid.Parse(pick.GroupID)
		if err != nil {
			return nil, fmt.Errorf("invalid group_id: %w", err)
		}
		oid, err := uuid.Parse(pick.OptionID)
		if err != nil {
			return nil, fmt.Errorf("invalid option_id: %w", err)
		}
		g, ok := p.Group(gid)
		if !ok {
			return nil, fmt.Errorf("group %s does not belong to product %s", gid, p.ID)
		}
		opt, ok := g.Option(oid)
		if !ok {
			return nil, fmt.Errorf("option %s does not belong to group %s", oid, gid)
		}

		before := len(sel[g.ID])
		sel = Select(sel, g, opt)
		after := len(sel[g.ID])
		if g.Max > 1 && after < before {
			return nil, fmt.Errorf("option %s picked twice", oid)
		}
		if g.Max > 1 && after == before {
			return nil, fmt.Errorf("group %q allows at most %d option(s)", g.Name, g.Max)
		}

		if pick.Quantity > 1 {
			if g.Max <= 1 {
				return nil, fmt.Errorf("option quantity above 1 requires a multi-select group")
			}
			sel = AdjustQuantity(sel, g, opt.ID, pick.Quantity-1)
		}
	}
	return sel, nil
}
