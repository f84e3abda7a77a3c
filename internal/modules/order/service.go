package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pedimenu/pedimenu-backend/internal/modules/cart"
	"github.com/pedimenu/pedimenu-backend/internal/modules/catalog"
	"github.com/pedimenu/pedimenu-backend/internal/modules/company"
)

// CartSource reads the cart being finalized. Satisfied by the cart repository.
type CartSource interface {
	Get(ctx context.Context, id string) (*cart.Cart, error)
}

// ProductSource re-reads products so required-group minimums are re-checked
// at finalize time. Satisfied by the catalog repository.
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// CompanySource reads merchant settings for payment-method validation and
// the WhatsApp number. Satisfied by the company repository.
type CompanySource interface {
	GetByID(ctx context.Context, id string) (*company.Company, error)
}

// Service defines the order lifecycle logic.
type Service interface {
	// Finalize converts a priced, validated cart into an immutable order.
	// Precondition failures come back as ValidationErrors.
	Finalize(ctx context.Context, req FinalizeRequest) (*FinalizeResult, error)

	// ConfirmWhatsapp records that the shopper sent the WhatsApp message.
	// One-way and idempotent: confirming twice is a success no-op and the
	// original timestamp is kept. Advisory only; it never blocks status
	// transitions.
	ConfirmWhatsapp(ctx context.Context, orderID string) (*Order, error)

	// ChangeStatus is an unconditional merchant-driven transition within the
	// known status set.
	ChangeStatus(ctx context.Context, orderID string, req UpdateStatusRequest) (*Order, error)

	GetByID(ctx context.Context, id string) (*Order, error)
	GetByNumber(ctx context.Context, companyID string, number int64) (*Order, error)
	ListByCompany(ctx context.Context, companyID string, status string) ([]*Order, error)
}

type service struct {
	repo      Repository
	carts     CartSource
	products  ProductSource
	companies CompanySource
	log       *zap.Logger
}

// NewService creates a new order service.
func NewService(repo Repository, carts CartSource, products ProductSource, companies CompanySource, log *zap.Logger) Service {
	return &service{repo: repo, carts: carts, products: products, companies: companies, log: log}
}

func (s *service) Finalize(ctx context.Context, req FinalizeRequest) (*FinalizeResult, error) {
	c, err := s.carts.Get(ctx, req.CartID)
	if err != nil {
		return nil, err
	}
	if c.Version != req.Version {
		return nil, cart.ErrStaleCart
	}
	co, err := s.companies.GetByID(ctx, c.CompanyID.String())
	if err != nil {
		return nil, fmt.Errorf("company not found: %w", err)
	}

	// Totals are derived one last time from the snapshots so the order
	// freezes exactly what the invariant says, regardless of what the
	// stored cart row claims.
	priced := cart.Recompute(*c)

	if errs := s.validateFinalize(ctx, &priced, co, req.PaymentMethod); len(errs) > 0 {
		return nil, errs
	}

	couponCode := ""
	if priced.Coupon != nil {
		couponCode = priced.Coupon.Code
	}

	o := &Order{
		ID:            uuid.New(),
		CompanyID:     priced.CompanyID,
		Status:        StatusReceived,
		Client:        priced.Client,
		DeliveryType:  priced.DeliveryType,
		Address:       priced.Address,
		Lines:         priced.Lines,
		Subtotal:      priced.Subtotal,
		DeliveryFee:   priced.DeliveryFee,
		Discount:      priced.Discount,
		Total:         priced.Total,
		CouponCode:    couponCode,
		PaymentMethod: req.PaymentMethod,
	}

	if err := s.repo.CreateOrder(ctx, o, req.CartID, req.Version); err != nil {
		if errors.Is(err, cart.ErrStaleCart) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	s.log.Info("order finalized",
		zap.String("company_id", o.CompanyID.String()),
		zap.Int64("number", o.Number),
		zap.String("total", o.Total.String()))

	return &FinalizeResult{
		Order:       o,
		WhatsappURL: WhatsappURL(co.WhatsappNumber, o),
	}, nil
}

func (s *service) validateFinalize(ctx context.Context, c *cart.Cart, co *company.Company, paymentMethod string) ValidationErrors {
	var errs ValidationErrors

	if !co.IsOpen {
		errs = append(errs, FieldError{Field: "company", Message: "store is currently closed"})
	}
	if co.MinimumOrder > 0 && c.Subtotal < co.MinimumOrder {
		errs = append(errs, FieldError{Field: "subtotal", Message: fmt.Sprintf("order minimum is %s", co.MinimumOrder)})
	}

	if len(c.Lines) == 0 {
		errs = append(errs, FieldError{Field: "lines", Message: "cart is empty"})
	}
	if strings.TrimSpace(c.Client.Name) == "" {
		errs = append(errs, FieldError{Field: "client.name", Message: "client name is required"})
	}
	if strings.TrimSpace(c.Client.PhoneNumber) == "" {
		errs = append(errs, FieldError{Field: "client.phone_number", Message: "client phone number is required"})
	}

	if c.DeliveryType == cart.Delivery {
		switch {
		case c.Address == nil:
			errs = append(errs, FieldError{Field: "address", Message: "delivery address is required"})
		default:
			if strings.TrimSpace(c.Address.Street) == "" {
				errs = append(errs, FieldError{Field: "address.street", Message: "street is required"})
			}
			if strings.TrimSpace(c.Address.Number) == "" {
				errs = append(errs, FieldError{Field: "address.number", Message: "address number is required"})
			}
		}
		if !c.DeliveryFee.Resolved() {
			errs = append(errs, FieldError{Field: "delivery_fee", Message: "delivery fee is not resolved yet"})
		}
	}

	if strings.TrimSpace(paymentMethod) == "" {
		errs = append(errs, FieldError{Field: "payment_method", Message: "payment method is required"})
	} else if !co.AcceptsPayment(paymentMethod) {
		errs = append(errs, FieldError{Field: "payment_method", Message: fmt.Sprintf("payment method %q is not accepted", paymentMethod)})
	}

	// Required-group minimums are re-checked against the current schema; a
	// product deleted since the line was added keeps its validated snapshot.
	for i, l := range c.Lines {
		p, err := s.products.GetProduct(ctx, l.ProductID.String())
		if err != nil {
			continue
		}
		sel := cart.Selection{}
		for _, opt := range l.Options {
			sel[opt.GroupID] = append(sel[opt.GroupID], opt)
		}
		for _, v := range cart.ValidateSelection(p.Groups, sel) {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("lines[%d]", i),
				Message: fmt.Sprintf("%s: %s", l.ProductName, v.Error()),
			})
		}
	}

	return errs
}

func (s *service) ConfirmWhatsapp(ctx context.Context, orderID string) (*Order, error) {
	flipped, err := s.repo.Confirm(ctx, orderID, time.Now())
	if err != nil {
		return nil, err
	}
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !flipped && !o.WhatsappConfirmed {
		// Confirm matched no row and the order isn't confirmed: id is bad.
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *service) ChangeStatus(ctx context.Context, orderID string, req UpdateStatusRequest) (*Order, error) {
	newStatus := OrderStatus(strings.ToUpper(req.Status))
	if !knownStatuses[newStatus] {
		return nil, fmt.Errorf("unknown status %q", req.Status)
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, orderID, newStatus); err != nil {
		return nil, err
	}
	o.Status = newStatus
	return o, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByNumber(ctx context.Context, companyID string, number int64) (*Order, error) {
	return s.repo.GetByNumber(ctx, companyID, number)
}

func (s *service) ListByCompany(ctx context.Context, companyID string, status string) ([]*Order, error) {
	return s.repo.ListByCompany(ctx, companyID, status)
}
