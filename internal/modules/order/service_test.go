package order

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pedimenu/pedimenu-backend/internal/modules/cart"
	"github.com/pedimenu/pedimenu-backend/internal/modules/catalog"
	"github.com/pedimenu/pedimenu-backend/internal/modules/company"
	"github.com/pedimenu/pedimenu-backend/internal/modules/coupon"
	"github.com/pedimenu/pedimenu-backend/internal/money"
)

type mockOrderRepo struct {
	created        *Order
	cartIDArg      string
	cartVersionArg int64
	createErr      error
	order          *Order
	nextNum        int64
}

func (m *mockOrderRepo) CreateOrder(_ context.Context, o *Order, cartID string, cartVersion int64) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.nextNum == 0 {
		m.nextNum = 1
	}
	o.Number = m.nextNum
	o.CreatedAt = time.Now()
	m.created = o
	m.cartIDArg = cartID
	m.cartVersionArg = cartVersion
	m.order = o
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id string) (*Order, error) {
	if m.order == nil || m.order.ID.String() != id {
		return nil, ErrOrderNotFound
	}
	cp := *m.order
	return &cp, nil
}

func (m *mockOrderRepo) GetByNumber(_ context.Context, _ string, number int64) (*Order, error) {
	if m.order == nil || m.order.Number != number {
		return nil, ErrOrderNotFound
	}
	cp := *m.order
	return &cp, nil
}

func (m *mockOrderRepo) ListByCompany(_ context.Context, _ string, _ string) ([]*Order, error) {
	if m.order == nil {
		return nil, nil
	}
	return []*Order{m.order}, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id string, status OrderStatus) error {
	if m.order == nil || m.order.ID.String() != id {
		return ErrOrderNotFound
	}
	m.order.Status = status
	return nil
}

func (m *mockOrderRepo) Confirm(_ context.Context, id string, at time.Time) (bool, error) {
	if m.order == nil || m.order.ID.String() != id {
		return false, nil
	}
	if m.order.WhatsappConfirmed {
		return false, nil
	}
	m.order.WhatsappConfirmed = true
	m.order.WhatsappConfirmedAt = &at
	return true, nil
}

type mockCarts struct{ cart *cart.Cart }

func (m *mockCarts) Get(_ context.Context, id string) (*cart.Cart, error) {
	if m.cart == nil || m.cart.ID.String() != id {
		return nil, cart.ErrCartNotFound
	}
	cp := *m.cart
	return &cp, nil
}

type mockCatalog struct {
	products map[uuid.UUID]*catalog.Product
}

func (m *mockCatalog) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	p, ok := m.products[pid]
	if !ok {
		return nil, errors.New("no rows")
	}
	return p, nil
}

type mockCompanies struct{ company *company.Company }

func (m *mockCompanies) GetByID(_ context.Context, id string) (*company.Company, error) {
	if m.company == nil || m.company.ID.String() != id {
		return nil, errors.New("no rows")
	}
	return m.company, nil
}

func checkoutCart(companyID uuid.UUID) *cart.Cart {
	line := cart.CartLine{
		ProductID:     uuid.New(),
		ProductName:   "X-Burger",
		BaseUnitPrice: 2000,
		Quantity:      2,
		LineTotal:     4000,
	}
	c := &cart.Cart{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Version:      3,
		Client:       cart.Client{Name: "Ana", PhoneNumber: "14999990000"},
		Lines:        []cart.CartLine{line},
		DeliveryType: cart.Pickup,
		DeliveryFee:  cart.AmountFee(0),
	}
	priced := cart.Recompute(*c)
	return &priced
}

func orderFixture() (*mockOrderRepo, *mockCarts, *mockCatalog, *mockCompanies, Service) {
	repo := &mockOrderRepo{}
	carts := &mockCarts{}
	products := &mockCatalog{products: map[uuid.UUID]*catalog.Product{}}
	companies := &mockCompanies{company: &company.Company{
		ID:             uuid.New(),
		Name:           "Lanchonete da Ana",
		WhatsappNumber: "+55 (14) 99999-0000",
		PaymentMethods: []string{"pix", "dinheiro"},
		IsOpen:         true,
	}}
	svc := NewService(repo, carts, products, companies, zap.NewNop())
	return repo, carts, products, companies, svc
}

func TestFinalizeHappyPath(t *testing.T) {
	repo, carts, _, companies, svc := orderFixture()
	carts.cart = checkoutCart(companies.company.ID)

	res, err := svc.Finalize(context.Background(), FinalizeRequest{
		CartID:        carts.cart.ID.String(),
		Version:       carts.cart.Version,
		PaymentMethod: "pix",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusReceived, res.Order.Status)
	assert.Equal(t, int64(1), res.Order.Number)
	assert.Equal(t, money.Cents(4000), res.Order.Total)
	assert.Equal(t, carts.cart.ID.String(), repo.cartIDArg, "source cart id must reach the repository for deletion")
	assert.Equal(t, carts.cart.Version, repo.cartVersionArg, "the conditional cart delete needs the checkout version")
	assert.Contains(t, res.WhatsappURL, "https://wa.me/5514999990000?text=")
}

func TestFinalizeStaleVersionRejected(t *testing.T) {
	_, carts, _, companies, svc := orderFixture()
	carts.cart = checkoutCart(companies.company.ID)

	// The shopper's checkout tab read version 2; another tab has since
	// written version 3.
	_, err := svc.Finalize(context.Background(), FinalizeRequest{
		CartID:        carts.cart.ID.String(),
		Version:       carts.cart.Version - 1,
		PaymentMethod: "pix",
	})
	assert.ErrorIs(t, err, cart.ErrStaleCart)
}

func TestFinalizeRaceSurfacesConflict(t *testing.T) {
	repo, carts, _, companies, svc := orderFixture()
	carts.cart = checkoutCart(companies.company.ID)

	// A cart write landed between the finalize read and the transaction's
	// conditional delete; the repository aborts with the stale sentinel.
	repo.createErr = cart.ErrStaleCart

	_, err := svc.Finalize(context.Background(), FinalizeRequest{
		CartID:        carts.cart.ID.String(),
		Version:       carts.cart.Version,
		PaymentMethod: "pix",
	})
	assert.ErrorIs(t, err, cart.ErrStaleCart)
}

func TestFinalizeRejectsClosedStore(t *testing.T) {
	_, carts, _, companies, svc := orderFixture()
	companies.company.IsOpen = false
	carts.cart = checkoutCart(companies.company.ID)

	_, err := svc.Finalize(context.Background(), FinalizeRequest{
		CartID:        carts.cart.ID.String(),
		Version:       carts.cart.Version,
		PaymentMethod: "pix",
	})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "company", verrs[0].Field)
}

func TestFinalizeEnforcesStoreMinimum(t *testing.T) {
	_, carts, _, companies, svc := orderFixture()
	companies.company.MinimumOrder = 10000
	carts.cart = checkoutCart(companies.company.ID) // subtotal 40.00

	_, err := svc.Finalize(context.Background(), FinalizeRequest{
		CartID:        carts.cart.ID.String(),
		Version:       carts.cart.Version,
		PaymentMethod: "pix",
	})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "subtotal", verrs[0].Field)
	assert.Contains(t, verrs[0].Message, "100.00")

	// Meeting the minimum clears the rejection.
	companies.company.MinimumOrder = 4000
	_, err = svc.Finalize(context.Background(), FinalizeRequest{
		CartID:        carts.cart.ID.String(),
		Version:       carts.cart.Version,
		PaymentMethod: "pix",
	})
	assert.NoError(t, err)
}

func TestFinalizeCollectsEveryViolation(t *testing.T) {
	_, carts, _, companies, svc := orderFixture()
	carts.cart = &cart.Cart{
		ID:           uuid.New(),
		CompanyID:    companies.company.ID,
		Version:      1,
		DeliveryType: cart.Pickup,
		DeliveryFee:  cart.AmountFee(0),
	}

	_, err := svc.Finalize(context.Background(), FinalizeRequest{CartID: carts.cart.ID.String(), Version: carts.cart.Version})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := make([]string, len(verrs))
	for i, e := range verrs {
		fields[i] = e.Field
	}
	assert.ElementsMatch(t, []string{"lines", "client.name", "client.phone_number", "payment_method"}, fields)
}

func TestFinalizeDeliveryNeedsAddressNumber(t *testing.T) {
	_, carts, _, companies, svc := orderFixture()
	c := checkoutCart(companies.company.ID)
	c.DeliveryType = cart.Delivery
	c.Address = &cart.Address{Street: "Rua B", Number: "  ", District: "Centro", City: "Lins"}
	c.DeliveryFee = cart.AmountFee(700)
	carts.cart = c

	_, err := svc.Finalize(context.Background(), FinalizeRequest{
		CartID:        c.ID.String(),
		Version:       c.Version,
		PaymentMethod: "pix",
	})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "address.number", verrs[0].Field)
}

func TestFinalizeRejectsUnresolvedFee(t *testing.T) {
	_, carts, _, companies, svc := orderFixture()
	c := checkoutCart(companies.company.ID)
	c.DeliveryType = cart.Delivery
	c.Address = &cart.Address{Street: "Rua B", Number: "22", District: "Centro", City: "Lins"}
	c.DeliveryFee = cart.UnknownFee()
	carts.cart = c

	_, err := svc.Finalize(context.Background(), FinalizeRequest{
		CartID:        c.ID.String(),
		Version:       c.Version,
		PaymentMethod: "pix",
	})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "delivery_fee", verrs[0].Field)
}

func TestFinalizeToArrangeFeeIsAccepted(t *testing.T) {
	_, carts, _, companies, svc := orderFixture()
	c := checkoutCart(companies.company.ID)
	c.DeliveryType = cart.Delivery
	c.Address = &cart.Address{Street: "Rua B", Number: "22", District: "Centro", City: "Lins"}
	c.DeliveryFee = cart.ToArrangeFee()
	carts.cart = c

	res, err := svc.Finalize(context.Background(), FinalizeRequest{
		CartID:        c.ID.String(),
		Version:       c.Version,
		PaymentMethod: "pix",
	})
	require.NoError(t, err)
	assert.Equal(t, cart.FeeToArrange, res.Order.DeliveryFee.State)
	// The sentinel never leaks into the frozen total.
	assert.Equal(t, res.Order.Subtotal, res.Order.Total)
}

func TestFinalizeRejectsUnacceptedPaymentMethod(t *testing.T) {
	_, carts, _, companies, svc := orderFixture()
	carts.cart = checkoutCart(companies.company.ID)

	_, err := svc.Finalize(context.Background(), FinalizeRequest{
		CartID:        carts.cart.ID.String(),
		Version:       carts.cart.Version,
		PaymentMethod: "cartao",
	})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "payment_method", verrs[0].Field)
}

func TestFinalizeRechecksRequiredGroups(t *testing.T) {
	_, carts, products, companies, svc := orderFixture()
	c := checkoutCart(companies.company.ID)
	carts.cart = c

	// Since the line was added the merchant made the Size group required.
	products.products[c.Lines[0].ProductID] = &catalog.Product{
		ID:       c.Lines[0].ProductID,
		Name:     "X-Burger",
		IsActive: true,
		Groups: []catalog.ComplementGroup{{
			ID: uuid.New(), Name: "Size", Min: 1, Max: 1, Required: catalog.Required,
			Options: []catalog.OptionDef{{ID: uuid.New(), Name: "Normal"}},
		}},
	}

	_, err := svc.Finalize(context.Background(), FinalizeRequest{
		CartID:        c.ID.String(),
		Version:       c.Version,
		PaymentMethod: "pix",
	})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "lines[0]", verrs[0].Field)
	assert.Contains(t, verrs[0].Message, "X-Burger")
}

func TestFinalizeSkipsDeletedProducts(t *testing.T) {
	_, carts, _, companies, svc := orderFixture()
	carts.cart = checkoutCart(companies.company.ID)

	// The product is gone from the catalog; the line keeps the snapshot it
	// was validated with and finalize proceeds.
	_, err := svc.Finalize(context.Background(), FinalizeRequest{
		CartID:        carts.cart.ID.String(),
		Version:       carts.cart.Version,
		PaymentMethod: "pix",
	})
	assert.NoError(t, err)
}

func TestFinalizeRecomputesStoredTotals(t *testing.T) {
	repo, carts, _, companies, svc := orderFixture()
	c := checkoutCart(companies.company.ID)
	c.Total = 1 // a tampered or stale stored total
	carts.cart = c

	_, err := svc.Finalize(context.Background(), FinalizeRequest{
		CartID:        c.ID.String(),
		Version:       c.Version,
		PaymentMethod: "pix",
	})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(4000), repo.created.Total)
}

func TestFinalizeSnapshotsCouponCode(t *testing.T) {
	repo, carts, _, companies, svc := orderFixture()
	c := checkoutCart(companies.company.ID)
	c.Coupon = &coupon.Applied{Code: "DEZ10", DiscountType: coupon.Percentage, DiscountValue: 10}
	carts.cart = c

	_, err := svc.Finalize(context.Background(), FinalizeRequest{
		CartID:        c.ID.String(),
		Version:       c.Version,
		PaymentMethod: "pix",
	})
	require.NoError(t, err)
	assert.Equal(t, "DEZ10", repo.created.CouponCode)
	assert.Equal(t, money.Cents(400), repo.created.Discount)
	assert.Equal(t, money.Cents(3600), repo.created.Total)
}

func TestConfirmWhatsappIsIdempotent(t *testing.T) {
	_, carts, _, companies, svc := orderFixture()
	carts.cart = checkoutCart(companies.company.ID)

	res, err := svc.Finalize(context.Background(), FinalizeRequest{
		CartID:        carts.cart.ID.String(),
		Version:       carts.cart.Version,
		PaymentMethod: "pix",
	})
	require.NoError(t, err)
	id := res.Order.ID.String()

	first, err := svc.ConfirmWhatsapp(context.Background(), id)
	require.NoError(t, err)
	require.True(t, first.WhatsappConfirmed)
	require.NotNil(t, first.WhatsappConfirmedAt)

	second, err := svc.ConfirmWhatsapp(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, second.WhatsappConfirmed)
	assert.Equal(t, first.WhatsappConfirmedAt, second.WhatsappConfirmedAt, "original timestamp must be kept")
}

func TestConfirmWhatsappUnknownOrder(t *testing.T) {
	_, _, _, _, svc := orderFixture()

	_, err := svc.ConfirmWhatsapp(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestChangeStatus(t *testing.T) {
	repo, carts, _, companies, svc := orderFixture()
	carts.cart = checkoutCart(companies.company.ID)

	res, err := svc.Finalize(context.Background(), FinalizeRequest{
		CartID:        carts.cart.ID.String(),
		Version:       carts.cart.Version,
		PaymentMethod: "pix",
	})
	require.NoError(t, err)
	id := res.Order.ID.String()

	o, err := svc.ChangeStatus(context.Background(), id, UpdateStatusRequest{Status: "processing"})
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, o.Status)

	// Transitions are unconditional within the known set: a cancelled order
	// can still be completed by the merchant.
	_, err = svc.ChangeStatus(context.Background(), id, UpdateStatusRequest{Status: "CANCELLED"})
	require.NoError(t, err)
	o, err = svc.ChangeStatus(context.Background(), id, UpdateStatusRequest{Status: "COMPLETED"})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, o.Status)
	assert.Equal(t, StatusCompleted, repo.order.Status)
}

func TestChangeStatusRejectsUnknown(t *testing.T) {
	_, carts, _, companies, svc := orderFixture()
	carts.cart = checkoutCart(companies.company.ID)

	res, err := svc.Finalize(context.Background(), FinalizeRequest{
		CartID:        carts.cart.ID.String(),
		Version:       carts.cart.Version,
		PaymentMethod: "pix",
	})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(context.Background(), res.Order.ID.String(), UpdateStatusRequest{Status: "SHIPPED"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown status"))
}
