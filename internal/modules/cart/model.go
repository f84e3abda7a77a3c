package cart

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pedimenu/pedimenu-backend/internal/modules/coupon"
	"github.com/pedimenu/pedimenu-backend/internal/money"
)

var (
	// ErrCartNotFound means the cart id does not exist.
	ErrCartNotFound = errors.New("cart not found")

	// ErrStaleCart means the caller's version no longer matches the stored
	// cart. The caller must refetch and retry; this is the guard against the
	// double-submit race when quantity buttons are pressed rapidly.
	ErrStaleCart = errors.New("cart was modified concurrently")

	// ErrLineOutOfRange means the line index does not exist on the cart.
	ErrLineOutOfRange = errors.New("cart line index out of range")
)

// DeliveryType is how the shopper receives the order.
type DeliveryType string

const (
	Pickup   DeliveryType = "PICKUP"
	Delivery DeliveryType = "DELIVERY"
)

// FeeState distinguishes the three representable delivery-fee states. A fee
// that cannot yet be determined is Unknown, which is not the same as zero;
// a "to arrange" fee is resolved out of band and must never be coerced to 0
// anywhere it is displayed.
type FeeState string

const (
	FeeUnknown   FeeState = "UNKNOWN"
	FeeAmount    FeeState = "AMOUNT"
	FeeToArrange FeeState = "TO_ARRANGE"
)

// Fee is the tri-state delivery fee.
type Fee struct {
	State  FeeState    `json:"state"`
	Amount money.Cents `json:"amount"`
}

func UnknownFee() Fee             { return Fee{State: FeeUnknown} }
func AmountFee(c money.Cents) Fee { return Fee{State: FeeAmount, Amount: c} }
func ToArrangeFee() Fee           { return Fee{State: FeeToArrange} }

// Numeric returns the fee's contribution to the total: its amount when
// numeric, zero for the unknown and to-arrange states.
func (f Fee) Numeric() money.Cents {
	if f.State == FeeAmount {
		return f.Amount
	}
	return 0
}

// Resolved reports whether the fee is safe to submit a total with.
func (f Fee) Resolved() bool { return f.State != FeeUnknown }

// SelectedOption is one chosen option on a cart line. UnitPrice is copied
// from the option definition at selection time and never re-read live.
type SelectedOption struct {
	OptionID  uuid.UUID   `json:"option_id"`
	GroupID   uuid.UUID   `json:"group_id"`
	Name      string      `json:"name"`
	UnitPrice money.Cents `json:"unit_price"`
	Quantity  int         `json:"quantity"`
}

// Selection maps a complement group id to the options chosen in it.
// A group with no selected options has no entry at all.
type Selection map[uuid.UUID][]SelectedOption

// CartLine is one product entry in a cart. LineTotal is derived and always
// recomputed from the snapshots; it is never authoritative on its own.
type CartLine struct {
	ProductID     uuid.UUID        `json:"product_id"`
	ProductName   string           `json:"product_name"`
	BaseUnitPrice money.Cents      `json:"base_unit_price"`
	Quantity      int              `json:"quantity"`
	Options       []SelectedOption `json:"options,omitempty"`
	Comment       string           `json:"comment,omitempty"`
	LineTotal     money.Cents      `json:"line_total"`
}

// Client is the shopper's contact data, autosaved while typing.
type Client struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email,omitempty"`
}

// Address is the delivery destination.
type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	District   string `json:"district"`
	City       string `json:"city"`
	Complement string `json:"complement,omitempty"`
	Reference  string `json:"reference,omitempty"`
}

// CompleteForDistance reports whether the address has every field the
// distance lookup needs.
func (a *Address) CompleteForDistance() bool {
	return strings.TrimSpace(a.Street) != "" &&
		strings.TrimSpace(a.Number) != "" &&
		strings.TrimSpace(a.District) != "" &&
		strings.TrimSpace(a.City) != ""
}

// Line renders the address as a single line for the distance collaborator
// and the WhatsApp message.
func (a *Address) Line() string {
	parts := []string{a.Street + ", " + a.Number, a.District, a.City}
	return strings.Join(parts, " - ")
}

// Cart is the shopper's cart aggregate. Version backs the stale-write guard:
// every mutation sends the version it read, and a mismatch is rejected
// instead of silently overwriting.
type Cart struct {
	ID           uuid.UUID       `json:"id"`
	CompanyID    uuid.UUID       `json:"company_id"`
	Version      int64           `json:"version"`
	Client       Client          `json:"client"`
	Lines        []CartLine      `json:"lines"`
	DeliveryType DeliveryType    `json:"delivery_type"`
	Address      *Address        `json:"address,omitempty"`
	Coupon       *coupon.Applied `json:"coupon,omitempty"`
	Subtotal     money.Cents     `json:"subtotal"`
	DeliveryFee  Fee             `json:"delivery_fee"`
	Discount     money.Cents     `json:"discount"`
	Total        money.Cents     `json:"total"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
