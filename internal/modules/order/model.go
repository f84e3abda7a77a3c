package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/pedimenu/pedimenu-backend/internal/modules/cart"
	"github.com/pedimenu/pedimenu-backend/internal/money"
)

// OrderStatus is the lifecycle state of an order. Merchants rename the
// labels in their dashboards but the received → processing → terminal
// shape is fixed.
type OrderStatus string

const (
	StatusReceived   OrderStatus = "RECEIVED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// knownStatuses is the allowed status set. Transitions between members are
// unconditional merchant actions; there is deliberately no transition guard
// (see DESIGN.md).
var knownStatuses = map[OrderStatus]bool{
	StatusReceived:   true,
	StatusProcessing: true,
	StatusCompleted:  true,
	StatusCancelled:  true,
}

// Order is an immutable snapshot of a cart taken at finalize time. All
// prices are frozen; the order never references the live cart again.
type Order struct {
	ID                  uuid.UUID         `json:"id"`
	CompanyID           uuid.UUID         `json:"company_id"`
	Number              int64             `json:"number"` // sequential, merchant-scoped
	Status              OrderStatus       `json:"status"`
	Client              cart.Client       `json:"client"`
	DeliveryType        cart.DeliveryType `json:"delivery_type"`
	Address             *cart.Address     `json:"address,omitempty"`
	Lines               []cart.CartLine   `json:"lines"`
	Subtotal            money.Cents       `json:"subtotal"`
	DeliveryFee         cart.Fee          `json:"delivery_fee"`
	Discount            money.Cents       `json:"discount"`
	Total               money.Cents       `json:"total"`
	CouponCode          string            `json:"coupon_code,omitempty"`
	PaymentMethod       string            `json:"payment_method"`
	WhatsappConfirmed   bool              `json:"whatsapp_confirmed"`
	WhatsappConfirmedAt *time.Time        `json:"whatsapp_confirmed_at,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// FinalizeRequest is the payload for converting a cart into an order.
// Version carries the cart version the shopper checked out with; like every
// other cart mutation, a mismatch is rejected instead of freezing stale state.
type FinalizeRequest struct {
	CartID        string `json:"cart_id"`
	Version       int64  `json:"version"`
	PaymentMethod string `json:"payment_method"`
}

// FinalizeResult pairs the created order with the prefilled WhatsApp URL
// the shopper opens to send the order message.
type FinalizeResult struct {
	Order       *Order `json:"order"`
	WhatsappURL string `json:"whatsapp_url"`
}

// UpdateStatusRequest is the payload for a merchant status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
