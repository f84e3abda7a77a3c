package company

import (
	"time"

	"github.com/google/uuid"

	"github.com/pedimenu/pedimenu-backend/internal/money"
)

// DeliveryOption is the merchant-configured strategy for computing delivery fees.
type DeliveryOption string

const (
	DeliveryFixed          DeliveryOption = "FIXED"
	DeliveryAutomatic      DeliveryOption = "AUTOMATIC"
	DeliveryCustomerPickup DeliveryOption = "CUSTOMER_PICKUP"
)

// Company is a merchant tenant on the platform.
type Company struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	Slug           string         `json:"slug"`
	WhatsappNumber string         `json:"whatsapp_number"`
	Address        string         `json:"address"` // origin for distance-based fees
	DeliveryOption DeliveryOption `json:"delivery_option"`
	FixedFee       money.Cents    `json:"fixed_fee"`
	KmRate         money.Cents    `json:"km_rate"`
	MinimumOrder   money.Cents    `json:"minimum_order"`
	PaymentMethods []string       `json:"payment_methods"`
	IsOpen         bool           `json:"is_open"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// AcceptsPayment reports whether the merchant configured the given method.
func (c *Company) AcceptsPayment(method string) bool {
	for _, m := range c.PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// CreateCompanyRequest is the payload for onboarding a merchant.
type CreateCompanyRequest struct {
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	WhatsappNumber string   `json:"whatsapp_number"`
	Address        string   `json:"address,omitempty"`
	PaymentMethods []string `json:"payment_methods"`
}

// UpdateSettingsRequest is the payload for updating merchant settings.
type UpdateSettingsRequest struct {
	Name           string      `json:"name"`
	WhatsappNumber string      `json:"whatsapp_number"`
	Address        string      `json:"address"`
	DeliveryOption string      `json:"delivery_option"`
	FixedFee       money.Cents `json:"fixed_fee"`
	KmRate         money.Cents `json:"km_rate"`
	MinimumOrder   money.Cents `json:"minimum_order"`
	PaymentMethods []string    `json:"payment_methods"`
	IsOpen         bool        `json:"is_open"`
}
