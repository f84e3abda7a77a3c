package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/pedimenu/pedimenu-backend/internal/modules/company"
	"github.com/pedimenu/pedimenu-backend/internal/money"
)

// ErrDistanceUnavailable wraps a failed distance lookup. The cart's fee is
// left in its previous state; the shopper can retry.
var ErrDistanceUnavailable = errors.New("could not compute delivery distance, try again")

// Distancer is the external routing collaborator used only in automatic
// delivery mode.
type Distancer interface {
	Distance(ctx context.Context, origin, destination string) (float64, error)
}

// resolveFee computes the delivery fee for an address under the merchant's
// configured strategy. The returned fee replaces the cart's fee only on
// success; an Unknown result means the inputs are not yet sufficient.
func resolveFee(ctx context.Context, co *company.Company, addr *Address, dist Distancer) (Fee, error) {
	switch co.DeliveryOption {
	case company.DeliveryFixed:
		return AmountFee(co.FixedFee), nil

	case company.DeliveryCustomerPickup:
		// Resolved out of band between shopper and merchant. Never a number.
		return ToArrangeFee(), nil

	case company.DeliveryAutomatic:
		if addr == nil || !addr.CompleteForDistance() {
			return UnknownFee(), nil
		}
		km, err := dist.Distance(ctx, co.Address, addr.Line())
		if err != nil {
			return UnknownFee(), fmt.Errorf("%w: %v", ErrDistanceUnavailable, err)
		}
		return AmountFee(money.MulKm(co.KmRate, km)), nil
	}

	return UnknownFee(), fmt.Errorf("unknown delivery option %q", co.DeliveryOption)
}
