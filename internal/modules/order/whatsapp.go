package order

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pedimenu/pedimenu-backend/internal/modules/cart"
)

// WhatsappURL builds the wa.me deep link with the prefilled order message
// the shopper sends to the merchant. String templating only; sending and
// confirming happen on the shopper's side.
func WhatsappURL(merchantNumber string, o *Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Pedido #%d*\n\n", o.Number)
	for _, l := range o.Lines {
		fmt.Fprintf(&b, "%dx %s", l.Quantity, l.ProductName)
		for _, opt := range l.Options {
			if opt.Quantity > 1 {
				fmt.Fprintf(&b, "\n  - %dx %s", opt.Quantity, opt.Name)
			} else {
				fmt.Fprintf(&b, "\n  - %s", opt.Name)
			}
		}
		if l.Comment != "" {
			fmt.Fprintf(&b, "\n  obs: %s", l.Comment)
		}
		fmt.Fprintf(&b, "\n  R$ %s\n", l.LineTotal)
	}

	fmt.Fprintf(&b, "\nSubtotal: R$ %s\n", o.Subtotal)
	if o.DeliveryType == cart.Delivery {
		switch o.DeliveryFee.State {
		case cart.FeeAmount:
			fmt.Fprintf(&b, "Entrega: R$ %s\n", o.DeliveryFee.Amount)
		case cart.FeeToArrange:
			b.WriteString("Entrega: a combinar\n")
		}
	}
	if o.Discount > 0 {
		fmt.Fprintf(&b, "Desconto (%s): -R$ %s\n", o.CouponCode, o.Discount)
	}
	fmt.Fprintf(&b, "*Total: R$ %s*\n", o.Total)

	fmt.Fprintf(&b, "\nPagamento: %s\n", o.PaymentMethod)
	fmt.Fprintf(&b, "Cliente: %s (%s)\n", o.Client.Name, o.Client.PhoneNumber)
	if o.DeliveryType == cart.Delivery && o.Address != nil {
		fmt.Fprintf(&b, "Endereço: %s\n", o.Address.Line())
	} else {
		b.WriteString("Retirada no balcão\n")
	}

	number := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, merchantNumber)

	return "https://wa.me/" + number + "?text=" + url.QueryEscape(b.String())
}
