package cart

// Pure cart transitions. Every function returns a new Cart value with fresh
// line slices; callers holding the previous value keep a consistent snapshot.
// Persistence and the version guard live in the service layer.

// AddLine appends a configured line, or merges it into an existing line when
// the product, the option selection and the comment all match. Merging on
// product id alone would silently collapse differently-configured lines;
// the full-signature key is the policy chosen for both order paths (see
// DESIGN.md).
func AddLine(c Cart, line CartLine) Cart {
	next := cloneCart(c)
	for i := range next.Lines {
		if sameLineSignature(next.Lines[i], line) {
			next.Lines[i].Quantity += line.Quantity
			next.Lines[i].LineTotal = PriceLine(next.Lines[i].BaseUnitPrice, next.Lines[i].Options, next.Lines[i].Quantity)
			return Recompute(next)
		}
	}
	line.LineTotal = PriceLine(line.BaseUnitPrice, line.Options, line.Quantity)
	next.Lines = append(next.Lines, line)
	return Recompute(next)
}

// UpdateQuantity sets a line's quantity; anything below 1 removes the line.
func UpdateQuantity(c Cart, index, quantity int) (Cart, error) {
	if index < 0 || index >= len(c.Lines) {
		return c, ErrLineOutOfRange
	}
	if quantity < 1 {
		return RemoveLine(c, index)
	}
	next := cloneCart(c)
	next.Lines[index].Quantity = quantity
	next.Lines[index].LineTotal = PriceLine(next.Lines[index].BaseUnitPrice, next.Lines[index].Options, quantity)
	return Recompute(next), nil
}

// RemoveLine deletes a line by index.
func RemoveLine(c Cart, index int) (Cart, error) {
	if index < 0 || index >= len(c.Lines) {
		return c, ErrLineOutOfRange
	}
	next := cloneCart(c)
	next.Lines = append(next.Lines[:index], next.Lines[index+1:]...)
	return Recompute(next), nil
}

// SetDeliveryType switches between pickup and delivery. Pickup zeroes the
// fee; delivery suspends it until the address resolves.
func SetDeliveryType(c Cart, t DeliveryType) Cart {
	next := cloneCart(c)
	next.DeliveryType = t
	switch t {
	case Pickup:
		next.DeliveryFee = AmountFee(0)
		next.Address = nil
	case Delivery:
		next.DeliveryFee = UnknownFee()
	}
	return Recompute(next)
}

// Recompute derives subtotal, discount and total from the cart's inputs.
// Non-numeric fee states contribute zero to the total while remaining
// visible as their sentinel; the total never goes negative.
func Recompute(c Cart) Cart {
	next := c
	next.Subtotal = 0
	for _, l := range next.Lines {
		next.Subtotal += l.LineTotal
	}

	next.Discount = 0
	if next.Coupon != nil {
		next.Discount = next.Coupon.Discount(next.Subtotal)
	}

	total := next.Subtotal + next.DeliveryFee.Numeric() - next.Discount
	if total < 0 {
		total = 0
	}
	next.Total = total
	return next
}

// sameLineSignature also compares the price snapshots: a re-add after the
// merchant changed a price starts a new line at the new price instead of
// growing the old snapshot.
func sameLineSignature(a, b CartLine) bool {
	if a.ProductID != b.ProductID || a.Comment != b.Comment || a.BaseUnitPrice != b.BaseUnitPrice {
		return false
	}
	if len(a.Options) != len(b.Options) {
		return false
	}
	for i := range a.Options {
		if a.Options[i].OptionID != b.Options[i].OptionID ||
			a.Options[i].GroupID != b.Options[i].GroupID ||
			a.Options[i].Quantity != b.Options[i].Quantity ||
			a.Options[i].UnitPrice != b.Options[i].UnitPrice {
			return false
		}
	}
	return true
}

func cloneCart(c Cart) Cart {
	next := c
	next.Lines = append([]CartLine{}, c.Lines...)
	return next
}
