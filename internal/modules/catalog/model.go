package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/pedimenu/pedimenu-backend/internal/money"
)

// RequiredFlag is the authoring state of a group's required/optional choice.
// The zero value is deliberately "unset": a group saved without an explicit
// choice fails schema validation instead of defaulting either way.
type RequiredFlag string

const (
	RequiredUnset RequiredFlag = ""
	Required      RequiredFlag = "REQUIRED"
	Optional      RequiredFlag = "OPTIONAL"
)

// OptionDef is one choice within a complement group, with an additive price.
type OptionDef struct {
	ID    uuid.UUID   `json:"id"`
	Name  string      `json:"name"`
	Price money.Cents `json:"price"`
}

// ComplementGroup is a named set of selectable options attached to a product
// (e.g. "Size", "Extras"). Once a placed order references a group the group
// is never mutated; orders snapshot their own copy of the chosen options.
type ComplementGroup struct {
	ID       uuid.UUID    `json:"id"`
	Name     string       `json:"name"`
	Min      int          `json:"min"`
	Max      int          `json:"max"`
	Required RequiredFlag `json:"required,omitempty"`
	Options  []OptionDef  `json:"options"`
}

// Option returns the option with the given id, if present.
func (g *ComplementGroup) Option(id uuid.UUID) (OptionDef, bool) {
	for _, o := range g.Options {
		if o.ID == id {
			return o, true
		}
	}
	return OptionDef{}, false
}

// Product is a catalog product owned by a company.
type Product struct {
	ID            uuid.UUID         `json:"id"`
	CompanyID     uuid.UUID         `json:"company_id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Price         money.Cents       `json:"price"`
	DiscountPrice *money.Cents      `json:"discount_price,omitempty"`
	IsActive      bool              `json:"is_active"`
	Groups        []ComplementGroup `json:"groups,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// BaseUnitPrice is the price a cart line snapshots: the discounted price
// when one is set, the regular price otherwise.
func (p *Product) BaseUnitPrice() money.Cents {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// Group returns the complement group with the given id, if present.
func (p *Product) Group(id uuid.UUID) (*ComplementGroup, bool) {
	for i := range p.Groups {
		if p.Groups[i].ID == id {
			return &p.Groups[i], true
		}
	}
	return nil, false
}

// CreateProductRequest is the payload for creating a catalog product.
type CreateProductRequest struct {
	CompanyID     string       `json:"company_id"`
	Name          string       `json:"name"`
	Description   string       `json:"description,omitempty"`
	Price         money.Cents  `json:"price"`
	DiscountPrice *money.Cents `json:"discount_price,omitempty"`
}
