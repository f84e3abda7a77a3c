package cart

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pedimenu/pedimenu-backend/internal/modules/catalog"
	"github.com/pedimenu/pedimenu-backend/internal/money"
)

// SelectionError is one unmet required group at checkout time.
type SelectionError struct {
	GroupID   uuid.UUID `json:"group_id"`
	GroupName string    `json:"group_name"`
	Min       int       `json:"min"`
	Selected  int       `json:"selected"`
}

func (e SelectionError) Error() string {
	return fmt.Sprintf("group %q requires at least %d selection(s), got %d", e.GroupName, e.Min, e.Selected)
}

// Select applies a tap on an option and returns the new selection state.
// The input is never mutated; callers holding the old state keep a
// consistent snapshot.
//
// Single-select groups (max == 1) have radio semantics: any tap replaces the
// group's whole selection with that option at quantity 1. Multi-select
// groups toggle: an unselected option is added at quantity 1 while the group
// holds fewer than max entries (a tap past the cap changes nothing), a
// selected option is removed. A group left with no options loses its map
// entry entirely.
func Select(sel Selection, group *catalog.ComplementGroup, opt catalog.OptionDef) Selection {
	picked := SelectedOption{
		OptionID:  opt.ID,
		GroupID:   group.ID,
		Name:      opt.Name,
		UnitPrice: opt.Price,
		Quantity:  1,
	}

	if group.Max == 1 {
		next := cloneSelection(sel)
		next[group.ID] = []SelectedOption{picked}
		return next
	}

	current := sel[group.ID]
	for i, so := range current {
		if so.OptionID == opt.ID {
			// Toggle off.
			next := cloneSelection(sel)
			remaining := append(append([]SelectedOption{}, current[:i]...), current[i+1:]...)
			if len(remaining) == 0 {
				delete(next, group.ID)
			} else {
				next[group.ID] = remaining
			}
			return next
		}
	}

	if len(current) >= group.Max {
		return sel
	}
	next := cloneSelection(sel)
	next[group.ID] = append(append([]SelectedOption{}, current...), picked)
	return next
}

// AdjustQuantity changes an already-selected option's quantity by delta and
// returns the new selection state. A quantity reaching zero removes the
// option (and the group entry when it was the last one); an increment that
// would exceed the group's max changes nothing. The group max doubles as the
// per-option cap; see DESIGN.md.
func AdjustQuantity(sel Selection, group *catalog.ComplementGroup, optionID uuid.UUID, delta int) Selection {
	current, ok := sel[group.ID]
	if !ok {
		return sel
	}
	for i, so := range current {
		if so.OptionID != optionID {
			continue
		}
		q := so.Quantity + delta
		if q > group.Max {
			return sel
		}
		next := cloneSelection(sel)
		if q <= 0 {
			remaining := append(append([]SelectedOption{}, current[:i]...), current[i+1:]...)
			if len(remaining) == 0 {
				delete(next, group.ID)
			} else {
				next[group.ID] = remaining
			}
			return next
		}
		updated := append([]SelectedOption{}, current...)
		updated[i].Quantity = q
		next[group.ID] = updated
		return next
	}
	return sel
}

// ValidateSelection checks every required group's minimum against the number
// of selected option entries (not summed quantities). An empty result means
// the selection may proceed to pricing and checkout.
func ValidateSelection(groups []catalog.ComplementGroup, sel Selection) []SelectionError {
	var errs []SelectionError
	for _, g := range groups {
		if g.Required != catalog.Required {
			continue
		}
		selected := len(sel[g.ID])
		if selected < g.Min {
			errs = append(errs, SelectionError{
				GroupID:   g.ID,
				GroupName: g.Name,
				Min:       g.Min,
				Selected:  selected,
			})
		}
	}
	return errs
}

// PriceLine prices a configured line:
//
//	lineTotal = (baseUnitPrice + Σ option.unitPrice × option.quantity) × lineQuantity
func PriceLine(baseUnitPrice money.Cents, options []SelectedOption, lineQuantity int) money.Cents {
	unit := baseUnitPrice
	for _, so := range options {
		unit += so.UnitPrice.Mul(so.Quantity)
	}
	return unit.Mul(lineQuantity)
}

// Flatten renders a selection as a stable option list for storage on a line,
// ordered by the product's group declaration order.
func Flatten(groups []catalog.ComplementGroup, sel Selection) []SelectedOption {
	var out []SelectedOption
	for _, g := range groups {
		out = append(out, sel[g.ID]...)
	}
	return out
}

func cloneSelection(sel Selection) Selection {
	next := make(Selection, len(sel))
	for k, v := range sel {
		next[k] = v
	}
	return next
}
