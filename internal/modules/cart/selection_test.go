package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedimenu/pedimenu-backend/internal/modules/catalog"
	"github.com/pedimenu/pedimenu-backend/internal/money"
)

func singleGroup(t *testing.T, options ...catalog.OptionDef) *catalog.ComplementGroup {
	t.Helper()
	return &catalog.ComplementGroup{
		ID:       uuid.New(),
		Name:     "Size",
		Min:      1,
		Max:      1,
		Required: catalog.Required,
		Options:  options,
	}
}

func multiGroup(t *testing.T, max int, options ...catalog.OptionDef) *catalog.ComplementGroup {
	t.Helper()
	return &catalog.ComplementGroup{
		ID:       uuid.New(),
		Name:     "Extras",
		Min:      0,
		Max:      max,
		Required: catalog.Optional,
		Options:  options,
	}
}

func opt(name string, price money.Cents) catalog.OptionDef {
	return catalog.OptionDef{ID: uuid.New(), Name: name, Price: price}
}

func TestSelectSingleReplacesSelection(t *testing.T) {
	a := opt("Small", 0)
	b := opt("Large", 500)
	g := singleGroup(t, a, b)

	sel := Select(Selection{}, g, a)
	sel = Select(sel, g, b)

	require.Len(t, sel[g.ID], 1)
	assert.Equal(t, b.ID, sel[g.ID][0].OptionID)
	assert.Equal(t, 1, sel[g.ID][0].Quantity)
}

func TestSelectSingleIsIdempotent(t *testing.T) {
	a := opt("Small", 0)
	g := singleGroup(t, a)

	sel := Select(Selection{}, g, a)
	sel = Select(sel, g, a)

	require.Len(t, sel[g.ID], 1, "selecting twice must yield exactly one option")
}

func TestSelectMultiTogglesAndCaps(t *testing.T) {
	a, b, c := opt("Bacon", 300), opt("Cheese", 200), opt("Egg", 150)
	g := multiGroup(t, 2, a, b, c)

	sel := Select(Selection{}, g, a)
	sel = Select(sel, g, b)
	require.Len(t, sel[g.ID], 2)

	// Selecting past the cap changes nothing.
	capped := Select(sel, g, c)
	assert.Len(t, capped[g.ID], 2)
	assert.Equal(t, sel, capped)

	// Toggling a selected option removes it.
	sel = Select(sel, g, a)
	require.Len(t, sel[g.ID], 1)
	assert.Equal(t, b.ID, sel[g.ID][0].OptionID)

	// Removing the last option deletes the group entry.
	sel = Select(sel, g, b)
	_, ok := sel[g.ID]
	assert.False(t, ok, "empty group entries must be deleted, not kept as empty slices")
}

func TestSelectDoesNotMutateInput(t *testing.T) {
	a, b := opt("Bacon", 300), opt("Cheese", 200)
	g := multiGroup(t, 3, a, b)

	first := Select(Selection{}, g, a)
	second := Select(first, g, b)

	assert.Len(t, first[g.ID], 1, "prior state must stay untouched")
	assert.Len(t, second[g.ID], 2)
}

func TestAdjustQuantity(t *testing.T) {
	a := opt("Cheese", 200)
	g := multiGroup(t, 3, a)

	sel := Select(Selection{}, g, a)

	sel = AdjustQuantity(sel, g, a.ID, 1)
	require.Equal(t, 2, sel[g.ID][0].Quantity)

	// Group max doubles as the per-option cap; incrementing past it is a no-op.
	sel = AdjustQuantity(sel, g, a.ID, 1)
	sel = AdjustQuantity(sel, g, a.ID, 1)
	assert.Equal(t, 3, sel[g.ID][0].Quantity)

	// Decrementing to zero removes the option and the group entry.
	sel = AdjustQuantity(sel, g, a.ID, -3)
	_, ok := sel[g.ID]
	assert.False(t, ok)
}

func TestAdjustQuantityUnknownOptionIsNoop(t *testing.T) {
	a := opt("Cheese", 200)
	g := multiGroup(t, 3, a)
	sel := Select(Selection{}, g, a)

	same := AdjustQuantity(sel, g, uuid.New(), 1)
	assert.Equal(t, sel, same)
}

func TestValidateSelection(t *testing.T) {
	a, b := opt("Small", 0), opt("Large", 500)
	g := singleGroup(t, a, b)
	groups := []catalog.ComplementGroup{*g}

	errs := ValidateSelection(groups, Selection{})
	require.Len(t, errs, 1)
	assert.Equal(t, g.ID, errs[0].GroupID)
	assert.Equal(t, 1, errs[0].Min)
	assert.Equal(t, 0, errs[0].Selected)

	sel := Select(Selection{}, g, a)
	assert.Empty(t, ValidateSelection(groups, sel))
}

func TestValidateSelectionCountsEntriesNotQuantities(t *testing.T) {
	a, b := opt("Bacon", 300), opt("Cheese", 200)
	g := &catalog.ComplementGroup{
		ID: uuid.New(), Name: "Extras", Min: 2, Max: 4,
		Required: catalog.Required,
		Options:  []catalog.OptionDef{a, b},
	}

	// One entry at quantity 2 does not satisfy min 2.
	sel := Select(Selection{}, g, a)
	sel = AdjustQuantity(sel, g, a.ID, 1)
	require.Len(t, ValidateSelection([]catalog.ComplementGroup{*g}, sel), 1)

	sel = Select(sel, g, b)
	assert.Empty(t, ValidateSelection([]catalog.ComplementGroup{*g}, sel))
}

func TestPriceLine(t *testing.T) {
	// Base 20.00, required single-select with B(+5.00) selected, quantity 2
	// → (20.00 + 5.00) × 2 = 50.00.
	options := []SelectedOption{{OptionID: uuid.New(), GroupID: uuid.New(), UnitPrice: 500, Quantity: 1}}
	got := PriceLine(2000, options, 2)
	assert.Equal(t, money.Cents(5000), got)
}

func TestPriceLineSumsOptionQuantities(t *testing.T) {
	options := []SelectedOption{
		{UnitPrice: 300, Quantity: 2}, // 6.00
		{UnitPrice: 150, Quantity: 1}, // 1.50
	}
	got := PriceLine(1000, options, 3) // (10.00 + 7.50) × 3
	assert.Equal(t, money.Cents(5250), got)
}
