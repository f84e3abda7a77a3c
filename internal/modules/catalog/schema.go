package catalog

import (
	"fmt"
	"strings"
)

// SchemaError is a single authoring-time violation in a product's complement
// groups. Validation is not fail-fast: the editor shows every problem at once.
type SchemaError struct {
	Group   int    `json:"group"` // 1-based position of the offending group
	Message string `json:"message"`
}

func (e SchemaError) Error() string { return e.Message }

// ValidateSchema checks a product's complement groups in declaration order
// and returns every violation found.
//
// A blank option name suppresses the group-name check for that group. This
// mirrors the behaviour the storefront has always had; it looks accidental
// but is preserved until the intended semantics are confirmed (see DESIGN.md).
func ValidateSchema(groups []ComplementGroup) []SchemaError {
	var errs []SchemaError

	for i, g := range groups {
		n := i + 1

		blankOption := false
		for _, opt := range g.Options {
			if strings.TrimSpace(opt.Name) == "" {
				errs = append(errs, SchemaError{Group: n, Message: fmt.Sprintf("group %d has an option with a blank name", n)})
				blankOption = true
				break
			}
		}

		if !blankOption && strings.TrimSpace(g.Name) == "" {
			errs = append(errs, SchemaError{Group: n, Message: fmt.Sprintf("group %d name is blank", n)})
		}

		if g.Required == RequiredUnset {
			errs = append(errs, SchemaError{Group: n, Message: fmt.Sprintf("select required/optional for group %d", n)})
		}

		if g.Max <= 0 {
			errs = append(errs, SchemaError{Group: n, Message: fmt.Sprintf("group %d: max must be greater than zero", n)})
		}

		if g.Required == Required && g.Min <= 0 {
			errs = append(errs, SchemaError{Group: n, Message: fmt.Sprintf("group %d: required group must have min > 0", n)})
		}
	}

	return errs
}
