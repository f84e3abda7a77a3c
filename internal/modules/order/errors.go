package order

import (
	"errors"
	"strings"
)

// ErrOrderNotFound means the order id or number does not exist.
var ErrOrderNotFound = errors.New("order not found")

// FieldError is one unmet finalize precondition.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the full list of finalize rejections. Finalize reports
// every problem at once so the checkout form can highlight all of them.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return "finalize rejected: " + strings.Join(msgs, "; ")
}
