// Package agronomy holds the rule-matching and recommendation-lifecycle logic.
// Everything here is pure compare/state code: no I/O, no store access. Handlers
// persist whatever these functions decide.
package agronomy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTransition is returned when a terminal recommendation or rule is
// re-reviewed with a conflicting action.
var ErrInvalidTransition = errors.New("invalid state transition")

// ValidationError lists every missing or malformed field of an input.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid fields: %s", strings.Join(e.Fields, ", "))
}

// AsValidation unwraps err into a *ValidationError when it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
