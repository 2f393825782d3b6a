package assessment

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrInvalidParameter is matched by every ValidationError.
	ErrInvalidParameter = errors.New("assessment: invalid parameter")
	// ErrEconomicInvariant is matched by every EconomicError.
	ErrEconomicInvariant = errors.New("assessment: economic invariant violated")
)

// ValidationError reports a raw input value outside its declared domain.
type ValidationError struct {
	Field string
	Value string
	Bound string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("assessment: %s=%s outside %s", e.Field, e.Value, e.Bound)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidParameter }

// EconomicError marks a contract failure inside the economic model.
// Validated inputs never produce one.
type EconomicError struct {
	Reason string
}

func (e *EconomicError) Error() string {
	return "assessment: economic model: " + e.Reason
}

func (e *EconomicError) Unwrap() error { return ErrEconomicInvariant }

// ValidationErrors flattens err into its individual field violations.
func ValidationErrors(err error) []*ValidationError {
	if err == nil {
		return nil
	}
	var out []*ValidationError
	var walk func(error)
	walk = func(e error) {
		switch typed := e.(type) {
		case *ValidationError:
			out = append(out, typed)
		case interface{ Unwrap() []error }:
			for _, inner := range typed.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			if inner := typed.Unwrap(); inner != nil {
				walk(inner)
			}
		}
	}
	walk(err)
	return out
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
