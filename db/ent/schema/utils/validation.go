package utils

import (
	"fmt"
	"slices"
)

// EnumValidator returns a field validator that accepts only the listed
// values. Schema enums here mirror the typed-string constants, so a rejected
// value means the write path skipped canonicalization.
func EnumValidator(allowed ...string) func(string) error {
	return func(s string) error {
		if slices.Contains(allowed, s) {
			return nil
		}
		return fmt.Errorf("value %q is not one of %v", s, allowed)
	}
}
