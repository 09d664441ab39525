package validate

import (
	"strings"

	"github.com/ShiraazMoollatjie/goluhn"
)

const maxOrderNumberLen = 64

// IsOrderNumber reports whether s is a digit string passing the Luhn check.
func IsOrderNumber(s string) bool {
	if s == "" || len(s) > maxOrderNumberLen || strings.TrimSpace(s) != s {
		return false
	}
	return goluhn.Validate(s) == nil
}
