package helpers

import (
	"fmt"
	"strings"
)

// NormalizePhone reduces input to E.164. Bare 10-digit numbers are assumed
// to be US; anything that does not resolve to 10-15 digits is rejected.
func NormalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		} else if r != '+' && r != '-' && r != ' ' && r != '(' && r != ')' && r != '.' {
			return "", fmt.Errorf("unexpected character %q in phone number", r)
		}
	}

	d := digits.String()
	switch {
	case len(d) == 10:
		return "+1" + d, nil
	case len(d) == 11 && strings.HasPrefix(d, "1"):
		return "+" + d, nil
	case len(d) >= 10 && len(d) <= 15:
		return "+" + d, nil
	default:
		return "", fmt.Errorf("phone number must have 10-15 digits, got %d", len(d))
	}
}
