package charge

import (
	"fmt"
	"strings"

	"github.com/juniorwebyte/ploutos-sub000/internal/errorutil"
)

const maxAmountDigits = 10

// ParseAmount normalizes a decimal amount into the wire form with exactly
// two decimal digits ("10.5" -> "10.50"). Extra decimals are rounded half
// up. Zero and negative amounts are rejected.
func ParseAmount(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errorutil.Format("%w: empty", ErrInvalidAmount)
	}
	if strings.HasPrefix(s, "-") {
		return "", errorutil.Format("%w: %q is negative", ErrInvalidAmount, raw)
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" || !isDigits(intPart) || (fracPart != "" && !isDigits(fracPart)) {
		return "", errorutil.Format("%w: %q is not a decimal number", ErrInvalidAmount, raw)
	}
	if len(strings.TrimLeft(intPart, "0")) > maxAmountDigits {
		return "", errorutil.Format("%w: %q is too large", ErrInvalidAmount, raw)
	}

	cents := uint64(0)
	for _, r := range intPart {
		cents = cents*10 + uint64(r-'0')
	}
	cents *= 100

	switch {
	case len(fracPart) >= 2:
		cents += uint64(fracPart[0]-'0')*10 + uint64(fracPart[1]-'0')
		if len(fracPart) > 2 && fracPart[2] >= '5' {
			cents++
		}
	case len(fracPart) == 1:
		cents += uint64(fracPart[0]-'0') * 10
	}

	if cents == 0 {
		return "", errorutil.Format("%w: amount must be positive", ErrInvalidAmount)
	}

	return fmt.Sprintf("%d.%02d", cents/100, cents%100), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
