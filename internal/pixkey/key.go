// Package pixkey validates and normalizes Pix keys (DICT entry proxies)
// before they are embedded in a BR Code.
package pixkey

import (
	"regexp"
	"strings"

	"github.com/juniorwebyte/ploutos-sub000/internal/errorutil"
)

type Type string

const (
	TypeCPF    Type = "CPF"
	TypeCNPJ   Type = "CNPJ"
	TypeEmail  Type = "EMAIL"
	TypePhone  Type = "PHONE"
	TypeRandom Type = "EVP"
)

var ErrInvalidKey = errorutil.New("invalid pix key")

var (
	emailRx = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	evpRx   = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// Validate reports whether key satisfies the grammar of its declared type.
func Validate(key string, keyType Type) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errorutil.Format("%w: key is empty", ErrInvalidKey)
	}

	switch keyType {
	case TypeCPF:
		if len(digits(key)) != 11 {
			return errorutil.Format("%w: cpf must have 11 digits", ErrInvalidKey)
		}
	case TypeCNPJ:
		if len(digits(key)) != 14 {
			return errorutil.Format("%w: cnpj must have 14 digits", ErrInvalidKey)
		}
	case TypeEmail:
		if !emailRx.MatchString(key) {
			return errorutil.Format("%w: malformed email", ErrInvalidKey)
		}
	case TypePhone:
		d := digits(key)
		// The 55 country code is only considered present when the digit
		// count indicates it (12-13 digits), so a subscriber number that
		// happens to start with 55 is not mistaken for a prefixed one.
		if len(d) >= 12 && len(d) <= 13 && strings.HasPrefix(d, "55") {
			d = d[2:]
		}
		if len(d) < 10 || len(d) > 11 {
			return errorutil.Format("%w: phone must have 10 or 11 digits", ErrInvalidKey)
		}
	case TypeRandom:
		if !evpRx.MatchString(key) {
			return errorutil.Format("%w: random key must be a uuid", ErrInvalidKey)
		}
	default:
		return errorutil.Format("%w: unknown key type %q", ErrInvalidKey, keyType)
	}

	return nil
}

// Normalize rewrites key into the form carried by the BR Code merchant
// account information field. Phone keys become +55 international numbers
// with exactly one country code prefix; other types are only trimmed.
func Normalize(key string, keyType Type) string {
	key = strings.TrimSpace(key)
	if keyType != TypePhone {
		return key
	}

	d := digits(key)
	if len(d) >= 12 && strings.HasPrefix(d, "55") {
		return "+" + d
	}
	return "+55" + d
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
