// Package errorutil centralizes how domain errors are created and wrapped so
// that sentinel errors can be matched with errors.Is across package
// boundaries.
package errorutil

import (
	"errors"
	"fmt"
)

func New(text string) error {
	return errors.New(text)
}

func Format(format string, a ...any) error {
	return fmt.Errorf(format, a...)
}
