// Package qrcode renders an assembled BR Code payload as a scannable image.
package qrcode

import (
	"fmt"

	qrc "github.com/skip2/go-qrcode"
)

// Renderer turns a BR Code string into an image. Rendering must round-trip
// losslessly: decoding the image reproduces the exact input string.
type Renderer interface {
	Render(payload string) ([]byte, error)
}

type PNGRenderer struct {
	size int
}

func NewPNGRenderer(size int) PNGRenderer {
	return PNGRenderer{size: size}
}

func (r PNGRenderer) Render(payload string) ([]byte, error) {
	png, err := qrc.Encode(payload, qrc.Medium, r.size)
	if err != nil {
		return nil, fmt.Errorf("could not render qr code: %w", err)
	}
	return png, nil
}
