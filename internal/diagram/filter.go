package diagram

import "image"

// Policy is the skip-filter configuration. Kept pure so the filter is
// testable without OCR or a document.
type Policy struct {
	MinDim int
}

func DefaultPolicy() Policy {
	return Policy{MinDim: 100}
}

// TooSmall drops thumbnails and decorative fragments before any
// expensive processing runs.
func (p Policy) TooSmall(w, h int) bool {
	min := p.MinDim
	if min <= 0 {
		min = 100
	}
	return w < min || h < min
}

// HasAlpha reports whether the image carries actual transparency.
// Transparent images are treated as icon/logo noise rather than diagram
// material.
func HasAlpha(img image.Image) bool {
	if op, ok := img.(interface{ Opaque() bool }); ok {
		return !op.Opaque()
	}
	return false
}
