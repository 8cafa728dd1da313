package diagram

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// ScrubLabels erases each detected text box, padded by pad pixels, with a
// flat white fill so a generated question can ask the learner to identify
// the erased label instead of reading it off the image.
func ScrubLabels(img image.Image, boxes []image.Rectangle, pad int) image.Image {
	if len(boxes) == 0 {
		return img
	}
	dc := gg.NewContextForImage(img)
	dc.SetColor(color.White)
	bounds := img.Bounds()
	for _, box := range boxes {
		r := box.Inset(-pad).Intersect(bounds)
		if r.Empty() {
			continue
		}
		dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
		dc.Fill()
	}
	return dc.Image()
}
