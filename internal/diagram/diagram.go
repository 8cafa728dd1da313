package diagram

import (
	"bytes"
	"context"
	"image"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"

	"quizforge/internal/extract"
	"quizforge/internal/ocr"
)

// Candidate is an embedded raster image that survived the skip-filter,
// had its labels scrubbed, and was re-encoded for inline storage.
type Candidate struct {
	SourcePage int      `json:"source_page"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Labels     []string `json:"labels"`
	Encoded    string   `json:"encoded"`
}

// ImageSource enumerates a document's embedded images per page.
type ImageSource interface {
	PageImages(path string, pages []int) ([]extract.RawImage, error)
}

type Extractor struct {
	source  ImageSource
	engine  ocr.Engine
	policy  Policy
	maxDim  int
	quality int
	pad     int
	langs   []string
}

func NewExtractor(engine ocr.Engine, policy Policy, maxDim, quality, pad int, langs []string) *Extractor {
	if maxDim <= 0 {
		maxDim = 600
	}
	if quality <= 0 {
		quality = 40
	}
	if pad < 0 {
		pad = 5
	}
	return &Extractor{
		source:  extract.PDFReader(),
		engine:  engine,
		policy:  policy,
		maxDim:  maxDim,
		quality: quality,
		pad:     pad,
		langs:   langs,
	}
}

func NewExtractorWithSource(source ImageSource, engine ocr.Engine, policy Policy, maxDim, quality, pad int, langs []string) *Extractor {
	e := NewExtractor(engine, policy, maxDim, quality, pad, langs)
	e.source = source
	return e
}

// Candidates runs the per-image pipeline for the given relevant pages:
// skip-filter, label detection, scrub, downscale, encode. Trivial images
// (too small, alpha icons, no labels) are dropped silently; decode and
// OCR failures are counted in the second return value.
func (e *Extractor) Candidates(ctx context.Context, path string, pages []int) ([]Candidate, int, error) {
	if len(pages) == 0 {
		return nil, 0, nil
	}
	raws, err := e.source.PageImages(path, pages)
	if err != nil {
		return nil, 0, err
	}

	out := make([]Candidate, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		img, _, err := image.Decode(bytes.NewReader(raw.Data))
		if err != nil {
			skipped++
			continue
		}
		b := img.Bounds()
		if e.policy.TooSmall(b.Dx(), b.Dy()) {
			continue
		}
		if HasAlpha(img) {
			continue
		}

		res, err := e.engine.Detect(ctx, raw.Data, e.langs)
		if err != nil {
			skipped++
			continue
		}
		if len(res.Words) == 0 {
			continue
		}

		labels := make([]string, 0, len(res.Words))
		boxes := make([]image.Rectangle, 0, len(res.Words))
		for _, w := range res.Words {
			labels = append(labels, w.Text)
			boxes = append(boxes, w.Box)
		}

		scrubbed := ScrubLabels(img, boxes, e.pad)
		scaled := Downscale(scrubbed, e.maxDim)
		encoded, err := EncodeJPEGBase64(scaled, e.quality)
		if err != nil {
			skipped++
			continue
		}
		sb := scaled.Bounds()
		out = append(out, Candidate{
			SourcePage: raw.Page,
			Width:      sb.Dx(),
			Height:     sb.Dy(),
			Labels:     labels,
			Encoded:    encoded,
		})
	}
	return out, skipped, nil
}
