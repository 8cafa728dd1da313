package ocr

import (
	"context"
	"image"
	"strings"
)

// Detection is one recognized text region. Box is in pixel coordinates of
// the submitted image.
type Detection struct {
	Text string          `json:"text"`
	Box  image.Rectangle `json:"box"`
}

// Result carries both the concatenated text and the word-level regions.
// An empty Result is a valid "no text found" outcome, not an error.
type Result struct {
	FullText string      `json:"full_text"`
	Words    []Detection `json:"words"`
}

type Engine interface {
	Detect(ctx context.Context, img []byte, langHints []string) (Result, error)
}

// JoinWords rebuilds a plain text blob from a result, falling back to the
// word detections when the engine returned no concatenated text.
func JoinWords(r Result) string {
	if r.FullText != "" {
		return r.FullText
	}
	parts := make([]string, 0, len(r.Words))
	for _, w := range r.Words {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}
