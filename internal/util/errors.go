package util

import "errors"

var (
	ErrEmptyDocument     = errors.New("document is empty or unreadable")
	ErrNoExtractableText = errors.New("no extractable text found in PDF")

	// ErrNoEligibleContent means the page classifier filtered every page
	// out, or mistake review found no qualifying past answers. This is a
	// user-visible failure, never a silent empty success.
	ErrNoEligibleContent = errors.New("no eligible content for question generation")

	ErrSynthesisExhausted   = errors.New("no valid questions produced after exhausting retries")
	ErrNoQualifyingMistakes = errors.New("no qualifying mistakes in attempt history")
)
