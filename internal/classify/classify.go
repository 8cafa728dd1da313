package classify

import (
	"strings"

	"quizforge/internal/extract"
)

// Policy holds the relevance heuristics. These are tunable guesses, kept
// pure over PageRecord so they stay unit-testable without a document.
type Policy struct {
	MinWords          int
	FirstPageMinWords int
	LastPageMinWords  int
	SkipKeywords      []string
}

// defaultSkipKeywords flags boilerplate pages: covers, acknowledgements,
// reference sections and the like, in English and Arabic.
var defaultSkipKeywords = []string{
	"thank you",
	"acknowledgment",
	"acknowledgement",
	"references",
	"bibliography",
	"table of contents",
	"contents page",
	"index",
	"glossary",
	"appendix",
	"about the author",
	"copyright",
	"all rights reserved",
	"شكرا",
	"شكراً",
	"المراجع",
	"قائمة المراجع",
	"الفهرس",
	"جدول المحتويات",
	"الملحق",
	"حقوق النشر",
}

func DefaultPolicy() Policy {
	return Policy{
		MinWords:          5,
		FirstPageMinWords: 50,
		LastPageMinWords:  30,
		SkipKeywords:      defaultSkipKeywords,
	}
}

// WithExtraKeywords appends caller-configured boilerplate keywords.
func (p Policy) WithExtraKeywords(extra []string) Policy {
	if len(extra) == 0 {
		return p
	}
	kw := make([]string, 0, len(p.SkipKeywords)+len(extra))
	kw = append(kw, p.SkipKeywords...)
	for _, k := range extra {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			kw = append(kw, k)
		}
	}
	p.SkipKeywords = kw
	return p
}

// Relevant applies the heuristic conjunction for a single page. lastIndex
// is the index of the document's final page. The first page is held to a
// stricter word bar to catch cover pages with a short blurb; the last
// page gets a milder version of the same bias.
func (p Policy) Relevant(rec extract.PageRecord, lastIndex int) bool {
	if rec.Failed {
		return false
	}
	if rec.WordCount < p.MinWords {
		return false
	}
	if rec.Index == 1 && rec.WordCount < p.FirstPageMinWords {
		return false
	}
	if rec.Index == lastIndex && rec.Index != 1 && rec.WordCount < p.LastPageMinWords {
		return false
	}
	low := strings.ToLower(rec.Text)
	for _, kw := range p.SkipKeywords {
		if strings.Contains(low, kw) {
			return false
		}
	}
	return true
}

// Apply sets IsRelevant on every record and returns the relevant count.
// Zero relevant pages is a valid outcome the caller must surface, not a
// reason to crash.
func Apply(pages []extract.PageRecord, p Policy) int {
	if len(pages) == 0 {
		return 0
	}
	lastIndex := pages[len(pages)-1].Index
	relevant := 0
	for i := range pages {
		pages[i].IsRelevant = p.Relevant(pages[i], lastIndex)
		if pages[i].IsRelevant {
			relevant++
		}
	}
	return relevant
}
