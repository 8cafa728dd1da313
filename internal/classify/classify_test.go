package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"quizforge/internal/extract"
)

func page(index, words int, text string) extract.PageRecord {
	if text == "" {
		text = strings.TrimSpace(strings.Repeat("content ", words))
	}
	return extract.PageRecord{Index: index, Text: text, WordCount: words}
}

func TestRelevantWordFloor(t *testing.T) {
	p := DefaultPolicy()
	require.False(t, p.Relevant(page(3, 3, ""), 10))
	require.True(t, p.Relevant(page(3, 200, ""), 10))
}

func TestRelevantFirstPageStricterBar(t *testing.T) {
	p := DefaultPolicy()
	// 30 words passes on an inner page but not on the first page.
	require.False(t, p.Relevant(page(1, 30, ""), 10))
	require.True(t, p.Relevant(page(4, 30, ""), 10))
}

func TestRelevantLastPageBar(t *testing.T) {
	p := DefaultPolicy()
	require.False(t, p.Relevant(page(10, 20, ""), 10))
	require.True(t, p.Relevant(page(10, 40, ""), 10))
}

func TestRelevantBoilerplateKeywords(t *testing.T) {
	p := DefaultPolicy()
	refs := page(5, 120, "References\n"+strings.Repeat("citation entry ", 60))
	require.False(t, p.Relevant(refs, 10))

	arabic := page(5, 120, "المراجع\n"+strings.Repeat("مرجع ", 120))
	require.False(t, p.Relevant(arabic, 10))

	body := page(5, 200, "")
	require.True(t, p.Relevant(body, 10))
}

func TestRelevantFailedPageExcluded(t *testing.T) {
	p := DefaultPolicy()
	rec := page(3, 500, "")
	rec.Failed = true
	require.False(t, p.Relevant(rec, 10))
}

func TestApplyCountsAndAllFilteredOut(t *testing.T) {
	pages := []extract.PageRecord{page(1, 10, ""), page(2, 3, "")}
	n := Apply(pages, DefaultPolicy())
	require.Zero(t, n)
	require.False(t, pages[0].IsRelevant)
	require.False(t, pages[1].IsRelevant)

	pages = []extract.PageRecord{page(1, 80, ""), page(2, 120, ""), page(3, 2, "")}
	n = Apply(pages, DefaultPolicy())
	require.Equal(t, 2, n)
}

func TestWithExtraKeywords(t *testing.T) {
	p := DefaultPolicy().WithExtraKeywords([]string{"Sample Exam Cover"})
	rec := page(5, 90, "sample exam cover "+strings.Repeat("word ", 90))
	require.False(t, p.Relevant(rec, 10))
}
