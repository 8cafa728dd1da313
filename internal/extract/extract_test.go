package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"quizforge/internal/ocr"
)

type fakeReader struct {
	texts  []string
	images map[int][][]byte
	imgErr error
}

func (f fakeReader) PageTexts(string) ([]string, error) {
	return f.texts, nil
}

func (f fakeReader) PageImages(_ string, pages []int) ([]RawImage, error) {
	if f.imgErr != nil {
		return nil, f.imgErr
	}
	out := make([]RawImage, 0)
	for _, p := range pages {
		for i, b := range f.images[p] {
			out = append(out, RawImage{Page: p, Name: fmt.Sprintf("Im%d_%d", p, i), FileType: "jpg", Data: b})
		}
	}
	return out, nil
}

func TestPagesDirectExtraction(t *testing.T) {
	reader := fakeReader{texts: []string{
		"one two three four five six",
		"alpha beta gamma delta epsilon zeta",
	}}
	ex := NewExtractorWithReader(reader, &ocr.MockEngine{}, 5, nil)

	pages, failed, err := ex.Pages(context.Background(), "doc.pdf")
	require.NoError(t, err)
	require.Zero(t, failed)
	require.Len(t, pages, 2)
	for i, p := range pages {
		require.Equal(t, i+1, p.Index)
		require.Equal(t, MethodDirect, p.Method)
		require.Equal(t, 6, p.WordCount)
	}
}

func TestPagesOCRFallbackUnderWordThreshold(t *testing.T) {
	reader := fakeReader{
		texts:  []string{"stub", "plenty of words on this page indeed"},
		images: map[int][][]byte{1: {[]byte("page-1-img")}},
	}
	engine := &ocr.MockEngine{
		Key:   func(b []byte) string { return string(b) },
		ByKey: map[string]ocr.Result{"page-1-img": {FullText: "recovered scanned page text here now"}},
	}
	ex := NewExtractorWithReader(reader, engine, 5, []string{"en", "ar"})

	pages, failed, err := ex.Pages(context.Background(), "doc.pdf")
	require.NoError(t, err)
	require.Zero(t, failed)
	require.Equal(t, MethodOCR, pages[0].Method)
	require.Equal(t, 6, pages[0].WordCount)
	require.Equal(t, MethodDirect, pages[1].Method)
	require.Equal(t, 1, engine.Calls)
}

func TestPagesOCRWordDetectionsWithoutFullText(t *testing.T) {
	reader := fakeReader{
		texts:  []string{"stub"},
		images: map[int][][]byte{1: {[]byte("page-1-img")}},
	}
	engine := &ocr.MockEngine{
		Key: func(b []byte) string { return string(b) },
		ByKey: map[string]ocr.Result{"page-1-img": {
			Words: []ocr.Detection{
				{Text: "recovered"}, {Text: "scanned"}, {Text: "page"},
				{Text: "text"}, {Text: "here"}, {Text: "now"},
			},
		}},
	}
	ex := NewExtractorWithReader(reader, engine, 5, []string{"en"})

	pages, failed, err := ex.Pages(context.Background(), "doc.pdf")
	require.NoError(t, err)
	require.Zero(t, failed)
	require.Equal(t, MethodOCR, pages[0].Method)
	require.Equal(t, 6, pages[0].WordCount)
}

func TestPagesSingleOCRFailureDoesNotAbort(t *testing.T) {
	texts := make([]string, 20)
	images := map[int][][]byte{}
	for i := range texts {
		page := i + 1
		if page == 5 || page == 12 {
			texts[i] = ""
			images[page] = [][]byte{[]byte(fmt.Sprintf("img-%d", page))}
		} else {
			texts[i] = strings.Repeat("word ", 40)
		}
	}
	engine := &ocr.MockEngine{
		Key: func(b []byte) string { return string(b) },
		ErrByKey: map[string]error{
			"img-5":  errors.New("ocr backend unavailable"),
			"img-12": errors.New("ocr backend unavailable"),
		},
	}
	ex := NewExtractorWithReader(fakeReader{texts: texts, images: images}, engine, 5, nil)

	pages, failed, err := ex.Pages(context.Background(), "doc.pdf")
	require.NoError(t, err)
	require.Equal(t, 2, failed)
	require.Len(t, pages, 20)
	require.True(t, pages[4].Failed)
	require.True(t, pages[11].Failed)
	require.Empty(t, pages[4].Text)

	healthy := 0
	for _, p := range pages {
		if !p.Failed {
			healthy++
		}
	}
	require.Equal(t, 18, healthy)
}

func TestPagesImageEnumerationFailureMarksPages(t *testing.T) {
	reader := fakeReader{
		texts:  []string{"short", strings.Repeat("word ", 30)},
		imgErr: errors.New("corrupt xref"),
	}
	ex := NewExtractorWithReader(reader, &ocr.MockEngine{}, 5, nil)

	pages, failed, err := ex.Pages(context.Background(), "doc.pdf")
	require.NoError(t, err)
	require.Equal(t, 1, failed)
	require.True(t, pages[0].Failed)
	require.False(t, pages[1].Failed)
}
