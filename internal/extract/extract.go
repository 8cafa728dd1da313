package extract

import (
	"context"
	"strings"

	"quizforge/internal/ocr"
	"quizforge/internal/util"
)

type Method string

const (
	MethodDirect Method = "direct"
	MethodOCR    Method = "ocr"
)

// PageRecord is produced once per page and immutable after classification.
// IsRelevant is a derived heuristic guess, not ground truth.
type PageRecord struct {
	Index      int    `json:"index"`
	Text       string `json:"text"`
	Method     Method `json:"extraction_method"`
	WordCount  int    `json:"word_count"`
	IsRelevant bool   `json:"is_relevant"`
	Failed     bool   `json:"failed,omitempty"`
}

// DocumentReader abstracts PDF access so page records can be built from
// test fixtures without real documents.
type DocumentReader interface {
	PageTexts(path string) ([]string, error)
	PageImages(path string, pages []int) ([]RawImage, error)
}

// PDFReader is the production DocumentReader over on-disk PDFs.
func PDFReader() DocumentReader {
	return pdfReader{}
}

type Extractor struct {
	reader   DocumentReader
	engine   ocr.Engine
	minWords int
	langs    []string
}

func NewExtractor(engine ocr.Engine, minWords int, langs []string) *Extractor {
	if minWords <= 0 {
		minWords = 5
	}
	return &Extractor{reader: pdfReader{}, engine: engine, minWords: minWords, langs: langs}
}

// NewExtractorWithReader is used by tests and by callers that already hold
// page content.
func NewExtractorWithReader(reader DocumentReader, engine ocr.Engine, minWords int, langs []string) *Extractor {
	e := NewExtractor(engine, minWords, langs)
	e.reader = reader
	return e
}

// Pages yields one PageRecord per page. Pages whose direct text layer
// falls under the word threshold are re-processed through OCR over their
// embedded images. A per-page OCR failure marks that page failed and
// moves on; only a fully unreadable document is an error. The second
// return value is the count of failed pages.
func (e *Extractor) Pages(ctx context.Context, path string) ([]PageRecord, int, error) {
	texts, err := e.reader.PageTexts(path)
	if err != nil {
		return nil, 0, err
	}
	if len(texts) == 0 {
		return nil, 0, util.ErrEmptyDocument
	}

	records := make([]PageRecord, len(texts))
	needOCR := make([]int, 0)
	for i, t := range texts {
		t = util.SanitizeText(t)
		wc := util.WordCount(t)
		records[i] = PageRecord{Index: i + 1, Text: t, Method: MethodDirect, WordCount: wc}
		if wc < e.minWords {
			needOCR = append(needOCR, i+1)
		}
	}

	failed := 0
	if len(needOCR) > 0 && e.engine != nil {
		failed = e.ocrPages(ctx, path, needOCR, records)
	}
	return records, failed, nil
}

func (e *Extractor) ocrPages(ctx context.Context, path string, pages []int, records []PageRecord) int {
	imgs, err := e.reader.PageImages(path, pages)
	if err != nil {
		// Image enumeration failed for every OCR candidate; the pages
		// stay with their (short) direct text rather than aborting.
		failed := 0
		for _, p := range pages {
			records[p-1].Failed = true
			failed++
		}
		return failed
	}

	byPage := make(map[int][]RawImage)
	for _, im := range imgs {
		byPage[im.Page] = append(byPage[im.Page], im)
	}

	failed := 0
	for _, p := range pages {
		rec := &records[p-1]
		var parts []string
		pageFailed := false
		for _, im := range byPage[p] {
			res, err := e.engine.Detect(ctx, im.Data, e.langs)
			if err != nil {
				pageFailed = true
				break
			}
			if t := strings.TrimSpace(ocr.JoinWords(res)); t != "" {
				parts = append(parts, t)
			}
		}
		if pageFailed {
			rec.Text = ""
			rec.WordCount = 0
			rec.Failed = true
			failed++
			continue
		}
		text := util.SanitizeText(strings.Join(parts, "\n"))
		if text != "" {
			rec.Text = text
			rec.Method = MethodOCR
			rec.WordCount = util.WordCount(text)
		}
	}
	return failed
}
