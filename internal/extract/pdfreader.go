package extract

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"quizforge/internal/util"
)

// RawImage is one embedded raster image as stored in the document,
// re-encoded by the extractor into a standard file format.
type RawImage struct {
	Page     int
	Name     string
	FileType string
	Data     []byte
}

// pdfReader is the production DocumentReader.
type pdfReader struct{}

func (pdfReader) PageTexts(path string) (texts []string, err error) {
	// The pdf library panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	if total <= 0 {
		return nil, util.ErrEmptyDocument
	}
	texts = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		texts = append(texts, pageText(r, i))
	}
	return texts, nil
}

// pageText isolates per-page parse panics so one bad page does not lose
// the document.
func pageText(r *pdf.Reader, i int) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			out = ""
		}
	}()
	page := r.Page(i)
	if page.V.IsNull() {
		return ""
	}
	t, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return t
}

func (pdfReader) PageImages(path string, pages []int) ([]RawImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	sel := make([]string, 0, len(pages))
	for _, p := range pages {
		sel = append(sel, strconv.Itoa(p))
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pageImgs, err := api.ExtractImagesRaw(f, sel, conf)
	if err != nil {
		return nil, fmt.Errorf("extract pdf images: %w", err)
	}

	out := make([]RawImage, 0)
	for _, byObj := range pageImgs {
		for _, im := range byObj {
			data, err := io.ReadAll(im)
			if err != nil || len(data) == 0 {
				continue
			}
			out = append(out, RawImage{
				Page:     im.PageNr,
				Name:     im.Name,
				FileType: im.FileType,
				Data:     data,
			})
		}
	}
	return out, nil
}
