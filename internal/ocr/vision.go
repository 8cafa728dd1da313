package ocr

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// VisionEngine performs text detection through Google Cloud Vision.
type VisionEngine struct {
	client  *vision.ImageAnnotatorClient
	timeout time.Duration
}

func NewVisionEngine(ctx context.Context) (*VisionEngine, error) {
	var opts []option.ClientOption
	if creds := strings.TrimSpace(os.Getenv("QUIZFORGE_GCP_CREDENTIALS")); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	c, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &VisionEngine{client: c, timeout: 60 * time.Second}, nil
}

func (v *VisionEngine) Close() error {
	if v == nil || v.client == nil {
		return nil
	}
	return v.client.Close()
}

func (v *VisionEngine) Detect(ctx context.Context, img []byte, langHints []string) (Result, error) {
	if len(img) == 0 {
		return Result{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req := &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{Content: img},
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
		},
	}
	if len(langHints) > 0 {
		req.ImageContext = &visionpb.ImageContext{LanguageHints: langHints}
	}

	br := &visionpb.BatchAnnotateImagesRequest{Requests: []*visionpb.AnnotateImageRequest{req}}
	resp, err := v.client.BatchAnnotateImages(ctx, br)
	if err != nil {
		return Result{}, fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return Result{}, nil
	}
	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return Result{}, fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}
	fta := r0.FullTextAnnotation
	if fta == nil {
		return Result{}, nil
	}

	out := Result{FullText: strings.TrimSpace(fta.Text)}
	for _, pg := range fta.Pages {
		if pg == nil {
			continue
		}
		for _, blk := range pg.Blocks {
			if blk == nil {
				continue
			}
			for _, para := range blk.Paragraphs {
				if para == nil {
					continue
				}
				for _, word := range para.Words {
					if word == nil {
						continue
					}
					text := wordText(word)
					if text == "" {
						continue
					}
					box, ok := rectFromPoly(word.BoundingBox)
					if !ok {
						continue
					}
					out.Words = append(out.Words, Detection{Text: text, Box: box})
				}
			}
		}
	}
	return out, nil
}

func wordText(w *visionpb.Word) string {
	var b strings.Builder
	for _, s := range w.Symbols {
		if s != nil {
			b.WriteString(s.Text)
		}
	}
	return strings.TrimSpace(b.String())
}

func rectFromPoly(bp *visionpb.BoundingPoly) (image.Rectangle, bool) {
	if bp == nil || len(bp.Vertices) == 0 {
		return image.Rectangle{}, false
	}
	minX, minY := int(bp.Vertices[0].X), int(bp.Vertices[0].Y)
	maxX, maxY := minX, minY
	for _, v := range bp.Vertices[1:] {
		if v == nil {
			continue
		}
		x, y := int(v.X), int(v.Y)
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	r := image.Rect(minX, minY, maxX, maxY)
	if r.Empty() {
		return image.Rectangle{}, false
	}
	return r, true
}
