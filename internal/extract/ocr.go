package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
)

// Recognizer is the OCR engine for one document's scanned pages. It is
// expensive to create, so the extractor initializes one lazily on the first
// weak page and releases it when the document is done, even on error.
type Recognizer interface {
	Recognize(ctx context.Context, img []byte) (string, error)
	Close() error
}

// RecognizerFactory creates a Recognizer scoped to one document.
type RecognizerFactory func(ctx context.Context) (Recognizer, error)

type visionRecognizer struct {
	client *vision.ImageAnnotatorClient
	langs  []string
}

// NewVisionRecognizerFactory returns a factory producing Vision-backed OCR
// engines with fixed language hints (regional languages plus English).
func NewVisionRecognizerFactory(langs []string) RecognizerFactory {
	return func(ctx context.Context) (Recognizer, error) {
		client, err := vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("vision client: %w", err)
		}
		return &visionRecognizer{client: client, langs: langs}, nil
	}
}

func (r *visionRecognizer) Recognize(ctx context.Context, img []byte) (string, error) {
	if len(img) == 0 {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req := &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{Content: img},
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
		},
		ImageContext: &visionpb.ImageContext{LanguageHints: r.langs},
	}

	br := &visionpb.BatchAnnotateImagesRequest{Requests: []*visionpb.AnnotateImageRequest{req}}
	resp, err := r.client.BatchAnnotateImages(ctx, br)
	if err != nil {
		return "", fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return "", nil
	}

	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return "", fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}

	fta := r0.FullTextAnnotation
	if fta == nil {
		return "", nil
	}
	return strings.TrimSpace(fta.Text), nil
}

func (r *visionRecognizer) Close() error {
	return r.client.Close()
}
