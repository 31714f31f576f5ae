package extract

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"coursearchitect/internal/logging"
	"coursearchitect/internal/models"
)

const (
	// OCRThreshold is the embedded-text length below which a page is treated
	// as a scan. Set high enough to catch pages carrying only page numbers
	// or noise.
	OCRThreshold = 50

	// BinarizeThreshold is the luminance cut applied before recognition.
	BinarizeThreshold = 160

	// MaxExtractedTextSize limits the extracted text size (1MB)
	MaxExtractedTextSize = 1024 * 1024
)

// ProgressFunc receives a progress signal on every processed page.
type ProgressFunc func(models.ExtractionProgress)

// Extractor turns uploaded files into one text blob per file: direct
// decoding for text files, a page-by-page walk with an OCR fallback for
// PDFs.
type Extractor struct {
	ras           Rasterizer
	newRecognizer RecognizerFactory
}

// New creates an Extractor. The recognizer factory may be nil, in which case
// scanned pages degrade to placeholder lines instead of OCR text.
func New(ras Rasterizer, factory RecognizerFactory) *Extractor {
	return &Extractor{ras: ras, newRecognizer: factory}
}

// ExtractFile produces the full readable content of one file. PDF inputs
// (sniffed by magic bytes or named *.pdf) take the page-by-page path; every
// other input is decoded as text verbatim.
func (e *Extractor) ExtractFile(ctx context.Context, filename string, data []byte, progress ProgressFunc) (string, error) {
	if isPDF(data) || strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return e.extractPDF(ctx, filename, data, progress)
	}

	if !utf8.Valid(data) {
		return "", &ExtractionError{Kind: IoFailure, Msg: fmt.Sprintf("file %s is not valid text", filename)}
	}
	return string(data), nil
}

// extractPDF walks pages 1..N sequentially. A page whose embedded text layer
// is shorter than OCRThreshold is rasterized, binarized and recognized; the
// OCR engine is created once per document on the first such page and always
// released at the end. Page-level failures become inline placeholders; only
// an unparseable container fails the document.
func (e *Extractor) extractPDF(ctx context.Context, filename string, data []byte, progress ProgressFunc) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Kind: CorruptOrProtected, Msg: "could not parse PDF container", Err: err}
	}

	totalPages := reader.NumPage()
	if totalPages == 0 {
		return "", &ExtractionError{Kind: CorruptOrProtected, Msg: "PDF has no pages"}
	}

	log := logging.WithExtraction(filename, totalPages)

	var recognizer Recognizer
	var recognizerErr error
	defer func() {
		if recognizer != nil {
			if err := recognizer.Close(); err != nil {
				log.Warn("failed to release OCR engine", "error", err)
			}
		}
	}()

	// The rasterizer needs the document on disk; written lazily so clean
	// digital PDFs never touch the filesystem.
	pdfPath := ""
	defer func() {
		if pdfPath != "" {
			os.Remove(pdfPath)
		}
	}()
	ensureOnDisk := func() (string, error) {
		if pdfPath != "" {
			return pdfPath, nil
		}
		f, err := os.CreateTemp("", "ca_upload_*.pdf")
		if err != nil {
			return "", fmt.Errorf("temp pdf: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("temp pdf write: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("temp pdf close: %w", err)
		}
		pdfPath = f.Name()
		return pdfPath, nil
	}

	var out strings.Builder
	for i := 1; i <= totalPages; i++ {
		emit(progress, filename, i, totalPages, models.PhaseExtracting)

		pageText, pageErr := pageFragments(reader.Page(i))
		if pageErr != nil {
			log.Warn("page extraction failed", "page", i, "error", pageErr)
			appendPage(&out, i, fmt.Sprintf("[Error processant la pàgina %d: %v]", i, pageErr))
			continue
		}

		if len(strings.TrimSpace(pageText)) < OCRThreshold {
			emit(progress, filename, i, totalPages, models.PhaseOCR)

			ocrText, ocrErr := e.recognizePage(ctx, i, &recognizer, &recognizerErr, ensureOnDisk)
			switch {
			case ocrErr != nil:
				log.Warn("OCR fallback failed", "page", i, "error", ocrErr)
				appendPage(&out, i, fmt.Sprintf("[Error processant la pàgina %d: %v]", i, ocrErr))
				continue
			case ocrText != "":
				pageText = "[OCR RESULT] " + ocrText
			case strings.TrimSpace(pageText) == "":
				pageText = fmt.Sprintf("[Sense text detectat a la pàgina %d]", i)
			}
		}

		appendPage(&out, i, pageText)

		if out.Len() > MaxExtractedTextSize {
			out.WriteString("\n... [Contingut truncat - límit de mida]")
			break
		}
	}

	return out.String(), nil
}

// recognizePage runs the OCR path for one weak page. The engine is created
// at most once per document; a factory failure disables OCR for the
// remaining pages instead of retrying per page.
func (e *Extractor) recognizePage(ctx context.Context, page int, recognizer *Recognizer, recognizerErr *error, ensureOnDisk func() (string, error)) (string, error) {
	if e.ras == nil || e.newRecognizer == nil {
		return "", fmt.Errorf("OCR no disponible")
	}
	if *recognizerErr != nil {
		return "", *recognizerErr
	}
	if *recognizer == nil {
		r, err := e.newRecognizer(ctx)
		if err != nil {
			*recognizerErr = fmt.Errorf("OCR engine init: %w", err)
			return "", *recognizerErr
		}
		*recognizer = r
	}

	path, err := ensureOnDisk()
	if err != nil {
		return "", err
	}

	img, err := e.ras.RenderPage(ctx, path, page)
	if err != nil {
		return "", fmt.Errorf("rasterize: %w", err)
	}

	if bin, err := Binarize(img, BinarizeThreshold); err == nil {
		img = bin
	}

	text, err := (*recognizer).Recognize(ctx, img)
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// pageFragments joins a page's embedded text fragments with single spaces.
// The parser panics on some malformed content streams; that is converted to
// a per-page error here.
func pageFragments(p pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("contingut de pàgina il·legible: %v", r)
		}
	}()

	if p.V.IsNull() {
		return "", fmt.Errorf("pàgina buida o no vàlida")
	}

	content := p.Content()
	parts := make([]string, 0, len(content.Text))
	for _, t := range content.Text {
		if t.S != "" {
			parts = append(parts, t.S)
		}
	}
	return strings.Join(parts, " "), nil
}

func appendPage(out *strings.Builder, page int, text string) {
	fmt.Fprintf(out, "\n--- Pàgina %d ---\n%s", page, text)
}

func emit(progress ProgressFunc, file string, page, total int, phase models.ExtractionPhase) {
	if progress == nil {
		return
	}
	progress(models.ExtractionProgress{
		File:    file,
		Page:    page,
		Total:   total,
		Percent: int(math.Round(float64(page) / float64(total) * 100)),
		Phase:   phase,
	})
}

// isPDF sniffs the %PDF- magic header.
func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}
