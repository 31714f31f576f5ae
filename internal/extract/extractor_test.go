package extract

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"

	"coursearchitect/internal/models"
)

// makePDF builds an in-memory PDF with one page per entry of pages.
func makePDF(t *testing.T, pages []string) []byte {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for _, text := range pages {
		doc.AddPage()
		if text != "" {
			doc.MultiCell(0, 6, text, "", "L", false)
		}
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("building fixture PDF: %v", err)
	}
	return buf.Bytes()
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.SetGray(1, 1, color.Gray{Y: 10})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture PNG: %v", err)
	}
	return buf.Bytes()
}

type fakeRasterizer struct {
	img   []byte
	calls int
	err   error
}

func (f *fakeRasterizer) RenderPage(ctx context.Context, pdfPath string, page int) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}

type fakeRecognizer struct {
	text       string
	err        error
	recognized int
	closed     bool
}

func (f *fakeRecognizer) Recognize(ctx context.Context, img []byte) (string, error) {
	f.recognized++
	return f.text, f.err
}

func (f *fakeRecognizer) Close() error {
	f.closed = true
	return nil
}

func fakeFactory(rec *fakeRecognizer, created *int) RecognizerFactory {
	return func(ctx context.Context) (Recognizer, error) {
		*created++
		return rec, nil
	}
}

// TestPlainTextIdentity verifies non-PDF text sources round-trip exactly
func TestPlainTextIdentity(t *testing.T) {
	e := New(nil, nil)

	input := "linia u\nlinia dos\n\ttab i final"
	got, err := e.ExtractFile(context.Background(), "notes.txt", []byte(input), nil)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if got != input {
		t.Errorf("plain text should be returned verbatim:\nwant %q\ngot  %q", input, got)
	}
}

// TestPlainTextInvalidEncoding verifies undecodable bytes fail as IoFailure
func TestPlainTextInvalidEncoding(t *testing.T) {
	e := New(nil, nil)

	_, err := e.ExtractFile(context.Background(), "data.txt", []byte{0xff, 0xfe, 0xc0}, nil)
	var xerr *ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if xerr.Kind != IoFailure {
		t.Errorf("expected kind IoFailure, got %s", xerr.Kind)
	}
}

// TestCorruptPDF verifies an unparseable container fails as CorruptOrProtected
func TestCorruptPDF(t *testing.T) {
	e := New(nil, nil)

	_, err := e.ExtractFile(context.Background(), "broken.pdf", []byte("%PDF-1.4 not really a pdf"), nil)
	var xerr *ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if xerr.Kind != CorruptOrProtected {
		t.Errorf("expected kind CorruptOrProtected, got %s", xerr.Kind)
	}
}

// TestNoOCRForTextPages verifies pages with >= 50 chars of embedded text never trigger OCR
func TestNoOCRForTextPages(t *testing.T) {
	longText := strings.Repeat("paraula amb text incrustat suficient ", 4) // well over 50 chars
	data := makePDF(t, []string{longText})

	rec := &fakeRecognizer{text: "should never appear"}
	created := 0
	ras := &fakeRasterizer{img: tinyPNG(t)}
	e := New(ras, fakeFactory(rec, &created))

	got, err := e.ExtractFile(context.Background(), "doc.pdf", data, nil)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if created != 0 || rec.recognized != 0 || ras.calls != 0 {
		t.Errorf("OCR must not run for text pages (created=%d recognized=%d rasterized=%d)", created, rec.recognized, ras.calls)
	}
	if !strings.Contains(got, "--- Pàgina 1 ---") {
		t.Errorf("output missing page header: %q", got)
	}
	if !strings.Contains(got, "paraula") {
		t.Errorf("output missing embedded text: %q", got)
	}
}

// TestOCRFallbackForWeakPages verifies a < 50 char page runs OCR exactly once
// and the recognized text replaces the page text with the OCR marker
func TestOCRFallbackForWeakPages(t *testing.T) {
	data := makePDF(t, []string{"p. 3"}) // below the threshold

	rec := &fakeRecognizer{text: "Text reconegut de la pàgina escanejada"}
	created := 0
	ras := &fakeRasterizer{img: tinyPNG(t)}
	e := New(ras, fakeFactory(rec, &created))

	got, err := e.ExtractFile(context.Background(), "scan.pdf", data, nil)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if rec.recognized != 1 {
		t.Errorf("OCR should run exactly once for the weak page, ran %d times", rec.recognized)
	}
	if !strings.Contains(got, "[OCR RESULT] Text reconegut") {
		t.Errorf("OCR text should replace page text with marker, got %q", got)
	}
	if !rec.closed {
		t.Error("OCR engine must be released when the document is done")
	}
}

// TestOCREngineSharedAcrossPages verifies one engine serves all weak pages of a document
func TestOCREngineSharedAcrossPages(t *testing.T) {
	data := makePDF(t, []string{"a", "b", "c"})

	rec := &fakeRecognizer{text: "resultat"}
	created := 0
	e := New(&fakeRasterizer{img: tinyPNG(t)}, fakeFactory(rec, &created))

	_, err := e.ExtractFile(context.Background(), "scan.pdf", data, nil)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if created != 1 {
		t.Errorf("engine should be created once per document, created %d times", created)
	}
	if rec.recognized != 3 {
		t.Errorf("expected 3 recognitions, got %d", rec.recognized)
	}
	if !rec.closed {
		t.Error("engine should be closed after the document")
	}
}

// TestOCREmptyResult verifies a blank page with empty OCR is marked, not left blank
func TestOCREmptyResult(t *testing.T) {
	data := makePDF(t, []string{""})

	rec := &fakeRecognizer{text: ""}
	created := 0
	e := New(&fakeRasterizer{img: tinyPNG(t)}, fakeFactory(rec, &created))

	got, err := e.ExtractFile(context.Background(), "blank.pdf", data, nil)
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}
	if !strings.Contains(got, "[Sense text detectat a la pàgina 1]") {
		t.Errorf("empty OCR should be marked as no detected text, got %q", got)
	}
}

// TestPageFailureDoesNotAbortDocument verifies an OCR failure on one page
// yields a placeholder while later pages still extract
func TestPageFailureDoesNotAbortDocument(t *testing.T) {
	longText := strings.Repeat("contingut de text normal de la segona pàgina ", 3)
	data := makePDF(t, []string{"x", longText})

	rec := &fakeRecognizer{err: errors.New("engine blew up")}
	created := 0
	e := New(&fakeRasterizer{img: tinyPNG(t)}, fakeFactory(rec, &created))

	got, err := e.ExtractFile(context.Background(), "mixed.pdf", data, nil)
	if err != nil {
		t.Fatalf("page failure must not fail the document: %v", err)
	}
	if !strings.Contains(got, "[Error processant la pàgina 1") {
		t.Errorf("page 1 should carry an error placeholder, got %q", got)
	}
	if !strings.Contains(got, "--- Pàgina 2 ---") || !strings.Contains(got, "contingut de text normal") {
		t.Errorf("page 2 should still be extracted, got %q", got)
	}
	if !rec.closed {
		t.Error("engine should be released even after errors")
	}
}

// TestProgressSignals verifies a progress signal fires for every page and
// the OCR phase is reported for weak pages
func TestProgressSignals(t *testing.T) {
	longText := strings.Repeat("pàgina amb prou text per evitar el reconeixement ", 2)
	data := makePDF(t, []string{longText, "p2"})

	rec := &fakeRecognizer{text: "ocr"}
	created := 0
	e := New(&fakeRasterizer{img: tinyPNG(t)}, fakeFactory(rec, &created))

	var signals []models.ExtractionProgress
	_, err := e.ExtractFile(context.Background(), "doc.pdf", data, func(p models.ExtractionProgress) {
		signals = append(signals, p)
	})
	if err != nil {
		t.Fatalf("ExtractFile: %v", err)
	}

	sawOCR := false
	pagesSeen := map[int]bool{}
	for _, s := range signals {
		pagesSeen[s.Page] = true
		if s.Phase == models.PhaseOCR {
			sawOCR = true
		}
		if s.Percent < 0 || s.Percent > 100 {
			t.Errorf("percent out of range: %d", s.Percent)
		}
	}
	if !pagesSeen[1] || !pagesSeen[2] {
		t.Errorf("every page should signal progress, saw %v", pagesSeen)
	}
	if !sawOCR {
		t.Error("OCR phase should be signaled for the weak page")
	}
}

// TestExtractAllContinuesPastFailures verifies batch extraction counts
// successes and failures separately and keeps going
func TestExtractAllContinuesPastFailures(t *testing.T) {
	e := New(nil, nil)

	files := []UploadedFile{
		{Name: "bo.txt", Data: []byte("contingut correcte")},
		{Name: "dolent.pdf", Data: []byte("%PDF-trencat")},
		{Name: "tambe-bo.md", Data: []byte("# apunts")},
	}

	batch := e.ExtractAll(context.Background(), files, "", nil)

	if batch.Processed != 2 {
		t.Errorf("expected 2 processed, got %d", batch.Processed)
	}
	if batch.Failed != 1 {
		t.Errorf("expected 1 failed, got %d", batch.Failed)
	}
	if !strings.Contains(batch.Text, "--- FITXER: bo.txt ---") {
		t.Errorf("missing section marker for bo.txt: %q", batch.Text)
	}
	if !strings.Contains(batch.Text, "--- FITXER: tambe-bo.md ---") {
		t.Errorf("missing section marker for tambe-bo.md: %q", batch.Text)
	}
	if strings.Contains(batch.Text, "dolent.pdf") {
		t.Errorf("failed file should not contribute text: %q", batch.Text)
	}
}

// TestExtractAllSeparatesFromExisting verifies appended sections are
// separated from previously accumulated context
func TestExtractAllSeparatesFromExisting(t *testing.T) {
	e := New(nil, nil)

	batch := e.ExtractAll(context.Background(), []UploadedFile{
		{Name: "nou.txt", Data: []byte("text nou")},
	}, "context anterior", nil)

	if !strings.HasPrefix(batch.Text, "context anterior") {
		t.Errorf("existing context should be preserved at the front: %q", batch.Text)
	}
	if !strings.Contains(batch.Text, fileSeparator) {
		t.Errorf("a separator should precede the appended section: %q", batch.Text)
	}
}

// TestBinarize verifies the luminance threshold maps pixels to pure black/white
func TestBinarize(t *testing.T) {
	out, err := Binarize(tinyPNG(t), BinarizeThreshold)
	if err != nil {
		t.Fatalf("Binarize: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding binarized PNG: %v", err)
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("expected grayscale output, got %T", img)
	}
	for _, px := range gray.Pix {
		if px != 0 && px != 255 {
			t.Fatalf("pixel %d not binarized", px)
		}
	}
}
