package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/image/draw"
)

// Rasterizer renders one PDF page to an in-memory PNG for the OCR fallback.
type Rasterizer interface {
	RenderPage(ctx context.Context, pdfPath string, page int) ([]byte, error)
}

// popplerRasterizer shells out to pdftoppm, one page at a time. 200 DPI is
// roughly a 2.8x scale over the 72pt PDF unit, comfortably above the 2.0x
// floor recognition needs.
type popplerRasterizer struct {
	binPath string
	dpi     int
	timeout time.Duration
}

// NewRasterizer returns a pdftoppm-backed Rasterizer.
func NewRasterizer(binPath string, dpi int) Rasterizer {
	if binPath == "" {
		binPath = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = 200
	}
	return &popplerRasterizer{binPath: binPath, dpi: dpi, timeout: 2 * time.Minute}
}

func (r *popplerRasterizer) RenderPage(ctx context.Context, pdfPath string, page int) ([]byte, error) {
	outDir, err := os.MkdirTemp("", "ca_pdf_page_*")
	if err != nil {
		return nil, fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	prefix := filepath.Join(outDir, "page")
	args := []string{
		"-r", strconv.Itoa(r.dpi),
		"-png",
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		pdfPath, prefix,
	}

	cmd := exec.CommandContext(ctx, r.binPath, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w; out=%s", err, string(out))
	}

	matches, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(matches) == 0 {
		return nil, fmt.Errorf("no image produced by pdftoppm for page %d; out=%s", page, string(out))
	}
	return os.ReadFile(matches[0])
}

// maxOCRDimension caps the bitmap sent to the OCR engine; pages rasterized
// from oversized media blow past the request size limit otherwise.
const maxOCRDimension = 3000

// Binarize maps every pixel below the luminance threshold to black and the
// rest to white, which measurably improves recognition on low-contrast
// scans. Oversized bitmaps are downscaled first.
func Binarize(pngBytes []byte, threshold uint8) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return nil, fmt.Errorf("decode page bitmap: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxOCRDimension || h > maxOCRDimension {
		scale := float64(maxOCRDimension) / float64(max(w, h))
		dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
		bounds = dst.Bounds()
	}

	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			lum := color.GrayModel.Convert(src.At(x, y)).(color.Gray).Y
			if lum < threshold {
				out.SetGray(x, y, color.Gray{Y: 0})
			} else {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode binarized bitmap: %w", err)
	}
	return buf.Bytes(), nil
}
