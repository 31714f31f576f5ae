package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"coursearchitect/internal/markdown"
	"coursearchitect/internal/models"
)

const (
	pageMargin    = 20.0
	footerReserve = 10.0
	maxNameLen    = 50
)

var reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// ContentFunc resolves the generated content for an item ID. The second
// return is false when nothing has been generated for that item yet.
type ContentFunc func(itemID string) (string, bool)

// Document is a rendered PDF ready to be served as a download.
type Document struct {
	Data     []byte
	Filename string
	Pages    int
}

// Renderer paginates the curriculum plus generated content into printable
// PDFs. Content lookup is injected so rendering stays independent of the
// store.
type Renderer struct {
	content ContentFunc
	now     func() time.Time
}

// NewRenderer creates a Renderer backed by the given content lookup.
func NewRenderer(content ContentFunc) *Renderer {
	return &Renderer{content: content, now: time.Now}
}

// RenderCourse builds the full course book: title page, table of contents,
// the general section and every unit in order, each on a fresh page.
func (r *Renderer) RenderCourse(course models.CourseStructure) (*Document, error) {
	pdf, tr := r.setupDoc("Curs Cultura Audiovisual - Complet")

	// Title page.
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(50, 50, 150)
	pdf.Text(pageMargin, 60, tr("Llibre del Curs: Cultura Audiovisual"))
	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(pageMargin, 70, tr("Generat amb Moodle Architect & Gemini AI"))
	pdf.SetFontSize(10)
	pdf.Text(pageMargin, 80, tr("Data de generació: "+r.now().Format("02/01/2006")))

	// Table of contents.
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(pageMargin, pageMargin, tr("Índex de Continguts"))
	pdf.SetFont("Helvetica", "", 12)
	y := pageMargin + 15
	for i, unit := range course.Units {
		pdf.Text(pageMargin, y, tr(fmt.Sprintf("%d. %s", i+1, unit.Title)))
		y += 8
	}

	pdf.AddPage()
	r.renderUnit(pdf, tr, course.General)
	for _, unit := range course.Units {
		pdf.AddPage()
		r.renderUnit(pdf, tr, unit)
	}

	return finish(pdf, "curs-moodle-ebook-complet.pdf")
}

// RenderUnit builds the working document for a single unit: a header line
// with the unit title, a rule, then the unit content.
func (r *Renderer) RenderUnit(unit models.CourseUnit) (*Document, error) {
	pdf, tr := r.setupDoc("Unitat: " + unit.Title)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(50, 50, 150)
	pdf.Text(pageMargin, pageMargin, tr("Document de treball: "+unit.Title))
	pageW, _ := pdf.GetPageSize()
	pdf.SetLineWidth(0.5)
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pageMargin, 25, pageW-pageMargin, 25)

	pdf.SetY(35)
	r.renderUnit(pdf, tr, unit)

	return finish(pdf, UnitFilename(unit.Title))
}

// UnitFilename derives the download name for a single-unit export: the unit
// title lowercased with non-alphanumerics collapsed to underscores, bounded
// in length.
func UnitFilename(title string) string {
	safe := strings.ToLower(reUnsafe.ReplaceAllString(title, "_"))
	if len(safe) > maxNameLen {
		safe = safe[:maxNameLen]
	}
	return "unitat_" + safe + ".pdf"
}

// setupDoc creates the A4 document with metadata and the deferred
// "page X of N" footer.
func (r *Renderer) setupDoc(title string) (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(title, true)
	pdf.SetSubject("Contingut educatiu generat amb Moodle Architect", true)
	pdf.SetAuthor("Moodle Architect AI", true)

	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(150, 150, 150)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Pàgina %d de ", pdf.PageNo()))+"{nb}", "", 0, "C", false, 0, "")
	})
	return pdf, tr
}

// renderUnit draws one unit starting at the current Y position: title,
// description, then each item as a shaded header band, an italic
// description, and either the sanitized generated content or a placeholder.
func (r *Renderer) renderUnit(pdf *gofpdf.Fpdf, tr func(string) string, unit models.CourseUnit) {
	pageW, pageH := pdf.GetPageSize()
	maxW := pageW - pageMargin*2

	// Page break check ahead of each block so a block never straddles
	// the bottom margin mid-band.
	ensure := func(need float64) {
		if pdf.GetY()+need > pageH-pageMargin-footerReserve {
			pdf.AddPage()
			pdf.SetY(pageMargin)
		}
	}

	ensure(30)
	pdf.SetX(pageMargin)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(50, 50, 150)
	pdf.MultiCell(maxW, 10, tr(unit.Title), "", "L", false)
	pdf.SetX(pageMargin)
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(80, 80, 80)
	pdf.MultiCell(maxW, 6, tr(unit.Description), "", "L", false)
	pdf.Ln(8)

	for _, item := range unit.Items {
		ensure(40)

		pdf.SetX(pageMargin)
		pdf.SetFillColor(245, 247, 250)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(30, 30, 30)
		pdf.CellFormat(maxW, 14, tr(" "+item.Title), "", 1, "L", true, 0, "")
		pdf.Ln(3)

		pdf.SetX(pageMargin)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(maxW, 5, tr(item.Description), "", "L", false)
		pdf.Ln(2)

		if content, ok := r.content(item.ID); ok && strings.TrimSpace(content) != "" {
			pdf.SetFont("Helvetica", "", 11)
			pdf.SetTextColor(0, 0, 0)
			clean := tr(markdown.Sanitize(content))
			for _, paragraph := range strings.Split(clean, "\n") {
				if paragraph == "" {
					ensure(6)
					pdf.Ln(6)
					continue
				}
				for _, line := range pdf.SplitText(paragraph, maxW) {
					ensure(7)
					pdf.SetX(pageMargin)
					pdf.CellFormat(maxW, 6, line, "", 1, "L", false, 0, "")
				}
			}
		} else {
			pdf.SetX(pageMargin)
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(180, 180, 180)
			pdf.CellFormat(maxW, 6, "[ Contingut no generat ]", "", 1, "L", false, 0, "")
		}

		pdf.Ln(8)
	}
}

// finish serializes the document and reports the stamped page count.
func finish(pdf *gofpdf.Fpdf, filename string) (*Document, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	return &Document{Data: buf.Bytes(), Filename: filename, Pages: pdf.PageCount()}, nil
}
