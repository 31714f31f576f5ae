package markdown

import (
	"strings"
	"testing"
)

// TestSanitizeEmphasisAndLinks verifies the canonical markup-stripping case
func TestSanitizeEmphasisAndLinks(t *testing.T) {
	got := Sanitize("**bold** and *italic* and [link](http://x)")
	want := "bold and italic and link"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

// TestSanitizeIdempotent verifies applying Sanitize twice equals applying once
func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"# Title\n\nSome **bold** text\n* one\n* two\n\n\n\nEnd",
		"![diagram](http://img) and [site](http://x)",
		"• first\n— dash line\n<b>tagged</b>",
		"__strong__ and _soft_ and `code`",
		"",
		"plain text without any markup at all",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\nonce:  %q\ntwice: %q", in, once, twice)
		}
	}
}

// TestSanitizeHeadings verifies heading markers are stripped but text kept
func TestSanitizeHeadings(t *testing.T) {
	got := Sanitize("## Secció\ncontingut")
	if strings.Contains(got, "#") {
		t.Errorf("heading marker should be stripped, got %q", got)
	}
	if !strings.Contains(got, "Secció") {
		t.Errorf("heading text should be preserved, got %q", got)
	}
}

// TestSanitizeBullets verifies list markers normalize to the dash form
func TestSanitizeBullets(t *testing.T) {
	got := Sanitize("* one\n- two\n+ three")
	for _, line := range strings.Split(got, "\n") {
		if !strings.HasPrefix(line, "  - ") {
			t.Errorf("bullet line not normalized: %q", line)
		}
	}
}

// TestSanitizeImages verifies image syntax becomes a bracketed placeholder
func TestSanitizeImages(t *testing.T) {
	got := Sanitize("abans ![esquema](http://img.png) després")
	want := "abans [Imatge: esquema] després"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

// TestSanitizeTypographic verifies bullet dots and em dashes become ASCII
func TestSanitizeTypographic(t *testing.T) {
	got := Sanitize("a • b — c")
	if strings.ContainsAny(got, "•—") {
		t.Errorf("typographic characters should be normalized, got %q", got)
	}
}

// TestSanitizeCollapsesNewlines verifies 3+ blank runs collapse to exactly 2
func TestSanitizeCollapsesNewlines(t *testing.T) {
	got := Sanitize("a\n\n\n\n\nb")
	if got != "a\n\nb" {
		t.Errorf("Expected collapsed newlines, got %q", got)
	}
}

// TestSanitizeStripsTags verifies raw markup tags are removed
func TestSanitizeStripsTags(t *testing.T) {
	got := Sanitize("<div>text</div>")
	if got != "text" {
		t.Errorf("Expected %q, got %q", "text", got)
	}
}

// TestRenderHTML verifies the goldmark preview renderer produces HTML
func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML("# Títol\n\n**negreta**")
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<strong>") {
		t.Errorf("unexpected HTML output: %q", html)
	}
}
