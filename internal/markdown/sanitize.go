package markdown

import (
	"regexp"
	"strings"
)

// The sanitizer converts lightweight markup produced by the model into plain
// text that a fixed-width PDF line layout can print safely. Passes run in a
// fixed order; emphasis is unwrapped before bullet normalization so that a
// leading "**" is never mistaken for a list marker, and typographic bullets
// are mapped to ASCII before the list pass so re-sanitizing is a no-op.
var (
	reHeading    = regexp.MustCompile(`(?m)^#{1,6}\s+(.*)$`)
	reBold       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	reBoldUnder  = regexp.MustCompile(`__([^_]+)__`)
	reItalic     = regexp.MustCompile(`\*([^*]+)\*`)
	reItalUnder  = regexp.MustCompile(`_([^_]+)_`)
	reBullet     = regexp.MustCompile(`(?m)^\s*[*\-+]\s+`)
	reImage      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	reLink       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	reTag        = regexp.MustCompile(`<[^>]*>`)
	reManyBlanks = regexp.MustCompile(`\n{3,}`)
)

// Sanitize strips markup from text, returning plain text suitable for
// non-rich-text page layout. Sanitize is idempotent.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}

	// Headers become their own line of plain text.
	text = reHeading.ReplaceAllString(text, "\n$1\n")

	// Paired emphasis markers, double before single.
	text = reBold.ReplaceAllString(text, "$1")
	text = reBoldUnder.ReplaceAllString(text, "$1")
	text = reItalic.ReplaceAllString(text, "$1")
	text = reItalUnder.ReplaceAllString(text, "$1")

	// Unsupported bullet glyphs break fixed-width fonts; map them to ASCII
	// before list normalization so the dash form below is stable.
	text = strings.ReplaceAll(text, "•", "-")
	text = strings.ReplaceAll(text, "—", "-")

	// One consistent dash-prefixed list form.
	text = reBullet.ReplaceAllString(text, "  - ")

	// Images before links: an image is link syntax with a leading bang, so
	// the link pass would otherwise eat it and strand the bang.
	text = reImage.ReplaceAllString(text, "[Imatge: $1]")
	text = reLink.ReplaceAllString(text, "$1")

	// Raw markup tags, if any slipped through.
	text = reTag.ReplaceAllString(text, "")

	text = reManyBlanks.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
