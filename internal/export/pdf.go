package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/lotas/onehandle/internal/types"
)

// Page geometry (A4, millimeters) and type sizes.
const (
	pageTopMargin  = 10.0
	pageBottom     = 280.0 // lines below this start a new page
	titleX         = 10.0
	urlX           = 15.0
	titleWidth     = 190.0
	urlWidth       = 180.0
	headingSize    = 16.0
	bodySize       = 10.0
	lineHeightFrac = 0.4  // line height = font size * this, in mm
	charWidthFrac  = 0.18 // estimated char width = font size * this, in mm
	entrySpacing   = 4.0
)

// PDF renders the tab sequence as a paginated document: a heading, a
// generated-at line, then one entry per tab — bold numbered title,
// indented dimmer URL, both word-wrapped to the page width. The
// vertical cursor advances one line height per wrapped line and a page
// break happens before any line that would fall below pageBottom.
func PDF(tabs []types.TabRecord, generatedAt string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	y := pageTopMargin
	doc.SetFont("Helvetica", "B", headingSize)
	doc.Text(titleX, y, "OneHandle - Saved Tabs")
	y += 10

	doc.SetFont("Helvetica", "", bodySize)
	doc.Text(titleX, y, fmt.Sprintf("Generated: %s", generatedAt))
	y += 10

	lineHeight := bodySize * lineHeightFrac
	for i, tab := range tabs {
		doc.SetFont("Helvetica", "B", bodySize)
		doc.SetTextColor(0, 0, 0)
		for _, line := range wrapText(fmt.Sprintf("%d. %s", i+1, tab.Title), titleWidth, bodySize) {
			y = advance(doc, y, lineHeight)
			doc.Text(titleX, y, line)
		}

		doc.SetFont("Helvetica", "", bodySize)
		doc.SetTextColor(100, 100, 100)
		for _, line := range wrapText(tab.URL, urlWidth, bodySize) {
			y = advance(doc, y, lineHeight)
			doc.Text(urlX, y, line)
		}
		y += entrySpacing
	}

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// advance moves the cursor down one line, breaking to a fresh page
// first if the new baseline would land below the bottom margin.
func advance(doc *fpdf.Fpdf, y, lineHeight float64) float64 {
	if y+lineHeight > pageBottom {
		doc.AddPage()
		return pageTopMargin + lineHeight
	}
	return y + lineHeight
}

// wrapText greedily packs words into lines of at most maxWidth mm,
// estimating character width as a fixed fraction of the font size
// instead of consulting glyph metrics. A single word longer than a
// line is hard-split at the character limit rather than overflowing.
func wrapText(text string, maxWidth, fontSize float64) []string {
	maxChars := int(maxWidth / (fontSize * charWidthFrac))
	if maxChars < 1 {
		maxChars = 1
	}

	var lines []string
	var current string
	flush := func() {
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
	}

	for _, word := range strings.Fields(text) {
		for len(word) > maxChars {
			flush()
			lines = append(lines, word[:maxChars])
			word = word[maxChars:]
		}
		if word == "" {
			continue
		}
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= maxChars:
			current += " " + word
		default:
			flush()
			current = word
		}
	}
	flush()

	if lines == nil {
		lines = []string{""}
	}
	return lines
}
