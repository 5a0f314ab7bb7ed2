package extract

import (
	"fmt"
	"math"
	"sort"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/obmakesomething/redpen/model"
)

// TextConfig configures text-layer extraction.
type TextConfig struct {
	// MinChars is the minimum non-whitespace character count below which
	// extraction reports ErrInsufficientText.
	MinChars int

	// LineNudge is the vertical tolerance, in page units, for snapping
	// slightly misaligned glyphs onto the same line.
	LineNudge float64
}

// DefaultTextConfig returns the text-layer extraction defaults.
func DefaultTextConfig() TextConfig {
	return TextConfig{
		MinChars:  50,
		LineNudge: 1,
	}
}

// TextExtractor reads the embedded text layer of a PDF. This is the fast
// path: it needs no rendering and yields exact per-glyph geometry, but it
// produces nothing useful for scanned documents, which is what the OCR
// extractor is for.
type TextExtractor struct {
	config TextConfig
}

// NewText creates a text-layer extractor with the default configuration.
func NewText() *TextExtractor {
	return NewTextWithConfig(DefaultTextConfig())
}

// NewTextWithConfig creates a text-layer extractor with a custom
// configuration.
func NewTextWithConfig(config TextConfig) *TextExtractor {
	defaults := DefaultTextConfig()
	if config.MinChars <= 0 {
		config.MinChars = defaults.MinChars
	}
	if config.LineNudge <= 0 {
		config.LineNudge = defaults.LineNudge
	}
	return &TextExtractor{config: config}
}

// Extract implements Extractor.
func (t *TextExtractor) Extract(path string) (*Result, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("extract: opening %s: %w", path, err)
	}
	defer f.Close()

	var stream []model.CharRecord
	pages := reader.NumPage()
	for pageNum := 1; pageNum <= pages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		stream = append(stream, t.pageStream(page.Content().Text, pageNum)...)
	}
	return finalize(stream, "text-layer", pages, t.config.MinChars)
}

// pageStream converts one page's glyph runs into character records in
// reading order, synthesizing a space between separated words and a newline
// at the end of every visual line.
func (t *TextExtractor) pageStream(texts []pdf.Text, pageNum int) []model.CharRecord {
	if len(texts) == 0 {
		return nil
	}

	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.Sort(pdf.TextVertical(sorted))

	// Snap near-equal baselines together so the tie-breaking X sort
	// brings the glyphs of one line into reading order.
	prev := math.Inf(-1)
	for i := range sorted {
		if sorted[i].Y != prev && math.Abs(sorted[i].Y-prev) < t.config.LineNudge {
			sorted[i].Y = prev
		} else {
			prev = sorted[i].Y
		}
	}
	sort.Sort(pdf.TextVertical(sorted))

	var stream []model.CharRecord
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j].Y == sorted[i].Y {
			j++
		}
		stream = append(stream, t.lineStream(sorted[i:j], pageNum)...)
		stream = append(stream, model.CharRecord{Char: '\n', Page: pageNum})
		i = j
	}
	return stream
}

// lineStream emits the records of a single visual line, inserting a space
// record wherever the horizontal gap between adjacent runs exceeds the
// word-spacing threshold for the current font size.
func (t *TextExtractor) lineStream(line []pdf.Text, pageNum int) []model.CharRecord {
	var stream []model.CharRecord
	end := math.Inf(-1)
	for _, run := range line {
		if run.S == "" {
			continue
		}
		if len(stream) > 0 && run.X > end+wordGap(run.FontSize) {
			stream = append(stream, model.CharRecord{Char: ' ', Page: pageNum})
		}
		stream = append(stream, runRecords(run, pageNum)...)
		end = run.X + run.W
	}
	return stream
}

// runRecords splits a glyph run into per-character records. Runs carry one
// width for the whole string, so multi-character runs get it distributed
// evenly; most PDF generators emit single-glyph runs and hit the exact
// path.
func runRecords(run pdf.Text, pageNum int) []model.CharRecord {
	runes := []rune(norm.NFC.String(run.S))
	if len(runes) == 0 {
		return nil
	}
	width := run.W / float64(len(runes))
	records := make([]model.CharRecord, 0, len(runes))
	for i, r := range runes {
		x := run.X + float64(i)*width
		box := model.NewBBox(x, run.Y, x+width, run.Y+run.FontSize)
		records = append(records, model.CharRecord{
			Char: r,
			Page: pageNum,
			Pos:  &model.Point{X: x, Y: run.Y},
			Box:  &box,
		})
	}
	return records
}

// wordGap is the inter-run distance beyond which a space is synthesized.
func wordGap(fontSize float64) float64 {
	if fontSize <= 0 {
		fontSize = 12
	}
	return fontSize / 4
}
