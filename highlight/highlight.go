// Package highlight writes spell-check annotations into a PDF as native
// highlight markup. Each annotation becomes a Highlight object on its page,
// colored by error category, with the correction and explanation in the
// annotation contents so PDF viewers show them on hover.
package highlight

import (
	"fmt"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/obmakesomething/redpen/model"
)

// Config controls highlight rendering.
type Config struct {
	// Opacity is the highlight fill opacity.
	Opacity float64

	// Author is written as the annotation title prefix.
	Author string
}

// DefaultConfig returns the highlight defaults.
func DefaultConfig() Config {
	return Config{
		Opacity: 0.4,
		Author:  "맞춤법 검사",
	}
}

// Highlighter applies annotations to PDF files.
type Highlighter struct {
	config Config
}

// New creates a Highlighter with the default configuration.
func New() *Highlighter {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a Highlighter with a custom configuration.
func NewWithConfig(config Config) *Highlighter {
	defaults := DefaultConfig()
	if config.Opacity <= 0 || config.Opacity > 1 {
		config.Opacity = defaults.Opacity
	}
	if config.Author == "" {
		config.Author = defaults.Author
	}
	return &Highlighter{config: config}
}

// Apply reads the document at inPath, adds one highlight per annotation,
// and writes the result to outPath. Annotations without geometry, with
// degenerate boxes after clipping to the page, or referencing pages the
// document does not have are skipped; the returned count is the number of
// highlights actually written.
func (h *Highlighter) Apply(inPath, outPath string, annotations []model.Annotation) (int, error) {
	ctx, err := api.ReadContextFile(inPath)
	if err != nil {
		return 0, fmt.Errorf("highlight: reading %s: %w", inPath, err)
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return 0, fmt.Errorf("highlight: reading page dimensions: %w", err)
	}

	applied := 0
	for _, a := range annotations {
		if a.Box == nil {
			continue
		}
		if a.Page < 1 || a.Page > len(dims) {
			continue
		}
		page := model.NewBBox(0, 0, dims[a.Page-1].Width, dims[a.Page-1].Height)
		box := a.Box.Clip(page)
		if !box.IsValid() || box.Area() == 0 {
			continue
		}
		if err := h.addHighlight(ctx, a, box); err != nil {
			return applied, err
		}
		applied++
	}

	if err := api.WriteContextFile(ctx, outPath); err != nil {
		return applied, fmt.Errorf("highlight: writing %s: %w", outPath, err)
	}
	return applied, nil
}

// addHighlight appends one highlight annotation object to the page's Annots
// array.
func (h *Highlighter) addHighlight(ctx *pdfmodel.Context, a model.Annotation, box model.BBox) error {
	pageDict, _, _, err := ctx.PageDict(a.Page, false)
	if err != nil {
		return fmt.Errorf("highlight: page %d: %w", a.Page, err)
	}

	r, g, b := a.Category.RGB()
	dict := types.Dict(map[string]types.Object{
		"Type":    types.Name("Annot"),
		"Subtype": types.Name("Highlight"),
		"Rect":    types.NewNumberArray(box.X0, box.Y0, box.X1, box.Y1),
		// Quad order is upper-left, upper-right, lower-left, lower-right.
		"QuadPoints": types.NewNumberArray(
			box.X0, box.Y1, box.X1, box.Y1,
			box.X0, box.Y0, box.X1, box.Y0,
		),
		"C":        types.NewNumberArray(r, g, b),
		"CA":       types.Float(h.config.Opacity),
		"F":        types.Integer(4), // print
		"T":        textString(fmt.Sprintf("%s [%s]", h.config.Author, a.Category.Label())),
		"Contents": textString(contents(a)),
	})

	indRef, err := ctx.IndRefForNewObject(dict)
	if err != nil {
		return fmt.Errorf("highlight: registering annotation: %w", err)
	}

	annots := types.Array{}
	if obj, found := pageDict.Find("Annots"); found {
		existing, err := ctx.DereferenceArray(obj)
		if err != nil {
			return fmt.Errorf("highlight: page %d annots: %w", a.Page, err)
		}
		annots = existing
	}
	pageDict["Annots"] = append(annots, *indRef)
	return nil
}

// contents renders the hover text for an annotation.
func contents(a model.Annotation) string {
	s := fmt.Sprintf("'%s' → '%s'", a.Wrong, a.Correct)
	if a.Help != "" {
		s += "\n" + a.Help
	}
	return s
}

// textString encodes a Korean-bearing string as a UTF-16BE hex literal with
// a byte order mark, the PDF text-string encoding viewers agree on.
func textString(s string) types.HexLiteral {
	units := utf16.Encode([]rune(s))
	buf := make([]byte, 0, 2+len(units)*2)
	buf = append(buf, 0xFE, 0xFF)
	for _, u := range units {
		buf = append(buf, byte(u>>8), byte(u))
	}
	return types.NewHexLiteral(buf)
}
