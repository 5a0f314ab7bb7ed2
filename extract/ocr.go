//go:build ocr

package extract

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sort"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
	"golang.org/x/image/draw"
	"golang.org/x/text/unicode/norm"

	"github.com/obmakesomething/redpen/model"
)

// OCRConfig configures OCR-backed extraction.
type OCRConfig struct {
	// Languages is the tesseract language string.
	Languages string

	// DPI is the render resolution for page rasterization.
	DPI float64

	// Upscale is the integer factor the rendered page is enlarged by
	// before recognition. Korean glyphs are dense; recognition accuracy
	// improves noticeably at 2x.
	Upscale int

	// MinChars is the minimum non-whitespace character count below which
	// extraction reports ErrInsufficientText.
	MinChars int
}

// DefaultOCRConfig returns the OCR extraction defaults.
func DefaultOCRConfig() OCRConfig {
	return OCRConfig{
		Languages: "kor+eng",
		DPI:       150,
		Upscale:   2,
		MinChars:  50,
	}
}

// OCRExtractor rasterizes each page and recognizes it with Tesseract. It is
// the slow path for scanned documents whose text layer is missing or too
// sparse. Word boxes reported in raster pixels are mapped back to
// bottom-left-origin page points so downstream geometry matches the
// text-layer extractor.
type OCRExtractor struct {
	config OCRConfig
}

// NewOCR creates an OCR extractor with the default configuration.
func NewOCR() (*OCRExtractor, error) {
	return NewOCRWithConfig(DefaultOCRConfig())
}

// NewOCRWithConfig creates an OCR extractor with a custom configuration.
func NewOCRWithConfig(config OCRConfig) (*OCRExtractor, error) {
	defaults := DefaultOCRConfig()
	if config.Languages == "" {
		config.Languages = defaults.Languages
	}
	if config.DPI <= 0 {
		config.DPI = defaults.DPI
	}
	if config.Upscale <= 0 {
		config.Upscale = defaults.Upscale
	}
	if config.MinChars <= 0 {
		config.MinChars = defaults.MinChars
	}
	return &OCRExtractor{config: config}, nil
}

// Extract implements Extractor.
func (o *OCRExtractor) Extract(path string) (*Result, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("extract: opening %s: %w", path, err)
	}
	defer doc.Close()

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(o.config.Languages); err != nil {
		return nil, fmt.Errorf("extract: setting ocr languages: %w", err)
	}

	var stream []model.CharRecord
	pages := doc.NumPage()
	for pageNum := 0; pageNum < pages; pageNum++ {
		records, err := o.pageStream(doc, client, pageNum)
		if err != nil {
			return nil, err
		}
		stream = append(stream, records...)
	}
	return finalize(stream, "ocr", pages, o.config.MinChars)
}

func (o *OCRExtractor) pageStream(doc *fitz.Document, client *gosseract.Client, pageNum int) ([]model.CharRecord, error) {
	img, err := doc.ImageDPI(pageNum, o.config.DPI)
	if err != nil {
		return nil, fmt.Errorf("extract: rendering page %d: %w", pageNum+1, err)
	}

	scaled := upscale(img, o.config.Upscale)
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("extract: encoding page %d: %w", pageNum+1, err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("extract: loading page %d into ocr: %w", pageNum+1, err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("extract: recognizing page %d: %w", pageNum+1, err)
	}

	// Pixel-to-point mapping for the upscaled raster.
	scale := 72.0 / (o.config.DPI * float64(o.config.Upscale))
	pageHeight := float64(scaled.Bounds().Dy()) * scale
	return wordStream(boxes, pageNum+1, scale, pageHeight), nil
}

// upscale enlarges the rendered page by the given integer factor.
func upscale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// wordStream converts recognized word boxes into character records in
// reading order. Words are grouped into lines by vertical overlap; a space
// record separates words within a line and a newline record closes each
// line, so the normalizer sees the same stream shape the text-layer
// extractor produces.
func wordStream(boxes []gosseract.BoundingBox, pageNum int, scale, pageHeight float64) []model.CharRecord {
	var words []gosseract.BoundingBox
	for _, b := range boxes {
		if norm.NFC.String(b.Word) != "" {
			words = append(words, b)
		}
	}
	if len(words) == 0 {
		return nil
	}

	sort.SliceStable(words, func(i, j int) bool {
		ci := float64(words[i].Box.Min.Y+words[i].Box.Max.Y) / 2
		cj := float64(words[j].Box.Min.Y+words[j].Box.Max.Y) / 2
		if ci != cj {
			return ci < cj
		}
		return words[i].Box.Min.X < words[j].Box.Min.X
	})

	var stream []model.CharRecord
	for i := 0; i < len(words); {
		j := i + 1
		for j < len(words) && sameOCRLine(words[i], words[j]) {
			j++
		}
		line := append([]gosseract.BoundingBox(nil), words[i:j]...)
		sort.SliceStable(line, func(a, b int) bool {
			return line[a].Box.Min.X < line[b].Box.Min.X
		})
		for k, w := range line {
			if k > 0 {
				stream = append(stream, model.CharRecord{Char: ' ', Page: pageNum})
			}
			stream = append(stream, wordRecords(w, pageNum, scale, pageHeight)...)
		}
		stream = append(stream, model.CharRecord{Char: '\n', Page: pageNum})
		i = j
	}
	return stream
}

// sameOCRLine reports whether b sits on the same visual line as a, judged
// by vertical-center distance against a's height.
func sameOCRLine(a, b gosseract.BoundingBox) bool {
	ca := float64(a.Box.Min.Y+a.Box.Max.Y) / 2
	cb := float64(b.Box.Min.Y+b.Box.Max.Y) / 2
	threshold := float64(a.Box.Dy()) * 0.6
	if threshold <= 0 {
		threshold = 1
	}
	return cb-ca <= threshold
}

// wordRecords splits one recognized word into per-character records, the
// word's pixel box distributed evenly across its runes and mapped into
// bottom-left-origin page points.
func wordRecords(w gosseract.BoundingBox, pageNum int, scale, pageHeight float64) []model.CharRecord {
	runes := []rune(norm.NFC.String(w.Word))
	if len(runes) == 0 {
		return nil
	}
	x0 := float64(w.Box.Min.X) * scale
	y0 := pageHeight - float64(w.Box.Max.Y)*scale
	y1 := pageHeight - float64(w.Box.Min.Y)*scale
	width := float64(w.Box.Dx()) * scale / float64(len(runes))

	records := make([]model.CharRecord, 0, len(runes))
	for i, r := range runes {
		x := x0 + float64(i)*width
		box := model.NewBBox(x, y0, x+width, y1)
		records = append(records, model.CharRecord{
			Char: r,
			Page: pageNum,
			Pos:  &model.Point{X: x, Y: y0},
			Box:  &box,
		})
	}
	return records
}
