//go:build !ocr

package extract

import "errors"

// ErrOCRNotEnabled is returned when OCR extraction is requested but OCR
// support was not compiled in. Rebuild with -tags ocr to enable it. This
// requires Tesseract with Korean language data installed:
//
//	apt-get install tesseract-ocr tesseract-ocr-kor
var ErrOCRNotEnabled = errors.New("extract: ocr support not enabled; rebuild with -tags ocr")

// OCRConfig configures OCR-backed extraction. This is the stub shape used
// when the "ocr" build tag is not set.
type OCRConfig struct {
	Languages string
	DPI       float64
	Upscale   int
	MinChars  int
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

// OCRExtractor is a stub that fails every operation with ErrOCRNotEnabled.
type OCRExtractor struct{}

// NewOCR returns an error indicating OCR support is not enabled.
func NewOCR() (*OCRExtractor, error) {
	return nil, ErrOCRNotEnabled
}

// NewOCRWithConfig returns an error indicating OCR support is not enabled.
func NewOCRWithConfig(OCRConfig) (*OCRExtractor, error) {
	return nil, ErrOCRNotEnabled
}

// Extract implements Extractor.
func (o *OCRExtractor) Extract(string) (*Result, error) {
	return nil, ErrOCRNotEnabled
}
