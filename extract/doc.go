// Package extract reads PDF documents into positioned character streams.
//
// Two backends are provided:
//
//   - TextExtractor reads the embedded text layer directly. It is fast and
//     yields exact per-glyph geometry, but produces nothing for scanned
//     documents.
//   - OCRExtractor rasterizes each page with MuPDF and recognizes it with
//     Tesseract. It requires the "ocr" build tag and a local Tesseract
//     installation with Korean language data.
//
// Both backends produce the same stream shape: one record per character in
// reading order, with synthesized space records at word gaps and a newline
// record at the end of every visual line. Geometry is in PDF points with a
// bottom-left page origin and pages are numbered from 1.
//
// A document whose stream falls below the configured content minimum yields
// ErrInsufficientText, which callers should treat as "try the OCR backend"
// rather than a hard failure.
package extract
