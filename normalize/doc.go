// Package normalize turns a noisy extracted character stream into
// grammar-checker-ready text while preserving, for every surviving
// character, which original stream positions it came from.
//
// PDF extraction yields text full of rendering artifacts: hyphenated line
// wraps, Korean words split across newlines, spurious spaces before
// grammatical particles, private-use marker glyphs. A spell checker needs
// clean linear text, but the highlighter needs to point at the exact glyphs
// that produced each finding. The [Normalizer] runs a fixed sequence of
// cleanup stages and threads an anchor list through every one of them, so
// that a cleaned-text offset can always be traced back to its source
// characters.
//
// Usage:
//
//	n := normalize.New()
//	cleaned, anchors := n.Normalize(records)
//	indices := anchors.OriginalIndices(start, end)
//
// Normalization is deterministic and total: it never fails, and empty input
// produces empty output with an empty anchor map. A Normalizer holds no
// per-document state and may be shared across goroutines.
package normalize
