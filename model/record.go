package model

// CharRecord is one character of an extracted document, in extraction order.
// Extractors emit one record per logical character, including synthesized
// space/newline records at detected word and line breaks.
//
// The record's index in its containing slice is its identity: indices are
// dense (0..N-1) and page numbers are non-decreasing as the index increases.
type CharRecord struct {
	// Char is the character itself. Synthetic separator records carry a
	// plain space or newline.
	Char rune

	// Page is the 1-based page number.
	Page int

	// Pos is the character's point coordinate, if the extractor produced
	// one. Nil for coordinate-less backends and synthetic separators.
	Pos *Point

	// Box is the character's bounding box in bottom-left-origin page
	// units, if available.
	Box *BBox
}

// HasGeometry reports whether the record carries either a box or a point.
func (c CharRecord) HasGeometry() bool {
	return c.Box != nil || c.Pos != nil
}

// Paragraph is a contiguous chunk of a text stream submitted to a checker
// as one unit. Start/End are rune offsets into the stream the paragraph was
// cut from; paragraphs are non-overlapping and ordered by Start.
type Paragraph struct {
	Text  string
	Start int // inclusive rune offset
	End   int // exclusive rune offset
	Page  int // page of the paragraph's first character
}

// SpellError is one defect reported by a spell/grammar checker. Position and
// Length are rune offsets into whatever text was submitted: the full cleaned
// text, or a paragraph's text before rebias.
type SpellError struct {
	Wrong    string   `json:"wrong"`
	Correct  string   `json:"correct"`
	Help     string   `json:"help,omitempty"`
	Category Category `json:"category"`
	Position int      `json:"position"`
	Length   int      `json:"length"`
}

// Annotation is the final page-geometry-bound unit handed to the PDF
// highlighter. A single SpellError produces one Annotation per visual line
// segment its characters span. Box is nil when no source geometry survived
// reverse mapping.
type Annotation struct {
	Wrong    string   `json:"wrong"`
	Correct  string   `json:"correct"`
	Help     string   `json:"help,omitempty"`
	Category Category `json:"category"`
	Page     int      `json:"page"`
	Box      *BBox    `json:"bbox"`
}
