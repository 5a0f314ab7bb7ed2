// Package segment splits an extracted character stream into paragraph-sized
// chunks for grammar checking. External checkers impose request-size limits
// and produce better suggestions on paragraph-scoped context, so the stream
// is cut on blank lines and, for very long paragraphs, on sentence ends.
// Each chunk remembers its offset range in the original stream so checker
// results can be rebiased back to stream positions.
package segment

import (
	"strings"

	"github.com/obmakesomething/redpen/model"
)

// Config controls paragraph segmentation.
type Config struct {
	// MaxChars is the soft paragraph size limit. Once a paragraph has
	// accumulated at least this many characters it is closed at the next
	// sentence-terminal newline even without a blank line.
	MaxChars int
}

// DefaultConfig returns the segmentation defaults.
func DefaultConfig() Config {
	return Config{MaxChars: 300}
}

// Segmenter splits character streams into paragraphs.
type Segmenter struct {
	config Config
}

// New creates a Segmenter with the default configuration.
func New() *Segmenter {
	return &Segmenter{config: DefaultConfig()}
}

// NewWithConfig creates a Segmenter with a custom configuration.
func NewWithConfig(config Config) *Segmenter {
	if config.MaxChars <= 0 {
		config.MaxChars = DefaultConfig().MaxChars
	}
	return &Segmenter{config: config}
}

// Segment walks the stream and closes a paragraph on a blank line, or at a
// newline once the accumulation has reached the soft size limit and the
// character before the newline ends a sentence. A trailing non-empty
// accumulation is emitted as the final paragraph. Whitespace-only chunks
// are discarded.
func (s *Segmenter) Segment(stream []model.CharRecord) []model.Paragraph {
	runes := make([]rune, len(stream))
	for i, rec := range stream {
		runes[i] = rec.Char
	}

	var paragraphs []model.Paragraph
	start := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != '\n' {
			continue
		}
		if i+1 < len(runes) && runes[i+1] == '\n' {
			paragraphs = appendParagraph(paragraphs, stream, runes, start, i)
			j := i
			for j < len(runes) && runes[j] == '\n' {
				j++
			}
			start = j
			i = j - 1
			continue
		}
		if i-start >= s.config.MaxChars && i > start && isTerminal(runes[i-1]) {
			paragraphs = appendParagraph(paragraphs, stream, runes, start, i)
			start = i + 1
		}
	}
	return appendParagraph(paragraphs, stream, runes, start, len(runes))
}

// appendParagraph emits the chunk [start, end) unless it is empty or
// whitespace-only. The paragraph's page comes from its first character.
func appendParagraph(paragraphs []model.Paragraph, stream []model.CharRecord, runes []rune, start, end int) []model.Paragraph {
	if start >= end {
		return paragraphs
	}
	text := string(runes[start:end])
	if strings.TrimSpace(text) == "" {
		return paragraphs
	}
	return append(paragraphs, model.Paragraph{
		Text:  text,
		Start: start,
		End:   end,
		Page:  stream[start].Page,
	})
}

func isTerminal(c rune) bool {
	return c == '.' || c == '!' || c == '?'
}
