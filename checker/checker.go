// Package checker provides Korean spell and grammar checking backends and
// the fallback chain that ties them together. The Bareun API is the primary
// backend; the Naver and Pusan National University web checkers and a small
// local rule set act as fallbacks so a document still gets checked when the
// primary service is unavailable.
package checker

import (
	"context"
	"errors"
	"fmt"

	"github.com/obmakesomething/redpen/model"
)

// ErrUnavailable reports that every backend in a chain failed.
var ErrUnavailable = errors.New("checker: no backend available")

// Checker checks one text chunk and returns the errors found. Positions in
// the returned records are rune offsets into the submitted text.
type Checker interface {
	Name() string
	Check(ctx context.Context, text string) ([]model.SpellError, error)
}

// Chain tries its checkers in order and returns the first non-empty result.
// A backend failure or empty result falls through to the next backend. The
// chain itself only fails when every backend fails; backends that succeed
// with zero errors make the chain succeed with zero errors.
type Chain struct {
	checkers []Checker
}

// NewChain builds a fallback chain over the given checkers.
func NewChain(checkers ...Checker) *Chain {
	return &Chain{checkers: checkers}
}

// Name implements Checker.
func (c *Chain) Name() string { return "chain" }

// Check implements Checker.
func (c *Chain) Check(ctx context.Context, text string) ([]model.SpellError, error) {
	var lastErr error
	failed := 0
	for _, ch := range c.checkers {
		errs, err := ch.Check(ctx, text)
		if err != nil {
			lastErr = err
			failed++
			continue
		}
		if len(errs) > 0 {
			return errs, nil
		}
	}
	if failed == len(c.checkers) && lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
	}
	return nil, nil
}

// CheckParagraphs checks each paragraph and rebiases result positions into
// stream offsets by the paragraph's start index. A failing paragraph
// contributes zero errors and increments the returned failure count;
// remaining paragraphs are still checked. Results keep paragraph order.
func CheckParagraphs(ctx context.Context, c Checker, paragraphs []model.Paragraph) ([]model.SpellError, int) {
	var all []model.SpellError
	failed := 0
	for _, p := range paragraphs {
		errs, err := c.Check(ctx, p.Text)
		if err != nil {
			failed++
			continue
		}
		for _, e := range errs {
			e.Position += p.Start
			all = append(all, e)
		}
	}
	return all, failed
}

// FilterCategory removes errors of the given category. The pipeline uses it
// to drop pure spacing suggestions, which are too noisy on justified PDF
// text where extraction itself introduces spacing artifacts.
func FilterCategory(errs []model.SpellError, category model.Category) []model.SpellError {
	out := errs[:0:0]
	for _, e := range errs {
		if e.Category != category {
			out = append(out, e)
		}
	}
	return out
}
