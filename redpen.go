// Package redpen checks Korean PDF documents for spelling and grammar
// mistakes and marks the findings directly in the PDF as colored highlight
// annotations.
//
// Basic usage:
//
//	report, warnings, err := redpen.Open("report.pdf").Check(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("warnings:", redpen.FormatWarnings(warnings))
//	}
//
// With options, writing a highlighted copy:
//
//	report, _, err := redpen.Open("report.pdf").
//	    WithBareun(os.Getenv("BAREUN_API_KEY")).
//	    WithOCRFallback().
//	    Annotate(ctx, "report_checked.pdf")
//
// The pipeline extracts a positioned character stream from the document,
// cleans PDF extraction artifacts out of the text while keeping an anchor
// map back to the original characters, checks the text paragraph by
// paragraph against external Korean grammar services, and maps each finding
// back onto the page geometry of the characters that produced it.
//
// For advanced use the underlying packages (extract, normalize, segment,
// checker, reconcile, highlight) are also available.
package redpen

import (
	"github.com/sirupsen/logrus"

	"github.com/obmakesomething/redpen/checker"
	"github.com/obmakesomething/redpen/extract"
	"github.com/obmakesomething/redpen/highlight"
	"github.com/obmakesomething/redpen/normalize"
	"github.com/obmakesomething/redpen/reconcile"
	"github.com/obmakesomething/redpen/segment"
)

// Open creates a Pipeline for the PDF at path with default settings: the
// text-layer extractor, the web-checker chain with local-rule fallback, and
// spacing suggestions filtered out.
func Open(path string) *Pipeline {
	return &Pipeline{
		path:        path,
		extractor:   extract.NewText(),
		chk:         checker.NewChain(checker.NewNaver(), checker.NewPusan(), checker.NewRules()),
		normalizer:  normalize.New(),
		segmenter:   segment.New(),
		reconciler:  reconcile.New(),
		highlighter: highlight.New(),
		logger:      logrus.StandardLogger(),
	}
}

// Must is a helper that wraps a call returning (T, error) and panics if the
// error is non-nil. Intended for scripts and tests.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustCheck wraps a terminal operation, panicking on error and discarding
// warnings. Intended for scripts and tests.
func MustCheck[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
