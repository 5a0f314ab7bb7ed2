package redpen

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/obmakesomething/redpen/checker"
	"github.com/obmakesomething/redpen/extract"
	"github.com/obmakesomething/redpen/highlight"
	"github.com/obmakesomething/redpen/model"
	"github.com/obmakesomething/redpen/normalize"
	"github.com/obmakesomething/redpen/reconcile"
	"github.com/obmakesomething/redpen/segment"
	"github.com/obmakesomething/redpen/snapshot"
)

// Pipeline processes one PDF document: extraction, normalization, paragraph
// checking, geometry reconciliation, and optionally highlighting. Each
// configuration method returns a new Pipeline instance, making chains safe
// to fork and reuse across goroutines.
type Pipeline struct {
	path string

	extractor   extract.Extractor
	ocrFallback bool

	chk         checker.Checker
	keepSpacing bool

	normalizer  *normalize.Normalizer
	segmenter   *segment.Segmenter
	reconciler  *reconcile.Reconciler
	highlighter *highlight.Highlighter

	snapshots *snapshot.Store
	logger    *logrus.Logger

	// Accumulated error (fail-fast)
	err error
}

// clone creates a copy of the Pipeline so chain methods stay immutable.
func (p *Pipeline) clone() *Pipeline {
	c := *p
	return &c
}

// WithExtractor replaces the extraction backend.
func (p *Pipeline) WithExtractor(e extract.Extractor) *Pipeline {
	c := p.clone()
	c.extractor = e
	return c
}

// WithOCRFallback retries extraction with the OCR backend when the text
// layer yields too little content. Requires a binary built with -tags ocr;
// without it the fallback degrades to a warning.
func (p *Pipeline) WithOCRFallback() *Pipeline {
	c := p.clone()
	c.ocrFallback = true
	return c
}

// WithChecker replaces the checking backend. Use checker.NewChain to stack
// several backends.
func (p *Pipeline) WithChecker(ch checker.Checker) *Pipeline {
	c := p.clone()
	c.chk = ch
	return c
}

// WithBareun puts the Bareun API at the front of the checking chain,
// keeping the web checkers and local rules as fallbacks.
func (p *Pipeline) WithBareun(apiKey string) *Pipeline {
	c := p.clone()
	b, err := checker.NewBareun(checker.BareunConfig{APIKey: apiKey})
	if err != nil {
		c.err = err
		return c
	}
	c.chk = checker.NewChain(b, checker.NewNaver(), checker.NewPusan(), checker.NewRules())
	return c
}

// WithSpacingSuggestions keeps pure spacing suggestions in the results.
// They are filtered by default: extraction of justified text introduces
// spacing artifacts the checkers then flag in bulk.
func (p *Pipeline) WithSpacingSuggestions() *Pipeline {
	c := p.clone()
	c.keepSpacing = true
	return c
}

// WithSnapshots writes a diagnostic record of each run into dir.
func (p *Pipeline) WithSnapshots(dir string) *Pipeline {
	c := p.clone()
	store, err := snapshot.NewStore(dir)
	if err != nil {
		c.err = err
		return c
	}
	c.snapshots = store
	return c
}

// WithLogger replaces the pipeline's logger.
func (p *Pipeline) WithLogger(logger *logrus.Logger) *Pipeline {
	c := p.clone()
	c.logger = logger
	return c
}

// WithSegmenter replaces the paragraph segmenter.
func (p *Pipeline) WithSegmenter(s *segment.Segmenter) *Pipeline {
	c := p.clone()
	c.segmenter = s
	return c
}

// WithReconciler replaces the geometry reconciler.
func (p *Pipeline) WithReconciler(r *reconcile.Reconciler) *Pipeline {
	c := p.clone()
	c.reconciler = r
	return c
}

// WithHighlighter replaces the PDF highlighter used by Annotate.
func (p *Pipeline) WithHighlighter(h *highlight.Highlighter) *Pipeline {
	c := p.clone()
	c.highlighter = h
	return c
}

// Report is the outcome of checking one document.
type Report struct {
	// Annotations are the de-duplicated, geometry-bound findings.
	Annotations []model.Annotation

	// Errors is the merged checker error list with stream-biased
	// positions, before reconciliation.
	Errors []model.SpellError

	// RawText and CleanedText are the document as extracted and after
	// normalization.
	RawText     string
	CleanedText string

	// Source names the extraction backend that produced the text.
	Source string

	// Pages is the document's page count.
	Pages int

	// Paragraphs is the number of chunks submitted for checking;
	// FailedParagraphs of them could not be checked.
	Paragraphs       int
	FailedParagraphs int

	// MalformedErrors and OutOfRangeErrors count checker results dropped
	// during reconciliation.
	MalformedErrors  int
	OutOfRangeErrors int

	// Highlighted is the number of highlights written by Annotate. Zero
	// for plain Check runs.
	Highlighted int
}

// Partial reports whether any part of the analysis was skipped. A partial
// report is still a successful one; callers surface it as "analysis
// completed with warnings".
func (r *Report) Partial() bool {
	return r.FailedParagraphs > 0 || r.MalformedErrors > 0 || r.OutOfRangeErrors > 0
}

// Check runs the document through extraction, normalization, checking, and
// reconciliation. Only extraction failure aborts the run; every later
// problem degrades to a warning and a partial report.
func (p *Pipeline) Check(ctx context.Context) (*Report, []Warning, error) {
	if p.err != nil {
		return nil, nil, p.err
	}

	var warnings []Warning
	result, warnings, err := p.extract(warnings)
	if err != nil {
		return nil, warnings, err
	}
	log := p.logger.WithField("input", p.path)
	log.WithFields(logrus.Fields{
		"source": result.Source,
		"pages":  result.Pages,
		"chars":  len(result.Stream),
	}).Info("text extracted")

	paragraphs := p.segmenter.Segment(result.Stream)

	// Normalize each paragraph window and join the pieces into one
	// cleaned text with a document-level anchor map, so reconciliation
	// and de-duplication run once over the whole document.
	var cleanedParas []model.Paragraph
	var maps []*normalize.AnchorMap
	var cleanedText strings.Builder
	offset := 0
	for _, para := range paragraphs {
		sub := result.Stream[para.Start:para.End]
		ctext, amap := p.normalizer.Normalize(sub)
		if strings.TrimSpace(ctext) == "" {
			continue
		}
		n := utf8.RuneCountInString(ctext)
		cleanedParas = append(cleanedParas, model.Paragraph{
			Text:  ctext,
			Start: offset,
			End:   offset + n,
			Page:  para.Page,
		})
		maps = append(maps, amap.Rebase(para.Start))
		cleanedText.WriteString(ctext)
		offset += n
	}
	anchors := normalize.Join(maps...)

	errs, failed := checker.CheckParagraphs(ctx, p.chk, cleanedParas)
	if failed > 0 {
		warnings = append(warnings, warnf(WarnParagraphsFailed,
			"%d of %d paragraphs could not be checked", failed, len(cleanedParas)))
	}
	if !p.keepSpacing {
		errs = checker.FilterCategory(errs, model.CategorySpacing)
	}
	log.WithFields(logrus.Fields{
		"paragraphs": len(cleanedParas),
		"failed":     failed,
		"errors":     len(errs),
	}).Info("checking finished")

	annotations, stats := p.reconciler.Reconcile(errs, anchors, result.Stream)
	if stats.Malformed > 0 {
		warnings = append(warnings, warnf(WarnMalformedErrors,
			"%d malformed checker results dropped", stats.Malformed))
	}
	if stats.OutOfRange > 0 {
		warnings = append(warnings, warnf(WarnOutOfRange,
			"%d checker results outside the cleaned text dropped", stats.OutOfRange))
	}

	report := &Report{
		Annotations:      annotations,
		Errors:           errs,
		RawText:          result.RawText,
		CleanedText:      cleanedText.String(),
		Source:           result.Source,
		Pages:            result.Pages,
		Paragraphs:       len(cleanedParas),
		FailedParagraphs: failed,
		MalformedErrors:  stats.Malformed,
		OutOfRangeErrors: stats.OutOfRange,
	}

	if p.snapshots != nil {
		if _, err := p.snapshots.Save(p.record(report)); err != nil {
			warnings = append(warnings, warnf(WarnSnapshotFailed, "%v", err))
		}
	}
	return report, warnings, nil
}

// Annotate runs Check and writes a highlighted copy of the document to
// outPath. The report's Highlighted field carries the number of highlights
// actually drawn.
func (p *Pipeline) Annotate(ctx context.Context, outPath string) (*Report, []Warning, error) {
	report, warnings, err := p.Check(ctx)
	if err != nil {
		return report, warnings, err
	}
	applied, err := p.highlighter.Apply(p.path, outPath, report.Annotations)
	if err != nil {
		return report, warnings, err
	}
	report.Highlighted = applied
	p.logger.WithFields(logrus.Fields{
		"input":      p.path,
		"output":     outPath,
		"highlights": applied,
	}).Info("annotated document written")
	return report, warnings, nil
}

// extract runs the extraction backend, falling back to OCR on a sparse
// text layer when the fallback is enabled.
func (p *Pipeline) extract(warnings []Warning) (*extract.Result, []Warning, error) {
	result, err := p.extractor.Extract(p.path)
	if err == nil {
		return result, warnings, nil
	}
	if !errors.Is(err, extract.ErrInsufficientText) || !p.ocrFallback {
		return nil, warnings, err
	}

	ocr, ocrErr := extract.NewOCR()
	if ocrErr != nil {
		warnings = append(warnings, warnf(WarnOCRUnavailable, "%v", ocrErr))
		return nil, warnings, err
	}
	warnings = append(warnings, warnf(WarnOCRFallback,
		"text layer too sparse, re-extracting with ocr"))
	result, err = ocr.Extract(p.path)
	if err != nil {
		return nil, warnings, err
	}
	return result, warnings, nil
}

// record builds the diagnostic snapshot for a finished run.
func (p *Pipeline) record(report *Report) *snapshot.Record {
	return &snapshot.Record{
		Input:           p.path,
		Source:          report.Source,
		RawChars:        utf8.RuneCountInString(report.RawText),
		CleanedChars:    utf8.RuneCountInString(report.CleanedText),
		ContentChars:    contentChars(report.CleanedText),
		RawPreview:      snapshot.Preview(report.RawText),
		CleanedPreview:  snapshot.Preview(report.CleanedText),
		Paragraphs:      report.Paragraphs,
		CheckerFailures: report.FailedParagraphs,
		MalformedErrors: report.MalformedErrors,
		OutOfRange:      report.OutOfRangeErrors,
		Annotations:     report.Annotations,
	}
}

func contentChars(s string) int {
	n := 0
	for _, r := range s {
		if !strings.ContainsRune(" \t\r\n", r) {
			n++
		}
	}
	return n
}
