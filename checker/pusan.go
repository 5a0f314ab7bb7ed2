package checker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/obmakesomething/redpen/model"
)

// PusanConfig configures the Pusan National University checker backend.
type PusanConfig struct {
	// Endpoint is the results page that accepts form submissions.
	Endpoint string

	// Timeout bounds a single request.
	Timeout time.Duration
}

// DefaultPusanConfig returns the Pusan checker defaults.
func DefaultPusanConfig() PusanConfig {
	return PusanConfig{
		Endpoint: "http://speller.cs.pusan.ac.kr/results",
		Timeout:  8 * time.Second,
	}
}

// Pusan checks text against the Pusan National University speller. The
// service has no API; it returns an HTML results page whose inline scripts
// push each correction as a data row, so the response is parsed as HTML and
// the script bodies are scanned for those rows.
type Pusan struct {
	config PusanConfig
	client *http.Client
}

// NewPusan creates a Pusan checker with the default configuration.
func NewPusan() *Pusan {
	return NewPusanWithConfig(DefaultPusanConfig())
}

// NewPusanWithConfig creates a Pusan checker with a custom configuration.
func NewPusanWithConfig(config PusanConfig) *Pusan {
	defaults := DefaultPusanConfig()
	if config.Endpoint == "" {
		config.Endpoint = defaults.Endpoint
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	return &Pusan{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Name implements Checker.
func (p *Pusan) Name() string { return "pusan" }

// Check implements Checker.
func (p *Pusan) Check(ctx context.Context, text string) ([]model.SpellError, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	form := url.Values{"text1": {text}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.Endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("checker: building pusan request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checker: pusan request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checker: pusan returned status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("checker: parsing pusan response: %w", err)
	}
	return pusanErrors(doc, text), nil
}

var pusanDataRow = regexp.MustCompile(`data\.push\(\[([^\]]+)\]\)`)

// pusanErrors walks the document tree and extracts correction rows from
// script elements. Positions are recovered by locating each flagged token
// in the submitted text, the same way the Naver backend does.
func pusanErrors(doc *html.Node, text string) []model.SpellError {
	var scripts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					scripts = append(scripts, c.Data)
				}
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	runes := []rune(text)
	searchFrom := 0
	var errs []model.SpellError
	for _, script := range scripts {
		for _, m := range pusanDataRow.FindAllStringSubmatch(script, -1) {
			row := splitPusanRow(m[1])
			if len(row) < 2 || row[0] == "" {
				continue
			}
			e := model.SpellError{
				Wrong:    row[0],
				Correct:  row[1],
				Category: model.CategorySpell,
				Length:   utf8.RuneCountInString(row[0]),
			}
			if len(row) > 2 {
				e.Help = row[2]
			}
			if pos := indexRunes(runes, []rune(row[0]), searchFrom); pos >= 0 {
				e.Position = pos
				searchFrom = pos + e.Length
			}
			errs = append(errs, e)
		}
	}
	return errs
}

// splitPusanRow splits a pushed row on commas and strips surrounding
// quotes from each field.
func splitPusanRow(row string) []string {
	parts := strings.Split(row, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		part = strings.Trim(part, `"`)
		part = strings.Trim(part, `'`)
		out = append(out, part)
	}
	return out
}
