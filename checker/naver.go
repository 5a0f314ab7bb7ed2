package checker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/obmakesomething/redpen/model"
)

// NaverConfig configures the Naver web checker backend.
type NaverConfig struct {
	// Endpoint is the JSONP spellchecker endpoint.
	Endpoint string

	// MaxChars caps the submitted text. The service rejects longer input.
	MaxChars int

	// Retries is the number of attempts per request.
	Retries int

	// Timeout bounds a single request.
	Timeout time.Duration
}

// DefaultNaverConfig returns the Naver web checker defaults.
func DefaultNaverConfig() NaverConfig {
	return NaverConfig{
		Endpoint: "https://m.search.naver.com/p/csearch/ocontent/spellchecker.nhn",
		MaxChars: 500,
		Retries:  2,
		Timeout:  10 * time.Second,
	}
}

// Naver checks text against the Naver search spellchecker. The endpoint is
// an undocumented JSONP interface, so browser-like request headers are
// required and responses are unwrapped before JSON decoding. Results carry
// no offsets; positions are recovered by locating each flagged token in the
// submitted text.
type Naver struct {
	config NaverConfig
	client *http.Client
}

// NewNaver creates a Naver checker with the default configuration.
func NewNaver() *Naver {
	return NewNaverWithConfig(DefaultNaverConfig())
}

// NewNaverWithConfig creates a Naver checker with a custom configuration.
func NewNaverWithConfig(config NaverConfig) *Naver {
	defaults := DefaultNaverConfig()
	if config.Endpoint == "" {
		config.Endpoint = defaults.Endpoint
	}
	if config.MaxChars <= 0 {
		config.MaxChars = defaults.MaxChars
	}
	if config.Retries <= 0 {
		config.Retries = defaults.Retries
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	return &Naver{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Name implements Checker.
func (n *Naver) Name() string { return "naver" }

type naverResponse struct {
	Message struct {
		Error  json.RawMessage `json:"error"`
		Result struct {
			ErrataCount int `json:"errata_count"`
			Errata      []struct {
				OrgStr   string `json:"orgStr"`
				CandWord string `json:"candWord"`
				Help     string `json:"help"`
			} `json:"errata"`
		} `json:"result"`
	} `json:"message"`
}

// Check implements Checker. Failed attempts are retried with a short pause;
// the context cancels the wait.
func (n *Naver) Check(ctx context.Context, text string) ([]model.SpellError, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if runes := []rune(text); len(runes) > n.config.MaxChars {
		text = string(runes[:n.config.MaxChars])
	}

	var lastErr error
	for attempt := 0; attempt < n.config.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Second):
			}
		}
		errs, err := n.checkOnce(ctx, text)
		if err == nil {
			return errs, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (n *Naver) checkOnce(ctx context.Context, text string) ([]model.SpellError, error) {
	query := url.Values{
		"_callback": {"window.__jindo2_callback._spellingCheck_0"},
		"q":         {text},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		n.config.Endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("checker: building naver request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Referer", "https://search.naver.com/")
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checker: naver request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checker: naver returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("checker: reading naver response: %w", err)
	}
	parsed, err := parseNaverBody(string(raw))
	if err != nil {
		return nil, err
	}
	return naverErrors(parsed, text), nil
}

// parseNaverBody unwraps the JSONP envelope and decodes the JSON payload.
func parseNaverBody(body string) (*naverResponse, error) {
	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("checker: naver response is not jsonp")
	}
	var parsed naverResponse
	if err := json.Unmarshal([]byte(body[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("checker: decoding naver response: %w", err)
	}
	if len(parsed.Message.Error) > 0 && string(parsed.Message.Error) != "null" {
		return nil, fmt.Errorf("checker: naver reported error: %s", parsed.Message.Error)
	}
	return &parsed, nil
}

// naverErrors converts the errata list to error records, locating each
// flagged token in the submitted text to recover rune offsets. Repeated
// tokens advance the search window so each hit gets its own position.
func naverErrors(parsed *naverResponse, text string) []model.SpellError {
	result := parsed.Message.Result
	if result.ErrataCount == 0 {
		return nil
	}

	runes := []rune(text)
	searchFrom := 0
	var errs []model.SpellError
	for _, e := range result.Errata {
		if e.OrgStr == "" {
			continue
		}
		err := model.SpellError{
			Wrong:    e.OrgStr,
			Correct:  e.CandWord,
			Help:     e.Help,
			Category: naverCategory(e.Help),
			Length:   utf8.RuneCountInString(e.OrgStr),
		}
		if pos := indexRunes(runes, []rune(e.OrgStr), searchFrom); pos >= 0 {
			err.Position = pos
			searchFrom = pos + err.Length
		}
		errs = append(errs, err)
	}
	return errs
}

// naverCategory derives a category from the help text, which is the only
// classification the service exposes.
func naverCategory(help string) model.Category {
	switch {
	case strings.Contains(help, "맞춤법"):
		return model.CategorySpell
	case strings.Contains(help, "띄어쓰기"), strings.Contains(help, "붙여"):
		return model.CategorySpacing
	case strings.Contains(help, "표준어"):
		return model.CategorySpell
	default:
		return model.CategoryGrammar
	}
}

// indexRunes finds needle in haystack at or after from, in rune offsets.
func indexRunes(haystack, needle []rune, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
