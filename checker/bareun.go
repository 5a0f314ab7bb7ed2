package checker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/obmakesomething/redpen/model"
)

// ErrMissingAPIKey is returned by NewBareun when no API key is configured.
var ErrMissingAPIKey = errors.New("checker: bareun api key not set")

// BareunConfig configures the Bareun backend.
type BareunConfig struct {
	// APIKey authenticates against the Bareun service. Required.
	APIKey string

	// Host is the service host. Defaults to api.bareun.ai.
	Host string

	// Timeout bounds a single correction request.
	Timeout time.Duration
}

// DefaultBareunConfig returns the Bareun defaults. The API key still has to
// be supplied by the caller.
func DefaultBareunConfig() BareunConfig {
	return BareunConfig{
		Host:    "api.bareun.ai",
		Timeout: 30 * time.Second,
	}
}

// Bareun checks text against the Bareun correction API. It is the primary
// backend: unlike the web checkers it handles long passages, reports exact
// offsets, and classifies each revision.
type Bareun struct {
	config BareunConfig
	client *http.Client
}

// NewBareun creates a Bareun checker.
func NewBareun(config BareunConfig) (*Bareun, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.Host == "" {
		config.Host = DefaultBareunConfig().Host
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultBareunConfig().Timeout
	}
	return &Bareun{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}, nil
}

// Name implements Checker.
func (b *Bareun) Name() string { return "bareun" }

type bareunRequest struct {
	Document struct {
		Content string `json:"content"`
	} `json:"document"`
}

type bareunResponse struct {
	RevisedBlocks []struct {
		Origin struct {
			Content     string `json:"content"`
			BeginOffset int    `json:"beginOffset"`
		} `json:"origin"`
		Revised   string `json:"revised"`
		Revisions []struct {
			Category string `json:"category"`
			HelpID   string `json:"helpId"`
		} `json:"revisions"`
	} `json:"revisedBlocks"`
	Helps map[string]struct {
		Comment string `json:"comment"`
	} `json:"helps"`
}

// Check implements Checker. Only blocks whose revised form differs from the
// origin are reported; identity blocks are the service echoing unchanged
// text.
func (b *Bareun) Check(ctx context.Context, text string) ([]model.SpellError, error) {
	if text == "" {
		return nil, nil
	}

	var reqBody bareunRequest
	reqBody.Document.Content = text
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("checker: encoding bareun request: %w", err)
	}

	url := fmt.Sprintf("https://%s/bareun/api/v1/correct-error", b.config.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("checker: building bareun request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", b.config.APIKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checker: bareun request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checker: bareun returned status %d", resp.StatusCode)
	}

	var parsed bareunResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("checker: decoding bareun response: %w", err)
	}
	return b.collect(parsed), nil
}

func (b *Bareun) collect(resp bareunResponse) []model.SpellError {
	var errs []model.SpellError
	for _, block := range resp.RevisedBlocks {
		if block.Origin.Content == block.Revised {
			continue
		}
		e := model.SpellError{
			Wrong:    block.Origin.Content,
			Correct:  block.Revised,
			Position: block.Origin.BeginOffset,
			Length:   utf8.RuneCountInString(block.Origin.Content),
		}
		if len(block.Revisions) > 0 {
			rev := block.Revisions[0]
			e.Category = model.ParseCategory(rev.Category)
			if help, ok := resp.Helps[rev.HelpID]; ok {
				e.Help = help.Comment
			}
		}
		errs = append(errs, e)
	}
	return errs
}
