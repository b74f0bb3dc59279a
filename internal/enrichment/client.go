package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/suykerbuyk/recap/internal/config"
)

// DefaultOpenAIBaseURL is used by the openai provider when base_url is empty.
const DefaultOpenAIBaseURL = "https://api.x.ai/v1"

var allowedTags = map[string]bool{
	"feat":     true,
	"fix":      true,
	"refactor": true,
	"docs":     true,
	"test":     true,
	"chore":    true,
	"perf":     true,
	"style":    true,
	"build":    true,
	"ci":       true,
}

// Narrator turns a prompt into a rewritten summary. Each provider is one
// implementation; Rewrite picks it from config.
type Narrator interface {
	Narrate(ctx context.Context, input PromptInput) (*Result, error)
}

// NewNarrator returns the narrator for cfg.Provider.
func NewNarrator(cfg config.NarratorConfig, apiKey string) (Narrator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", config.ProviderOpenAI:
		return &openAINarrator{cfg: cfg, apiKey: apiKey, client: http.DefaultClient}, nil
	case config.ProviderGemini:
		return &geminiNarrator{cfg: cfg, apiKey: apiKey}, nil
	default:
		return nil, errors.Newf("unknown narrator provider %q", cfg.Provider)
	}
}

// Rewrite asks the configured provider to polish the heuristic narrative.
// Returns (nil, nil) if rewriting is disabled or the API key is not set.
func Rewrite(ctx context.Context, cfg config.NarratorConfig, input PromptInput) (*Result, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, nil
	}

	n, err := NewNarrator(cfg, apiKey)
	if err != nil {
		return nil, err
	}

	if cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	res, err := n.Narrate(ctx, input)
	if err != nil {
		return nil, errors.Wrapf(err, "%s rewrite", providerName(cfg))
	}
	if res.Summary == "" {
		return nil, errors.Newf("%s rewrite: empty summary", providerName(cfg))
	}
	res.NarratedBy = providerName(cfg) + ":" + cfg.Model
	return res, nil
}

func providerName(cfg config.NarratorConfig) string {
	p := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if p == "" {
		return config.ProviderOpenAI
	}
	return p
}

type openAINarrator struct {
	cfg    config.NarratorConfig
	apiKey string
	client *http.Client
}

func (o *openAINarrator) Narrate(ctx context.Context, input PromptInput) (*Result, error) {
	reqBody := chatRequest{
		Model:       o.cfg.Model,
		Messages:    buildMessages(input),
		Temperature: 0.3,
		ResponseFormat: &respFormat{
			Type: "json_object",
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}

	base := o.cfg.BaseURL
	if base == "" {
		base = DefaultOpenAIBaseURL
	}
	url := strings.TrimRight(base, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "http request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return parseResponse(respBody)
}

func parseResponse(body []byte) (*Result, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "unmarshal response")
	}

	if resp.Error != nil {
		return nil, errors.Newf("API error: %s", resp.Error.Message)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("empty choices in response")
	}

	return parseContent(resp.Choices[0].Message.Content)
}

// parseContent decodes the model's JSON payload.
func parseContent(content string) (*Result, error) {
	var rj rewriteJSON
	if err := json.Unmarshal([]byte(content), &rj); err != nil {
		return nil, errors.Wrap(err, "unmarshal rewrite JSON")
	}

	return &Result{
		Summary: strings.TrimSpace(rj.Summary),
		Tag:     validateTag(rj.Tag),
	}, nil
}

func validateTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if allowedTags[tag] {
		return tag
	}
	return ""
}
