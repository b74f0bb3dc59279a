package enrichment

import (
	"context"

	"github.com/cockroachdb/errors"
	"google.golang.org/genai"

	"github.com/suykerbuyk/recap/internal/config"
)

type geminiNarrator struct {
	cfg    config.NarratorConfig
	apiKey string
}

func (g *geminiNarrator) Narrate(ctx context.Context, input PromptInput) (*Result, error) {
	cc := &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.cfg.BaseURL}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}

	resp, err := cli.Models.GenerateContent(ctx,
		g.cfg.Model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: buildUserPrompt(input)}}}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
			Temperature:       genai.Ptr[float32](0.3),
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		return nil, errors.Wrap(err, "generate content")
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("empty candidates in response")
	}

	return parseContent(resp.Candidates[0].Content.Parts[0].Text)
}
