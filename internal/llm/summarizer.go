// Package llm generates an optional natural-language remediation summary of
// a consistency report. The summary never affects match results.
package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ppiankov/listingcheck/internal/model"
)

// Summarizer talks to an OpenAI-compatible chat completions endpoint.
// Pointing BaseURL at a local server (e.g. an Ollama-compatible API) works
// the same way.
type Summarizer struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewSummarizer builds a summarizer from config. An API key is required
// unless a custom BaseURL is set.
func NewSummarizer(cfg model.LLMConfig) (*Summarizer, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("LLM summary requires an API key or a custom base URL")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	mdl := cfg.Model
	if mdl == "" {
		mdl = openai.GPT4oMini
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 600
	}

	return &Summarizer{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     mdl,
		maxTokens: maxTokens,
	}, nil
}

// Summarize produces remediation notes for the report's mismatches.
func (s *Summarizer) Summarize(ctx context.Context, report *model.Report) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(report),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// BuildPrompt renders the report into a prompt that restricts the model to
// the data actually scanned. The model describes discrepancies and suggests
// fixes; it never decides which side is correct.
func BuildPrompt(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are summarizing a listing-consistency report for the business %q.
The report compares five directory listings against the business's authoritative record (SSOT).

RULES:
1. Only reference the sites and field values listed below. Do not invent data.
2. Describe which fields disagree on which sites and suggest concrete corrections toward the SSOT values.
3. If a site could not be scanned, say so; do not speculate about its content.

SSOT record:
`, report.Client)

	for _, kind := range model.AllFieldKinds() {
		fmt.Fprintf(&b, "- %s: %q\n", kind, report.SSOT.Get(kind))
	}

	b.WriteString("\nPer-site results:\n")
	for _, res := range report.Results {
		switch {
		case res.Match:
			fmt.Fprintf(&b, "- %s: consistent\n", res.Label)
		case len(res.Fields) == 0:
			// No comparison ran at all: missing URL, robots denial, or a
			// failed fetch. The note says which.
			fmt.Fprintf(&b, "- %s: not scanned (%s)\n", res.Label, res.Note)
		case len(res.Mismatched) == 0:
			fmt.Fprintf(&b, "- %s: page reachable but no field values were found\n", res.Label)
		default:
			fmt.Fprintf(&b, "- %s: mismatched fields:\n", res.Label)
			for _, fc := range res.Fields {
				if fc.Match {
					continue
				}
				fmt.Fprintf(&b, "    %s: listed %q, SSOT %q\n", fc.Field, fc.Extracted, fc.SSOT)
			}
		}
	}

	b.WriteString("\nWrite a short remediation summary (4-6 sentences).")
	return b.String()
}
