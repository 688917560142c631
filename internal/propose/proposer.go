// Package propose implements the proposal oracle: an LLM asked to suggest
// candidate partitions. Responses are returned verbatim; tolerant extraction
// and rejection live in the partition validator.
package propose

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/asymptotica/majorant/internal/model"
	"github.com/asymptotica/majorant/internal/oracle"
)

// Proposer asks an OpenAI-compatible chat model for decompositions.
type Proposer struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	limiter   *ModelLimiter
}

// New creates a proposer from configuration. An API key is required; BaseURL
// may point at any OpenAI-compatible endpoint.
func New(cfg model.LLMConfig) (*Proposer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("propose: API key is required")
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = openai.GPT4oMini
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Proposer{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     modelName,
		maxTokens: maxTokens,
		timeout:   timeout,
		limiter:   NewModelLimiter(cfg.RequestsPerSecond, 2),
	}, nil
}

// Name returns the oracle name for logs and reports.
func (p *Proposer) Name() string { return "openai" }

// ProposeSeriesPartition requests a breakpoint list for a series claim.
func (p *Proposer) ProposeSeriesPartition(ctx context.Context, claim model.SeriesBoundClaim) (string, error) {
	return p.complete(ctx, SeriesPrompt(claim))
}

// ProposeSubdomains requests a subdomain list for an inequality claim.
func (p *Proposer) ProposeSubdomains(ctx context.Context, claim model.InequalityClaim) (string, error) {
	return p.complete(ctx, SubdomainPrompt(claim))
}

func (p *Proposer) complete(ctx context.Context, prompt string) (string, error) {
	if err := p.limiter.Wait(ctx, p.model); err != nil {
		return "", &oracle.TransportError{Oracle: "proposer", Op: "rate limit wait", Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   p.maxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return "", &oracle.TransportError{Oracle: "proposer", Op: "chat completion", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &oracle.TransportError{Oracle: "proposer", Op: "chat completion",
			Err: fmt.Errorf("no choices in response")}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
