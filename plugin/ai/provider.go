// Package ai wraps the OpenAI-compatible embedding and chat completion APIs.
// All upstream failures are classified into the error taxonomy at this
// boundary so callers can state their fallback policy per error code.
package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	qerrors "github.com/hrygo/quizflow/internal/errors"
)

// EmbeddingMode selects the embedding task type. Retrieval-oriented models
// embed queries and documents asymmetrically; mixing modes degrades
// nearest-neighbor quality.
type EmbeddingMode string

const (
	// EmbeddingModeQuery embeds a retrieval query.
	EmbeddingModeQuery EmbeddingMode = "query"
	// EmbeddingModeDocument embeds an ingested document chunk.
	EmbeddingModeDocument EmbeddingMode = "document"
)

// Config holds the AI provider configuration.
type Config struct {
	BaseURL        string
	APIKey         string
	EmbeddingModel string
	ChatModel      string
	// Dimensions is the embedding dimensionality. All stored vectors must
	// share it and the same embedding model.
	Dimensions int
	Timeout    time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "https://api.openai.com/v1",
		EmbeddingModel: "text-embedding-3-small",
		ChatModel:      "gpt-4o-mini",
		Dimensions:     1536,
		Timeout:        30 * time.Second,
	}
}

// Provider provides embedding and chat completion capabilities.
type Provider struct {
	client *openai.Client
	config *Config
}

// NewProvider creates a new AI provider.
func NewProvider(cfg *Config) *Provider {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = "text-embedding-3-small"
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "gpt-4o-mini"
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = 1536
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}
}

// IsConfigured returns true if a credential is present.
func (p *Provider) IsConfigured() bool {
	return p.config.APIKey != ""
}

// Dimensions returns the configured embedding dimensionality.
func (p *Provider) Dimensions() int {
	return p.config.Dimensions
}

// Embedding generates an embedding vector for the given text.
func (p *Provider) Embedding(ctx context.Context, text string, mode EmbeddingMode) ([]float32, error) {
	if !p.IsConfigured() {
		return nil, qerrors.Configuration("AI API key is not set")
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	req := openai.EmbeddingRequest{
		Input:      []string{p.applyMode(text, mode)},
		Model:      openai.EmbeddingModel(p.config.EmbeddingModel),
		Dimensions: p.config.Dimensions,
	}

	resp, err := p.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, classifyError(err, "create embeddings failed")
	}
	if len(resp.Data) == 0 {
		return nil, qerrors.MalformedResponse("empty embedding response", nil)
	}
	return resp.Data[0].Embedding, nil
}

// Complete performs a single chat completion and returns the first choice
// content. An empty choice list yields an empty string without error;
// generation emptiness is degraded output, not a failure.
func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	if !p.IsConfigured() {
		return "", qerrors.Configuration("AI API key is not set")
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: p.config.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyError(err, "chat completion failed")
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// applyMode renders the embedding task type. Asymmetric retrieval models
// (e5, bge families) expect instruction prefixes; other models ignore the
// distinction and receive the raw text.
func (p *Provider) applyMode(text string, mode EmbeddingMode) string {
	model := strings.ToLower(p.config.EmbeddingModel)
	if !strings.Contains(model, "e5") && !strings.Contains(model, "bge") {
		return text
	}
	switch mode {
	case EmbeddingModeQuery:
		return "query: " + text
	case EmbeddingModeDocument:
		return "passage: " + text
	}
	return text
}

// classifyError maps a go-openai error into the error taxonomy.
// HTTP 429 is the distinguished retryable condition; every other HTTP or
// network failure is a transport error, fatal to the specific call.
func classifyError(err error, msg string) error {
	if status, ok := httpStatus(err); ok && status == 429 {
		return qerrors.Wrap(err, qerrors.ErrCodeRateLimitExceeded, msg)
	}
	return qerrors.Transport(msg, err)
}

func httpStatus(err error) (int, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}
