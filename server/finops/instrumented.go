package finops

import (
	"context"
	"time"

	"github.com/hrygo/quizflow/plugin/ai"
)

// InstrumentedProvider wraps the AI provider and records every call into a
// usage monitor. It satisfies the same consumer interfaces as the bare
// provider, so it drops in wherever the provider is injected.
type InstrumentedProvider struct {
	provider *ai.Provider
	monitor  *Monitor
}

// NewInstrumentedProvider wraps the provider with usage accounting.
func NewInstrumentedProvider(provider *ai.Provider, monitor *Monitor) *InstrumentedProvider {
	return &InstrumentedProvider{provider: provider, monitor: monitor}
}

// IsConfigured reports whether the underlying provider has a credential.
func (p *InstrumentedProvider) IsConfigured() bool {
	return p.provider.IsConfigured()
}

// Dimensions returns the configured embedding dimensionality.
func (p *InstrumentedProvider) Dimensions() int {
	return p.provider.Dimensions()
}

// Embedding generates an embedding and records the call.
func (p *InstrumentedProvider) Embedding(ctx context.Context, text string, mode ai.EmbeddingMode) ([]float32, error) {
	start := time.Now()
	vector, err := p.provider.Embedding(ctx, text, mode)
	p.monitor.Record(OpEmbedding, time.Since(start), err)
	return vector, err
}

// Complete performs a chat completion and records the call.
func (p *InstrumentedProvider) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := p.provider.Complete(ctx, prompt)
	p.monitor.Record(OpCompletion, time.Since(start), err)
	return text, err
}
