// Package generation wraps the text generator behind the assistant: the
// prompt templates, the strict response parsers, and the interchangeable
// responders (model-backed or canned) chosen at startup.
package generation

import (
	"context"
	"errors"

	"design-memory-be/pkg/llm"
)

// ErrMalformedResponse wraps every failure to read a generator reply.
var ErrMalformedResponse = errors.New("malformed generator response")

// Generator is the opaque text-in, text-out capability.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string, maxTokens int) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return f(ctx, prompt, maxTokens)
}

// LLMGenerator drives any llm.LLMProvider.
type LLMGenerator struct {
	provider llm.LLMProvider
}

func NewLLMGenerator(provider llm.LLMProvider) *LLMGenerator {
	return &LLMGenerator{provider: provider}
}

func (g *LLMGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return g.provider.Generate(ctx, prompt,
		llm.WithMaxTokens(maxTokens),
		llm.WithTemperature(llm.DefaultTemperature),
	)
}
