package generation

import (
	"context"
	"fmt"

	"design-memory-be/internal/entity"
)

const DefaultMaxTokens = 800

// Responder turns a resolved context and a user message into a validated
// reply. Implementations are picked once at startup.
type Responder interface {
	Agent(ctx context.Context, snapshot *entity.ContextSnapshot, message string) (*AgentResponse, error)
	Suggest(ctx context.Context, snapshot *entity.ContextSnapshot, message string) (*SuggestionResponse, error)
}

// LLMResponder prompts a Generator and parses its reply strictly.
type LLMResponder struct {
	generator Generator
	maxTokens int
}

func NewLLMResponder(generator Generator, maxTokens int) *LLMResponder {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &LLMResponder{generator: generator, maxTokens: maxTokens}
}

func (r *LLMResponder) Agent(ctx context.Context, snapshot *entity.ContextSnapshot, message string) (*AgentResponse, error) {
	text, err := r.generator.Generate(ctx, BuildAgentPrompt(snapshot, message), r.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("generate agent response: %w", err)
	}
	return ParseAgentResponse(text)
}

func (r *LLMResponder) Suggest(ctx context.Context, snapshot *entity.ContextSnapshot, message string) (*SuggestionResponse, error) {
	text, err := r.generator.Generate(ctx, BuildSuggestionPrompt(snapshot, message), r.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("generate suggestions: %w", err)
	}
	return ParseSuggestionResponse(text)
}

// MockResponder returns canned replies. Used for demos and offline runs.
type MockResponder struct{}

func NewMockResponder() *MockResponder {
	return &MockResponder{}
}

func (MockResponder) Agent(_ context.Context, _ *entity.ContextSnapshot, message string) (*AgentResponse, error) {
	return &AgentResponse{
		Reply: "Got it. I will update the plan for: " + message,
		DesignOptions: []DesignOption{
			{
				Title:       "Warm minimal refresh",
				Description: "Layer in warm woods, textured textiles, and soft lighting.",
				ImagePrompt: "Warm minimal living room with wood tones and soft lighting",
			},
			{
				Title:       "Plant-forward calm",
				Description: "Add greenery, linen textures, and muted earthy palette.",
				ImagePrompt: "Calm living room with plants and linen textures",
			},
		},
		VersionAction: VersionAction{
			Type:  ActionCreateVersion,
			Notes: "Draft new design option",
		},
		PreferenceHints: []entity.PreferenceHint{{Key: "tone", Value: "warm"}},
	}, nil
}

func (MockResponder) Suggest(_ context.Context, _ *entity.ContextSnapshot, _ string) (*SuggestionResponse, error) {
	return &SuggestionResponse{
		Suggestions: []Suggestion{{
			Title: "Warm minimal refresh",
			Notes: "Add warm wood accents, textured rugs, and soft ambient lighting.",
		}},
		ImagePrompts: []string{
			"Minimal living room with warm wood tones, linen sofa, and soft ambient lighting",
		},
	}, nil
}
