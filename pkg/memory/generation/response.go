package generation

import (
	"design-memory-be/internal/entity"

	"github.com/google/uuid"
)

type ActionType string

const (
	ActionCreateVersion ActionType = "create_version"
	ActionReviseVersion ActionType = "revise_version"
	ActionSaveFinal     ActionType = "save_final"
	ActionNone          ActionType = "none"
)

func (a ActionType) Valid() bool {
	switch a {
	case ActionCreateVersion, ActionReviseVersion, ActionSaveFinal, ActionNone:
		return true
	}
	return false
}

// CreatesVersion reports whether the action writes a new design version.
func (a ActionType) CreatesVersion() bool {
	return a == ActionCreateVersion || a == ActionReviseVersion
}

type DesignOption struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImagePrompt string `json:"image_prompt"`
}

// Prompt is the text used to render the option.
func (o DesignOption) Prompt() string {
	switch {
	case o.ImagePrompt != "":
		return o.ImagePrompt
	case o.Description != "":
		return o.Description
	default:
		return o.Title
	}
}

type VersionAction struct {
	Type            ActionType `json:"type"`
	Notes           string     `json:"notes,omitempty"`
	ParentVersionId *uuid.UUID `json:"parent_version_id,omitempty"`
}

// AgentResponse is a validated agent reply.
type AgentResponse struct {
	Reply           string                  `json:"reply"`
	DesignOptions   []DesignOption          `json:"design_options"`
	VersionAction   VersionAction           `json:"version_action"`
	PreferenceHints []entity.PreferenceHint `json:"preference_hints"`
}

const FallbackReply = "I hit a snag generating a full response, but I can still help."

// FallbackAgentResponse replaces any reply that failed or could not be read.
func FallbackAgentResponse() *AgentResponse {
	return &AgentResponse{
		Reply:           FallbackReply,
		DesignOptions:   []DesignOption{},
		VersionAction:   VersionAction{Type: ActionNone},
		PreferenceHints: []entity.PreferenceHint{},
	}
}

type Suggestion struct {
	Title string `json:"title"`
	Notes string `json:"notes"`
}

// SuggestionResponse is a validated one-shot suggestion.
type SuggestionResponse struct {
	Suggestions  []Suggestion `json:"suggestions"`
	ImagePrompts []string     `json:"image_prompts"`
}
