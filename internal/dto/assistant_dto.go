package dto

import (
	"design-memory-be/internal/entity"

	"github.com/google/uuid"
)

type ResolveContextRequest struct {
	Message   string     `json:"message" validate:"required"`
	ProjectId *uuid.UUID `json:"project_id"`
}

type SuggestRequest struct {
	Message   string     `json:"message" validate:"required"`
	ProjectId *uuid.UUID `json:"project_id"`
}

type SuggestionItem struct {
	Title string `json:"title"`
	Notes string `json:"notes"`
}

type SuggestResponse struct {
	Context      *entity.ContextSnapshot `json:"context"`
	Suggestions  []SuggestionItem        `json:"suggestions"`
	ImagePrompts []string                `json:"image_prompts"`
}

type AgentChatRequest struct {
	ProjectId uuid.UUID `json:"project_id" validate:"required"`
	Message   string    `json:"message" validate:"required,max=4000"`
}

type DemoRunStepRequest struct {
	Step int `json:"step" validate:"required,oneof=2 3 4"`
}

type DemoSeedResponse struct {
	ProjectId uuid.UUID   `json:"project_id"`
	VersionId uuid.UUID   `json:"version_id"`
	ImageIds  []uuid.UUID `json:"image_ids"`
}

type DemoStepResponse struct {
	Step      int                     `json:"step"`
	ProjectId uuid.UUID               `json:"project_id"`
	Message   string                  `json:"message"`
	Context   *entity.ContextSnapshot `json:"context"`
}
