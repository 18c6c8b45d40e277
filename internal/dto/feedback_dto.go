package dto

import (
	"time"

	"design-memory-be/internal/entity"

	"github.com/google/uuid"
)

type CreateFeedbackRequest struct {
	ProjectId       uuid.UUID              `json:"project_id" validate:"required"`
	DesignVersionId *uuid.UUID             `json:"design_version_id"`
	EventType       string                 `json:"event_type" validate:"required,oneof=select reject modify save"`
	Payload         entity.FeedbackPayload `json:"payload"`
}

type FeedbackEventResponse struct {
	Id              uuid.UUID              `json:"id"`
	ProjectId       uuid.UUID              `json:"project_id"`
	DesignVersionId *uuid.UUID             `json:"design_version_id"`
	EventType       entity.EventType       `json:"event_type"`
	Payload         entity.FeedbackPayload `json:"payload"`
	CreatedAt       time.Time              `json:"created_at"`
}

type PreferenceResponse struct {
	Key        string                  `json:"key"`
	Value      string                  `json:"value"`
	Confidence float64                 `json:"confidence"`
	Source     entity.PreferenceSource `json:"source"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

type FeedbackResult struct {
	Event              FeedbackEventResponse `json:"event"`
	UpdatedPreferences []PreferenceResponse  `json:"updated_preferences"`
}
