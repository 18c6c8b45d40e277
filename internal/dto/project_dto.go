package dto

import (
	"time"

	"design-memory-be/internal/entity"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	RoomType string `json:"room_type" validate:"required,oneof=living_room bedroom kitchen bathroom office other"`
}

type ProjectResponse struct {
	Id        uuid.UUID       `json:"id"`
	RoomType  entity.RoomType `json:"room_type"`
	Title     string          `json:"title"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CreateVersionRequest struct {
	// VersionNumber is assigned by the server when omitted.
	VersionNumber   *int       `json:"version_number" validate:"omitempty,min=1"`
	ParentVersionId *uuid.UUID `json:"parent_version_id"`
	Notes           string     `json:"notes"`
}

type VersionResponse struct {
	Id              uuid.UUID  `json:"id"`
	ProjectId       uuid.UUID  `json:"project_id"`
	VersionNumber   int        `json:"version_number"`
	ParentVersionId *uuid.UUID `json:"parent_version_id"`
	Notes           string     `json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
}

type CreateImageRequest struct {
	Prompt   string             `json:"prompt" validate:"required"`
	Params   entity.ImageParams `json:"params"`
	ImageURL string             `json:"image_url" validate:"required,url"`
}

type ImageResponse struct {
	Id              uuid.UUID          `json:"id"`
	DesignVersionId uuid.UUID          `json:"design_version_id"`
	Prompt          string             `json:"prompt"`
	Params          entity.ImageParams `json:"params"`
	ImageURL        string             `json:"image_url"`
	CreatedAt       time.Time          `json:"created_at"`
}

type CreateLinkRequest struct {
	FromProjectId uuid.UUID `json:"from_project_id" validate:"required"`
	ToProjectId   uuid.UUID `json:"to_project_id" validate:"required"`
	LinkType      string    `json:"link_type" validate:"required,oneof=similar inspired_by reference"`
	Reason        string    `json:"reason"`
}

type LinkResponse struct {
	Id            uuid.UUID       `json:"id"`
	FromProjectId uuid.UUID       `json:"from_project_id"`
	ToProjectId   uuid.UUID       `json:"to_project_id"`
	LinkType      entity.LinkType `json:"link_type"`
	Reason        string          `json:"reason"`
	CreatedAt     time.Time       `json:"created_at"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID              `json:"id"`
	Role      entity.ChatRole        `json:"role"`
	Content   string                 `json:"content"`
	Metadata  entity.MessageMetadata `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}
