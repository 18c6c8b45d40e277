package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleSystem    ChatRole = "system"
)

// ChatMessage is append-only.
type ChatMessage struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	ProjectId uuid.UUID
	Role      ChatRole
	Content   string
	Metadata  MessageMetadata
	CreatedAt time.Time
}

// EnrichedOption pairs a generated design option with the image it produced.
type EnrichedOption struct {
	Id          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImagePrompt string     `json:"image_prompt"`
	ImageURL    string     `json:"image_url"`
	ImageId     *uuid.UUID `json:"image_id"`
}

type CreatedImage struct {
	Id       uuid.UUID `json:"id"`
	OptionId string    `json:"option_id"`
	Prompt   string    `json:"prompt"`
	ImageURL string    `json:"image_url"`
}

type PreferenceHint struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
