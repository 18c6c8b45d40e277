package mapper

import (
	"design-memory-be/internal/entity"
	"design-memory-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ChatMessageToEntity(c *model.ChatMessage) *entity.ChatMessage {
	if c == nil {
		return nil
	}
	out := &entity.ChatMessage{
		Id:        c.Id,
		UserId:    c.UserId,
		ProjectId: c.ProjectId,
		Role:      entity.ChatRole(c.Role),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
	decodeColumn(c.Metadata, &out.Metadata)
	return out
}

func (m *ChatMapper) ChatMessageToModel(c *entity.ChatMessage) *model.ChatMessage {
	if c == nil {
		return nil
	}
	return &model.ChatMessage{
		Id:        c.Id,
		UserId:    c.UserId,
		ProjectId: c.ProjectId,
		Role:      string(c.Role),
		Content:   c.Content,
		Metadata:  encodeColumn(c.Metadata),
		CreatedAt: c.CreatedAt,
	}
}
