package mapper

import (
	"design-memory-be/internal/entity"
	"design-memory-be/internal/model"
)

type FeedbackMapper struct{}

func NewFeedbackMapper() *FeedbackMapper {
	return &FeedbackMapper{}
}

func (m *FeedbackMapper) FeedbackEventToEntity(e *model.FeedbackEvent) *entity.FeedbackEvent {
	if e == nil {
		return nil
	}
	out := &entity.FeedbackEvent{
		Id:              e.Id,
		UserId:          e.UserId,
		ProjectId:       e.ProjectId,
		DesignVersionId: e.DesignVersionId,
		EventType:       entity.EventType(e.EventType),
		CreatedAt:       e.CreatedAt,
	}
	decodeColumn(e.Payload, &out.Payload)
	return out
}

func (m *FeedbackMapper) FeedbackEventToModel(e *entity.FeedbackEvent) *model.FeedbackEvent {
	if e == nil {
		return nil
	}
	return &model.FeedbackEvent{
		Id:              e.Id,
		UserId:          e.UserId,
		ProjectId:       e.ProjectId,
		DesignVersionId: e.DesignVersionId,
		EventType:       string(e.EventType),
		Payload:         encodeColumn(e.Payload),
		CreatedAt:       e.CreatedAt,
	}
}

// Preference Mappers

func (m *FeedbackMapper) PreferenceToEntity(p *model.Preference) *entity.Preference {
	if p == nil {
		return nil
	}
	return &entity.Preference{
		Id:         p.Id,
		UserId:     p.UserId,
		Key:        p.Key,
		Value:      p.Value,
		Confidence: p.Confidence,
		Source:     entity.PreferenceSource(p.Source),
		UpdatedAt:  p.UpdatedAt,
	}
}

func (m *FeedbackMapper) PreferenceToModel(p *entity.Preference) *model.Preference {
	if p == nil {
		return nil
	}
	return &model.Preference{
		Id:         p.Id,
		UserId:     p.UserId,
		Key:        p.Key,
		Value:      p.Value,
		Confidence: p.Confidence,
		Source:     string(p.Source),
		UpdatedAt:  p.UpdatedAt,
	}
}
