package service

import (
	"design-memory-be/internal/dto"
	"design-memory-be/internal/entity"
)

func toProjectResponse(p *entity.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		Id:        p.Id,
		RoomType:  p.RoomType,
		Title:     p.Title,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toVersionResponse(v *entity.DesignVersion) dto.VersionResponse {
	return dto.VersionResponse{
		Id:              v.Id,
		ProjectId:       v.ProjectId,
		VersionNumber:   v.VersionNumber,
		ParentVersionId: v.ParentVersionId,
		Notes:           v.Notes,
		CreatedAt:       v.CreatedAt,
	}
}

func toImageResponse(i *entity.GeneratedImage) dto.ImageResponse {
	return dto.ImageResponse{
		Id:              i.Id,
		DesignVersionId: i.DesignVersionId,
		Prompt:          i.Prompt,
		Params:          i.Params,
		ImageURL:        i.ImageURL,
		CreatedAt:       i.CreatedAt,
	}
}

func toLinkResponse(l *entity.ProjectLink) dto.LinkResponse {
	return dto.LinkResponse{
		Id:            l.Id,
		FromProjectId: l.FromProjectId,
		ToProjectId:   l.ToProjectId,
		LinkType:      l.LinkType,
		Reason:        l.Reason,
		CreatedAt:     l.CreatedAt,
	}
}

func toFeedbackResponse(e *entity.FeedbackEvent) dto.FeedbackEventResponse {
	return dto.FeedbackEventResponse{
		Id:              e.Id,
		ProjectId:       e.ProjectId,
		DesignVersionId: e.DesignVersionId,
		EventType:       e.EventType,
		Payload:         e.Payload,
		CreatedAt:       e.CreatedAt,
	}
}

func toPreferenceResponses(prefs []*entity.Preference) []dto.PreferenceResponse {
	out := make([]dto.PreferenceResponse, 0, len(prefs))
	for _, p := range prefs {
		out = append(out, dto.PreferenceResponse{
			Key:        p.Key,
			Value:      p.Value,
			Confidence: p.Confidence,
			Source:     p.Source,
			UpdatedAt:  p.UpdatedAt,
		})
	}
	return out
}

func toChatMessageResponse(m *entity.ChatMessage) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		Id:        m.Id,
		Role:      m.Role,
		Content:   m.Content,
		Metadata:  m.Metadata,
		CreatedAt: m.CreatedAt,
	}
}
