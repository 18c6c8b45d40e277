package mapper

import (
	"design-memory-be/internal/entity"
	"design-memory-be/internal/model"
)

type DesignMapper struct{}

func NewDesignMapper() *DesignMapper {
	return &DesignMapper{}
}

// Project Mappers

func (m *DesignMapper) ProjectToEntity(p *model.Project) *entity.Project {
	if p == nil {
		return nil
	}
	return &entity.Project{
		Id:        p.Id,
		UserId:    p.UserId,
		RoomType:  entity.RoomType(p.RoomType),
		Title:     p.Title,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (m *DesignMapper) ProjectToModel(p *entity.Project) *model.Project {
	if p == nil {
		return nil
	}
	return &model.Project{
		Id:        p.Id,
		UserId:    p.UserId,
		RoomType:  string(p.RoomType),
		Title:     p.Title,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (m *DesignMapper) ProjectLinkToEntity(l *model.ProjectLink) *entity.ProjectLink {
	if l == nil {
		return nil
	}
	return &entity.ProjectLink{
		Id:            l.Id,
		FromProjectId: l.FromProjectId,
		ToProjectId:   l.ToProjectId,
		LinkType:      entity.LinkType(l.LinkType),
		Reason:        l.Reason,
		CreatedAt:     l.CreatedAt,
	}
}

func (m *DesignMapper) ProjectLinkToModel(l *entity.ProjectLink) *model.ProjectLink {
	if l == nil {
		return nil
	}
	return &model.ProjectLink{
		Id:            l.Id,
		FromProjectId: l.FromProjectId,
		ToProjectId:   l.ToProjectId,
		LinkType:      string(l.LinkType),
		Reason:        l.Reason,
		CreatedAt:     l.CreatedAt,
	}
}

// Version Mappers

func (m *DesignMapper) DesignVersionToEntity(v *model.DesignVersion) *entity.DesignVersion {
	if v == nil {
		return nil
	}
	return &entity.DesignVersion{
		Id:              v.Id,
		ProjectId:       v.ProjectId,
		VersionNumber:   v.VersionNumber,
		ParentVersionId: v.ParentVersionId,
		Notes:           v.Notes,
		CreatedAt:       v.CreatedAt,
	}
}

func (m *DesignMapper) DesignVersionToModel(v *entity.DesignVersion) *model.DesignVersion {
	if v == nil {
		return nil
	}
	return &model.DesignVersion{
		Id:              v.Id,
		ProjectId:       v.ProjectId,
		VersionNumber:   v.VersionNumber,
		ParentVersionId: v.ParentVersionId,
		Notes:           v.Notes,
		CreatedAt:       v.CreatedAt,
	}
}

// Image Mappers

func (m *DesignMapper) GeneratedImageToEntity(i *model.GeneratedImage) *entity.GeneratedImage {
	if i == nil {
		return nil
	}
	e := &entity.GeneratedImage{
		Id:              i.Id,
		DesignVersionId: i.DesignVersionId,
		Prompt:          i.Prompt,
		ImageURL:        i.ImageURL,
		CreatedAt:       i.CreatedAt,
	}
	decodeColumn(i.Params, &e.Params)
	return e
}

func (m *DesignMapper) GeneratedImageToModel(i *entity.GeneratedImage) *model.GeneratedImage {
	if i == nil {
		return nil
	}
	return &model.GeneratedImage{
		Id:              i.Id,
		DesignVersionId: i.DesignVersionId,
		Prompt:          i.Prompt,
		Params:          encodeColumn(i.Params),
		ImageURL:        i.ImageURL,
		CreatedAt:       i.CreatedAt,
	}
}
