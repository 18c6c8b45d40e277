package service

import (
	"context"

	"design-memory-be/internal/dto"
	"design-memory-be/internal/entity"
	"design-memory-be/internal/pkg/logger"
	"design-memory-be/internal/repository/specification"
	"design-memory-be/internal/repository/unitofwork"
	"design-memory-be/pkg/events"
	"design-memory-be/pkg/memory/history"

	"github.com/google/uuid"
)

type IProjectService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]dto.ProjectResponse, error)
	Show(ctx context.Context, userId, projectId uuid.UUID) (*dto.ProjectResponse, error)

	ListVersions(ctx context.Context, userId, projectId uuid.UUID) ([]dto.VersionResponse, error)
	CreateVersion(ctx context.Context, userId, projectId uuid.UUID, req *dto.CreateVersionRequest) (*dto.VersionResponse, error)
	Canonical(ctx context.Context, userId, projectId uuid.UUID) (*dto.VersionResponse, error)
	AddImage(ctx context.Context, userId, versionId uuid.UUID, req *dto.CreateImageRequest) (*dto.ImageResponse, error)

	CreateLink(ctx context.Context, userId uuid.UUID, req *dto.CreateLinkRequest) (*dto.LinkResponse, error)
	ListLinks(ctx context.Context, userId, projectId uuid.UUID) ([]dto.LinkResponse, error)
	ListMessages(ctx context.Context, userId, projectId uuid.UUID) ([]dto.ChatMessageResponse, error)
}

type projectService struct {
	uowFactory unitofwork.RepositoryFactory
	store      *history.Store
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewProjectService(uowFactory unitofwork.RepositoryFactory, store *history.Store, publisher events.Publisher, logger logger.ILogger) IProjectService {
	return &projectService{
		uowFactory: uowFactory,
		store:      store,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *projectService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	project, err := s.store.CreateProject(ctx, uow, userId, entity.RoomType(req.RoomType), req.Title)
	if err != nil {
		return nil, err
	}
	res := toProjectResponse(project)
	return &res, nil
}

func (s *projectService) List(ctx context.Context, userId uuid.UUID) ([]dto.ProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	projects, err := uow.ProjectRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.MostRecentlyUpdated{},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		res = append(res, toProjectResponse(p))
	}
	return res, nil
}

func (s *projectService) Show(ctx context.Context, userId, projectId uuid.UUID) (*dto.ProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	project, err := s.store.OwnedProject(ctx, uow, userId, projectId)
	if err != nil {
		return nil, err
	}
	res := toProjectResponse(project)
	return &res, nil
}

func (s *projectService) ListVersions(ctx context.Context, userId, projectId uuid.UUID) ([]dto.VersionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.store.OwnedProject(ctx, uow, userId, projectId); err != nil {
		return nil, err
	}

	versions, err := uow.DesignVersionRepository().FindAll(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.OrderBy{Field: "version_number"},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.VersionResponse, 0, len(versions))
	for _, v := range versions {
		res = append(res, toVersionResponse(v))
	}
	return res, nil
}

func (s *projectService) CreateVersion(ctx context.Context, userId, projectId uuid.UUID, req *dto.CreateVersionRequest) (*dto.VersionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.store.OwnedProject(ctx, uow, userId, projectId); err != nil {
		return nil, err
	}

	in := history.VersionInput{
		ProjectId:       projectId,
		ParentVersionId: req.ParentVersionId,
		Notes:           req.Notes,
	}
	if req.VersionNumber != nil {
		in.VersionNumber = *req.VersionNumber
	}

	version, err := s.store.CreateVersion(ctx, uow, in)
	if err != nil {
		return nil, err
	}

	s.logger.Info("PROJECT", "Design version created", map[string]interface{}{
		"project_id":     projectId,
		"version_number": version.VersionNumber,
	})
	s.publisher.PublishVersionCreated(ctx, userId, projectId, version.Id, version.VersionNumber)
	res := toVersionResponse(version)
	return &res, nil
}

// Canonical returns the project's finalized version, or nil when none has
// been saved.
func (s *projectService) Canonical(ctx context.Context, userId, projectId uuid.UUID) (*dto.VersionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.store.OwnedProject(ctx, uow, userId, projectId); err != nil {
		return nil, err
	}

	version, err := s.store.CanonicalVersion(ctx, uow, projectId)
	if err != nil || version == nil {
		return nil, err
	}
	res := toVersionResponse(version)
	return &res, nil
}

func (s *projectService) AddImage(ctx context.Context, userId, versionId uuid.UUID, req *dto.CreateImageRequest) (*dto.ImageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	version, err := uow.DesignVersionRepository().FindOne(ctx, specification.ByID{ID: versionId})
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, history.ErrVersionNotFound
	}
	if _, err := s.store.OwnedProject(ctx, uow, userId, version.ProjectId); err != nil {
		// a version of someone else's project is reported as missing
		return nil, history.ErrVersionNotFound
	}

	image := &entity.GeneratedImage{
		DesignVersionId: version.Id,
		Prompt:          req.Prompt,
		Params:          req.Params,
		ImageURL:        req.ImageURL,
	}
	if err := s.store.AddImage(ctx, uow, version.ProjectId, image); err != nil {
		return nil, err
	}
	res := toImageResponse(image)
	return &res, nil
}

func (s *projectService) CreateLink(ctx context.Context, userId uuid.UUID, req *dto.CreateLinkRequest) (*dto.LinkResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	link := &entity.ProjectLink{
		FromProjectId: req.FromProjectId,
		ToProjectId:   req.ToProjectId,
		LinkType:      entity.LinkType(req.LinkType),
		Reason:        req.Reason,
	}
	if err := s.store.CreateLink(ctx, uow, userId, link); err != nil {
		return nil, err
	}
	res := toLinkResponse(link)
	return &res, nil
}

func (s *projectService) ListLinks(ctx context.Context, userId, projectId uuid.UUID) ([]dto.LinkResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.store.OwnedProject(ctx, uow, userId, projectId); err != nil {
		return nil, err
	}

	links, err := uow.ProjectLinkRepository().FindAll(ctx,
		specification.FromOrToProject{ProjectID: projectId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.LinkResponse, 0, len(links))
	for _, l := range links {
		res = append(res, toLinkResponse(l))
	}
	return res, nil
}

func (s *projectService) ListMessages(ctx context.Context, userId, projectId uuid.UUID) ([]dto.ChatMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.store.OwnedProject(ctx, uow, userId, projectId); err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx, specification.ByProjectID{ProjectID: projectId})
	if err != nil {
		return nil, err
	}

	res := make([]dto.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, toChatMessageResponse(m))
	}
	return res, nil
}

