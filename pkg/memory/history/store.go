// Package history owns the write rules of the design history: version
// numbering, image attachment, feedback recording and the canonical
// version. Every method works on the caller's unit of work so several
// writes can share one transaction.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"design-memory-be/internal/entity"
	"design-memory-be/internal/repository/specification"
	"design-memory-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackProcessor folds a freshly stored feedback event into preferences.
type FeedbackProcessor interface {
	Process(ctx context.Context, uow unitofwork.UnitOfWork, event *entity.FeedbackEvent) ([]*entity.Preference, error)
}

type Store struct {
	learner FeedbackProcessor
}

func NewStore(learner FeedbackProcessor) *Store {
	return &Store{learner: learner}
}

// VersionInput describes a version to create. A zero VersionNumber asks for
// the next number of the project.
type VersionInput struct {
	ProjectId       uuid.UUID
	VersionNumber   int
	ParentVersionId *uuid.UUID
	Notes           string
}

func (s *Store) CreateProject(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, roomType entity.RoomType, title string) (*entity.Project, error) {
	if !roomType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRoomType, roomType)
	}
	project := &entity.Project{
		UserId:   userId,
		RoomType: roomType,
		Title:    strings.TrimSpace(title),
	}
	if err := uow.ProjectRepository().Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// OwnedProject loads a project only if it belongs to the user.
func (s *Store) OwnedProject(ctx context.Context, uow unitofwork.UnitOfWork, userId, projectId uuid.UUID) (*entity.Project, error) {
	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: projectId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

// ProjectVersion loads a version only if it belongs to the project.
func (s *Store) ProjectVersion(ctx context.Context, uow unitofwork.UnitOfWork, projectId, versionId uuid.UUID) (*entity.DesignVersion, error) {
	version, err := uow.DesignVersionRepository().FindOne(ctx,
		specification.ByID{ID: versionId},
		specification.ByProjectID{ProjectID: projectId},
	)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, ErrVersionNotFound
	}
	return version, nil
}

func (s *Store) CreateVersion(ctx context.Context, uow unitofwork.UnitOfWork, in VersionInput) (*entity.DesignVersion, error) {
	if in.ParentVersionId != nil {
		if _, err := s.ProjectVersion(ctx, uow, in.ProjectId, *in.ParentVersionId); err != nil {
			return nil, err
		}
	}

	version := &entity.DesignVersion{
		ProjectId:       in.ProjectId,
		VersionNumber:   in.VersionNumber,
		ParentVersionId: in.ParentVersionId,
		Notes:           in.Notes,
	}

	repo := uow.DesignVersionRepository()
	var err error
	if in.VersionNumber > 0 {
		err = repo.Create(ctx, version)
	} else {
		err = repo.CreateNext(ctx, version)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := uow.ProjectRepository().Touch(ctx, version.ProjectId, version.CreatedAt); err != nil {
		return nil, err
	}
	return version, nil
}

// AddImage attaches an image to an existing version of the project.
func (s *Store) AddImage(ctx context.Context, uow unitofwork.UnitOfWork, projectId uuid.UUID, image *entity.GeneratedImage) error {
	if _, err := s.ProjectVersion(ctx, uow, projectId, image.DesignVersionId); err != nil {
		return err
	}
	if err := uow.GeneratedImageRepository().Create(ctx, image); err != nil {
		return err
	}
	return uow.ProjectRepository().Touch(ctx, projectId, image.CreatedAt)
}

// RecordFeedback stores the event and runs the learner on it exactly once.
// It returns the preferences the event changed.
func (s *Store) RecordFeedback(ctx context.Context, uow unitofwork.UnitOfWork, event *entity.FeedbackEvent) ([]*entity.Preference, error) {
	if !event.EventType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEventType, event.EventType)
	}
	if event.DesignVersionId != nil {
		if _, err := s.ProjectVersion(ctx, uow, event.ProjectId, *event.DesignVersionId); err != nil {
			return nil, err
		}
	}

	if err := uow.FeedbackEventRepository().Create(ctx, event); err != nil {
		return nil, err
	}
	if err := uow.ProjectRepository().Touch(ctx, event.ProjectId, event.CreatedAt); err != nil {
		return nil, err
	}

	if s.learner == nil {
		return []*entity.Preference{}, nil
	}
	return s.learner.Process(ctx, uow, event)
}

// CanonicalVersion is the version referenced by the project's newest save
// event, or nil. It is read fresh on every call.
func (s *Store) CanonicalVersion(ctx context.Context, uow unitofwork.UnitOfWork, projectId uuid.UUID) (*entity.DesignVersion, error) {
	save, err := uow.FeedbackEventRepository().FindLatestSave(ctx, projectId)
	if err != nil || save == nil || save.DesignVersionId == nil {
		return nil, err
	}
	return uow.DesignVersionRepository().FindOne(ctx, specification.ByID{ID: *save.DesignVersionId})
}

// LatestVersion is the highest-numbered version of the project, or nil.
func (s *Store) LatestVersion(ctx context.Context, uow unitofwork.UnitOfWork, projectId uuid.UUID) (*entity.DesignVersion, error) {
	return uow.DesignVersionRepository().FindOne(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.OrderBy{Field: "version_number", Desc: true},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

// CreateLink records a directed edge between two of the user's projects.
func (s *Store) CreateLink(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, link *entity.ProjectLink) error {
	if !link.LinkType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLinkType, link.LinkType)
	}
	for _, id := range []uuid.UUID{link.FromProjectId, link.ToProjectId} {
		if _, err := s.OwnedProject(ctx, uow, userId, id); err != nil {
			return err
		}
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}
	return uow.ProjectLinkRepository().Create(ctx, link)
}
