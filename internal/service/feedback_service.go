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

type IFeedbackService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateFeedbackRequest) (*dto.FeedbackResult, error)
	ListByProject(ctx context.Context, userId, projectId uuid.UUID) ([]dto.FeedbackEventResponse, error)
	ListPreferences(ctx context.Context, userId uuid.UUID) ([]dto.PreferenceResponse, error)
}

type feedbackService struct {
	uowFactory unitofwork.RepositoryFactory
	store      *history.Store
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewFeedbackService(uowFactory unitofwork.RepositoryFactory, store *history.Store, publisher events.Publisher, logger logger.ILogger) IFeedbackService {
	return &feedbackService{
		uowFactory: uowFactory,
		store:      store,
		publisher:  publisher,
		logger:     logger,
	}
}

// Create stores the event and the preferences it implies in one
// transaction.
func (s *feedbackService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateFeedbackRequest) (*dto.FeedbackResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if _, err := s.store.OwnedProject(ctx, uow, userId, req.ProjectId); err != nil {
		return nil, err
	}

	event := &entity.FeedbackEvent{
		UserId:          userId,
		ProjectId:       req.ProjectId,
		DesignVersionId: req.DesignVersionId,
		EventType:       entity.EventType(req.EventType),
		Payload:         req.Payload,
	}
	prefs, err := s.store.RecordFeedback(ctx, uow, event)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(prefs))
	for _, p := range prefs {
		keys = append(keys, p.Key)
	}
	s.logger.Info("FEEDBACK", "Feedback recorded", map[string]interface{}{
		"project_id":      event.ProjectId,
		"event_type":      event.EventType,
		"preference_keys": keys,
	})
	s.publisher.PublishFeedbackRecorded(ctx, userId, event.ProjectId, event.Id, string(event.EventType), keys)

	return &dto.FeedbackResult{
		Event:              toFeedbackResponse(event),
		UpdatedPreferences: toPreferenceResponses(prefs),
	}, nil
}

func (s *feedbackService) ListByProject(ctx context.Context, userId, projectId uuid.UUID) ([]dto.FeedbackEventResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, err := s.store.OwnedProject(ctx, uow, userId, projectId); err != nil {
		return nil, err
	}

	feedback, err := uow.FeedbackEventRepository().FindAll(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]dto.FeedbackEventResponse, 0, len(feedback))
	for _, e := range feedback {
		res = append(res, toFeedbackResponse(e))
	}
	return res, nil
}

func (s *feedbackService) ListPreferences(ctx context.Context, userId uuid.UUID) ([]dto.PreferenceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	prefs, err := uow.PreferenceRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "confidence", Desc: true},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	return toPreferenceResponses(prefs), nil
}
