package implementation

import (
	"context"
	"errors"
	"time"

	"design-memory-be/internal/entity"
	"design-memory-be/internal/mapper"
	"design-memory-be/internal/model"
	"design-memory-be/internal/repository/contract"
	"design-memory-be/internal/repository/scope"
	"design-memory-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeedbackEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeedbackMapper
}

func NewFeedbackEventRepository(db *gorm.DB) contract.FeedbackEventRepository {
	return &FeedbackEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeedbackMapper(),
	}
}

func (r *FeedbackEventRepositoryImpl) Create(ctx context.Context, event *entity.FeedbackEvent) error {
	assignIdentity(&event.Id, &event.CreatedAt)
	m := r.mapper.FeedbackEventToModel(event)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*event = *r.mapper.FeedbackEventToEntity(m)
	return nil
}

func (r *FeedbackEventRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeedbackEvent, error) {
	var m model.FeedbackEvent
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	return r.take(query, &m)
}

func (r *FeedbackEventRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeedbackEvent, error) {
	var models []*model.FeedbackEvent
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.FeedbackEvent, len(models))
	for i, m := range models {
		entities[i] = r.mapper.FeedbackEventToEntity(m)
	}
	return entities, nil
}

func (r *FeedbackEventRepositoryImpl) FindLatestSave(ctx context.Context, projectId uuid.UUID) (*entity.FeedbackEvent, error) {
	var m model.FeedbackEvent
	query := r.db.WithContext(ctx).
		Where("project_id = ? AND event_type = ? AND design_version_id IS NOT NULL", projectId, string(entity.EventTypeSave)).
		Scopes(scope.NewestFirst)
	return r.take(query, &m)
}

func (r *FeedbackEventRepositoryImpl) FindLatestSaveForRoomType(ctx context.Context, userId uuid.UUID, roomType entity.RoomType) (*entity.FeedbackEvent, error) {
	var m model.FeedbackEvent
	query := r.db.WithContext(ctx).
		Select("feedback_events.*").
		Joins("JOIN projects ON projects.id = feedback_events.project_id").
		Where("feedback_events.user_id = ? AND feedback_events.event_type = ? AND projects.room_type = ?",
			userId, string(entity.EventTypeSave), string(roomType)).
		Order("feedback_events.created_at DESC")
	return r.take(query, &m)
}

func (r *FeedbackEventRepositoryImpl) take(query *gorm.DB, m *model.FeedbackEvent) (*entity.FeedbackEvent, error) {
	if err := query.Take(m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.FeedbackEventToEntity(m), nil
}

type PreferenceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeedbackMapper
}

func NewPreferenceRepository(db *gorm.DB) contract.PreferenceRepository {
	return &PreferenceRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeedbackMapper(),
	}
}

func (r *PreferenceRepositoryImpl) UpsertIncrement(ctx context.Context, userId uuid.UUID, key, value string, source entity.PreferenceSource, delta float64) (*entity.Preference, error) {
	now := time.Now().UTC()
	initial := delta
	if initial > 1 {
		initial = 1
	}

	m := &model.Preference{
		Id:         uuid.New(),
		UserId:     userId,
		Key:        key,
		Value:      value,
		Confidence: initial,
		Source:     string(source),
		UpdatedAt:  now,
	}

	// A single statement so concurrent increments on the same key cannot
	// overwrite each other.
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "key"}},
		DoUpdates: clause.Set{
			{Column: clause.Column{Name: "value"}, Value: value},
			{Column: clause.Column{Name: "source"}, Value: string(source)},
			{Column: clause.Column{Name: "confidence"}, Value: gorm.Expr(
				"CASE WHEN preferences.confidence + ? > 1 THEN 1 ELSE preferences.confidence + ? END", delta, delta)},
			{Column: clause.Column{Name: "updated_at"}, Value: now},
		},
	}).Create(m).Error
	if err != nil {
		return nil, err
	}

	return r.FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.Filter("key", key),
	)
}

func (r *PreferenceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Preference, error) {
	var m model.Preference
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PreferenceToEntity(&m), nil
}

func (r *PreferenceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Preference, error) {
	var models []*model.Preference
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Preference, len(models))
	for i, m := range models {
		entities[i] = r.mapper.PreferenceToEntity(m)
	}
	return entities, nil
}
