package contract

import (
	"context"

	"design-memory-be/internal/entity"
	"design-memory-be/internal/repository/specification"

	"github.com/google/uuid"
)

type FeedbackEventRepository interface {
	Create(ctx context.Context, event *entity.FeedbackEvent) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FeedbackEvent, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FeedbackEvent, error)

	// FindLatestSave returns the newest save event of the project that
	// references a design version.
	FindLatestSave(ctx context.Context, projectId uuid.UUID) (*entity.FeedbackEvent, error)
	// FindLatestSaveForRoomType returns the user's newest save event on any
	// project of the given room type.
	FindLatestSaveForRoomType(ctx context.Context, userId uuid.UUID, roomType entity.RoomType) (*entity.FeedbackEvent, error)
}

type PreferenceRepository interface {
	// UpsertIncrement overwrites value and source for (user, key) and adds
	// delta to the confidence, clamped at 1. A missing row starts at 0.
	UpsertIncrement(ctx context.Context, userId uuid.UUID, key, value string, source entity.PreferenceSource, delta float64) (*entity.Preference, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Preference, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Preference, error)
}
