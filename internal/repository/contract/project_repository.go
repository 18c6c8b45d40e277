package contract

import (
	"context"
	"time"

	"design-memory-be/internal/entity"
	"design-memory-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Project, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Project, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Touch advances updated_at to at. It never moves the timestamp backwards.
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
}

type ProjectLinkRepository interface {
	Create(ctx context.Context, link *entity.ProjectLink) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProjectLink, error)
}
