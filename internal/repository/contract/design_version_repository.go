package contract

import (
	"context"

	"design-memory-be/internal/entity"
	"design-memory-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DesignVersionRepository interface {
	// Create inserts the version with the number it carries.
	Create(ctx context.Context, version *entity.DesignVersion) error
	// CreateNext assigns max(version_number)+1 for the project while holding
	// the project row lock, then inserts.
	CreateNext(ctx context.Context, version *entity.DesignVersion) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DesignVersion, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DesignVersion, error)
}

type GeneratedImageRepository interface {
	Create(ctx context.Context, image *entity.GeneratedImage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GeneratedImage, error)
	// FindRecentByProject returns the newest images across all versions of a project.
	FindRecentByProject(ctx context.Context, projectId uuid.UUID, limit int) ([]*entity.GeneratedImage, error)
}
