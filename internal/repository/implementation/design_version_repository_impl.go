package implementation

import (
	"context"
	"errors"
	"fmt"

	"design-memory-be/internal/entity"
	"design-memory-be/internal/mapper"
	"design-memory-be/internal/model"
	"design-memory-be/internal/repository/contract"
	"design-memory-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DesignVersionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DesignMapper
}

func NewDesignVersionRepository(db *gorm.DB) contract.DesignVersionRepository {
	return &DesignVersionRepositoryImpl{
		db:     db,
		mapper: mapper.NewDesignMapper(),
	}
}

func (r *DesignVersionRepositoryImpl) Create(ctx context.Context, version *entity.DesignVersion) error {
	if version.VersionNumber <= 0 {
		return fmt.Errorf("version number must be positive, got %d", version.VersionNumber)
	}
	assignIdentity(&version.Id, &version.CreatedAt)
	m := r.mapper.DesignVersionToModel(version)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*version = *r.mapper.DesignVersionToEntity(m)
	return nil
}

func (r *DesignVersionRepositoryImpl) CreateNext(ctx context.Context, version *entity.DesignVersion) error {
	// Nested inside a unit of work this becomes a savepoint; the row lock is
	// held until the outer transaction ends.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.Project
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", version.ProjectId).
			Take(&project).Error
		if err != nil {
			return err
		}

		var current int
		err = tx.Model(&model.DesignVersion{}).
			Where("project_id = ?", version.ProjectId).
			Select("COALESCE(MAX(version_number), 0)").
			Scan(&current).Error
		if err != nil {
			return err
		}

		version.VersionNumber = current + 1
		assignIdentity(&version.Id, &version.CreatedAt)
		m := r.mapper.DesignVersionToModel(version)
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		*version = *r.mapper.DesignVersionToEntity(m)
		return nil
	})
}

func (r *DesignVersionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DesignVersion, error) {
	var m model.DesignVersion
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DesignVersionToEntity(&m), nil
}

func (r *DesignVersionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DesignVersion, error) {
	var models []*model.DesignVersion
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.DesignVersion, len(models))
	for i, m := range models {
		entities[i] = r.mapper.DesignVersionToEntity(m)
	}
	return entities, nil
}

type GeneratedImageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DesignMapper
}

func NewGeneratedImageRepository(db *gorm.DB) contract.GeneratedImageRepository {
	return &GeneratedImageRepositoryImpl{
		db:     db,
		mapper: mapper.NewDesignMapper(),
	}
}

func (r *GeneratedImageRepositoryImpl) Create(ctx context.Context, image *entity.GeneratedImage) error {
	assignIdentity(&image.Id, &image.CreatedAt)
	m := r.mapper.GeneratedImageToModel(image)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*image = *r.mapper.GeneratedImageToEntity(m)
	return nil
}

func (r *GeneratedImageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GeneratedImage, error) {
	var models []*model.GeneratedImage
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.toEntities(models), nil
}

func (r *GeneratedImageRepositoryImpl) FindRecentByProject(ctx context.Context, projectId uuid.UUID, limit int) ([]*entity.GeneratedImage, error) {
	var models []*model.GeneratedImage
	err := r.db.WithContext(ctx).
		Select("generated_images.*").
		Joins("JOIN design_versions ON design_versions.id = generated_images.design_version_id").
		Where("design_versions.project_id = ?", projectId).
		Order("generated_images.created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.toEntities(models), nil
}

func (r *GeneratedImageRepositoryImpl) toEntities(models []*model.GeneratedImage) []*entity.GeneratedImage {
	entities := make([]*entity.GeneratedImage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.GeneratedImageToEntity(m)
	}
	return entities
}
