package implementation

import (
	"context"
	"errors"
	"time"

	"design-memory-be/internal/entity"
	"design-memory-be/internal/mapper"
	"design-memory-be/internal/model"
	"design-memory-be/internal/repository/contract"
	"design-memory-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DesignMapper
}

func NewProjectRepository(db *gorm.DB) contract.ProjectRepository {
	return &ProjectRepositoryImpl{
		db:     db,
		mapper: mapper.NewDesignMapper(),
	}
}

func (r *ProjectRepositoryImpl) Create(ctx context.Context, project *entity.Project) error {
	assignIdentity(&project.Id, &project.CreatedAt)
	if project.UpdatedAt.IsZero() {
		project.UpdatedAt = project.CreatedAt
	}
	m := r.mapper.ProjectToModel(project)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*project = *r.mapper.ProjectToEntity(m)
	return nil
}

func (r *ProjectRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Project, error) {
	var m model.Project
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ProjectToEntity(&m), nil
}

func (r *ProjectRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Project, error) {
	var models []*model.Project
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Project, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ProjectToEntity(m)
	}
	return entities, nil
}

func (r *ProjectRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Project{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ProjectRepositoryImpl) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	at = at.UTC()
	return r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ? AND updated_at < ?", id, at).
		Update("updated_at", at).Error
}

type ProjectLinkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DesignMapper
}

func NewProjectLinkRepository(db *gorm.DB) contract.ProjectLinkRepository {
	return &ProjectLinkRepositoryImpl{
		db:     db,
		mapper: mapper.NewDesignMapper(),
	}
}

func (r *ProjectLinkRepositoryImpl) Create(ctx context.Context, link *entity.ProjectLink) error {
	assignIdentity(&link.Id, &link.CreatedAt)
	m := r.mapper.ProjectLinkToModel(link)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*link = *r.mapper.ProjectLinkToEntity(m)
	return nil
}

func (r *ProjectLinkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProjectLink, error) {
	var models []*model.ProjectLink
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ProjectLink, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ProjectLinkToEntity(m)
	}
	return entities, nil
}
