package unitofwork

import (
	"context"

	"design-memory-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ProjectRepository() contract.ProjectRepository
	ProjectLinkRepository() contract.ProjectLinkRepository
	DesignVersionRepository() contract.DesignVersionRepository
	GeneratedImageRepository() contract.GeneratedImageRepository
	FeedbackEventRepository() contract.FeedbackEventRepository
	PreferenceRepository() contract.PreferenceRepository
	ChatMessageRepository() contract.ChatMessageRepository
}
