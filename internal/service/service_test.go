package service_test

import (
	"context"
	"sync"
	"testing"

	"design-memory-be/internal/entity"
	"design-memory-be/internal/repository/unitofwork"
	"design-memory-be/internal/testutil"
	"design-memory-be/pkg/memory/history"
	"design-memory-be/pkg/memory/learning"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu       sync.Mutex
	versions []int
	feedback [][]string
}

func (p *recordingPublisher) PublishVersionCreated(ctx context.Context, userId, projectId, versionId uuid.UUID, versionNumber int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.versions = append(p.versions, versionNumber)
}

func (p *recordingPublisher) PublishFeedbackRecorded(ctx context.Context, userId, projectId, eventId uuid.UUID, eventType string, preferenceKeys []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.feedback = append(p.feedback, preferenceKeys)
}

func (p *recordingPublisher) PublishTurnCompleted(ctx context.Context, userId, projectId uuid.UUID, actionType string, createdVersionId *uuid.UUID, imageCount int, fallback bool) {
}

type fixture struct {
	factory unitofwork.RepositoryFactory
	store   *history.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		factory: unitofwork.NewRepositoryFactory(testutil.NewTestDB(t)),
		store:   history.NewStore(learning.NewLearner()),
	}
}

func (f *fixture) user(t *testing.T, email string) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	u := &entity.User{Email: email, DisplayName: email}
	require.NoError(t, f.factory.NewUnitOfWork(ctx).UserRepository().Create(ctx, u))
	return u.Id
}

func (f *fixture) project(t *testing.T, userId uuid.UUID, room entity.RoomType) *entity.Project {
	t.Helper()
	ctx := context.Background()
	p, err := f.store.CreateProject(ctx, f.factory.NewUnitOfWork(ctx), userId, room, string(room))
	require.NoError(t, err)
	return p
}
