package history_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"design-memory-be/internal/entity"
	"design-memory-be/internal/repository/specification"
	"design-memory-be/internal/repository/unitofwork"
	"design-memory-be/internal/testutil"
	"design-memory-be/pkg/memory/history"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type countingLearner struct {
	calls int
}

func (c *countingLearner) Process(ctx context.Context, uow unitofwork.UnitOfWork, event *entity.FeedbackEvent) ([]*entity.Preference, error) {
	c.calls++
	return []*entity.Preference{}, nil
}

type fixture struct {
	ctx     context.Context
	factory unitofwork.RepositoryFactory
	store   *history.Store
	learner *countingLearner
	userId  uuid.UUID
	project *entity.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	factory := unitofwork.NewRepositoryFactory(testutil.NewTestDB(t))
	learner := &countingLearner{}
	store := history.NewStore(learner)
	userId := uuid.New()

	project, err := store.CreateProject(ctx, factory.NewUnitOfWork(ctx), userId, entity.RoomTypeBedroom, "Cozy Bedroom")
	require.NoError(t, err)

	return &fixture{ctx: ctx, factory: factory, store: store, learner: learner, userId: userId, project: project}
}

func (f *fixture) inTx(t *testing.T, fn func(uow unitofwork.UnitOfWork) error) error {
	t.Helper()
	uow := f.factory.NewUnitOfWork(f.ctx)
	require.NoError(t, uow.Begin(f.ctx))
	defer uow.Rollback()
	if err := fn(uow); err != nil {
		return err
	}
	return uow.Commit()
}

func (f *fixture) version(t *testing.T, in history.VersionInput) *entity.DesignVersion {
	t.Helper()
	in.ProjectId = f.project.Id
	var v *entity.DesignVersion
	require.NoError(t, f.inTx(t, func(uow unitofwork.UnitOfWork) error {
		var err error
		v, err = f.store.CreateVersion(f.ctx, uow, in)
		return err
	}))
	return v
}

func (f *fixture) save(t *testing.T, versionId *uuid.UUID) {
	t.Helper()
	require.NoError(t, f.inTx(t, func(uow unitofwork.UnitOfWork) error {
		_, err := f.store.RecordFeedback(f.ctx, uow, &entity.FeedbackEvent{
			UserId:          f.userId,
			ProjectId:       f.project.Id,
			DesignVersionId: versionId,
			EventType:       entity.EventTypeSave,
		})
		return err
	}))
}

func TestCreateVersion_ConcurrentNumbering(t *testing.T) {
	f := newFixture(t)
	const n = 12

	numbers := make([]int, n)
	g, ctx := errgroup.WithContext(f.ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			uow := f.factory.NewUnitOfWork(ctx)
			if err := uow.Begin(ctx); err != nil {
				return err
			}
			defer uow.Rollback()

			v, err := f.store.CreateVersion(ctx, uow, history.VersionInput{ProjectId: f.project.Id})
			if err != nil {
				return err
			}
			numbers[i] = v.VersionNumber
			return uow.Commit()
		})
	}
	require.NoError(t, g.Wait())

	sort.Ints(numbers)
	for i, got := range numbers {
		assert.Equal(t, i+1, got)
	}
}

func TestCreateVersion_ExplicitNumber(t *testing.T) {
	f := newFixture(t)

	v := f.version(t, history.VersionInput{VersionNumber: 7, Notes: "imported"})
	assert.Equal(t, 7, v.VersionNumber)

	next := f.version(t, history.VersionInput{})
	assert.Equal(t, 8, next.VersionNumber)

	err := f.inTx(t, func(uow unitofwork.UnitOfWork) error {
		_, err := f.store.CreateVersion(f.ctx, uow, history.VersionInput{ProjectId: f.project.Id, VersionNumber: 7})
		return err
	})
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)
}

func TestCreateVersion_ParentMustBelongToProject(t *testing.T) {
	f := newFixture(t)
	parent := f.version(t, history.VersionInput{})

	child := f.version(t, history.VersionInput{ParentVersionId: &parent.Id})
	require.NotNil(t, child.ParentVersionId)
	assert.Equal(t, parent.Id, *child.ParentVersionId)

	foreign := uuid.New()
	err := f.inTx(t, func(uow unitofwork.UnitOfWork) error {
		_, err := f.store.CreateVersion(f.ctx, uow, history.VersionInput{ProjectId: f.project.Id, ParentVersionId: &foreign})
		return err
	})
	assert.ErrorIs(t, err, history.ErrVersionNotFound)
}

func TestCreateVersion_UnknownProject(t *testing.T) {
	f := newFixture(t)

	err := f.inTx(t, func(uow unitofwork.UnitOfWork) error {
		_, err := f.store.CreateVersion(f.ctx, uow, history.VersionInput{ProjectId: uuid.New()})
		return err
	})
	assert.ErrorIs(t, err, history.ErrProjectNotFound)
}

func TestCanonicalVersion(t *testing.T) {
	f := newFixture(t)
	uow := f.factory.NewUnitOfWork(f.ctx)

	canonical, err := f.store.CanonicalVersion(f.ctx, uow, f.project.Id)
	require.NoError(t, err)
	assert.Nil(t, canonical)

	v1 := f.version(t, history.VersionInput{Notes: "first"})
	v2 := f.version(t, history.VersionInput{Notes: "second"})

	f.save(t, nil)
	canonical, err = f.store.CanonicalVersion(f.ctx, uow, f.project.Id)
	require.NoError(t, err)
	assert.Nil(t, canonical, "a save without a version does not count")

	f.save(t, &v1.Id)
	canonical, err = f.store.CanonicalVersion(f.ctx, uow, f.project.Id)
	require.NoError(t, err)
	require.NotNil(t, canonical)
	assert.Equal(t, v1.Id, canonical.Id)

	f.save(t, &v2.Id)
	canonical, err = f.store.CanonicalVersion(f.ctx, uow, f.project.Id)
	require.NoError(t, err)
	require.NotNil(t, canonical)
	assert.Equal(t, v2.Id, canonical.Id)
}

func TestRecordFeedback(t *testing.T) {
	f := newFixture(t)
	v := f.version(t, history.VersionInput{})

	t.Run("runs the learner once per event", func(t *testing.T) {
		before := f.learner.calls
		f.save(t, &v.Id)
		assert.Equal(t, before+1, f.learner.calls)
	})

	t.Run("rejects unknown event types", func(t *testing.T) {
		err := f.inTx(t, func(uow unitofwork.UnitOfWork) error {
			_, err := f.store.RecordFeedback(f.ctx, uow, &entity.FeedbackEvent{
				UserId: f.userId, ProjectId: f.project.Id, EventType: "like",
			})
			return err
		})
		assert.ErrorIs(t, err, history.ErrInvalidEventType)
	})

	t.Run("rejects a version of another project", func(t *testing.T) {
		other := uuid.New()
		err := f.inTx(t, func(uow unitofwork.UnitOfWork) error {
			_, err := f.store.RecordFeedback(f.ctx, uow, &entity.FeedbackEvent{
				UserId: f.userId, ProjectId: f.project.Id, DesignVersionId: &other, EventType: entity.EventTypeSelect,
			})
			return err
		})
		assert.ErrorIs(t, err, history.ErrVersionNotFound)
	})
}

func TestWritesAdvanceProjectUpdatedAt(t *testing.T) {
	f := newFixture(t)
	repo := f.factory.NewUnitOfWork(f.ctx).ProjectRepository()

	before := f.project.UpdatedAt
	time.Sleep(2 * time.Millisecond)
	v := f.version(t, history.VersionInput{})

	project, err := repo.FindOne(f.ctx, specification.ByID{ID: f.project.Id})
	require.NoError(t, err)
	assert.True(t, project.UpdatedAt.After(before))

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, f.inTx(t, func(uow unitofwork.UnitOfWork) error {
		return f.store.AddImage(f.ctx, uow, f.project.Id, &entity.GeneratedImage{
			DesignVersionId: v.Id,
			Prompt:          "oak and linen",
			ImageURL:        "https://images.example.com/a.jpg",
		})
	}))
	afterImage, err := repo.FindOne(f.ctx, specification.ByID{ID: f.project.Id})
	require.NoError(t, err)
	assert.True(t, afterImage.UpdatedAt.After(project.UpdatedAt))

	// an older timestamp never moves it back
	require.NoError(t, repo.Touch(f.ctx, f.project.Id, before))
	unchanged, err := repo.FindOne(f.ctx, specification.ByID{ID: f.project.Id})
	require.NoError(t, err)
	assert.True(t, unchanged.UpdatedAt.Equal(afterImage.UpdatedAt))
}

func TestCreateProjectAndLink_Validation(t *testing.T) {
	f := newFixture(t)
	uow := f.factory.NewUnitOfWork(f.ctx)

	_, err := f.store.CreateProject(f.ctx, uow, f.userId, "garage", "Garage")
	assert.ErrorIs(t, err, history.ErrInvalidRoomType)

	office, err := f.store.CreateProject(f.ctx, uow, f.userId, entity.RoomTypeOffice, "Office")
	require.NoError(t, err)

	err = f.store.CreateLink(f.ctx, uow, f.userId, &entity.ProjectLink{
		FromProjectId: office.Id, ToProjectId: f.project.Id, LinkType: "friend",
	})
	assert.ErrorIs(t, err, history.ErrInvalidLinkType)

	err = f.store.CreateLink(f.ctx, uow, uuid.New(), &entity.ProjectLink{
		FromProjectId: office.Id, ToProjectId: f.project.Id, LinkType: entity.LinkTypeInspiredBy,
	})
	assert.ErrorIs(t, err, history.ErrProjectNotFound)

	link := &entity.ProjectLink{FromProjectId: office.Id, ToProjectId: f.project.Id, LinkType: entity.LinkTypeInspiredBy, Reason: "same palette"}
	require.NoError(t, f.store.CreateLink(f.ctx, uow, f.userId, link))
	assert.NotEqual(t, uuid.Nil, link.Id)
}
