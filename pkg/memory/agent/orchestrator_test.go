package agent_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"design-memory-be/internal/entity"
	"design-memory-be/internal/pkg/logger"
	"design-memory-be/internal/repository/specification"
	"design-memory-be/internal/repository/unitofwork"
	"design-memory-be/internal/testutil"
	"design-memory-be/pkg/memory/agent"
	"design-memory-be/pkg/memory/generation"
	"design-memory-be/pkg/memory/history"
	"design-memory-be/pkg/memory/learning"
	"design-memory-be/pkg/memory/retrieval"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const imageBase = "https://img.test/designs"

type stubResponder struct {
	response *generation.AgentResponse
	err      error
}

func (s stubResponder) Agent(context.Context, *entity.ContextSnapshot, string) (*generation.AgentResponse, error) {
	return s.response, s.err
}

func (s stubResponder) Suggest(context.Context, *entity.ContextSnapshot, string) (*generation.SuggestionResponse, error) {
	return nil, s.err
}

// blockingResponder waits until its context is cancelled.
type blockingResponder struct{}

func (blockingResponder) Agent(ctx context.Context, _ *entity.ContextSnapshot, _ string) (*generation.AgentResponse, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingResponder) Suggest(ctx context.Context, _ *entity.ContextSnapshot, _ string) (*generation.SuggestionResponse, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type recordingPublisher struct {
	mu       sync.Mutex
	versions []int
	feedback []string
	turns    []string
}

func (p *recordingPublisher) PublishVersionCreated(_ context.Context, _, _, _ uuid.UUID, n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.versions = append(p.versions, n)
}

func (p *recordingPublisher) PublishFeedbackRecorded(_ context.Context, _, _, _ uuid.UUID, eventType string, _ []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.feedback = append(p.feedback, eventType)
}

func (p *recordingPublisher) PublishTurnCompleted(_ context.Context, _, _ uuid.UUID, actionType string, _ *uuid.UUID, _ int, _ bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.turns = append(p.turns, actionType)
}

type fixture struct {
	ctx       context.Context
	factory   unitofwork.RepositoryFactory
	store     *history.Store
	resolver  *retrieval.Resolver
	publisher *recordingPublisher
	userId    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	factory := unitofwork.NewRepositoryFactory(testutil.NewTestDB(t))
	store := history.NewStore(learning.NewLearner())
	return &fixture{
		ctx:       context.Background(),
		factory:   factory,
		store:     store,
		resolver:  retrieval.NewResolver(factory, store),
		publisher: &recordingPublisher{},
		userId:    uuid.New(),
	}
}

func (f *fixture) orchestrator(responder generation.Responder, timeout time.Duration) *agent.Orchestrator {
	return agent.NewOrchestrator(f.factory, f.store, f.resolver, responder, f.publisher, logger.NewNopLogger(), agent.Config{
		GenerationTimeout: timeout,
		ImageBaseURL:      imageBase + "/",
	})
}

func (f *fixture) project(t *testing.T, room entity.RoomType) *entity.Project {
	t.Helper()
	p, err := f.store.CreateProject(f.ctx, f.factory.NewUnitOfWork(f.ctx), f.userId, room, string(room))
	require.NoError(t, err)
	return p
}

func (f *fixture) messages(t *testing.T, projectId uuid.UUID) []*entity.ChatMessage {
	t.Helper()
	msgs, err := f.factory.NewUnitOfWork(f.ctx).ChatMessageRepository().FindAll(f.ctx, specification.ByProjectID{ProjectID: projectId})
	require.NoError(t, err)
	return msgs
}

func (f *fixture) canonical(t *testing.T, projectId uuid.UUID) *entity.DesignVersion {
	t.Helper()
	v, err := f.store.CanonicalVersion(f.ctx, f.factory.NewUnitOfWork(f.ctx), projectId)
	require.NoError(t, err)
	return v
}

func twoOptions(action generation.VersionAction) *generation.AgentResponse {
	return &generation.AgentResponse{
		Reply: "Two directions for you",
		DesignOptions: []generation.DesignOption{
			{Title: "Warm", Description: "wood and linen", ImagePrompt: "warm living room"},
			{Title: "Calm", Description: "plants"},
		},
		VersionAction:   action,
		PreferenceHints: []entity.PreferenceHint{{Key: "tone", Value: "warm"}},
	}
}

func TestTurn_CreateVersion(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, entity.RoomTypeLivingRoom)
	o := f.orchestrator(stubResponder{response: twoOptions(generation.VersionAction{Type: generation.ActionCreateVersion})}, time.Second)

	res, err := o.Turn(f.ctx, f.userId, p.Id, "make the living room cozier")
	require.NoError(t, err)

	require.NotNil(t, res.CreatedVersionId)
	require.Len(t, res.CreatedImages, 2)
	require.Len(t, res.DesignOptions, 2)
	assert.False(t, res.Saved)
	assert.False(t, res.Fallback)
	assert.Equal(t, "create_version", res.ActionType)
	assert.Equal(t, fmt.Sprintf("%s/%s/v1/opt_1.jpg", imageBase, p.Id), res.CreatedImages[0].ImageURL)
	assert.Equal(t, "opt_2", res.DesignOptions[1].Id)
	assert.Equal(t, "plants", res.DesignOptions[1].ImagePrompt)
	assert.Equal(t, res.CreatedImages[1].ImageURL, res.DesignOptions[1].ImageURL)
	require.NotNil(t, res.ResolvedContext.TargetProject)
	assert.Equal(t, p.Id, res.ResolvedContext.TargetProject.Id)

	version, err := f.store.ProjectVersion(f.ctx, f.factory.NewUnitOfWork(f.ctx), p.Id, *res.CreatedVersionId)
	require.NoError(t, err)
	assert.Equal(t, 1, version.VersionNumber)
	assert.Nil(t, version.ParentVersionId)
	assert.Equal(t, agent.DefaultVersionNotes, version.Notes)

	msgs := f.messages(t, p.Id)
	require.Len(t, msgs, 2)
	assert.Equal(t, entity.ChatRoleUser, msgs[0].Role)
	assert.Equal(t, entity.ChatRoleAssistant, msgs[1].Role)
	assert.Equal(t, "Two directions for you", msgs[1].Content)
	assert.Equal(t, res.CreatedVersionId, msgs[1].Metadata.CreatedVersionId)
	assert.Len(t, msgs[1].Metadata.CreatedImages, 2)
	require.NotNil(t, msgs[1].Metadata.ResolvedContext)
	assert.Equal(t, "create_version", msgs[1].Metadata.ActionType)

	assert.Equal(t, []int{1}, f.publisher.versions)
	assert.Equal(t, []string{"create_version"}, f.publisher.turns)
}

func TestTurn_ParentVersion(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, entity.RoomTypeBedroom)
	other := f.project(t, entity.RoomTypeKitchen)

	uow := f.factory.NewUnitOfWork(f.ctx)
	v1, err := f.store.CreateVersion(f.ctx, uow, history.VersionInput{ProjectId: p.Id})
	require.NoError(t, err)
	foreign, err := f.store.CreateVersion(f.ctx, uow, history.VersionInput{ProjectId: other.Id})
	require.NoError(t, err)
	_, err = f.store.RecordFeedback(f.ctx, uow, &entity.FeedbackEvent{
		UserId: f.userId, ProjectId: p.Id, DesignVersionId: &v1.Id, EventType: entity.EventTypeSave,
	})
	require.NoError(t, err)
	v2, err := f.store.CreateVersion(f.ctx, uow, history.VersionInput{ProjectId: p.Id})
	require.NoError(t, err)

	tests := []struct {
		name   string
		parent *uuid.UUID
		want   uuid.UUID
	}{
		{"explicit parent of the project", &v2.Id, v2.Id},
		{"parent from another project uses canonical", &foreign.Id, v1.Id},
		{"no parent uses canonical", nil, v1.Id},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := twoOptions(generation.VersionAction{Type: generation.ActionReviseVersion, Notes: "tweak", ParentVersionId: tt.parent})
			res, err := f.orchestrator(stubResponder{response: resp}, time.Second).Turn(f.ctx, f.userId, p.Id, "tweak the bedroom")
			require.NoError(t, err)
			require.NotNil(t, res.CreatedVersionId)

			created, err := f.store.ProjectVersion(f.ctx, f.factory.NewUnitOfWork(f.ctx), p.Id, *res.CreatedVersionId)
			require.NoError(t, err)
			require.NotNil(t, created.ParentVersionId)
			assert.Equal(t, tt.want, *created.ParentVersionId)
			assert.Equal(t, "tweak", created.Notes)
		})
	}
}

func TestTurn_GeneratorTimeoutFallsBack(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, entity.RoomTypeOffice)

	res, err := f.orchestrator(blockingResponder{}, 20*time.Millisecond).Turn(f.ctx, f.userId, p.Id, "simpler desk")
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	assert.Equal(t, generation.FallbackReply, res.Reply)
	assert.Nil(t, res.CreatedVersionId)
	assert.Empty(t, res.DesignOptions)
	assert.Equal(t, "none", res.ActionType)

	msgs := f.messages(t, p.Id)
	require.Len(t, msgs, 2)
	assert.Equal(t, generation.FallbackReply, msgs[1].Content)

	versions, err := f.factory.NewUnitOfWork(f.ctx).DesignVersionRepository().FindAll(f.ctx, specification.ByProjectID{ProjectID: p.Id})
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestTurn_SaveFromMessage(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, entity.RoomTypeBedroom)
	v1, err := f.store.CreateVersion(f.ctx, f.factory.NewUnitOfWork(f.ctx), history.VersionInput{ProjectId: p.Id})
	require.NoError(t, err)

	reply := &generation.AgentResponse{Reply: "Saved!", DesignOptions: []generation.DesignOption{}, VersionAction: generation.VersionAction{Type: generation.ActionNone}}
	res, err := f.orchestrator(stubResponder{response: reply}, time.Second).Turn(f.ctx, f.userId, p.Id, "Please SAVE this one")
	require.NoError(t, err)

	assert.True(t, res.Saved)
	assert.Nil(t, res.CreatedVersionId)
	assert.Nil(t, f.canonical(t, p.Id), "latest version is not canonical until saved")

	events, err := f.factory.NewUnitOfWork(f.ctx).FeedbackEventRepository().FindAll(f.ctx, specification.ByProjectID{ProjectID: p.Id})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, entity.EventTypeSave, events[0].EventType)
	assert.Nil(t, events[0].DesignVersionId)
	require.NotNil(t, events[0].Payload.Note)
	assert.Equal(t, agent.SaveNote, *events[0].Payload.Note)
	assert.Equal(t, "Please SAVE this one", events[0].Payload.TextValue())

	// once a version is created and saved in the same turn it becomes canonical
	res, err = f.orchestrator(stubResponder{response: twoOptions(generation.VersionAction{Type: generation.ActionSaveFinal})}, time.Second).
		Turn(f.ctx, f.userId, p.Id, "keep it")
	require.NoError(t, err)
	assert.True(t, res.Saved)
	assert.Nil(t, res.CreatedVersionId)

	res, err = f.orchestrator(stubResponder{response: twoOptions(generation.VersionAction{Type: generation.ActionCreateVersion})}, time.Second).
		Turn(f.ctx, f.userId, p.Id, "new look, save it")
	require.NoError(t, err)
	require.NotNil(t, res.CreatedVersionId)
	assert.True(t, res.Saved)
	canonical := f.canonical(t, p.Id)
	require.NotNil(t, canonical)
	assert.Equal(t, *res.CreatedVersionId, canonical.Id)
	assert.NotEqual(t, v1.Id, canonical.Id)

	assert.Len(t, f.publisher.feedback, 3)
}

func TestTurn_SaveUsesCanonical(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, entity.RoomTypeKitchen)
	uow := f.factory.NewUnitOfWork(f.ctx)
	v1, err := f.store.CreateVersion(f.ctx, uow, history.VersionInput{ProjectId: p.Id})
	require.NoError(t, err)
	_, err = f.store.RecordFeedback(f.ctx, uow, &entity.FeedbackEvent{
		UserId: f.userId, ProjectId: p.Id, DesignVersionId: &v1.Id, EventType: entity.EventTypeSave,
	})
	require.NoError(t, err)

	res, err := f.orchestrator(stubResponder{response: twoOptions(generation.VersionAction{Type: generation.ActionCreateVersion})}, time.Second).
		Turn(f.ctx, f.userId, p.Id, "try something and save")
	require.NoError(t, err)
	require.NotNil(t, res.CreatedVersionId)
	assert.True(t, res.Saved)

	canonical := f.canonical(t, p.Id)
	require.NotNil(t, canonical)
	assert.Equal(t, v1.Id, canonical.Id)
}

func TestTurn_NoneReusesExistingImages(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, entity.RoomTypeLivingRoom)
	uow := f.factory.NewUnitOfWork(f.ctx)
	v1, err := f.store.CreateVersion(f.ctx, uow, history.VersionInput{ProjectId: p.Id})
	require.NoError(t, err)
	image := &entity.GeneratedImage{DesignVersionId: v1.Id, Prompt: "sofa", ImageURL: "https://img.test/existing.jpg"}
	require.NoError(t, f.store.AddImage(f.ctx, uow, p.Id, image))

	res, err := f.orchestrator(stubResponder{response: twoOptions(generation.VersionAction{Type: generation.ActionNone})}, time.Second).
		Turn(f.ctx, f.userId, p.Id, "what do you think?")
	require.NoError(t, err)

	assert.Nil(t, res.CreatedVersionId)
	assert.Empty(t, res.CreatedImages)
	require.Len(t, res.DesignOptions, 2)
	assert.Equal(t, "https://img.test/existing.jpg", res.DesignOptions[0].ImageURL)
	require.NotNil(t, res.DesignOptions[0].ImageId)
	assert.Equal(t, image.Id, *res.DesignOptions[0].ImageId)
	assert.Equal(t, "", res.DesignOptions[1].ImageURL)
	assert.Equal(t, "opt_2", res.DesignOptions[1].Id)
	assert.Empty(t, f.publisher.versions)
}

func TestTurn_ForeignProjectRejected(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, entity.RoomTypeBedroom)
	o := f.orchestrator(stubResponder{response: twoOptions(generation.VersionAction{Type: generation.ActionCreateVersion})}, time.Second)

	_, err := o.Turn(f.ctx, uuid.New(), p.Id, "hello")
	assert.ErrorIs(t, err, history.ErrProjectNotFound)

	_, err = o.Turn(f.ctx, f.userId, uuid.New(), "hello")
	assert.ErrorIs(t, err, history.ErrProjectNotFound)

	assert.Empty(t, f.messages(t, p.Id))
	assert.Empty(t, f.publisher.turns)
}
