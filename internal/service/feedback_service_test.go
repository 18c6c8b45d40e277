package service_test

import (
	"context"
	"testing"

	"design-memory-be/internal/dto"
	"design-memory-be/internal/entity"
	"design-memory-be/internal/pkg/logger"
	"design-memory-be/internal/service"
	"design-memory-be/pkg/memory/history"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	pub := &recordingPublisher{}
	svc := service.NewFeedbackService(f.factory, f.store, pub, logger.NewNopLogger())

	owner := f.user(t, "owner@example.com")
	project := f.project(t, owner, entity.RoomTypeBedroom)

	text := "make it warmer with more plants"
	res, err := svc.Create(ctx, owner, &dto.CreateFeedbackRequest{
		ProjectId: project.Id,
		EventType: "modify",
		Payload:   entity.FeedbackPayload{Text: &text},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.EventTypeModify, res.Event.EventType)

	keys := []string{}
	for _, p := range res.UpdatedPreferences {
		keys = append(keys, p.Key)
	}
	assert.ElementsMatch(t, []string{"tone", "plants"}, keys)
	require.Len(t, pub.feedback, 1)
	assert.ElementsMatch(t, []string{"tone", "plants"}, pub.feedback[0])

	prefs, err := svc.ListPreferences(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, prefs, 2)

	listed, err := svc.ListByProject(ctx, owner, project.Id)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, res.Event.Id, listed[0].Id)
}

func TestFeedbackService_CreateRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	pub := &recordingPublisher{}
	svc := service.NewFeedbackService(f.factory, f.store, pub, logger.NewNopLogger())

	owner := f.user(t, "owner@example.com")
	stranger := f.user(t, "stranger@example.com")
	project := f.project(t, owner, entity.RoomTypeOffice)
	other := f.project(t, owner, entity.RoomTypeKitchen)

	otherVersion, err := f.store.CreateVersion(ctx, f.factory.NewUnitOfWork(ctx), history.VersionInput{ProjectId: other.Id})
	require.NoError(t, err)
	missing := uuid.New()

	tests := []struct {
		name   string
		userId uuid.UUID
		req    dto.CreateFeedbackRequest
		want   error
	}{
		{"foreign project", stranger, dto.CreateFeedbackRequest{ProjectId: project.Id, EventType: "select"}, history.ErrProjectNotFound},
		{"version of another project", owner, dto.CreateFeedbackRequest{ProjectId: project.Id, DesignVersionId: &otherVersion.Id, EventType: "save"}, history.ErrVersionNotFound},
		{"missing version", owner, dto.CreateFeedbackRequest{ProjectId: project.Id, DesignVersionId: &missing, EventType: "save"}, history.ErrVersionNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.userId, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Empty(t, pub.feedback)
	listed, err := svc.ListByProject(ctx, owner, project.Id)
	require.NoError(t, err)
	assert.Empty(t, listed)
}
