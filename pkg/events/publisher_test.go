package events

import (
	"context"
	"errors"
	"testing"

	"design-memory-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	events []Event
	err    error
}

func (s *recordingSender) Publish(_ context.Context, event Event) error {
	s.events = append(s.events, event)
	return s.err
}

func TestBusPublisher_Payloads(t *testing.T) {
	sender := &recordingSender{}
	p := NewBusPublisher(sender, logger.NewNopLogger())

	userId, projectId, versionId := uuid.New(), uuid.New(), uuid.New()
	p.PublishVersionCreated(context.Background(), userId, projectId, versionId, 4)
	p.PublishFeedbackRecorded(context.Background(), userId, projectId, uuid.New(), "save", nil)
	p.PublishTurnCompleted(context.Background(), userId, projectId, "create_version", &versionId, 2, false)

	require.Len(t, sender.events, 3)
	assert.Equal(t, TypeDesignVersionCreated, sender.events[0].EventType())
	assert.Equal(t, 4, sender.events[0].Payload()["version_number"])
	assert.Equal(t, TypeFeedbackRecorded, sender.events[1].EventType())
	assert.Equal(t, []string{}, sender.events[1].Payload()["preference_keys"])
	assert.Equal(t, TypeAgentTurnCompleted, sender.events[2].EventType())
	assert.False(t, sender.events[2].Timestamp().IsZero())
	assert.NotEqual(t, sender.events[0].Key(), sender.events[1].Key())
}

func TestBusPublisher_SwallowsFailures(t *testing.T) {
	sender := &recordingSender{err: errors.New("bus down")}
	p := NewBusPublisher(sender, logger.NewNopLogger())

	assert.NotPanics(t, func() {
		p.PublishVersionCreated(context.Background(), uuid.New(), uuid.New(), uuid.New(), 1)
	})
	assert.Len(t, sender.events, 1)

	assert.NotPanics(t, func() {
		NewBusPublisher(nil, logger.NewNopLogger()).PublishVersionCreated(context.Background(), uuid.New(), uuid.New(), uuid.New(), 1)
	})
}
