package events

import (
	"context"

	"design-memory-be/internal/pkg/logger"

	"github.com/google/uuid"
)

const (
	TypeDesignVersionCreated = "design_version.created"
	TypeFeedbackRecorded     = "feedback.recorded"
	TypeAgentTurnCompleted   = "agent_turn.completed"
)

// Sender delivers an event to a bus. *nats.Publisher is the production one.
type Sender interface {
	Publish(ctx context.Context, event Event) error
}

// Publisher emits design history events after their rows are committed.
// Delivery is best effort: failures are logged and never returned.
type Publisher interface {
	PublishVersionCreated(ctx context.Context, userId, projectId, versionId uuid.UUID, versionNumber int)
	PublishFeedbackRecorded(ctx context.Context, userId, projectId, eventId uuid.UUID, eventType string, preferenceKeys []string)
	PublishTurnCompleted(ctx context.Context, userId, projectId uuid.UUID, actionType string, createdVersionId *uuid.UUID, imageCount int, fallback bool)
}

type BusPublisher struct {
	sender Sender
	logger logger.ILogger
}

// NewBusPublisher returns a publisher over sender. A nil sender yields a
// publisher that drops everything.
func NewBusPublisher(sender Sender, logger logger.ILogger) *BusPublisher {
	return &BusPublisher{sender: sender, logger: logger}
}

func (p *BusPublisher) PublishVersionCreated(ctx context.Context, userId, projectId, versionId uuid.UUID, versionNumber int) {
	p.publish(ctx, TypeDesignVersionCreated, map[string]interface{}{
		"user_id":        userId,
		"project_id":     projectId,
		"version_id":     versionId,
		"version_number": versionNumber,
	})
}

func (p *BusPublisher) PublishFeedbackRecorded(ctx context.Context, userId, projectId, eventId uuid.UUID, eventType string, preferenceKeys []string) {
	if preferenceKeys == nil {
		preferenceKeys = []string{}
	}
	p.publish(ctx, TypeFeedbackRecorded, map[string]interface{}{
		"user_id":         userId,
		"project_id":      projectId,
		"event_id":        eventId,
		"event_type":      eventType,
		"preference_keys": preferenceKeys,
	})
}

func (p *BusPublisher) PublishTurnCompleted(ctx context.Context, userId, projectId uuid.UUID, actionType string, createdVersionId *uuid.UUID, imageCount int, fallback bool) {
	p.publish(ctx, TypeAgentTurnCompleted, map[string]interface{}{
		"user_id":            userId,
		"project_id":         projectId,
		"action_type":        actionType,
		"created_version_id": createdVersionId,
		"image_count":        imageCount,
		"fallback":           fallback,
	})
}

func (p *BusPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.sender == nil {
		return
	}
	if err := p.sender.Publish(ctx, NewDesignEvent(eventType, data)); err != nil {
		p.logger.Error("EVENTS", "Failed to publish "+eventType, map[string]interface{}{"error": err.Error()})
	}
}

// NopPublisher is used when no bus is configured.
type NopPublisher struct{}

func (NopPublisher) PublishVersionCreated(context.Context, uuid.UUID, uuid.UUID, uuid.UUID, int) {}

func (NopPublisher) PublishFeedbackRecorded(context.Context, uuid.UUID, uuid.UUID, uuid.UUID, string, []string) {
}

func (NopPublisher) PublishTurnCompleted(context.Context, uuid.UUID, uuid.UUID, string, *uuid.UUID, int, bool) {
}
