package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is a committed change to someone's design history.
type Event interface {
	// EventType returns the dotted event name, e.g. "design_version.created".
	EventType() string
	// Key is unique per event; the bus uses it to drop redeliveries.
	Key() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type DesignEvent struct {
	Id         uuid.UUID
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func NewDesignEvent(eventType string, data map[string]interface{}) DesignEvent {
	return DesignEvent{Id: uuid.New(), Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

func (e DesignEvent) EventType() string               { return e.Type }
func (e DesignEvent) Key() string                     { return e.Id.String() }
func (e DesignEvent) Payload() map[string]interface{} { return e.Data }
func (e DesignEvent) Timestamp() time.Time            { return e.OccurredAt }
