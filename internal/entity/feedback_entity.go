package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeSelect EventType = "select"
	EventTypeReject EventType = "reject"
	EventTypeModify EventType = "modify"
	EventTypeSave   EventType = "save"
)

func (e EventType) Valid() bool {
	switch e {
	case EventTypeSelect, EventTypeReject, EventTypeModify, EventTypeSave:
		return true
	}
	return false
}

type FeedbackEvent struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	ProjectId       uuid.UUID
	DesignVersionId *uuid.UUID
	EventType       EventType
	Payload         FeedbackPayload
	CreatedAt       time.Time
}

type PreferenceSource string

const (
	PreferenceSourceExplicit PreferenceSource = "explicit"
	PreferenceSourceImplicit PreferenceSource = "implicit"
)

type Preference struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	Key        string
	Value      string
	Confidence float64
	Source     PreferenceSource
	UpdatedAt  time.Time
}
