package entity

import (
	"time"

	"github.com/google/uuid"
)

// ContextSnapshot is the bounded, read-only view of a user's design history
// handed to the generator and returned to API callers. Nested entities are
// reduced to a fixed field set and every timestamp is RFC 3339 text.
type ContextSnapshot struct {
	TargetRoomType     *RoomType           `json:"target_room_type"`
	ReferenceRoomType  *RoomType           `json:"reference_room_type"`
	TargetProject      *ProjectSummary     `json:"target_project"`
	ReferenceProject   *ProjectSummary     `json:"reference_project"`
	Preferences        []PreferenceSummary `json:"preferences"`
	ReferenceSummary   *ReferenceSummary   `json:"reference_summary"`
	TargetRecentEvents []EventSummary      `json:"target_recent_events"`
}

type ReferenceSummary struct {
	Project       ProjectSummary  `json:"project"`
	LatestVersion *VersionSummary `json:"latest_version"`
	RecentImages  []ImageSummary  `json:"recent_images"`
	RecentEvents  []EventSummary  `json:"recent_events"`
}

type ProjectSummary struct {
	Id        uuid.UUID `json:"id"`
	RoomType  RoomType  `json:"room_type"`
	Title     string    `json:"title"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

type PreferenceSummary struct {
	Key        string           `json:"key"`
	Value      string           `json:"value"`
	Confidence float64          `json:"confidence"`
	Source     PreferenceSource `json:"source"`
	UpdatedAt  string           `json:"updated_at"`
}

type EventSummary struct {
	Id              uuid.UUID       `json:"id"`
	EventType       EventType       `json:"event_type"`
	Payload         FeedbackPayload `json:"payload"`
	CreatedAt       string          `json:"created_at"`
	DesignVersionId *uuid.UUID      `json:"design_version_id"`
}

type ImageSummary struct {
	Id        uuid.UUID   `json:"id"`
	Prompt    string      `json:"prompt"`
	Params    ImageParams `json:"params"`
	ImageURL  string      `json:"image_url"`
	CreatedAt string      `json:"created_at"`
}

type VersionSummary struct {
	Id              uuid.UUID  `json:"id"`
	VersionNumber   int        `json:"version_number"`
	Notes           string     `json:"notes"`
	CreatedAt       string     `json:"created_at"`
	ParentVersionId *uuid.UUID `json:"parent_version_id"`
}

// EmptyContextSnapshot is the snapshot of a user with no history at all.
func EmptyContextSnapshot() ContextSnapshot {
	return ContextSnapshot{
		Preferences:        []PreferenceSummary{},
		TargetRecentEvents: []EventSummary{},
	}
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func (p Project) Summary() ProjectSummary {
	return ProjectSummary{
		Id:        p.Id,
		RoomType:  p.RoomType,
		Title:     p.Title,
		CreatedAt: FormatTimestamp(p.CreatedAt),
		UpdatedAt: FormatTimestamp(p.UpdatedAt),
	}
}

func (p Preference) Summary() PreferenceSummary {
	return PreferenceSummary{
		Key:        p.Key,
		Value:      p.Value,
		Confidence: p.Confidence,
		Source:     p.Source,
		UpdatedAt:  FormatTimestamp(p.UpdatedAt),
	}
}

func (e FeedbackEvent) Summary() EventSummary {
	return EventSummary{
		Id:              e.Id,
		EventType:       e.EventType,
		Payload:         e.Payload,
		CreatedAt:       FormatTimestamp(e.CreatedAt),
		DesignVersionId: e.DesignVersionId,
	}
}

func (i GeneratedImage) Summary() ImageSummary {
	return ImageSummary{
		Id:        i.Id,
		Prompt:    i.Prompt,
		Params:    i.Params,
		ImageURL:  i.ImageURL,
		CreatedAt: FormatTimestamp(i.CreatedAt),
	}
}

func (v DesignVersion) Summary() VersionSummary {
	return VersionSummary{
		Id:              v.Id,
		VersionNumber:   v.VersionNumber,
		Notes:           v.Notes,
		CreatedAt:       FormatTimestamp(v.CreatedAt),
		ParentVersionId: v.ParentVersionId,
	}
}
