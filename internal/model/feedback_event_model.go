package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type FeedbackEvent struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	ProjectId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	DesignVersionId *uuid.UUID     `gorm:"type:uuid;index"`
	EventType       string         `gorm:"type:varchar(20);not null;index"`
	Payload         datatypes.JSON
	CreatedAt       time.Time      `gorm:"not null;index"`
}

func (FeedbackEvent) TableName() string {
	return "feedback_events"
}

type Preference struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_preference_user_key,priority:1"`
	Key        string    `gorm:"type:varchar(120);not null;uniqueIndex:idx_preference_user_key,priority:2"`
	Value      string    `gorm:"type:varchar(255);not null"`
	Confidence float64   `gorm:"not null;default:0"`
	Source     string    `gorm:"type:varchar(20);not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (Preference) TableName() string {
	return "preferences"
}
