package entity

import (
	"time"

	"github.com/google/uuid"
)

type DesignVersion struct {
	Id              uuid.UUID
	ProjectId       uuid.UUID
	VersionNumber   int // 0 means "assign the next number"
	ParentVersionId *uuid.UUID
	Notes           string
	CreatedAt       time.Time
}

// GeneratedImage is immutable once created.
type GeneratedImage struct {
	Id              uuid.UUID
	DesignVersionId uuid.UUID
	Prompt          string
	Params          ImageParams
	ImageURL        string
	CreatedAt       time.Time
}
