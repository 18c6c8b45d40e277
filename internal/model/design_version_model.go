package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type DesignVersion struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ProjectId       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_project_version_number,priority:1"`
	VersionNumber   int        `gorm:"not null;uniqueIndex:idx_project_version_number,priority:2"`
	ParentVersionId *uuid.UUID `gorm:"type:uuid;index"`
	Notes           string     `gorm:"type:text"`
	CreatedAt       time.Time  `gorm:"not null;index"`
}

func (DesignVersion) TableName() string {
	return "design_versions"
}

type GeneratedImage struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	DesignVersionId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Prompt          string         `gorm:"type:text;not null"`
	Params          datatypes.JSON
	ImageURL        string         `gorm:"column:image_url;type:text;not null"`
	CreatedAt       time.Time      `gorm:"not null;index"`
}

func (GeneratedImage) TableName() string {
	return "generated_images"
}
