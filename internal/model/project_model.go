package model

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	RoomType  string    `gorm:"type:varchar(40);not null;index"`
	Title     string    `gorm:"type:varchar(200);not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null;index"`
}

func (Project) TableName() string {
	return "projects"
}

// ProjectLink is a directed edge between two projects.
type ProjectLink struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	FromProjectId uuid.UUID `gorm:"type:uuid;not null;index"`
	ToProjectId   uuid.UUID `gorm:"type:uuid;not null;index"`
	LinkType      string    `gorm:"type:varchar(40);not null"`
	Reason        string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (ProjectLink) TableName() string {
	return "project_links"
}
