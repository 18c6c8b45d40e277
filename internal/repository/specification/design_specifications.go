package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByProjectID struct {
	ProjectID uuid.UUID
}

func (s ByProjectID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("project_id = ?", s.ProjectID)
}

type ByRoomType struct {
	RoomType string
}

func (s ByRoomType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("room_type = ?", s.RoomType)
}

type ByDesignVersionID struct {
	DesignVersionID uuid.UUID
}

func (s ByDesignVersionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("design_version_id = ?", s.DesignVersionID)
}

type ByEventType struct {
	EventType string
}

func (s ByEventType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("event_type = ?", s.EventType)
}

// FromOrToProject matches links touching the project in either direction.
type FromOrToProject struct {
	ProjectID uuid.UUID
}

func (s FromOrToProject) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("from_project_id = ? OR to_project_id = ?", s.ProjectID, s.ProjectID)
}

// MostRecentlyUpdated orders by updated_at then id, newest first.
type MostRecentlyUpdated struct{}

func (s MostRecentlyUpdated) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("updated_at DESC").Order("id DESC")
}
