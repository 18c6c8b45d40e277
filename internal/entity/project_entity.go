package entity

import (
	"time"

	"github.com/google/uuid"
)

type RoomType string

const (
	RoomTypeLivingRoom RoomType = "living_room"
	RoomTypeBedroom    RoomType = "bedroom"
	RoomTypeKitchen    RoomType = "kitchen"
	RoomTypeBathroom   RoomType = "bathroom"
	RoomTypeOffice     RoomType = "office"
	RoomTypeOther      RoomType = "other"
)

func (r RoomType) Valid() bool {
	switch r {
	case RoomTypeLivingRoom, RoomTypeBedroom, RoomTypeKitchen, RoomTypeBathroom, RoomTypeOffice, RoomTypeOther:
		return true
	}
	return false
}

type Project struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	RoomType  RoomType
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type LinkType string

const (
	LinkTypeSimilar    LinkType = "similar"
	LinkTypeInspiredBy LinkType = "inspired_by"
	LinkTypeReference  LinkType = "reference"
)

func (l LinkType) Valid() bool {
	switch l {
	case LinkTypeSimilar, LinkTypeInspiredBy, LinkTypeReference:
		return true
	}
	return false
}

// ProjectLink is directed. Self-loops are not rejected.
type ProjectLink struct {
	Id            uuid.UUID
	FromProjectId uuid.UUID
	ToProjectId   uuid.UUID
	LinkType      LinkType
	Reason        string
	CreatedAt     time.Time
}
