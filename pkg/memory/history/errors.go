package history

import "errors"

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrVersionNotFound  = errors.New("design version not found")
	ErrInvalidRoomType  = errors.New("invalid room type")
	ErrInvalidEventType = errors.New("invalid feedback event type")
	ErrInvalidLinkType  = errors.New("invalid project link type")
)
