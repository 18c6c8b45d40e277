// Package scope holds gorm scopes shared by the append-only tables.
package scope

import "gorm.io/gorm"

// OldestFirst is replay order for chat history.
func OldestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// NewestFirst is the order "latest event" lookups read in.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}
