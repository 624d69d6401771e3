package models

import "github.com/google/uuid"

// NewID returns a fresh identifier for catalog and generation records.
func NewID() string {
	return uuid.New().String()
}
