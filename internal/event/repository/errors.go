package repository

import "errors"

var (
	// ErrDuplicateEvent indicates an (org, provider, external_id) collision.
	// Recoverable: the caller skips the duplicate.
	ErrDuplicateEvent = errors.New("duplicate event")

	ErrFailedToInsert = errors.New("failed to insert event")
	ErrFailedToClaim  = errors.New("failed to claim events")
	ErrFailedToUpdate = errors.New("failed to update event")
	ErrFailedToGet    = errors.New("failed to get event")
)
