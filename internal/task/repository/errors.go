package repository

import "errors"

var (
	ErrEmptyTitle     = errors.New("task title is required")
	ErrEmptySource    = errors.New("task source is required")
	ErrFailedToInsert = errors.New("failed to insert task")
	ErrFailedToList   = errors.New("failed to list tasks")
)
