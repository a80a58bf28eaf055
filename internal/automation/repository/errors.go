package repository

import "errors"

var (
	ErrEmptyName      = errors.New("automation name is required")
	ErrFailedToInsert = errors.New("failed to insert automation")
	ErrFailedToList   = errors.New("failed to list automations")
)
