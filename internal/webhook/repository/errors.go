package repository

import "errors"

var (
	ErrEmptyURL       = errors.New("webhook url is required")
	ErrFailedToInsert = errors.New("failed to insert webhook")
	ErrFailedToList   = errors.New("failed to list webhooks")
)
