package sqlite

import (
	"database/sql"

	"taskweave/internal/webhook/repository"
	"taskweave/pkg/log"
)

type implRepository struct {
	db *sql.DB
	l  log.Logger
}

// New creates a SQLite-backed webhook Repository.
func New(db *sql.DB, l log.Logger) repository.Repository {
	if db == nil {
		panic("webhook/repository/sqlite: db is required")
	}
	return &implRepository{db: db, l: l}
}
