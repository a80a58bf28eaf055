package sqlite

import (
	"database/sql"

	"taskweave/internal/automation/repository"
	"taskweave/pkg/log"
)

type implRepository struct {
	db *sql.DB
	l  log.Logger
}

// New creates a SQLite-backed automation Repository.
func New(db *sql.DB, l log.Logger) repository.Repository {
	if db == nil {
		panic("automation/repository/sqlite: db is required")
	}
	return &implRepository{db: db, l: l}
}
