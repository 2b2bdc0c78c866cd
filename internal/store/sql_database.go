package store

import (
	"database/sql"

	"github.com/MKhiriev/go-chain-vault/internal/logger"
	"github.com/MKhiriev/go-chain-vault/migrations"
)

// DB wraps the SQLite connection pool together with its logger.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.logger)
}
