// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package migrations

import (
	"bytes"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-chain-vault/internal/logger"
)

func TestMigrate_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	_ = mock // goose queries the db itself; every call is unexpected

	err = Migrate(db, logger.Nop())
	if err == nil {
		t.Fatal("expected error from Migrate, got nil")
	}

	if !strings.Contains(err.Error(), "migration error") {
		t.Errorf("expected wrapped migration error, got: %v", err)
	}
}

func TestMigrate_NilDB(t *testing.T) {
	var db *sql.DB

	err := Migrate(db, logger.Nop())
	if err == nil {
		t.Fatal("expected error when db is nil, got nil")
	}

	if !strings.Contains(err.Error(), "db is nil") {
		t.Errorf("expected 'db is nil' error, got: %v", err)
	}
}

func TestEmbeddedMigrations_Present(t *testing.T) {
	entries, err := embedMigrations.ReadDir(".")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one embedded migration")
	}
}

func TestMigrate_LogsThroughLogger(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "vault.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	var buf bytes.Buffer
	if err := Migrate(db, logger.NewWithWriter(&buf, "test")); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "00001_create_credential_state.sql") {
		t.Errorf("expected goose output in logger, got: %q", out)
	}
	if !strings.Contains(out, `"func":"goose"`) {
		t.Errorf("expected goose entries to carry func field, got: %q", out)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM credential_state").Scan(&count); err != nil {
		t.Fatalf("query migrated table: %v", err)
	}
}
