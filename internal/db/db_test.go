// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"database/sql"
	"testing"
	"time"
)

func openMigrationTestDB(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Shared-cache in-memory databases need a single connection to stay
	// visible across queries.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func TestRunMigrations_AppliesAndRecords(t *testing.T) {
	sqlDB := openMigrationTestDB(t)

	if err := RunMigrations(sqlDB, "sqlite"); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}

	// Every versioned file must be recorded in the ledger.
	var applied int
	if err := sqlDB.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if applied < 3 {
		t.Fatalf("expected at least 3 applied migrations, got %d", applied)
	}

	// The schema must actually be usable.
	for _, table := range []string{"surveys", "survey_elements", "survey_participants", "responses", "tracking_events", "uploads"} {
		var n int
		if err := sqlDB.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			t.Fatalf("table %s missing after migrations: %v", table, err)
		}
	}

	// is_test_run arrived in a later migration; make sure it is present.
	if _, err := sqlDB.Exec("SELECT is_test_run FROM survey_participants LIMIT 1"); err != nil {
		t.Fatalf("is_test_run column missing: %v", err)
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	sqlDB := openMigrationTestDB(t)

	if err := RunMigrations(sqlDB, "sqlite"); err != nil {
		t.Fatalf("first RunMigrations failed: %v", err)
	}
	var before int
	if err := sqlDB.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&before); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}

	if err := RunMigrations(sqlDB, "sqlite"); err != nil {
		t.Fatalf("second RunMigrations failed: %v", err)
	}
	var after int
	if err := sqlDB.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&after); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if before != after {
		t.Fatalf("migrations re-applied: %d -> %d", before, after)
	}
}

func TestSplitStatements(t *testing.T) {
	script := "CREATE TABLE a (id INTEGER);\nCREATE TABLE b (id INTEGER);\n\nCREATE INDEX idx_b ON b (id);\n"
	stmts := splitStatements(script)
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d: %q", len(stmts), stmts)
	}
	for _, s := range stmts {
		if s == "" {
			t.Fatal("empty statement in output")
		}
	}
}

func TestDriverNameFor(t *testing.T) {
	if got := driverNameFor("postgres"); got != "pgx" {
		t.Fatalf("postgres should map to pgx, got %q", got)
	}
	if got := driverNameFor("sqlite"); got != "sqlite" {
		t.Fatalf("sqlite should pass through, got %q", got)
	}
	if got := driverNameFor("mysql"); got != "mysql" {
		t.Fatalf("mysql should pass through, got %q", got)
	}
}

func TestWaitForDB_ReachableImmediately(t *testing.T) {
	if err := WaitForDB("sqlite", ":memory:", 3, 10*time.Millisecond); err != nil {
		t.Fatalf("WaitForDB failed: %v", err)
	}
}

func TestInitDB_SetsGlobalStore(t *testing.T) {
	prev := store
	defer func() { store = prev }()

	if err := InitDB("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared"); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	if !IsInitialized() {
		t.Fatal("expected store to be initialized")
	}
	if _, ok := GetStore().(*SqliteStore); !ok {
		t.Fatalf("expected *SqliteStore, got %T", GetStore())
	}
}

func TestNewStoreFromDSN_UnknownType(t *testing.T) {
	if _, err := NewStoreFromDSN("oracle", "whatever"); err == nil {
		t.Fatal("expected error for unsupported db type")
	}
}
