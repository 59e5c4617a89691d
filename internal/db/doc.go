// Package db contains the data-access layer of the survey tool.
//
// It abstracts the underlying database (SQLite, PostgreSQL, or MySQL)
// behind a single Store interface so the rest of the application can
// persist surveys, elements, participants, responses, tracking events and
// upload metadata without caring about the engine.
//
// The concrete stores are thin per-dialect wrappers over a shared set of
// Bun query helpers in bun_adapter.go. Schema management is handled by
// ordered SQL migration files embedded per dialect under migrations/;
// NewStoreFromDSN applies pending migrations before it returns a usable
// store, so a store that exists is always schema-current.
//
// Testing notes
//   - Prefer db.InitDB("sqlite", "file:NAME?mode=memory&cache=shared") in
//     tests that need real DB semantics and migrations.
//   - WithTestStore (testhelpers_test.go) wraps that pattern and restores
//     package globals afterwards.
package db
