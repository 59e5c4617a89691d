// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"strings"
	"testing"
)

func TestParseDatabaseURL(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		wantType string
		wantDSN  string
		wantErr  bool
	}{
		{"sqlite scheme", "sqlite:./surveys.db", "sqlite", "./surveys.db", false},
		{"sqlite double slash", "sqlite:///data/surveys.db", "sqlite", "data/surveys.db", false},
		{"bare path", "./surveys.db", "sqlite", "./surveys.db", false},
		{"postgres passthrough", "postgres://svc:pw@db:5432/surveys?sslmode=disable", "postgres", "postgres://svc:pw@db:5432/surveys?sslmode=disable", false},
		{"postgresql alias", "postgresql://svc@db/surveys", "postgres", "postgresql://svc@db/surveys", false},
		{"empty", "", "", "", true},
		{"unknown scheme", "mongodb://db/surveys", "", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotType, gotDSN, err := ParseDatabaseURL(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDatabaseURL(%q) failed: %v", tc.raw, err)
			}
			if gotType != tc.wantType || gotDSN != tc.wantDSN {
				t.Fatalf("got (%q, %q), want (%q, %q)", gotType, gotDSN, tc.wantType, tc.wantDSN)
			}
		})
	}
}

func TestParseDatabaseURL_MySQL(t *testing.T) {
	dbType, dsn, err := ParseDatabaseURL("mysql://svc:pw@db:3307/surveys")
	if err != nil {
		t.Fatalf("ParseDatabaseURL failed: %v", err)
	}
	if dbType != "mysql" {
		t.Fatalf("expected mysql, got %q", dbType)
	}
	if !strings.HasPrefix(dsn, "svc:pw@tcp(db:3307)/surveys?") {
		t.Fatalf("unexpected dsn: %q", dsn)
	}
	if !strings.Contains(dsn, "parseTime=true") {
		t.Fatalf("expected parseTime=true in dsn: %q", dsn)
	}
}

func TestParseDatabaseURL_MySQLDefaultsPort(t *testing.T) {
	_, dsn, err := ParseDatabaseURL("mysql://svc@db/surveys")
	if err != nil {
		t.Fatalf("ParseDatabaseURL failed: %v", err)
	}
	if !strings.Contains(dsn, "tcp(db:3306)") {
		t.Fatalf("expected default port 3306, got %q", dsn)
	}
}

func TestParseDatabaseURL_MySQLMissingDatabase(t *testing.T) {
	if _, _, err := ParseDatabaseURL("mysql://svc@db/"); err == nil {
		t.Fatal("expected error for missing database name")
	}
}
