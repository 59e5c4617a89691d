// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
)

func TestMapDBError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"wrapped no rows", fmt.Errorf("query: %w", sql.ErrNoRows), ErrNotFound},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: survey_participants.prolific_pid"), ErrDuplicate},
		{"postgres unique", errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"), ErrDuplicate},
		{"mysql duplicate", errors.New("Error 1062: Duplicate entry 'PID-1' for key 'idx_participants_prolific_pid'"), ErrDuplicate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapDBError(tc.in)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if !errors.Is(got, tc.want) {
				t.Fatalf("MapDBError(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestMapDBError_PassthroughUnknown(t *testing.T) {
	in := errors.New("disk I/O error")
	if got := MapDBError(in); got != in {
		t.Fatalf("expected passthrough, got %v", got)
	}
}
