// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"encoding/json"
	"testing"
)

func TestParticipantString(t *testing.T) {
	p := Participant{ID: 7}
	if got := p.String(); got != "participant 7" {
		t.Errorf("unexpected Participant.String(): %q", got)
	}

	p.ProlificPID = "PID-42"
	if got := p.String(); got != "participant 7 (prolific PID-42)" {
		t.Errorf("unexpected Participant.String() with pid: %q", got)
	}
}

func TestSurveyJSONOmitsEmptyOptionals(t *testing.T) {
	data, err := json.Marshal(Survey{ID: 1, Title: "t"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{"description", "config", "prolific_completion_url", "max_duration_minutes"} {
		if jsonHasKey(t, data, key) {
			t.Errorf("expected %q to be omitted when empty", key)
		}
	}
}

func TestResponseValueRoundtripsRawJSON(t *testing.T) {
	r := Response{ResponseValue: json.RawMessage(`["a","b"]`)}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Response
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(back.ResponseValue) != `["a","b"]` {
		t.Errorf("raw value mangled: %s", back.ResponseValue)
	}
}

func jsonHasKey(t *testing.T, data []byte, key string) bool {
	t.Helper()
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	_, ok := m[key]
	return ok
}
