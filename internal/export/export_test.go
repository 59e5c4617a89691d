package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/yadem01/backend-survey-tool/internal/model"
)

func TestWriteReadBackup_Roundtrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	data := &model.ExportData{
		SchemaVersion: model.ExportSchemaVersion,
		Surveys: []model.Survey{
			{ID: 1, Title: "Pilot study", Config: json.RawMessage(`{"theme":"plain"}`), CreatedAt: now, UpdatedAt: now},
		},
		Elements: []model.SurveyElement{
			{ID: 3, SurveyID: 1, ElementType: model.ElementTypeQuestion, Ordering: 1, Page: 1},
		},
	}

	var buf bytes.Buffer
	if err := WriteBackup(data, &buf); err != nil {
		t.Fatalf("WriteBackup failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected compressed output, got empty buffer")
	}

	got, err := ReadBackup(&buf)
	if err != nil {
		t.Fatalf("ReadBackup failed: %v", err)
	}
	if len(got.Surveys) != 1 || got.Surveys[0].Title != "Pilot study" {
		t.Fatalf("unexpected surveys after roundtrip: %+v", got.Surveys)
	}
	if len(got.Elements) != 1 || got.Elements[0].SurveyID != 1 {
		t.Fatalf("unexpected elements after roundtrip: %+v", got.Elements)
	}
}

func TestReadBackup_RejectsNewerSchema(t *testing.T) {
	data := &model.ExportData{SchemaVersion: model.ExportSchemaVersion + 1}

	var buf bytes.Buffer
	if err := WriteBackup(data, &buf); err != nil {
		t.Fatalf("WriteBackup failed: %v", err)
	}
	if _, err := ReadBackup(&buf); err == nil {
		t.Fatal("expected error for newer schema version")
	}
}

func TestReadBackup_RejectsGarbage(t *testing.T) {
	if _, err := ReadBackup(bytes.NewReader([]byte("not a backup"))); err == nil {
		t.Fatal("expected error for non-zstd input")
	}
}
