// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/yadem01/backend-survey-tool/internal/model"
)

func mustCreateSurvey(t *testing.T, s Store, title string) *model.Survey {
	t.Helper()
	sv := &model.Survey{Title: title}
	if _, err := s.CreateSurvey(sv); err != nil {
		t.Fatalf("CreateSurvey(%q) failed: %v", title, err)
	}
	return sv
}

func mustCreateElement(t *testing.T, s Store, surveyID int64, page, ordering int) *model.SurveyElement {
	t.Helper()
	el := &model.SurveyElement{
		SurveyID:    surveyID,
		ElementType: model.ElementTypeQuestion,
		Page:        page,
		Ordering:    ordering,
	}
	if _, err := s.CreateElement(el); err != nil {
		t.Fatalf("CreateElement failed: %v", err)
	}
	return el
}

func mustCreateParticipant(t *testing.T, s Store, surveyID int64) *model.Participant {
	t.Helper()
	p := &model.Participant{SurveyID: surveyID}
	if _, err := s.CreateParticipant(p); err != nil {
		t.Fatalf("CreateParticipant failed: %v", err)
	}
	return p
}

func TestSurveyCRUD(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		sv := &model.Survey{
			Title:              "Reading comprehension",
			Description:        "pilot",
			Config:             json.RawMessage(`{"theme":"plain"}`),
			ProlificEnabled:    true,
			EnableMaxDuration:  true,
			MaxDurationMinutes: 45,
		}
		id, err := s.CreateSurvey(sv)
		if err != nil {
			t.Fatalf("CreateSurvey failed: %v", err)
		}
		if id == 0 || sv.ID != id {
			t.Fatalf("expected assigned id, got %d / %d", id, sv.ID)
		}
		if sv.CreatedAt.IsZero() || sv.UpdatedAt.IsZero() {
			t.Fatal("expected timestamps to be set on create")
		}

		got, err := s.GetSurvey(id)
		if err != nil {
			t.Fatalf("GetSurvey failed: %v", err)
		}
		if got.Title != sv.Title || got.Description != "pilot" {
			t.Fatalf("unexpected survey: %+v", got)
		}
		if string(got.Config) != `{"theme":"plain"}` {
			t.Fatalf("unexpected config: %s", got.Config)
		}
		if !got.ProlificEnabled || !got.EnableMaxDuration || got.MaxDurationMinutes != 45 {
			t.Fatalf("flags not persisted: %+v", got)
		}

		got.Title = "Reading comprehension v2"
		got.MaxDurationMinutes = 60
		if err := s.UpdateSurvey(got); err != nil {
			t.Fatalf("UpdateSurvey failed: %v", err)
		}
		updated, err := s.GetSurvey(id)
		if err != nil {
			t.Fatalf("GetSurvey after update failed: %v", err)
		}
		if updated.Title != "Reading comprehension v2" || updated.MaxDurationMinutes != 60 {
			t.Fatalf("update not persisted: %+v", updated)
		}
		if updated.UpdatedAt.Before(updated.CreatedAt) {
			t.Fatal("expected updated_at to move forward")
		}

		if err := s.DeleteSurvey(id); err != nil {
			t.Fatalf("DeleteSurvey failed: %v", err)
		}
		if _, err := s.GetSurvey(id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestGetAllSurveys_NewestFirst(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		first := mustCreateSurvey(t, s, "first")
		second := mustCreateSurvey(t, s, "second")

		all, err := s.GetAllSurveys()
		if err != nil {
			t.Fatalf("GetAllSurveys failed: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 surveys, got %d", len(all))
		}
		if all[0].ID != second.ID || all[1].ID != first.ID {
			t.Fatalf("expected newest first, got order %d, %d", all[0].ID, all[1].ID)
		}
	})
}

func TestUpdateSurvey_UnknownID(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		err := s.UpdateSurvey(&model.Survey{ID: 9999, Title: "ghost"})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestElementLifecycleAndOrdering(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		sv := mustCreateSurvey(t, s, "ordering")

		// Insert out of render order on purpose.
		e21 := mustCreateElement(t, s, sv.ID, 2, 1)
		e12 := mustCreateElement(t, s, sv.ID, 1, 2)
		e11 := mustCreateElement(t, s, sv.ID, 1, 1)

		elements, err := s.GetElementsForSurvey(sv.ID)
		if err != nil {
			t.Fatalf("GetElementsForSurvey failed: %v", err)
		}
		if len(elements) != 3 {
			t.Fatalf("expected 3 elements, got %d", len(elements))
		}
		wantOrder := []int64{e11.ID, e12.ID, e21.ID}
		for i, want := range wantOrder {
			if elements[i].ID != want {
				t.Fatalf("position %d: expected element %d, got %d", i, want, elements[i].ID)
			}
		}

		e11.QuestionText = "What did the author imply?"
		e11.Required = true
		e11.MaxLength = 500
		if err := s.UpdateElement(e11); err != nil {
			t.Fatalf("UpdateElement failed: %v", err)
		}
		got, err := s.GetElement(e11.ID)
		if err != nil {
			t.Fatalf("GetElement failed: %v", err)
		}
		if got.QuestionText != "What did the author imply?" || !got.Required || got.MaxLength != 500 {
			t.Fatalf("element update not persisted: %+v", got)
		}

		if err := s.DeleteElement(e21.ID); err != nil {
			t.Fatalf("DeleteElement failed: %v", err)
		}
		if _, err := s.GetElement(e21.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestReplaceSurveyElements(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		sv := mustCreateSurvey(t, s, "editor save")
		mustCreateElement(t, s, sv.ID, 1, 1)
		mustCreateElement(t, s, sv.ID, 1, 2)

		replacement := []model.SurveyElement{
			{ElementType: model.ElementTypeWelcome, Page: 1, Ordering: 1},
			{ElementType: model.ElementTypeQuestion, QuestionText: "New question", Page: 2, Ordering: 1},
			{ElementType: model.ElementTypeConsent, Page: 1, Ordering: 2},
		}
		stored, err := s.ReplaceSurveyElements(sv.ID, replacement)
		if err != nil {
			t.Fatalf("ReplaceSurveyElements failed: %v", err)
		}
		if len(stored) != 3 {
			t.Fatalf("expected 3 stored elements, got %d", len(stored))
		}
		for i, el := range stored {
			if el.ID == 0 {
				t.Fatalf("stored element %d has no id", i)
			}
			if el.SurveyID != sv.ID {
				t.Fatalf("stored element %d has survey %d", i, el.SurveyID)
			}
		}

		elements, err := s.GetElementsForSurvey(sv.ID)
		if err != nil {
			t.Fatalf("GetElementsForSurvey failed: %v", err)
		}
		if len(elements) != 3 {
			t.Fatalf("expected old elements gone, got %d elements", len(elements))
		}
		if elements[0].ElementType != model.ElementTypeWelcome {
			t.Fatalf("unexpected first element: %+v", elements[0])
		}
	})
}

func TestReplaceSurveyElements_UnknownSurvey(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		_, err := s.ReplaceSurveyElements(4242, []model.SurveyElement{
			{ElementType: model.ElementTypeInfo, Page: 1, Ordering: 1},
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestParticipantFlow(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		sv := mustCreateSurvey(t, s, "study")
		p := &model.Participant{
			SurveyID:    sv.ID,
			ProlificPID: "PID-123",
			StudyID:     "STUDY-1",
			SessionID:   "SESSION-9",
		}
		id, err := s.CreateParticipant(p)
		if err != nil {
			t.Fatalf("CreateParticipant failed: %v", err)
		}
		if p.StartTime.IsZero() {
			t.Fatal("expected start time default")
		}

		byPID, err := s.GetParticipantByProlificPID("PID-123")
		if err != nil {
			t.Fatalf("GetParticipantByProlificPID failed: %v", err)
		}
		if byPID.ID != id || byPID.StudyID != "STUDY-1" {
			t.Fatalf("unexpected participant: %+v", byPID)
		}

		if err := s.RecordConsent(id); err != nil {
			t.Fatalf("RecordConsent failed: %v", err)
		}

		end := time.Now().UTC().Add(20 * time.Minute)
		durations := json.RawMessage(`{"1":30500,"2":45200}`)
		if err := s.CompleteParticipant(id, end, durations); err != nil {
			t.Fatalf("CompleteParticipant failed: %v", err)
		}

		got, err := s.GetParticipant(id)
		if err != nil {
			t.Fatalf("GetParticipant failed: %v", err)
		}
		if !got.ConsentGiven || !got.Completed {
			t.Fatalf("expected consent and completion, got %+v", got)
		}
		if got.EndTime == nil || got.EndTime.IsZero() {
			t.Fatal("expected end time to be set")
		}
		if string(got.PageDurationsLog) != `{"1":30500,"2":45200}` {
			t.Fatalf("unexpected durations: %s", got.PageDurationsLog)
		}

		if err := s.SetParticipantTestRun(id, true); err != nil {
			t.Fatalf("SetParticipantTestRun failed: %v", err)
		}
		got, err = s.GetParticipant(id)
		if err != nil {
			t.Fatalf("GetParticipant failed: %v", err)
		}
		if !got.IsTestRun {
			t.Fatal("expected test-run flag to be set")
		}
	})
}

func TestCreateParticipant_DuplicateProlificPID(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		sv := mustCreateSurvey(t, s, "dup pid")
		if _, err := s.CreateParticipant(&model.Participant{SurveyID: sv.ID, ProlificPID: "PID-XYZ"}); err != nil {
			t.Fatalf("first CreateParticipant failed: %v", err)
		}
		_, err := s.CreateParticipant(&model.Participant{SurveyID: sv.ID, ProlificPID: "PID-XYZ"})
		if !errors.Is(err, ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})
}

func TestCreateParticipants_WithoutPID(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		// Anonymous participants carry no prolific pid; several must be
		// allowed despite the unique index.
		sv := mustCreateSurvey(t, s, "anonymous")
		mustCreateParticipant(t, s, sv.ID)
		mustCreateParticipant(t, s, sv.ID)

		participants, err := s.GetParticipantsForSurvey(sv.ID)
		if err != nil {
			t.Fatalf("GetParticipantsForSurvey failed: %v", err)
		}
		if len(participants) != 2 {
			t.Fatalf("expected 2 participants, got %d", len(participants))
		}
	})
}

func TestResponseCRUD(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		sv := mustCreateSurvey(t, s, "responses")
		el := mustCreateElement(t, s, sv.ID, 1, 1)
		p := mustCreateParticipant(t, s, sv.ID)

		r := &model.Response{
			ParticipantID:   p.ID,
			SurveyElementID: el.ID,
			ResponseValue:   json.RawMessage(`"strongly agree"`),
			PasteCount:      2,
			DisplayedPage:   3,
		}
		id, err := s.CreateResponse(r)
		if err != nil {
			t.Fatalf("CreateResponse failed: %v", err)
		}
		if r.CreatedAt.IsZero() {
			t.Fatal("expected created_at default")
		}

		got, err := s.GetResponse(id)
		if err != nil {
			t.Fatalf("GetResponse failed: %v", err)
		}
		if string(got.ResponseValue) != `"strongly agree"` || got.PasteCount != 2 || got.DisplayedPage != 3 {
			t.Fatalf("unexpected response: %+v", got)
		}

		got.ResponseValue = json.RawMessage(`"agree"`)
		got.FocusLostCount = 1
		if err := s.UpdateResponse(got); err != nil {
			t.Fatalf("UpdateResponse failed: %v", err)
		}
		updated, err := s.GetResponse(id)
		if err != nil {
			t.Fatalf("GetResponse after update failed: %v", err)
		}
		if string(updated.ResponseValue) != `"agree"` || updated.FocusLostCount != 1 {
			t.Fatalf("update not persisted: %+v", updated)
		}

		forParticipant, err := s.GetResponsesForParticipant(p.ID)
		if err != nil {
			t.Fatalf("GetResponsesForParticipant failed: %v", err)
		}
		forElement, err := s.GetResponsesForElement(el.ID)
		if err != nil {
			t.Fatalf("GetResponsesForElement failed: %v", err)
		}
		if len(forParticipant) != 1 || len(forElement) != 1 {
			t.Fatalf("expected 1 response each, got %d / %d", len(forParticipant), len(forElement))
		}

		if err := s.DeleteResponse(id); err != nil {
			t.Fatalf("DeleteResponse failed: %v", err)
		}
		if _, err := s.GetResponse(id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestTrackingEvents(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		sv := mustCreateSurvey(t, s, "tracking")
		el := mustCreateElement(t, s, sv.ID, 1, 1)
		p := mustCreateParticipant(t, s, sv.ID)

		for i := 0; i < 3; i++ {
			ev := &model.TrackingEvent{
				ParticipantID:     p.ID,
				SurveyID:          sv.ID,
				ElementID:         el.ID,
				TimeTakenMs:       1000 * (i + 1),
				TabSwitches:       i,
				CopyPasteDetected: i == 2,
			}
			if _, err := s.CreateTrackingEvent(ev); err != nil {
				t.Fatalf("CreateTrackingEvent failed: %v", err)
			}
		}

		events, err := s.GetTrackingForParticipant(p.ID)
		if err != nil {
			t.Fatalf("GetTrackingForParticipant failed: %v", err)
		}
		if len(events) != 3 {
			t.Fatalf("expected 3 events, got %d", len(events))
		}
		if events[2].TimeTakenMs != 3000 || !events[2].CopyPasteDetected {
			t.Fatalf("unexpected last event: %+v", events[2])
		}
	})
}

func TestDeleteSurvey_CascadesDependents(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		sv := mustCreateSurvey(t, s, "cascade")
		el := mustCreateElement(t, s, sv.ID, 1, 1)
		p := mustCreateParticipant(t, s, sv.ID)
		if _, err := s.CreateResponse(&model.Response{ParticipantID: p.ID, SurveyElementID: el.ID}); err != nil {
			t.Fatalf("CreateResponse failed: %v", err)
		}
		if _, err := s.CreateTrackingEvent(&model.TrackingEvent{ParticipantID: p.ID, SurveyID: sv.ID, ElementID: el.ID}); err != nil {
			t.Fatalf("CreateTrackingEvent failed: %v", err)
		}

		// An unrelated survey must survive the cascade untouched.
		other := mustCreateSurvey(t, s, "bystander")
		otherEl := mustCreateElement(t, s, other.ID, 1, 1)

		if err := s.DeleteSurvey(sv.ID); err != nil {
			t.Fatalf("DeleteSurvey failed: %v", err)
		}

		if _, err := s.GetElement(el.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected element gone, got %v", err)
		}
		if _, err := s.GetParticipant(p.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected participant gone, got %v", err)
		}
		responses, err := s.GetResponsesForParticipant(p.ID)
		if err != nil || len(responses) != 0 {
			t.Fatalf("expected no responses, got %d (%v)", len(responses), err)
		}
		events, err := s.GetTrackingForParticipant(p.ID)
		if err != nil || len(events) != 0 {
			t.Fatalf("expected no tracking, got %d (%v)", len(events), err)
		}

		if _, err := s.GetElement(otherEl.ID); err != nil {
			t.Fatalf("bystander element should survive: %v", err)
		}
	})
}

func TestDeleteParticipant_CascadesDependents(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		sv := mustCreateSurvey(t, s, "participant cascade")
		el := mustCreateElement(t, s, sv.ID, 1, 1)
		p := mustCreateParticipant(t, s, sv.ID)
		if _, err := s.CreateResponse(&model.Response{ParticipantID: p.ID, SurveyElementID: el.ID}); err != nil {
			t.Fatalf("CreateResponse failed: %v", err)
		}
		if _, err := s.CreateTrackingEvent(&model.TrackingEvent{ParticipantID: p.ID, SurveyID: sv.ID, ElementID: el.ID}); err != nil {
			t.Fatalf("CreateTrackingEvent failed: %v", err)
		}

		if err := s.DeleteParticipant(p.ID); err != nil {
			t.Fatalf("DeleteParticipant failed: %v", err)
		}
		responses, err := s.GetResponsesForElement(el.ID)
		if err != nil || len(responses) != 0 {
			t.Fatalf("expected responses gone, got %d (%v)", len(responses), err)
		}
		// The element itself stays.
		if _, err := s.GetElement(el.ID); err != nil {
			t.Fatalf("element should survive participant delete: %v", err)
		}
	})
}

func TestUploadMetadata(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		u := &model.Upload{
			Filename:     "3f2c6f40.png",
			OriginalName: "diagram.png",
			Size:         1024,
			MimeType:     "image/png",
		}
		if _, err := s.CreateUpload(u); err != nil {
			t.Fatalf("CreateUpload failed: %v", err)
		}

		got, err := s.GetUploadByFilename("3f2c6f40.png")
		if err != nil {
			t.Fatalf("GetUploadByFilename failed: %v", err)
		}
		if got.OriginalName != "diagram.png" || got.Size != 1024 {
			t.Fatalf("unexpected upload: %+v", got)
		}

		// Generated names are unique.
		_, err = s.CreateUpload(&model.Upload{Filename: "3f2c6f40.png", OriginalName: "other.png", MimeType: "image/png"})
		if !errors.Is(err, ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}

		all, err := s.GetAllUploads()
		if err != nil || len(all) != 1 {
			t.Fatalf("expected 1 upload, got %d (%v)", len(all), err)
		}

		if err := s.DeleteUpload("3f2c6f40.png"); err != nil {
			t.Fatalf("DeleteUpload failed: %v", err)
		}
		if _, err := s.GetUploadByFilename("3f2c6f40.png"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestExportImport_Roundtrip(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		sv := mustCreateSurvey(t, s, "export me")
		el := mustCreateElement(t, s, sv.ID, 1, 1)
		p := mustCreateParticipant(t, s, sv.ID)
		if _, err := s.CreateResponse(&model.Response{ParticipantID: p.ID, SurveyElementID: el.ID, ResponseValue: json.RawMessage(`42`)}); err != nil {
			t.Fatalf("CreateResponse failed: %v", err)
		}

		data, err := s.ExportAllData()
		if err != nil {
			t.Fatalf("ExportAllData failed: %v", err)
		}
		if data.SchemaVersion != model.ExportSchemaVersion {
			t.Fatalf("unexpected schema version %d", data.SchemaVersion)
		}
		if len(data.Surveys) != 1 || len(data.Elements) != 1 || len(data.Participants) != 1 || len(data.Responses) != 1 {
			t.Fatalf("unexpected export counts: %+v", data)
		}

		// Import into a fresh database.
		target, err := NewStoreFromDSN("sqlite", "file:"+t.Name()+"_target?mode=memory&cache=shared")
		if err != nil {
			t.Fatalf("NewStoreFromDSN failed: %v", err)
		}
		if err := target.ImportData(data); err != nil {
			t.Fatalf("ImportData failed: %v", err)
		}
		imported, err := target.GetSurvey(sv.ID)
		if err != nil {
			t.Fatalf("GetSurvey on target failed: %v", err)
		}
		if imported.Title != "export me" {
			t.Fatalf("unexpected imported survey: %+v", imported)
		}

		// Importing the same snapshot again must not duplicate rows.
		if err := target.ImportData(data); err != nil {
			t.Fatalf("second ImportData failed: %v", err)
		}
		all, err := target.GetAllSurveys()
		if err != nil || len(all) != 1 {
			t.Fatalf("expected 1 survey after re-import, got %d (%v)", len(all), err)
		}
	})
}

func TestExportSurveyData_ScopedToSurvey(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		keep := mustCreateSurvey(t, s, "keep")
		mustCreateElement(t, s, keep.ID, 1, 1)
		other := mustCreateSurvey(t, s, "other")
		mustCreateElement(t, s, other.ID, 1, 1)
		mustCreateParticipant(t, s, other.ID)

		data, err := s.ExportSurveyData(keep.ID)
		if err != nil {
			t.Fatalf("ExportSurveyData failed: %v", err)
		}
		if len(data.Surveys) != 1 || data.Surveys[0].ID != keep.ID {
			t.Fatalf("unexpected surveys in export: %+v", data.Surveys)
		}
		if len(data.Elements) != 1 || data.Elements[0].SurveyID != keep.ID {
			t.Fatalf("unexpected elements in export: %+v", data.Elements)
		}
		if len(data.Participants) != 0 {
			t.Fatalf("expected no foreign participants, got %d", len(data.Participants))
		}
	})
}

func TestStorePing(t *testing.T) {
	WithTestStore(t, func(s *SqliteStore) {
		if err := s.Ping(context.Background()); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})
}
