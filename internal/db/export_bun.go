// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/yadem01/backend-survey-tool/internal/model"
)

// ExportAllDataBun reads every table into an ExportData container.
func ExportAllDataBun(bdb *bun.DB) (*model.ExportData, error) {
	data := &model.ExportData{SchemaVersion: model.ExportSchemaVersion}

	surveys, err := GetAllSurveysBun(bdb)
	if err != nil {
		return nil, fmt.Errorf("failed to export surveys: %w", err)
	}
	data.Surveys = surveys

	for _, s := range surveys {
		elements, err := GetElementsForSurveyBun(bdb, s.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to export elements for survey %d: %w", s.ID, err)
		}
		data.Elements = append(data.Elements, elements...)

		participants, err := GetParticipantsForSurveyBun(bdb, s.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to export participants for survey %d: %w", s.ID, err)
		}
		data.Participants = append(data.Participants, participants...)

		for _, p := range participants {
			responses, err := GetResponsesForParticipantBun(bdb, p.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to export responses for %s: %w", p, err)
			}
			data.Responses = append(data.Responses, responses...)

			tracking, err := GetTrackingForParticipantBun(bdb, p.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to export tracking for %s: %w", p, err)
			}
			data.TrackingEvents = append(data.TrackingEvents, tracking...)
		}
	}

	uploads, err := GetAllUploadsBun(bdb)
	if err != nil {
		return nil, fmt.Errorf("failed to export uploads: %w", err)
	}
	data.Uploads = uploads

	return data, nil
}

// ExportSurveyDataBun reads one survey and its dependent rows into an
// ExportData container. Upload metadata is global and not included.
func ExportSurveyDataBun(bdb *bun.DB, surveyID int64) (*model.ExportData, error) {
	survey, err := GetSurveyBun(bdb, surveyID)
	if err != nil {
		return nil, err
	}

	data := &model.ExportData{
		SchemaVersion: model.ExportSchemaVersion,
		Surveys:       []model.Survey{*survey},
	}

	data.Elements, err = GetElementsForSurveyBun(bdb, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to export elements for survey %d: %w", surveyID, err)
	}

	data.Participants, err = GetParticipantsForSurveyBun(bdb, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to export participants for survey %d: %w", surveyID, err)
	}

	for _, p := range data.Participants {
		responses, err := GetResponsesForParticipantBun(bdb, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to export responses for %s: %w", p, err)
		}
		data.Responses = append(data.Responses, responses...)

		tracking, err := GetTrackingForParticipantBun(bdb, p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to export tracking for %s: %w", p, err)
		}
		data.TrackingEvents = append(data.TrackingEvents, tracking...)
	}

	return data, nil
}

// ImportDataBun restores a dump non-destructively inside one transaction:
// rows whose IDs already exist are left untouched, everything else is
// inserted with its original ID so cross-table references stay intact.
func ImportDataBun(bdb *bun.DB, data *model.ExportData) error {
	if data == nil {
		return fmt.Errorf("no import data provided")
	}
	ctx := context.Background()
	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for i := range data.Surveys {
		s := data.Surveys[i]
		if err := insertUnlessExists(ctx, tx, "surveys", s.ID, surveyToBunModel(&s)); err != nil {
			return fmt.Errorf("failed to import survey %d: %w", s.ID, err)
		}
	}
	for i := range data.Elements {
		e := data.Elements[i]
		if err := insertUnlessExists(ctx, tx, "survey_elements", e.ID, elementToBunModel(&e)); err != nil {
			return fmt.Errorf("failed to import element %d: %w", e.ID, err)
		}
	}
	for i := range data.Participants {
		p := data.Participants[i]
		if err := insertUnlessExists(ctx, tx, "survey_participants", p.ID, participantToBunModel(&p)); err != nil {
			return fmt.Errorf("failed to import participant %d: %w", p.ID, err)
		}
	}
	for i := range data.Responses {
		r := data.Responses[i]
		if err := insertUnlessExists(ctx, tx, "responses", r.ID, responseToBunModel(&r)); err != nil {
			return fmt.Errorf("failed to import response %d: %w", r.ID, err)
		}
	}
	for i := range data.TrackingEvents {
		ev := data.TrackingEvents[i]
		tm := &TrackingEventModel{
			ID:                ev.ID,
			ParticipantID:     ev.ParticipantID,
			SurveyID:          ev.SurveyID,
			ElementID:         ev.ElementID,
			TimeTakenMs:       ev.TimeTakenMs,
			CopyPasteDetected: ev.CopyPasteDetected,
			TabSwitches:       ev.TabSwitches,
			WindowBlur:        ev.WindowBlur,
			IdleTimeMs:        ev.IdleTimeMs,
		}
		if err := insertUnlessExists(ctx, tx, "tracking_events", ev.ID, tm); err != nil {
			return fmt.Errorf("failed to import tracking event %d: %w", ev.ID, err)
		}
	}
	for i := range data.Uploads {
		u := data.Uploads[i]
		um := &UploadModel{
			ID:           u.ID,
			Filename:     u.Filename,
			OriginalName: u.OriginalName,
			Size:         u.Size,
			MimeType:     u.MimeType,
			CreatedAt:    u.CreatedAt,
		}
		if err := insertUnlessExists(ctx, tx, "uploads", u.ID, um); err != nil {
			return fmt.Errorf("failed to import upload %d: %w", u.ID, err)
		}
	}

	return tx.Commit()
}

// insertUnlessExists inserts a row with its explicit primary key unless a
// row with that ID is already present.
func insertUnlessExists(ctx context.Context, tx bun.Tx, table string, id int64, m any) error {
	var exists int
	if err := QueryRawInto(ctx, tx, &exists, fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id = ?", table), id); err != nil {
		return err
	}
	if exists > 0 {
		return nil
	}
	_, err := tx.NewInsert().Model(m).Exec(ctx)
	return MapDBError(err)
}
