// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for the survey tool.
// This file contains the PostgreSQL implementation of the database store.
package db

import (
	"context"
	"encoding/json"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/uptrace/bun"

	"github.com/yadem01/backend-survey-tool/internal/model"
)

// PostgresStore is the PostgreSQL implementation of the Store interface,
// used in production deployments.
type PostgresStore struct {
	bun *bun.DB
}

// BunDB exposes the underlying bun handle for helpers that need raw access.
func (s *PostgresStore) BunDB() *bun.DB { return s.bun }

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.bun.PingContext(ctx)
}

func (s *PostgresStore) CreateSurvey(sv *model.Survey) (int64, error) {
	return CreateSurveyBun(s.bun, sv)
}

func (s *PostgresStore) GetSurvey(id int64) (*model.Survey, error) {
	return GetSurveyBun(s.bun, id)
}

func (s *PostgresStore) GetAllSurveys() ([]model.Survey, error) {
	return GetAllSurveysBun(s.bun)
}

func (s *PostgresStore) UpdateSurvey(sv *model.Survey) error {
	return UpdateSurveyBun(s.bun, sv)
}

func (s *PostgresStore) DeleteSurvey(id int64) error {
	return DeleteSurveyBun(s.bun, id)
}

func (s *PostgresStore) CreateElement(e *model.SurveyElement) (int64, error) {
	return CreateElementBun(s.bun, e)
}

func (s *PostgresStore) GetElement(id int64) (*model.SurveyElement, error) {
	return GetElementBun(s.bun, id)
}

func (s *PostgresStore) GetElementsForSurvey(surveyID int64) ([]model.SurveyElement, error) {
	return GetElementsForSurveyBun(s.bun, surveyID)
}

func (s *PostgresStore) UpdateElement(e *model.SurveyElement) error {
	return UpdateElementBun(s.bun, e)
}

func (s *PostgresStore) DeleteElement(id int64) error {
	return DeleteElementBun(s.bun, id)
}

func (s *PostgresStore) ReplaceSurveyElements(surveyID int64, elements []model.SurveyElement) ([]model.SurveyElement, error) {
	return ReplaceSurveyElementsBun(s.bun, surveyID, elements)
}

func (s *PostgresStore) CreateParticipant(p *model.Participant) (int64, error) {
	return CreateParticipantBun(s.bun, p)
}

func (s *PostgresStore) GetParticipant(id int64) (*model.Participant, error) {
	return GetParticipantBun(s.bun, id)
}

func (s *PostgresStore) GetParticipantByProlificPID(pid string) (*model.Participant, error) {
	return GetParticipantByProlificPIDBun(s.bun, pid)
}

func (s *PostgresStore) GetParticipantsForSurvey(surveyID int64) ([]model.Participant, error) {
	return GetParticipantsForSurveyBun(s.bun, surveyID)
}

func (s *PostgresStore) RecordConsent(id int64) error {
	return RecordConsentBun(s.bun, id)
}

func (s *PostgresStore) CompleteParticipant(id int64, endTime time.Time, pageDurations json.RawMessage) error {
	return CompleteParticipantBun(s.bun, id, endTime, pageDurations)
}

func (s *PostgresStore) SetParticipantTestRun(id int64, isTestRun bool) error {
	return SetParticipantTestRunBun(s.bun, id, isTestRun)
}

func (s *PostgresStore) DeleteParticipant(id int64) error {
	return DeleteParticipantBun(s.bun, id)
}

func (s *PostgresStore) CreateResponse(r *model.Response) (int64, error) {
	return CreateResponseBun(s.bun, r)
}

func (s *PostgresStore) GetResponse(id int64) (*model.Response, error) {
	return GetResponseBun(s.bun, id)
}

func (s *PostgresStore) GetResponsesForParticipant(participantID int64) ([]model.Response, error) {
	return GetResponsesForParticipantBun(s.bun, participantID)
}

func (s *PostgresStore) GetResponsesForElement(elementID int64) ([]model.Response, error) {
	return GetResponsesForElementBun(s.bun, elementID)
}

func (s *PostgresStore) UpdateResponse(r *model.Response) error {
	return UpdateResponseBun(s.bun, r)
}

func (s *PostgresStore) DeleteResponse(id int64) error {
	return DeleteResponseBun(s.bun, id)
}

func (s *PostgresStore) CreateTrackingEvent(ev *model.TrackingEvent) (int64, error) {
	return CreateTrackingEventBun(s.bun, ev)
}

func (s *PostgresStore) GetTrackingForParticipant(participantID int64) ([]model.TrackingEvent, error) {
	return GetTrackingForParticipantBun(s.bun, participantID)
}

func (s *PostgresStore) CreateUpload(u *model.Upload) (int64, error) {
	return CreateUploadBun(s.bun, u)
}

func (s *PostgresStore) GetUploadByFilename(filename string) (*model.Upload, error) {
	return GetUploadByFilenameBun(s.bun, filename)
}

func (s *PostgresStore) GetAllUploads() ([]model.Upload, error) {
	return GetAllUploadsBun(s.bun)
}

func (s *PostgresStore) DeleteUpload(filename string) error {
	return DeleteUploadBun(s.bun, filename)
}

func (s *PostgresStore) ExportAllData() (*model.ExportData, error) {
	return ExportAllDataBun(s.bun)
}

func (s *PostgresStore) ExportSurveyData(surveyID int64) (*model.ExportData, error) {
	return ExportSurveyDataBun(s.bun, surveyID)
}

func (s *PostgresStore) ImportData(data *model.ExportData) error {
	return ImportDataBun(s.bun, data)
}
