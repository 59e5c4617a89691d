// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for the survey tool.
// This file contains the SQLite implementation of the database store.
package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/yadem01/backend-survey-tool/internal/model"
)

// SqliteStore is the SQLite implementation of the Store interface. It is
// the development default and carries the whole test suite.
type SqliteStore struct {
	bun *bun.DB
}

// BunDB exposes the underlying bun handle for helpers that need raw access.
func (s *SqliteStore) BunDB() *bun.DB { return s.bun }

func (s *SqliteStore) Ping(ctx context.Context) error {
	return s.bun.PingContext(ctx)
}

func (s *SqliteStore) CreateSurvey(sv *model.Survey) (int64, error) {
	return CreateSurveyBun(s.bun, sv)
}

func (s *SqliteStore) GetSurvey(id int64) (*model.Survey, error) {
	return GetSurveyBun(s.bun, id)
}

func (s *SqliteStore) GetAllSurveys() ([]model.Survey, error) {
	return GetAllSurveysBun(s.bun)
}

func (s *SqliteStore) UpdateSurvey(sv *model.Survey) error {
	return UpdateSurveyBun(s.bun, sv)
}

func (s *SqliteStore) DeleteSurvey(id int64) error {
	return DeleteSurveyBun(s.bun, id)
}

func (s *SqliteStore) CreateElement(e *model.SurveyElement) (int64, error) {
	return CreateElementBun(s.bun, e)
}

func (s *SqliteStore) GetElement(id int64) (*model.SurveyElement, error) {
	return GetElementBun(s.bun, id)
}

func (s *SqliteStore) GetElementsForSurvey(surveyID int64) ([]model.SurveyElement, error) {
	return GetElementsForSurveyBun(s.bun, surveyID)
}

func (s *SqliteStore) UpdateElement(e *model.SurveyElement) error {
	return UpdateElementBun(s.bun, e)
}

func (s *SqliteStore) DeleteElement(id int64) error {
	return DeleteElementBun(s.bun, id)
}

func (s *SqliteStore) ReplaceSurveyElements(surveyID int64, elements []model.SurveyElement) ([]model.SurveyElement, error) {
	return ReplaceSurveyElementsBun(s.bun, surveyID, elements)
}

func (s *SqliteStore) CreateParticipant(p *model.Participant) (int64, error) {
	return CreateParticipantBun(s.bun, p)
}

func (s *SqliteStore) GetParticipant(id int64) (*model.Participant, error) {
	return GetParticipantBun(s.bun, id)
}

func (s *SqliteStore) GetParticipantByProlificPID(pid string) (*model.Participant, error) {
	return GetParticipantByProlificPIDBun(s.bun, pid)
}

func (s *SqliteStore) GetParticipantsForSurvey(surveyID int64) ([]model.Participant, error) {
	return GetParticipantsForSurveyBun(s.bun, surveyID)
}

func (s *SqliteStore) RecordConsent(id int64) error {
	return RecordConsentBun(s.bun, id)
}

func (s *SqliteStore) CompleteParticipant(id int64, endTime time.Time, pageDurations json.RawMessage) error {
	return CompleteParticipantBun(s.bun, id, endTime, pageDurations)
}

func (s *SqliteStore) SetParticipantTestRun(id int64, isTestRun bool) error {
	return SetParticipantTestRunBun(s.bun, id, isTestRun)
}

func (s *SqliteStore) DeleteParticipant(id int64) error {
	return DeleteParticipantBun(s.bun, id)
}

func (s *SqliteStore) CreateResponse(r *model.Response) (int64, error) {
	return CreateResponseBun(s.bun, r)
}

func (s *SqliteStore) GetResponse(id int64) (*model.Response, error) {
	return GetResponseBun(s.bun, id)
}

func (s *SqliteStore) GetResponsesForParticipant(participantID int64) ([]model.Response, error) {
	return GetResponsesForParticipantBun(s.bun, participantID)
}

func (s *SqliteStore) GetResponsesForElement(elementID int64) ([]model.Response, error) {
	return GetResponsesForElementBun(s.bun, elementID)
}

func (s *SqliteStore) UpdateResponse(r *model.Response) error {
	return UpdateResponseBun(s.bun, r)
}

func (s *SqliteStore) DeleteResponse(id int64) error {
	return DeleteResponseBun(s.bun, id)
}

func (s *SqliteStore) CreateTrackingEvent(ev *model.TrackingEvent) (int64, error) {
	return CreateTrackingEventBun(s.bun, ev)
}

func (s *SqliteStore) GetTrackingForParticipant(participantID int64) ([]model.TrackingEvent, error) {
	return GetTrackingForParticipantBun(s.bun, participantID)
}

func (s *SqliteStore) CreateUpload(u *model.Upload) (int64, error) {
	return CreateUploadBun(s.bun, u)
}

func (s *SqliteStore) GetUploadByFilename(filename string) (*model.Upload, error) {
	return GetUploadByFilenameBun(s.bun, filename)
}

func (s *SqliteStore) GetAllUploads() ([]model.Upload, error) {
	return GetAllUploadsBun(s.bun)
}

func (s *SqliteStore) DeleteUpload(filename string) error {
	return DeleteUploadBun(s.bun, filename)
}

func (s *SqliteStore) ExportAllData() (*model.ExportData, error) {
	return ExportAllDataBun(s.bun)
}

func (s *SqliteStore) ExportSurveyData(surveyID int64) (*model.ExportData, error) {
	return ExportSurveyDataBun(s.bun, surveyID)
}

func (s *SqliteStore) ImportData(data *model.ExportData) error {
	return ImportDataBun(s.bun, data)
}
