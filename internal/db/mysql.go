// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for the survey tool.
// This file contains the MySQL implementation of the database store.
package db

import (
	"context"
	"encoding/json"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/uptrace/bun"

	"github.com/yadem01/backend-survey-tool/internal/model"
)

// MySQLStore is the MySQL implementation of the Store interface.
// Note: MySQL support is considered experimental.
type MySQLStore struct {
	bun *bun.DB
}

// BunDB exposes the underlying bun handle for helpers that need raw access.
func (s *MySQLStore) BunDB() *bun.DB { return s.bun }

func (s *MySQLStore) Ping(ctx context.Context) error {
	return s.bun.PingContext(ctx)
}

func (s *MySQLStore) CreateSurvey(sv *model.Survey) (int64, error) {
	return CreateSurveyBun(s.bun, sv)
}

func (s *MySQLStore) GetSurvey(id int64) (*model.Survey, error) {
	return GetSurveyBun(s.bun, id)
}

func (s *MySQLStore) GetAllSurveys() ([]model.Survey, error) {
	return GetAllSurveysBun(s.bun)
}

func (s *MySQLStore) UpdateSurvey(sv *model.Survey) error {
	return UpdateSurveyBun(s.bun, sv)
}

func (s *MySQLStore) DeleteSurvey(id int64) error {
	return DeleteSurveyBun(s.bun, id)
}

func (s *MySQLStore) CreateElement(e *model.SurveyElement) (int64, error) {
	return CreateElementBun(s.bun, e)
}

func (s *MySQLStore) GetElement(id int64) (*model.SurveyElement, error) {
	return GetElementBun(s.bun, id)
}

func (s *MySQLStore) GetElementsForSurvey(surveyID int64) ([]model.SurveyElement, error) {
	return GetElementsForSurveyBun(s.bun, surveyID)
}

func (s *MySQLStore) UpdateElement(e *model.SurveyElement) error {
	return UpdateElementBun(s.bun, e)
}

func (s *MySQLStore) DeleteElement(id int64) error {
	return DeleteElementBun(s.bun, id)
}

func (s *MySQLStore) ReplaceSurveyElements(surveyID int64, elements []model.SurveyElement) ([]model.SurveyElement, error) {
	return ReplaceSurveyElementsBun(s.bun, surveyID, elements)
}

func (s *MySQLStore) CreateParticipant(p *model.Participant) (int64, error) {
	return CreateParticipantBun(s.bun, p)
}

func (s *MySQLStore) GetParticipant(id int64) (*model.Participant, error) {
	return GetParticipantBun(s.bun, id)
}

func (s *MySQLStore) GetParticipantByProlificPID(pid string) (*model.Participant, error) {
	return GetParticipantByProlificPIDBun(s.bun, pid)
}

func (s *MySQLStore) GetParticipantsForSurvey(surveyID int64) ([]model.Participant, error) {
	return GetParticipantsForSurveyBun(s.bun, surveyID)
}

func (s *MySQLStore) RecordConsent(id int64) error {
	return RecordConsentBun(s.bun, id)
}

func (s *MySQLStore) CompleteParticipant(id int64, endTime time.Time, pageDurations json.RawMessage) error {
	return CompleteParticipantBun(s.bun, id, endTime, pageDurations)
}

func (s *MySQLStore) SetParticipantTestRun(id int64, isTestRun bool) error {
	return SetParticipantTestRunBun(s.bun, id, isTestRun)
}

func (s *MySQLStore) DeleteParticipant(id int64) error {
	return DeleteParticipantBun(s.bun, id)
}

func (s *MySQLStore) CreateResponse(r *model.Response) (int64, error) {
	return CreateResponseBun(s.bun, r)
}

func (s *MySQLStore) GetResponse(id int64) (*model.Response, error) {
	return GetResponseBun(s.bun, id)
}

func (s *MySQLStore) GetResponsesForParticipant(participantID int64) ([]model.Response, error) {
	return GetResponsesForParticipantBun(s.bun, participantID)
}

func (s *MySQLStore) GetResponsesForElement(elementID int64) ([]model.Response, error) {
	return GetResponsesForElementBun(s.bun, elementID)
}

func (s *MySQLStore) UpdateResponse(r *model.Response) error {
	return UpdateResponseBun(s.bun, r)
}

func (s *MySQLStore) DeleteResponse(id int64) error {
	return DeleteResponseBun(s.bun, id)
}

func (s *MySQLStore) CreateTrackingEvent(ev *model.TrackingEvent) (int64, error) {
	return CreateTrackingEventBun(s.bun, ev)
}

func (s *MySQLStore) GetTrackingForParticipant(participantID int64) ([]model.TrackingEvent, error) {
	return GetTrackingForParticipantBun(s.bun, participantID)
}

func (s *MySQLStore) CreateUpload(u *model.Upload) (int64, error) {
	return CreateUploadBun(s.bun, u)
}

func (s *MySQLStore) GetUploadByFilename(filename string) (*model.Upload, error) {
	return GetUploadByFilenameBun(s.bun, filename)
}

func (s *MySQLStore) GetAllUploads() ([]model.Upload, error) {
	return GetAllUploadsBun(s.bun)
}

func (s *MySQLStore) DeleteUpload(filename string) error {
	return DeleteUploadBun(s.bun, filename)
}

func (s *MySQLStore) ExportAllData() (*model.ExportData, error) {
	return ExportAllDataBun(s.bun)
}

func (s *MySQLStore) ExportSurveyData(surveyID int64) (*model.ExportData, error) {
	return ExportSurveyDataBun(s.bun, surveyID)
}

func (s *MySQLStore) ImportData(data *model.ExportData) error {
	return ImportDataBun(s.bun, data)
}
