// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yadem01/backend-survey-tool/internal/model"
)

// Store defines the interface for all database operations of the survey
// tool. This allows for multiple database backends to be implemented.
type Store interface {
	// Ping verifies database connectivity; used by the readiness probe.
	Ping(ctx context.Context) error

	// Survey methods
	CreateSurvey(s *model.Survey) (int64, error)
	GetSurvey(id int64) (*model.Survey, error)
	GetAllSurveys() ([]model.Survey, error)
	UpdateSurvey(s *model.Survey) error
	DeleteSurvey(id int64) error

	// Survey element methods
	CreateElement(e *model.SurveyElement) (int64, error)
	GetElement(id int64) (*model.SurveyElement, error)
	GetElementsForSurvey(surveyID int64) ([]model.SurveyElement, error)
	UpdateElement(e *model.SurveyElement) error
	DeleteElement(id int64) error
	// ReplaceSurveyElements atomically replaces the element set of a
	// survey with the given elements, preserving their order. Returns the
	// stored elements with assigned IDs.
	ReplaceSurveyElements(surveyID int64, elements []model.SurveyElement) ([]model.SurveyElement, error)

	// Participant methods
	CreateParticipant(p *model.Participant) (int64, error)
	GetParticipant(id int64) (*model.Participant, error)
	GetParticipantByProlificPID(pid string) (*model.Participant, error)
	GetParticipantsForSurvey(surveyID int64) ([]model.Participant, error)
	RecordConsent(id int64) error
	CompleteParticipant(id int64, endTime time.Time, pageDurations json.RawMessage) error
	SetParticipantTestRun(id int64, isTestRun bool) error
	DeleteParticipant(id int64) error

	// Response methods
	CreateResponse(r *model.Response) (int64, error)
	GetResponse(id int64) (*model.Response, error)
	GetResponsesForParticipant(participantID int64) ([]model.Response, error)
	GetResponsesForElement(elementID int64) ([]model.Response, error)
	UpdateResponse(r *model.Response) error
	DeleteResponse(id int64) error

	// Tracking methods
	CreateTrackingEvent(ev *model.TrackingEvent) (int64, error)
	GetTrackingForParticipant(participantID int64) ([]model.TrackingEvent, error)

	// Upload metadata methods
	CreateUpload(u *model.Upload) (int64, error)
	GetUploadByFilename(filename string) (*model.Upload, error)
	GetAllUploads() ([]model.Upload, error)
	DeleteUpload(filename string) error

	// Export/import methods
	ExportAllData() (*model.ExportData, error)
	ExportSurveyData(surveyID int64) (*model.ExportData, error)
	ImportData(data *model.ExportData) error
}
