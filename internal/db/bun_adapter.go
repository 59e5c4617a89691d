// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

// bun_adapter.go holds the Bun table models, the model mapping helpers
// and the shared query functions the per-dialect stores delegate to.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/yadem01/backend-survey-tool/internal/model"
)

// execRawProvider is a small interface used to accept either *bun.DB or *bun.Tx
// since both expose NewRaw(...).* methods returning *bun.RawQuery.
type execRawProvider interface {
	NewRaw(query string, args ...interface{}) *bun.RawQuery
}

// ExecRaw executes a raw SQL statement using the provided Bun DB or transaction.
func ExecRaw(ctx context.Context, exec execRawProvider, query string, args ...interface{}) (sql.Result, error) {
	return exec.NewRaw(query, args...).Exec(ctx)
}

// QueryRawInto runs a raw query and scans the result into dest using Bun's RawQuery.Scan.
func QueryRawInto(ctx context.Context, exec execRawProvider, dest interface{}, query string, args ...interface{}) error {
	return exec.NewRaw(query, args...).Scan(ctx, dest)
}

// SurveyModel maps the `surveys` table for Bun queries.
type SurveyModel struct {
	bun.BaseModel `bun:"table:surveys"`
	ID            int64          `bun:"id,pk,autoincrement"`
	Title         string         `bun:"title"`
	Description   sql.NullString `bun:"description"`
	Config        sql.NullString `bun:"config"`
	CreatedAt     time.Time      `bun:"created_at"`
	UpdatedAt     time.Time      `bun:"updated_at"`

	ProlificEnabled       bool           `bun:"prolific_enabled"`
	ProlificCompletionURL sql.NullString `bun:"prolific_completion_url"`

	EnableAdvancedTracking bool `bun:"enable_advanced_tracking"`
	TrackCopyPaste         bool `bun:"track_copy_paste"`
	TrackTabFocus          bool `bun:"track_tab_focus"`
	TrackPageDuration      bool `bun:"track_page_duration"`
	DisplayTimeSpent       bool `bun:"display_time_spent"`

	EnableMaxDuration         bool          `bun:"enable_max_duration"`
	MaxDurationMinutes        sql.NullInt64 `bun:"max_duration_minutes"`
	MaxDurationWarningMinutes sql.NullInt64 `bun:"max_duration_warning_minutes"`
}

// ElementModel maps the `survey_elements` table.
type ElementModel struct {
	bun.BaseModel `bun:"table:survey_elements"`
	ID            int64          `bun:"id,pk,autoincrement"`
	SurveyID      int64          `bun:"survey_id"`
	ElementType   string         `bun:"element_type"`
	QuestionType  sql.NullString `bun:"question_type"`
	QuestionText  sql.NullString `bun:"question_text"`
	Options       sql.NullString `bun:"options"`
	Ordering      int            `bun:"ordering"`
	Page          int            `bun:"page"`
	ImageURL      sql.NullString `bun:"image_url"`

	Required             bool           `bun:"required"`
	PasteDisabled        bool           `bun:"paste_disabled"`
	RandomizationGroup   sql.NullString `bun:"randomization_group"`
	AllowBackNavigation  bool           `bun:"allow_back_navigation"`
	LLMAssistanceEnabled bool           `bun:"llm_assistance_enabled"`
	MaxLength            sql.NullInt64  `bun:"maxlength"`

	TaskIdentifier      sql.NullString `bun:"task_identifier"`
	ReferencesElementID sql.NullInt64  `bun:"references_element_id"`
}

// ParticipantModel maps the `survey_participants` table.
type ParticipantModel struct {
	bun.BaseModel `bun:"table:survey_participants"`
	ID            int64 `bun:"id,pk,autoincrement"`
	SurveyID      int64 `bun:"survey_id"`

	ProlificPID sql.NullString `bun:"prolific_pid"`
	StudyID     sql.NullString `bun:"study_id"`
	SessionID   sql.NullString `bun:"session_id"`

	StartTime    time.Time    `bun:"start_time"`
	EndTime      sql.NullTime `bun:"end_time"`
	ConsentGiven bool         `bun:"consent_given"`
	Completed    bool         `bun:"completed"`

	PageDurationsLog sql.NullString `bun:"page_durations_log"`
	IsTestRun        bool           `bun:"is_test_run"`
}

// ResponseModel maps the `responses` table.
type ResponseModel struct {
	bun.BaseModel   `bun:"table:responses"`
	ID              int64          `bun:"id,pk,autoincrement"`
	ParticipantID   int64          `bun:"participant_id"`
	SurveyElementID int64          `bun:"survey_element_id"`
	ResponseValue   sql.NullString `bun:"response_value"`
	CreatedAt       time.Time      `bun:"created_at"`

	LLMChatHistory sql.NullString `bun:"llm_chat_history"`

	PasteCount     int `bun:"paste_count"`
	FocusLostCount int `bun:"focus_lost_count"`

	DisplayedPage     sql.NullInt64 `bun:"displayed_page"`
	DisplayedOrdering sql.NullInt64 `bun:"displayed_ordering"`
}

// TrackingEventModel maps the `tracking_events` table.
type TrackingEventModel struct {
	bun.BaseModel `bun:"table:tracking_events"`
	ID            int64 `bun:"id,pk,autoincrement"`
	ParticipantID int64 `bun:"participant_id"`
	SurveyID      int64 `bun:"survey_id"`
	ElementID     int64 `bun:"element_id"`

	TimeTakenMs       int  `bun:"time_taken_ms"`
	CopyPasteDetected bool `bun:"copy_paste_detected"`
	TabSwitches       int  `bun:"tab_switches"`
	WindowBlur        int  `bun:"window_blur"`
	IdleTimeMs        int  `bun:"idle_time_ms"`
}

// UploadModel maps the `uploads` table.
type UploadModel struct {
	bun.BaseModel `bun:"table:uploads"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Filename      string    `bun:"filename"`
	OriginalName  string    `bun:"original_name"`
	Size          int64     `bun:"size"`
	MimeType      string    `bun:"mime_type"`
	CreatedAt     time.Time `bun:"created_at"`
}

// --- Nullable conversion helpers ---

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullJSON(raw json.RawMessage) sql.NullString {
	return sql.NullString{String: string(raw), Valid: len(raw) > 0}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

func nullInt64(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: n != 0}
}

func rawJSON(ns sql.NullString) json.RawMessage {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.RawMessage(ns.String)
}

// --- Mapping helpers (centralized conversions) ---

func surveyModelToModel(sm SurveyModel) model.Survey {
	s := model.Survey{
		ID:                     sm.ID,
		Title:                  sm.Title,
		Config:                 rawJSON(sm.Config),
		CreatedAt:              sm.CreatedAt,
		UpdatedAt:              sm.UpdatedAt,
		ProlificEnabled:        sm.ProlificEnabled,
		EnableAdvancedTracking: sm.EnableAdvancedTracking,
		TrackCopyPaste:         sm.TrackCopyPaste,
		TrackTabFocus:          sm.TrackTabFocus,
		TrackPageDuration:      sm.TrackPageDuration,
		DisplayTimeSpent:       sm.DisplayTimeSpent,
		EnableMaxDuration:      sm.EnableMaxDuration,
	}
	if sm.Description.Valid {
		s.Description = sm.Description.String
	}
	if sm.ProlificCompletionURL.Valid {
		s.ProlificCompletionURL = sm.ProlificCompletionURL.String
	}
	if sm.MaxDurationMinutes.Valid {
		s.MaxDurationMinutes = int(sm.MaxDurationMinutes.Int64)
	}
	if sm.MaxDurationWarningMinutes.Valid {
		s.MaxDurationWarningMinutes = int(sm.MaxDurationWarningMinutes.Int64)
	}
	return s
}

func surveyToBunModel(s *model.Survey) *SurveyModel {
	return &SurveyModel{
		ID:                        s.ID,
		Title:                     s.Title,
		Description:               nullString(s.Description),
		Config:                    nullJSON(s.Config),
		CreatedAt:                 s.CreatedAt,
		UpdatedAt:                 s.UpdatedAt,
		ProlificEnabled:           s.ProlificEnabled,
		ProlificCompletionURL:     nullString(s.ProlificCompletionURL),
		EnableAdvancedTracking:    s.EnableAdvancedTracking,
		TrackCopyPaste:            s.TrackCopyPaste,
		TrackTabFocus:             s.TrackTabFocus,
		TrackPageDuration:         s.TrackPageDuration,
		DisplayTimeSpent:          s.DisplayTimeSpent,
		EnableMaxDuration:         s.EnableMaxDuration,
		MaxDurationMinutes:        nullInt(s.MaxDurationMinutes),
		MaxDurationWarningMinutes: nullInt(s.MaxDurationWarningMinutes),
	}
}

func elementModelToModel(em ElementModel) model.SurveyElement {
	e := model.SurveyElement{
		ID:                   em.ID,
		SurveyID:             em.SurveyID,
		ElementType:          em.ElementType,
		Options:              rawJSON(em.Options),
		Ordering:             em.Ordering,
		Page:                 em.Page,
		Required:             em.Required,
		PasteDisabled:        em.PasteDisabled,
		AllowBackNavigation:  em.AllowBackNavigation,
		LLMAssistanceEnabled: em.LLMAssistanceEnabled,
	}
	if em.QuestionType.Valid {
		e.QuestionType = em.QuestionType.String
	}
	if em.QuestionText.Valid {
		e.QuestionText = em.QuestionText.String
	}
	if em.ImageURL.Valid {
		e.ImageURL = em.ImageURL.String
	}
	if em.RandomizationGroup.Valid {
		e.RandomizationGroup = em.RandomizationGroup.String
	}
	if em.MaxLength.Valid {
		e.MaxLength = int(em.MaxLength.Int64)
	}
	if em.TaskIdentifier.Valid {
		e.TaskIdentifier = em.TaskIdentifier.String
	}
	if em.ReferencesElementID.Valid {
		e.ReferencesElementID = em.ReferencesElementID.Int64
	}
	return e
}

func elementToBunModel(e *model.SurveyElement) *ElementModel {
	return &ElementModel{
		ID:                   e.ID,
		SurveyID:             e.SurveyID,
		ElementType:          e.ElementType,
		QuestionType:         nullString(e.QuestionType),
		QuestionText:         nullString(e.QuestionText),
		Options:              nullJSON(e.Options),
		Ordering:             e.Ordering,
		Page:                 e.Page,
		ImageURL:             nullString(e.ImageURL),
		Required:             e.Required,
		PasteDisabled:        e.PasteDisabled,
		RandomizationGroup:   nullString(e.RandomizationGroup),
		AllowBackNavigation:  e.AllowBackNavigation,
		LLMAssistanceEnabled: e.LLMAssistanceEnabled,
		MaxLength:            nullInt(e.MaxLength),
		TaskIdentifier:       nullString(e.TaskIdentifier),
		ReferencesElementID:  nullInt64(e.ReferencesElementID),
	}
}

func participantModelToModel(pm ParticipantModel) model.Participant {
	p := model.Participant{
		ID:               pm.ID,
		SurveyID:         pm.SurveyID,
		StartTime:        pm.StartTime,
		ConsentGiven:     pm.ConsentGiven,
		Completed:        pm.Completed,
		PageDurationsLog: rawJSON(pm.PageDurationsLog),
		IsTestRun:        pm.IsTestRun,
	}
	if pm.ProlificPID.Valid {
		p.ProlificPID = pm.ProlificPID.String
	}
	if pm.StudyID.Valid {
		p.StudyID = pm.StudyID.String
	}
	if pm.SessionID.Valid {
		p.SessionID = pm.SessionID.String
	}
	if pm.EndTime.Valid {
		t := pm.EndTime.Time
		p.EndTime = &t
	}
	return p
}

func participantToBunModel(p *model.Participant) *ParticipantModel {
	pm := &ParticipantModel{
		ID:               p.ID,
		SurveyID:         p.SurveyID,
		ProlificPID:      nullString(p.ProlificPID),
		StudyID:          nullString(p.StudyID),
		SessionID:        nullString(p.SessionID),
		StartTime:        p.StartTime,
		ConsentGiven:     p.ConsentGiven,
		Completed:        p.Completed,
		PageDurationsLog: nullJSON(p.PageDurationsLog),
		IsTestRun:        p.IsTestRun,
	}
	if p.EndTime != nil {
		pm.EndTime = sql.NullTime{Time: *p.EndTime, Valid: true}
	}
	return pm
}

func responseModelToModel(rm ResponseModel) model.Response {
	r := model.Response{
		ID:              rm.ID,
		ParticipantID:   rm.ParticipantID,
		SurveyElementID: rm.SurveyElementID,
		ResponseValue:   rawJSON(rm.ResponseValue),
		CreatedAt:       rm.CreatedAt,
		LLMChatHistory:  rawJSON(rm.LLMChatHistory),
		PasteCount:      rm.PasteCount,
		FocusLostCount:  rm.FocusLostCount,
	}
	if rm.DisplayedPage.Valid {
		r.DisplayedPage = int(rm.DisplayedPage.Int64)
	}
	if rm.DisplayedOrdering.Valid {
		r.DisplayedOrdering = int(rm.DisplayedOrdering.Int64)
	}
	return r
}

func responseToBunModel(r *model.Response) *ResponseModel {
	return &ResponseModel{
		ID:                r.ID,
		ParticipantID:     r.ParticipantID,
		SurveyElementID:   r.SurveyElementID,
		ResponseValue:     nullJSON(r.ResponseValue),
		CreatedAt:         r.CreatedAt,
		LLMChatHistory:    nullJSON(r.LLMChatHistory),
		PasteCount:        r.PasteCount,
		FocusLostCount:    r.FocusLostCount,
		DisplayedPage:     nullInt(r.DisplayedPage),
		DisplayedOrdering: nullInt(r.DisplayedOrdering),
	}
}

func trackingEventModelToModel(tm TrackingEventModel) model.TrackingEvent {
	return model.TrackingEvent{
		ID:                tm.ID,
		ParticipantID:     tm.ParticipantID,
		SurveyID:          tm.SurveyID,
		ElementID:         tm.ElementID,
		TimeTakenMs:       tm.TimeTakenMs,
		CopyPasteDetected: tm.CopyPasteDetected,
		TabSwitches:       tm.TabSwitches,
		WindowBlur:        tm.WindowBlur,
		IdleTimeMs:        tm.IdleTimeMs,
	}
}

func uploadModelToModel(um UploadModel) model.Upload {
	return model.Upload{
		ID:           um.ID,
		Filename:     um.Filename,
		OriginalName: um.OriginalName,
		Size:         um.Size,
		MimeType:     um.MimeType,
		CreatedAt:    um.CreatedAt,
	}
}

// --- Survey helpers ---

// CreateSurveyBun inserts a new survey and returns its ID. Timestamps are
// set here rather than by column defaults to stay portable across engines.
func CreateSurveyBun(bdb *bun.DB, s *model.Survey) (int64, error) {
	ctx := context.Background()
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	sm := surveyToBunModel(s)
	sm.ID = 0
	if _, err := bdb.NewInsert().Model(sm).Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	s.ID = sm.ID
	return sm.ID, nil
}

// GetSurveyBun returns one survey by id, or ErrNotFound.
func GetSurveyBun(bdb *bun.DB, id int64) (*model.Survey, error) {
	ctx := context.Background()
	var sm SurveyModel
	if err := bdb.NewSelect().Model(&sm).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	s := surveyModelToModel(sm)
	return &s, nil
}

// GetAllSurveysBun returns all surveys, newest first.
func GetAllSurveysBun(bdb *bun.DB) ([]model.Survey, error) {
	ctx := context.Background()
	var sms []SurveyModel
	if err := bdb.NewSelect().Model(&sms).OrderExpr("created_at DESC, id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Survey, 0, len(sms))
	for _, sm := range sms {
		out = append(out, surveyModelToModel(sm))
	}
	return out, nil
}

// UpdateSurveyBun overwrites all mutable survey fields and bumps updated_at.
func UpdateSurveyBun(bdb *bun.DB, s *model.Survey) error {
	ctx := context.Background()
	s.UpdatedAt = time.Now().UTC()
	sm := surveyToBunModel(s)
	res, err := bdb.NewUpdate().Model(sm).
		Column("title", "description", "config", "updated_at",
			"prolific_enabled", "prolific_completion_url",
			"enable_advanced_tracking", "track_copy_paste", "track_tab_focus",
			"track_page_duration", "display_time_spent",
			"enable_max_duration", "max_duration_minutes", "max_duration_warning_minutes").
		Where("id = ?", s.ID).Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSurveyBun removes a survey with all dependent rows (elements,
// participants, responses, tracking events) in one transaction. This is
// the cascade the original schema declared on its relationships.
func DeleteSurveyBun(bdb *bun.DB, id int64) error {
	ctx := context.Background()
	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := QueryRawInto(ctx, tx, &exists, "SELECT COUNT(*) FROM surveys WHERE id = ?", id); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}

	if _, err := ExecRaw(ctx, tx,
		"DELETE FROM responses WHERE participant_id IN (SELECT id FROM survey_participants WHERE survey_id = ?)", id); err != nil {
		return fmt.Errorf("failed to delete survey responses: %w", err)
	}
	if _, err := ExecRaw(ctx, tx, "DELETE FROM tracking_events WHERE survey_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete survey tracking events: %w", err)
	}
	if _, err := ExecRaw(ctx, tx, "DELETE FROM survey_participants WHERE survey_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete survey participants: %w", err)
	}
	if _, err := ExecRaw(ctx, tx, "DELETE FROM survey_elements WHERE survey_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete survey elements: %w", err)
	}
	if _, err := ExecRaw(ctx, tx, "DELETE FROM surveys WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete survey: %w", err)
	}
	return tx.Commit()
}

// --- Element helpers ---

// CreateElementBun inserts a new survey element and returns its ID.
func CreateElementBun(bdb *bun.DB, e *model.SurveyElement) (int64, error) {
	ctx := context.Background()
	em := elementToBunModel(e)
	em.ID = 0
	if _, err := bdb.NewInsert().Model(em).Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	e.ID = em.ID
	return em.ID, nil
}

// GetElementBun returns one element by id, or ErrNotFound.
func GetElementBun(bdb *bun.DB, id int64) (*model.SurveyElement, error) {
	ctx := context.Background()
	var em ElementModel
	if err := bdb.NewSelect().Model(&em).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	e := elementModelToModel(em)
	return &e, nil
}

// GetElementsForSurveyBun returns a survey's elements in render order.
func GetElementsForSurveyBun(bdb *bun.DB, surveyID int64) ([]model.SurveyElement, error) {
	ctx := context.Background()
	var ems []ElementModel
	err := bdb.NewSelect().Model(&ems).
		Where("survey_id = ?", surveyID).
		OrderExpr("page, ordering, id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.SurveyElement, 0, len(ems))
	for _, em := range ems {
		out = append(out, elementModelToModel(em))
	}
	return out, nil
}

// UpdateElementBun overwrites all mutable element fields.
func UpdateElementBun(bdb *bun.DB, e *model.SurveyElement) error {
	ctx := context.Background()
	em := elementToBunModel(e)
	res, err := bdb.NewUpdate().Model(em).
		Column("element_type", "question_type", "question_text", "options",
			"ordering", "page", "image_url", "required", "paste_disabled",
			"randomization_group", "allow_back_navigation",
			"llm_assistance_enabled", "maxlength", "task_identifier",
			"references_element_id").
		Where("id = ?", e.ID).Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteElementBun removes an element and its responses.
func DeleteElementBun(bdb *bun.DB, id int64) error {
	ctx := context.Background()
	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := ExecRaw(ctx, tx, "DELETE FROM responses WHERE survey_element_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete element responses: %w", err)
	}
	res, err := ExecRaw(ctx, tx, "DELETE FROM survey_elements WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// ReplaceSurveyElementsBun swaps a survey's element set for the given one
// inside a single transaction. The editor saves whole surveys, so partial
// element sets must never become visible to participants.
func ReplaceSurveyElementsBun(bdb *bun.DB, surveyID int64, elements []model.SurveyElement) ([]model.SurveyElement, error) {
	ctx := context.Background()
	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := QueryRawInto(ctx, tx, &exists, "SELECT COUNT(*) FROM surveys WHERE id = ?", surveyID); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	if _, err := ExecRaw(ctx, tx, "DELETE FROM survey_elements WHERE survey_id = ?", surveyID); err != nil {
		return nil, fmt.Errorf("failed to clear survey elements: %w", err)
	}

	out := make([]model.SurveyElement, 0, len(elements))
	for i := range elements {
		e := elements[i]
		e.SurveyID = surveyID
		em := elementToBunModel(&e)
		em.ID = 0
		if _, err := tx.NewInsert().Model(em).Returning("id").Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to insert survey element %d: %w", i, MapDBError(err))
		}
		e.ID = em.ID
		out = append(out, e)
	}

	if _, err := ExecRaw(ctx, tx, "UPDATE surveys SET updated_at = ? WHERE id = ?", time.Now().UTC(), surveyID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// --- Participant helpers ---

// CreateParticipantBun registers a participant. A duplicate prolific_pid
// maps to ErrDuplicate via the unique index.
func CreateParticipantBun(bdb *bun.DB, p *model.Participant) (int64, error) {
	ctx := context.Background()
	if p.StartTime.IsZero() {
		p.StartTime = time.Now().UTC()
	}
	pm := participantToBunModel(p)
	pm.ID = 0
	if _, err := bdb.NewInsert().Model(pm).Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	p.ID = pm.ID
	return pm.ID, nil
}

// GetParticipantBun returns one participant by id, or ErrNotFound.
func GetParticipantBun(bdb *bun.DB, id int64) (*model.Participant, error) {
	ctx := context.Background()
	var pm ParticipantModel
	if err := bdb.NewSelect().Model(&pm).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	p := participantModelToModel(pm)
	return &p, nil
}

// GetParticipantByProlificPIDBun looks a participant up by Prolific PID.
func GetParticipantByProlificPIDBun(bdb *bun.DB, pid string) (*model.Participant, error) {
	ctx := context.Background()
	var pm ParticipantModel
	if err := bdb.NewSelect().Model(&pm).Where("prolific_pid = ?", pid).Limit(1).Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	p := participantModelToModel(pm)
	return &p, nil
}

// GetParticipantsForSurveyBun returns a survey's participants oldest first.
func GetParticipantsForSurveyBun(bdb *bun.DB, surveyID int64) ([]model.Participant, error) {
	ctx := context.Background()
	var pms []ParticipantModel
	err := bdb.NewSelect().Model(&pms).
		Where("survey_id = ?", surveyID).
		OrderExpr("start_time, id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Participant, 0, len(pms))
	for _, pm := range pms {
		out = append(out, participantModelToModel(pm))
	}
	return out, nil
}

// RecordConsentBun marks consent as given for a participant.
func RecordConsentBun(bdb *bun.DB, id int64) error {
	ctx := context.Background()
	res, err := ExecRaw(ctx, bdb, "UPDATE survey_participants SET consent_given = ? WHERE id = ?", true, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteParticipantBun finalizes a run: end time, page durations and the
// completed flag are written together so a half-finalized participant can
// never be observed.
func CompleteParticipantBun(bdb *bun.DB, id int64, endTime time.Time, pageDurations json.RawMessage) error {
	ctx := context.Background()
	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	durations := nullJSON(pageDurations)
	res, err := ExecRaw(ctx, tx,
		"UPDATE survey_participants SET completed = ?, end_time = ?, page_durations_log = ? WHERE id = ?",
		true, endTime, durations, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// SetParticipantTestRunBun flags or unflags a participant as a test run.
func SetParticipantTestRunBun(bdb *bun.DB, id int64, isTestRun bool) error {
	ctx := context.Background()
	res, err := ExecRaw(ctx, bdb, "UPDATE survey_participants SET is_test_run = ? WHERE id = ?", isTestRun, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteParticipantBun removes a participant with responses and tracking.
func DeleteParticipantBun(bdb *bun.DB, id int64) error {
	ctx := context.Background()
	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := ExecRaw(ctx, tx, "DELETE FROM responses WHERE participant_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete participant responses: %w", err)
	}
	if _, err := ExecRaw(ctx, tx, "DELETE FROM tracking_events WHERE participant_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete participant tracking: %w", err)
	}
	res, err := ExecRaw(ctx, tx, "DELETE FROM survey_participants WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// --- Response helpers ---

// CreateResponseBun inserts a response and returns its ID.
func CreateResponseBun(bdb *bun.DB, r *model.Response) (int64, error) {
	ctx := context.Background()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	rm := responseToBunModel(r)
	rm.ID = 0
	if _, err := bdb.NewInsert().Model(rm).Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	r.ID = rm.ID
	return rm.ID, nil
}

// GetResponseBun returns one response by id, or ErrNotFound.
func GetResponseBun(bdb *bun.DB, id int64) (*model.Response, error) {
	ctx := context.Background()
	var rm ResponseModel
	if err := bdb.NewSelect().Model(&rm).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	r := responseModelToModel(rm)
	return &r, nil
}

// GetResponsesForParticipantBun returns a participant's responses in
// submission order.
func GetResponsesForParticipantBun(bdb *bun.DB, participantID int64) ([]model.Response, error) {
	ctx := context.Background()
	var rms []ResponseModel
	err := bdb.NewSelect().Model(&rms).
		Where("participant_id = ?", participantID).
		OrderExpr("created_at, id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Response, 0, len(rms))
	for _, rm := range rms {
		out = append(out, responseModelToModel(rm))
	}
	return out, nil
}

// GetResponsesForElementBun returns all responses to one element.
func GetResponsesForElementBun(bdb *bun.DB, elementID int64) ([]model.Response, error) {
	ctx := context.Background()
	var rms []ResponseModel
	err := bdb.NewSelect().Model(&rms).
		Where("survey_element_id = ?", elementID).
		OrderExpr("created_at, id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Response, 0, len(rms))
	for _, rm := range rms {
		out = append(out, responseModelToModel(rm))
	}
	return out, nil
}

// UpdateResponseBun overwrites the answer payload and counters.
func UpdateResponseBun(bdb *bun.DB, r *model.Response) error {
	ctx := context.Background()
	rm := responseToBunModel(r)
	res, err := bdb.NewUpdate().Model(rm).
		Column("response_value", "llm_chat_history", "paste_count",
			"focus_lost_count", "displayed_page", "displayed_ordering").
		Where("id = ?", r.ID).Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteResponseBun removes a response by id.
func DeleteResponseBun(bdb *bun.DB, id int64) error {
	ctx := context.Background()
	res, err := bdb.NewDelete().Model((*ResponseModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Tracking helpers ---

// CreateTrackingEventBun inserts a behavior beacon.
func CreateTrackingEventBun(bdb *bun.DB, ev *model.TrackingEvent) (int64, error) {
	ctx := context.Background()
	tm := &TrackingEventModel{
		ParticipantID:     ev.ParticipantID,
		SurveyID:          ev.SurveyID,
		ElementID:         ev.ElementID,
		TimeTakenMs:       ev.TimeTakenMs,
		CopyPasteDetected: ev.CopyPasteDetected,
		TabSwitches:       ev.TabSwitches,
		WindowBlur:        ev.WindowBlur,
		IdleTimeMs:        ev.IdleTimeMs,
	}
	if _, err := bdb.NewInsert().Model(tm).Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	ev.ID = tm.ID
	return tm.ID, nil
}

// GetTrackingForParticipantBun returns a participant's beacons in order.
func GetTrackingForParticipantBun(bdb *bun.DB, participantID int64) ([]model.TrackingEvent, error) {
	ctx := context.Background()
	var tms []TrackingEventModel
	err := bdb.NewSelect().Model(&tms).
		Where("participant_id = ?", participantID).
		OrderExpr("id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.TrackingEvent, 0, len(tms))
	for _, tm := range tms {
		out = append(out, trackingEventModelToModel(tm))
	}
	return out, nil
}

// --- Upload helpers ---

// CreateUploadBun records upload metadata and returns its ID.
func CreateUploadBun(bdb *bun.DB, u *model.Upload) (int64, error) {
	ctx := context.Background()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	um := &UploadModel{
		Filename:     u.Filename,
		OriginalName: u.OriginalName,
		Size:         u.Size,
		MimeType:     u.MimeType,
		CreatedAt:    u.CreatedAt,
	}
	if _, err := bdb.NewInsert().Model(um).Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	u.ID = um.ID
	return um.ID, nil
}

// GetUploadByFilenameBun returns metadata for one stored file.
func GetUploadByFilenameBun(bdb *bun.DB, filename string) (*model.Upload, error) {
	ctx := context.Background()
	var um UploadModel
	if err := bdb.NewSelect().Model(&um).Where("filename = ?", filename).Limit(1).Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	u := uploadModelToModel(um)
	return &u, nil
}

// GetAllUploadsBun returns upload metadata, newest first.
func GetAllUploadsBun(bdb *bun.DB) ([]model.Upload, error) {
	ctx := context.Background()
	var ums []UploadModel
	if err := bdb.NewSelect().Model(&ums).OrderExpr("created_at DESC, id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Upload, 0, len(ums))
	for _, um := range ums {
		out = append(out, uploadModelToModel(um))
	}
	return out, nil
}

// DeleteUploadBun removes the metadata row for a filename.
func DeleteUploadBun(bdb *bun.DB, filename string) error {
	ctx := context.Background()
	res, err := bdb.NewDelete().Model((*UploadModel)(nil)).Where("filename = ?", filename).Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
