// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model contains the core domain types of the survey tool. The
// structs here are storage- and transport-agnostic; the db package maps
// them to tables and the web package serializes them as JSON.
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Element types understood by the frontend renderer.
const (
	ElementTypeWelcome  = "welcome"
	ElementTypeInfo     = "info"
	ElementTypeConsent  = "consent"
	ElementTypeSection  = "section"
	ElementTypeQuestion = "question"
)

// Survey is a questionnaire definition together with its tracking and
// time-management configuration.
type Survey struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Config      json.RawMessage `json:"config,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	ProlificEnabled       bool   `json:"prolific_enabled"`
	ProlificCompletionURL string `json:"prolific_completion_url,omitempty"`

	// Advanced tracking switches. EnableAdvancedTracking is the global
	// gate; the individual flags are ignored while it is off.
	EnableAdvancedTracking bool `json:"enable_advanced_tracking"`
	TrackCopyPaste         bool `json:"track_copy_paste"`
	TrackTabFocus          bool `json:"track_tab_focus"`
	TrackPageDuration      bool `json:"track_page_duration"`
	DisplayTimeSpent       bool `json:"display_time_spent"`

	EnableMaxDuration         bool `json:"enable_max_duration"`
	MaxDurationMinutes        int  `json:"max_duration_minutes,omitempty"`
	MaxDurationWarningMinutes int  `json:"max_duration_warning_minutes,omitempty"`
}

// SurveyElement is a single page element of a survey: a question, an info
// block, a consent form, a section marker, or a welcome screen. Elements
// are rendered in (page, ordering) order.
type SurveyElement struct {
	ID           int64           `json:"id"`
	SurveyID     int64           `json:"survey_id"`
	ElementType  string          `json:"element_type"`
	QuestionType string          `json:"question_type,omitempty"`
	QuestionText string          `json:"question_text,omitempty"`
	Options      json.RawMessage `json:"options,omitempty"`
	Ordering     int             `json:"ordering"`
	Page         int             `json:"page"`
	ImageURL     string          `json:"image_url,omitempty"`

	Required             bool   `json:"required"`
	PasteDisabled        bool   `json:"paste_disabled"`
	RandomizationGroup   string `json:"randomization_group,omitempty"`
	AllowBackNavigation  bool   `json:"allow_back_navigation"`
	LLMAssistanceEnabled bool   `json:"llm_assistance_enabled"`
	MaxLength            int    `json:"maxlength,omitempty"`

	// TaskIdentifier groups elements belonging to the same task.
	TaskIdentifier string `json:"task_identifier,omitempty"`
	// ReferencesElementID points at another element of the same survey
	// (e.g. a follow-up question referencing the original). Zero means no
	// reference.
	ReferencesElementID int64 `json:"references_element_id,omitempty"`
}

// Participant is one survey run by one person. Prolific identifiers are
// present when the participant arrived via a Prolific study link.
type Participant struct {
	ID       int64 `json:"id"`
	SurveyID int64 `json:"survey_id"`

	ProlificPID string `json:"prolific_pid,omitempty"`
	StudyID     string `json:"study_id,omitempty"`
	SessionID   string `json:"session_id,omitempty"`

	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	ConsentGiven bool       `json:"consent_given"`
	Completed    bool       `json:"completed"`

	// PageDurationsLog maps page number to milliseconds spent, e.g.
	// {"1": 30500, "2": 45200}.
	PageDurationsLog json.RawMessage `json:"page_durations_log,omitempty"`
	IsTestRun        bool            `json:"is_test_run"`
}

// String returns a short identifier for logs.
func (p Participant) String() string {
	if p.ProlificPID != "" {
		return fmt.Sprintf("participant %d (prolific %s)", p.ID, p.ProlificPID)
	}
	return fmt.Sprintf("participant %d", p.ID)
}

// Response is a participant's answer to one survey element. The value is
// stored as raw JSON so text answers, choice arrays and scale values all
// fit the same column.
type Response struct {
	ID              int64           `json:"id"`
	ParticipantID   int64           `json:"participant_id"`
	SurveyElementID int64           `json:"survey_element_id"`
	ResponseValue   json.RawMessage `json:"response_value,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`

	LLMChatHistory json.RawMessage `json:"llm_chat_history,omitempty"`

	// Anti-cheat counters collected client-side while answering.
	PasteCount     int `json:"paste_count"`
	FocusLostCount int `json:"focus_lost_count"`

	// Position the element was actually shown at, which can differ from
	// the authored position when randomization groups are active.
	DisplayedPage     int `json:"displayed_page,omitempty"`
	DisplayedOrdering int `json:"displayed_ordering,omitempty"`
}

// TrackingEvent is a behavior beacon sent by the frontend while a
// participant works on an element.
type TrackingEvent struct {
	ID            int64 `json:"id"`
	ParticipantID int64 `json:"participant_id"`
	SurveyID      int64 `json:"survey_id"`
	ElementID     int64 `json:"element_id"`

	TimeTakenMs       int  `json:"time_taken_ms"`
	CopyPasteDetected bool `json:"copy_paste_detected"`
	TabSwitches       int  `json:"tab_switches"`
	WindowBlur        int  `json:"window_blur"`
	IdleTimeMs        int  `json:"idle_time_ms"`
}

// Upload is the metadata row for an image stored in the upload directory.
// The file itself lives on disk under Filename.
type Upload struct {
	ID           int64     `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mime_type"`
	CreatedAt    time.Time `json:"created_at"`
}
