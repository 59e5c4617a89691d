// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

package model

// ExportData is a container for all data exported in a dump. It holds
// slices of every core table so a dump can be restored into an empty or
// an already-populated database.
type ExportData struct {
	// SchemaVersion helps in handling migrations during restore.
	SchemaVersion int `json:"schema_version"`

	Surveys        []Survey        `json:"surveys"`
	Elements       []SurveyElement `json:"elements"`
	Participants   []Participant   `json:"participants"`
	Responses      []Response      `json:"responses"`
	TrackingEvents []TrackingEvent `json:"tracking_events"`
	Uploads        []Upload        `json:"uploads"`
}

// ExportSchemaVersion is written into every dump produced by this build.
const ExportSchemaVersion = 1
