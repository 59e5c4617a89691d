// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

// Package export writes and reads zstd-compressed JSON snapshots of the
// survey database. Snapshots are used for backups and for moving study
// data between deployments.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/yadem01/backend-survey-tool/internal/db"
	"github.com/yadem01/backend-survey-tool/internal/model"
)

// Backup exports the full database via the Store.
func Backup(st db.Store) (*model.ExportData, error) {
	return st.ExportAllData()
}

// BackupSurvey exports a single survey and its dependent rows.
func BackupSurvey(st db.Store, surveyID int64) (*model.ExportData, error) {
	return st.ExportSurveyData(surveyID)
}

// WriteBackup writes compressed JSON export data to writer.
func WriteBackup(data *model.ExportData, w io.Writer) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encode export: %w", err)
	}
	return zw.Close()
}

// ReadBackup reads a zstd-compressed JSON export without importing it.
func ReadBackup(r io.Reader) (*model.ExportData, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()
	var data model.ExportData
	if err := json.NewDecoder(zr).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	if data.SchemaVersion > model.ExportSchemaVersion {
		return nil, fmt.Errorf("unsupported export schema version %d", data.SchemaVersion)
	}
	return &data, nil
}

// Restore reads a zstd-compressed JSON export and imports it via the Store.
// Rows whose IDs already exist in the target database are left untouched.
func Restore(r io.Reader, st db.Store) error {
	data, err := ReadBackup(r)
	if err != nil {
		return err
	}
	return st.ImportData(data)
}
