// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func postFile(t *testing.T, engine *gin.Engine, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/uploads/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestUploadLifecycle(t *testing.T) {
	engine, _ := newTestServer(t)

	w := postFile(t, engine, "stimulus.png", []byte("fake png bytes"))
	if w.Code != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var meta struct {
		Filename     string `json:"filename"`
		OriginalName string `json:"original_name"`
		MimeType     string `json:"mime_type"`
		URL          string `json:"url"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &meta); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if meta.OriginalName != "stimulus.png" || meta.MimeType != "image/png" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if meta.Filename == "stimulus.png" || meta.URL != "/uploads/"+meta.Filename {
		t.Fatalf("expected generated filename and url, got %+v", meta)
	}

	// Serve the stored file.
	req := httptest.NewRequest("GET", meta.URL, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("serve: expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "fake png bytes" {
		t.Fatalf("unexpected served content: %q", rec.Body.String())
	}

	// Listed.
	w2 := doJSON(t, engine, "GET", "/uploads/", nil)
	if w2.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w2.Code)
	}

	// Delete removes metadata and file.
	w2 = doJSON(t, engine, "DELETE", meta.URL, nil)
	if w2.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w2.Code)
	}
	req = httptest.NewRequest("GET", meta.URL, nil)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestUploadRejectsBadInput(t *testing.T) {
	engine, _ := newTestServer(t)

	w := postFile(t, engine, "script.sh", []byte("#!/bin/sh"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsupported type, got %d", w.Code)
	}

	// No multipart file at all.
	req := httptest.NewRequest("POST", "/uploads/", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing file, got %d", rec.Code)
	}

	w = doJSON(t, engine, "GET", "/uploads/nope.png", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown file, got %d", w.Code)
	}
}
