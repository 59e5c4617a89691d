// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yadem01/backend-survey-tool/internal/db"
	"github.com/yadem01/backend-survey-tool/internal/export"
	"github.com/yadem01/backend-survey-tool/internal/logging"
	"github.com/yadem01/backend-survey-tool/internal/model"
)

// SurveyHandler serves the survey CRUD surface and the per-survey
// element, participant and export routes.
type SurveyHandler struct {
	store db.Store
}

func NewSurveyHandler(store db.Store) *SurveyHandler {
	return &SurveyHandler{store: store}
}

func (h *SurveyHandler) RegisterRoutes(server *gin.Engine) {
	g := server.Group("/survey")
	g.POST("/", h.Create)
	g.GET("/", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	g.GET("/:id/elements", h.GetElements)
	g.POST("/:id/elements", h.AddElement)
	g.PUT("/:id/elements", h.ReplaceElements)

	g.GET("/:id/participants", h.GetParticipants)
	g.POST("/:id/participants", h.RegisterParticipant)

	g.GET("/:id/export", h.Export)
}

// paramID parses the named path parameter as an int64 id. On failure it
// writes a 400 response and returns false.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		detail(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s", name))
		return 0, false
	}
	return id, true
}

func (h *SurveyHandler) Create(c *gin.Context) {
	var sv model.Survey
	if err := c.ShouldBindJSON(&sv); err != nil {
		detail(c, http.StatusBadRequest, "Invalid survey payload")
		return
	}
	if sv.Title == "" {
		detail(c, http.StatusBadRequest, "Survey title is required")
		return
	}
	sv.ID = 0
	id, err := h.store.CreateSurvey(&sv)
	if err != nil {
		storeError(c, err, "Survey not found")
		return
	}
	created, err := h.store.GetSurvey(id)
	if err != nil {
		storeError(c, err, "Survey not found")
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *SurveyHandler) List(c *gin.Context) {
	surveys, err := h.store.GetAllSurveys()
	if err != nil {
		storeError(c, err, "Survey not found")
		return
	}
	c.JSON(http.StatusOK, surveys)
}

func (h *SurveyHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sv, err := h.store.GetSurvey(id)
	if err != nil {
		storeError(c, err, "Survey not found")
		return
	}
	c.JSON(http.StatusOK, sv)
}

func (h *SurveyHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var sv model.Survey
	if err := c.ShouldBindJSON(&sv); err != nil {
		detail(c, http.StatusBadRequest, "Invalid survey payload")
		return
	}
	sv.ID = id
	if err := h.store.UpdateSurvey(&sv); err != nil {
		storeError(c, err, "Survey not found")
		return
	}
	updated, err := h.store.GetSurvey(id)
	if err != nil {
		storeError(c, err, "Survey not found")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *SurveyHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	// Return the deleted survey, matching the other mutation routes.
	sv, err := h.store.GetSurvey(id)
	if err != nil {
		storeError(c, err, "Survey not found")
		return
	}
	if err := h.store.DeleteSurvey(id); err != nil {
		storeError(c, err, "Survey not found")
		return
	}
	c.JSON(http.StatusOK, sv)
}

func (h *SurveyHandler) GetElements(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := h.store.GetSurvey(id); err != nil {
		storeError(c, err, "Survey not found")
		return
	}
	elements, err := h.store.GetElementsForSurvey(id)
	if err != nil {
		storeError(c, err, "Survey not found")
		return
	}
	c.JSON(http.StatusOK, elements)
}

func (h *SurveyHandler) AddElement(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var el model.SurveyElement
	if err := c.ShouldBindJSON(&el); err != nil {
		detail(c, http.StatusBadRequest, "Invalid element payload")
		return
	}
	if _, err := h.store.GetSurvey(id); err != nil {
		storeError(c, err, "Survey not found")
		return
	}
	el.ID = 0
	el.SurveyID = id
	elID, err := h.store.CreateElement(&el)
	if err != nil {
		storeError(c, err, "Survey not found")
		return
	}
	created, err := h.store.GetElement(elID)
	if err != nil {
		storeError(c, err, "Element not found")
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *SurveyHandler) ReplaceElements(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var elements []model.SurveyElement
	if err := c.ShouldBindJSON(&elements); err != nil {
		detail(c, http.StatusBadRequest, "Invalid elements payload")
		return
	}
	stored, err := h.store.ReplaceSurveyElements(id, elements)
	if err != nil {
		storeError(c, err, "Survey not found")
		return
	}
	c.JSON(http.StatusOK, stored)
}

func (h *SurveyHandler) GetParticipants(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := h.store.GetSurvey(id); err != nil {
		storeError(c, err, "Survey not found")
		return
	}
	participants, err := h.store.GetParticipantsForSurvey(id)
	if err != nil {
		storeError(c, err, "Survey not found")
		return
	}
	c.JSON(http.StatusOK, participants)
}

// registerParticipantRequest carries the optional Prolific identifiers
// sent when a participant opens a study link.
type registerParticipantRequest struct {
	ProlificPID string `json:"prolific_pid"`
	StudyID     string `json:"study_id"`
	SessionID   string `json:"session_id"`
	IsTestRun   bool   `json:"is_test_run"`
}

func (h *SurveyHandler) RegisterParticipant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req registerParticipantRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			detail(c, http.StatusBadRequest, "Invalid participant payload")
			return
		}
	}
	if _, err := h.store.GetSurvey(id); err != nil {
		storeError(c, err, "Survey not found")
		return
	}
	p := model.Participant{
		SurveyID:    id,
		ProlificPID: req.ProlificPID,
		StudyID:     req.StudyID,
		SessionID:   req.SessionID,
		IsTestRun:   req.IsTestRun,
		StartTime:   time.Now().UTC(),
	}
	pid, err := h.store.CreateParticipant(&p)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			detail(c, http.StatusConflict, "Participant already registered")
			return
		}
		storeError(c, err, "Survey not found")
		return
	}
	created, err := h.store.GetParticipant(pid)
	if err != nil {
		storeError(c, err, "Participant not found")
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *SurveyHandler) Export(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	data, err := export.BackupSurvey(h.store, id)
	if err != nil {
		storeError(c, err, "Survey not found")
		return
	}
	c.Header("Content-Type", "application/zstd")
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=survey-%d-export.json.zst", id))
	c.Status(http.StatusOK)
	if err := export.WriteBackup(data, c.Writer); err != nil {
		// Headers are already out; all we can do is log.
		logging.Errorf("export stream for survey %d failed: %v", id, err)
	}
}
