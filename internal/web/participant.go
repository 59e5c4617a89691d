// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yadem01/backend-survey-tool/internal/db"
)

// ParticipantHandler serves the participant flow: consent, completion,
// test-run marking and the per-participant tracking view.
type ParticipantHandler struct {
	store db.Store
}

func NewParticipantHandler(store db.Store) *ParticipantHandler {
	return &ParticipantHandler{store: store}
}

func (h *ParticipantHandler) RegisterRoutes(server *gin.Engine) {
	g := server.Group("/participants")
	g.GET("/:id", h.Get)
	g.POST("/:id/consent", h.Consent)
	g.POST("/:id/complete", h.Complete)
	g.PUT("/:id/test-run", h.SetTestRun)
	g.GET("/:id/tracking", h.GetTracking)
	g.GET("/:id/responses", h.GetResponses)
	g.DELETE("/:id", h.Delete)
}

func (h *ParticipantHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := h.store.GetParticipant(id)
	if err != nil {
		storeError(c, err, "Participant not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ParticipantHandler) Consent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.store.RecordConsent(id); err != nil {
		storeError(c, err, "Participant not found")
		return
	}
	p, err := h.store.GetParticipant(id)
	if err != nil {
		storeError(c, err, "Participant not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

// completeRequest is sent by the frontend when a participant reaches the
// final page. EndTime defaults to now when omitted.
type completeRequest struct {
	EndTime          *time.Time      `json:"end_time"`
	PageDurationsLog json.RawMessage `json:"page_durations_log"`
}

func (h *ParticipantHandler) Complete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req completeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			detail(c, http.StatusBadRequest, "Invalid completion payload")
			return
		}
	}
	endTime := time.Now().UTC()
	if req.EndTime != nil {
		endTime = req.EndTime.UTC()
	}
	if err := h.store.CompleteParticipant(id, endTime, req.PageDurationsLog); err != nil {
		storeError(c, err, "Participant not found")
		return
	}
	p, err := h.store.GetParticipant(id)
	if err != nil {
		storeError(c, err, "Participant not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

type testRunRequest struct {
	IsTestRun bool `json:"is_test_run"`
}

func (h *ParticipantHandler) SetTestRun(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req testRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "Invalid test-run payload")
		return
	}
	if err := h.store.SetParticipantTestRun(id, req.IsTestRun); err != nil {
		storeError(c, err, "Participant not found")
		return
	}
	p, err := h.store.GetParticipant(id)
	if err != nil {
		storeError(c, err, "Participant not found")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ParticipantHandler) GetTracking(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := h.store.GetParticipant(id); err != nil {
		storeError(c, err, "Participant not found")
		return
	}
	events, err := h.store.GetTrackingForParticipant(id)
	if err != nil {
		storeError(c, err, "Participant not found")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *ParticipantHandler) GetResponses(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, err := h.store.GetParticipant(id); err != nil {
		storeError(c, err, "Participant not found")
		return
	}
	responses, err := h.store.GetResponsesForParticipant(id)
	if err != nil {
		storeError(c, err, "Participant not found")
		return
	}
	c.JSON(http.StatusOK, responses)
}

func (h *ParticipantHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := h.store.GetParticipant(id)
	if err != nil {
		storeError(c, err, "Participant not found")
		return
	}
	if err := h.store.DeleteParticipant(id); err != nil {
		storeError(c, err, "Participant not found")
		return
	}
	c.JSON(http.StatusOK, p)
}
