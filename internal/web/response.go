// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yadem01/backend-survey-tool/internal/db"
	"github.com/yadem01/backend-survey-tool/internal/model"
)

// ResponseHandler serves participant answers.
type ResponseHandler struct {
	store db.Store
}

func NewResponseHandler(store db.Store) *ResponseHandler {
	return &ResponseHandler{store: store}
}

func (h *ResponseHandler) RegisterRoutes(server *gin.Engine) {
	g := server.Group("/responses")
	g.POST("/", h.Create)
	g.GET("/", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *ResponseHandler) Create(c *gin.Context) {
	var r model.Response
	if err := c.ShouldBindJSON(&r); err != nil {
		detail(c, http.StatusBadRequest, "Invalid response payload")
		return
	}
	if r.ParticipantID == 0 || r.SurveyElementID == 0 {
		detail(c, http.StatusBadRequest, "participant_id and survey_element_id are required")
		return
	}
	if _, err := h.store.GetParticipant(r.ParticipantID); err != nil {
		storeError(c, err, "Participant not found")
		return
	}
	if _, err := h.store.GetElement(r.SurveyElementID); err != nil {
		storeError(c, err, "Element not found")
		return
	}
	r.ID = 0
	id, err := h.store.CreateResponse(&r)
	if err != nil {
		storeError(c, err, "Response not found")
		return
	}
	created, err := h.store.GetResponse(id)
	if err != nil {
		storeError(c, err, "Response not found")
		return
	}
	c.JSON(http.StatusOK, created)
}

// List filters by element_id or participant_id; exactly one is required.
func (h *ResponseHandler) List(c *gin.Context) {
	elementParam := c.Query("element_id")
	participantParam := c.Query("participant_id")

	switch {
	case elementParam != "" && participantParam == "":
		id, err := strconv.ParseInt(elementParam, 10, 64)
		if err != nil || id <= 0 {
			detail(c, http.StatusBadRequest, "Invalid element_id")
			return
		}
		responses, err := h.store.GetResponsesForElement(id)
		if err != nil {
			storeError(c, err, "Element not found")
			return
		}
		c.JSON(http.StatusOK, responses)
	case participantParam != "" && elementParam == "":
		id, err := strconv.ParseInt(participantParam, 10, 64)
		if err != nil || id <= 0 {
			detail(c, http.StatusBadRequest, "Invalid participant_id")
			return
		}
		responses, err := h.store.GetResponsesForParticipant(id)
		if err != nil {
			storeError(c, err, "Participant not found")
			return
		}
		c.JSON(http.StatusOK, responses)
	default:
		detail(c, http.StatusBadRequest, "Provide exactly one of element_id or participant_id")
	}
}

func (h *ResponseHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r, err := h.store.GetResponse(id)
	if err != nil {
		storeError(c, err, "Response not found")
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ResponseHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	existing, err := h.store.GetResponse(id)
	if err != nil {
		storeError(c, err, "Response not found")
		return
	}
	var r model.Response
	if err := c.ShouldBindJSON(&r); err != nil {
		detail(c, http.StatusBadRequest, "Invalid response payload")
		return
	}
	r.ID = id
	// Ownership of a response never moves.
	r.ParticipantID = existing.ParticipantID
	r.SurveyElementID = existing.SurveyElementID
	if err := h.store.UpdateResponse(&r); err != nil {
		storeError(c, err, "Response not found")
		return
	}
	updated, err := h.store.GetResponse(id)
	if err != nil {
		storeError(c, err, "Response not found")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ResponseHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r, err := h.store.GetResponse(id)
	if err != nil {
		storeError(c, err, "Response not found")
		return
	}
	if err := h.store.DeleteResponse(id); err != nil {
		storeError(c, err, "Response not found")
		return
	}
	c.JSON(http.StatusOK, r)
}
