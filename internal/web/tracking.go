// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yadem01/backend-survey-tool/internal/db"
	"github.com/yadem01/backend-survey-tool/internal/model"
)

// TrackingHandler ingests behavior beacons sent by the frontend while a
// participant works on an element.
type TrackingHandler struct {
	store db.Store
}

func NewTrackingHandler(store db.Store) *TrackingHandler {
	return &TrackingHandler{store: store}
}

func (h *TrackingHandler) RegisterRoutes(server *gin.Engine) {
	g := server.Group("/tracking")
	g.POST("/", h.Create)
}

func (h *TrackingHandler) Create(c *gin.Context) {
	var ev model.TrackingEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		detail(c, http.StatusBadRequest, "Invalid tracking payload")
		return
	}
	if ev.ParticipantID == 0 || ev.ElementID == 0 {
		detail(c, http.StatusBadRequest, "participant_id and element_id are required")
		return
	}
	p, err := h.store.GetParticipant(ev.ParticipantID)
	if err != nil {
		storeError(c, err, "Participant not found")
		return
	}
	// Beacons carry the survey id redundantly; trust the stored run.
	ev.SurveyID = p.SurveyID
	ev.ID = 0
	id, err := h.store.CreateTrackingEvent(&ev)
	if err != nil {
		storeError(c, err, "Participant not found")
		return
	}
	ev.ID = id
	c.JSON(http.StatusOK, ev)
}
