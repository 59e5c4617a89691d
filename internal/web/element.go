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

// ElementHandler serves single survey elements addressed by their own id.
type ElementHandler struct {
	store db.Store
}

func NewElementHandler(store db.Store) *ElementHandler {
	return &ElementHandler{store: store}
}

func (h *ElementHandler) RegisterRoutes(server *gin.Engine) {
	g := server.Group("/elements")
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *ElementHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	el, err := h.store.GetElement(id)
	if err != nil {
		storeError(c, err, "Element not found")
		return
	}
	c.JSON(http.StatusOK, el)
}

func (h *ElementHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	existing, err := h.store.GetElement(id)
	if err != nil {
		storeError(c, err, "Element not found")
		return
	}
	var el model.SurveyElement
	if err := c.ShouldBindJSON(&el); err != nil {
		detail(c, http.StatusBadRequest, "Invalid element payload")
		return
	}
	el.ID = id
	// The survey an element belongs to is fixed at creation.
	el.SurveyID = existing.SurveyID
	if err := h.store.UpdateElement(&el); err != nil {
		storeError(c, err, "Element not found")
		return
	}
	updated, err := h.store.GetElement(id)
	if err != nil {
		storeError(c, err, "Element not found")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ElementHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	el, err := h.store.GetElement(id)
	if err != nil {
		storeError(c, err, "Element not found")
		return
	}
	if err := h.store.DeleteElement(id); err != nil {
		storeError(c, err, "Element not found")
		return
	}
	c.JSON(http.StatusOK, el)
}
