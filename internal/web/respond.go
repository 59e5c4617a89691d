// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yadem01/backend-survey-tool/internal/db"
	"github.com/yadem01/backend-survey-tool/internal/logging"
)

// detail writes the error body used across the whole API:
// {"detail": "..."}.
func detail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"detail": msg})
}

// storeError translates a db error into the API error shape. notFoundMsg
// names the missing resource ("Survey not found", ...).
func storeError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		detail(c, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, db.ErrDuplicate):
		detail(c, http.StatusConflict, "Resource already exists")
	default:
		logging.Errorf("store error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		detail(c, http.StatusInternalServerError, "Internal server error")
	}
}
