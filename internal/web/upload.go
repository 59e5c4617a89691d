// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yadem01/backend-survey-tool/internal/db"
	"github.com/yadem01/backend-survey-tool/internal/logging"
	"github.com/yadem01/backend-survey-tool/internal/model"
	"github.com/yadem01/backend-survey-tool/internal/upload"
)

// UploadHandler stores survey images on disk and records their metadata.
type UploadHandler struct {
	store db.Store
	files *upload.DiskStore
}

func NewUploadHandler(store db.Store, files *upload.DiskStore) *UploadHandler {
	return &UploadHandler{store: store, files: files}
}

func (h *UploadHandler) RegisterRoutes(server *gin.Engine) {
	g := server.Group("/uploads")
	g.POST("/", h.Upload)
	g.GET("/", h.List)
	g.GET("/:filename", h.Serve)
	g.DELETE("/:filename", h.Delete)
}

func (h *UploadHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		detail(c, http.StatusBadRequest, "No file in request")
		return
	}

	saved, err := h.files.Save(fh)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrUnsupportedType):
			detail(c, http.StatusBadRequest, "Unsupported file type")
		case errors.Is(err, upload.ErrTooLarge):
			detail(c, http.StatusRequestEntityTooLarge, "File too large")
		default:
			logging.Errorf("store upload: %v", err)
			detail(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	u := model.Upload{
		Filename:     saved.Filename,
		OriginalName: saved.OriginalName,
		Size:         saved.Size,
		MimeType:     saved.MimeType,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := h.store.CreateUpload(&u); err != nil {
		// Keep disk and metadata consistent.
		_ = h.files.Remove(saved.Filename)
		storeError(c, err, "Upload not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filename":      u.Filename,
		"original_name": u.OriginalName,
		"size":          u.Size,
		"mime_type":     u.MimeType,
		"url":           "/uploads/" + u.Filename,
	})
}

func (h *UploadHandler) List(c *gin.Context) {
	uploads, err := h.store.GetAllUploads()
	if err != nil {
		storeError(c, err, "Upload not found")
		return
	}
	c.JSON(http.StatusOK, uploads)
}

func (h *UploadHandler) Serve(c *gin.Context) {
	filename := c.Param("filename")
	if _, err := h.store.GetUploadByFilename(filename); err != nil {
		storeError(c, err, "File not found")
		return
	}
	path, err := h.files.Path(filename)
	if err != nil {
		detail(c, http.StatusBadRequest, "Invalid filename")
		return
	}
	c.File(path)
}

func (h *UploadHandler) Delete(c *gin.Context) {
	filename := c.Param("filename")
	u, err := h.store.GetUploadByFilename(filename)
	if err != nil {
		storeError(c, err, "File not found")
		return
	}
	if err := h.store.DeleteUpload(filename); err != nil {
		storeError(c, err, "File not found")
		return
	}
	if err := h.files.Remove(filename); err != nil {
		logging.Warnf("remove upload file %s: %v", filename, err)
	}
	c.JSON(http.StatusOK, u)
}
