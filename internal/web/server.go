// Copyright (c) 2025 yadem01
// Survey Tool - research survey backend
// This source code is licensed under the MIT license found in the LICENSE file.

// Package web is the HTTP layer of the survey tool. Handlers are grouped
// per resource and registered on a shared gin engine; every handler talks
// to the storage layer through the db.Store interface.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yadem01/backend-survey-tool/internal/db"
	"github.com/yadem01/backend-survey-tool/internal/logging"
	"github.com/yadem01/backend-survey-tool/internal/upload"
)

// ServerConfig carries the web-layer settings taken from the application
// config.
type ServerConfig struct {
	CORSOrigins []string
}

// NewServer builds the gin engine with all routes and middleware
// registered.
func NewServer(cfg ServerConfig, st db.Store, files *upload.DiskStore) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	engine.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/health/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := st.Ping(ctx); err != nil {
			logging.Warnf("readiness check failed: %v", err)
			detail(c, http.StatusServiceUnavailable, "Database not reachable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	NewSurveyHandler(st).RegisterRoutes(engine)
	NewElementHandler(st).RegisterRoutes(engine)
	NewParticipantHandler(st).RegisterRoutes(engine)
	NewResponseHandler(st).RegisterRoutes(engine)
	NewTrackingHandler(st).RegisterRoutes(engine)
	NewUploadHandler(st, files).RegisterRoutes(engine)

	return engine
}

// requestLogger logs each request at debug level with method, path,
// status and duration.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Debugf("%s %s -> %d (%s)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	for _, o := range origins {
		if o == "*" {
			// Wildcard origins cannot be combined with credentials.
			cc.AllowAllOrigins = true
			cc.AllowCredentials = false
			cc.AllowOrigins = nil
			return cc
		}
	}
	cc.AllowOrigins = origins
	return cc
}
