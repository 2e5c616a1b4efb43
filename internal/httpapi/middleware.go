// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package httpapi wires the core components (resolve, assets, auth,
// envmap) into gin routes, plus the ambient request-ID/logging/
// metrics middleware and health endpoints.
package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arkedev/gitconf-server/internal/obslog"
)

const requestIDHeader = "X-Request-Id"

// RequestID stamps every request with a UUID, reusing an inbound
// X-Request-Id if present, surfaced in the response header and in
// per-request logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogging logs one line per completed request in the shared
// key/value Logger shape.
func RequestLogging(log obslog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("http request",
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Recovery logs a panic and returns 500 instead of crashing the
// process, replacing gin's default recovery middleware with one that
// goes through the project's own logger.
func Recovery(log obslog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered", "request_id", c.GetString("request_id"), "panic", r)
				c.AbortWithStatus(500)
			}
		}()
		c.Next()
	}
}
