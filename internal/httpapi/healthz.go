// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package httpapi

import (
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// envHealth is one environment's health-check result.
type envHealth struct {
	Env    string `json:"env"`
	Status string `json:"status"`
	Commit string `json:"commit,omitempty"`
	Error  string `json:"error,omitempty"`
}

// handleHealthzEnvAll fans out a ResolveRef check across every
// configured environment with bounded concurrency. This is the one
// handler that touches more than one environment per request; each
// per-environment check is read-only and lock-brief, so it stays
// independent of the single-pinned-commit discipline each environment's
// own resolution otherwise follows.
func (s *Server) handleHealthzEnvAll(c *gin.Context) {
	names := make([]string, 0, len(s.envs))
	for name := range s.envs {
		names = append(names, name)
	}

	results := make([]envHealth, len(names))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(8)

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			h := s.envs[name]
			commit, err := h.Workspace.ResolveRef(ctx, nil)
			res := envHealth{Env: name, Status: "ok", Commit: commit}
			if err != nil {
				res.Status = "degraded"
				res.Error = err.Error()
			}
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	c.JSON(200, gin.H{"environments": results})
}
