// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package resolve

import (
	"context"
	"fmt"

	"github.com/arkedev/gitconf-server/internal/binary"
	ferrors "github.com/arkedev/gitconf-server/internal/errors"
	"github.com/arkedev/gitconf-server/internal/obslog"
	"github.com/arkedev/gitconf-server/internal/template"
	"github.com/arkedev/gitconf-server/internal/yamlflatten"
)

// Workspace is the subset of *workspace.Workspace the engine needs,
// named to allow a fake in tests without importing the real Git
// plumbing.
type Workspace interface {
	ResolveRef(ctx context.Context, label *string) (string, error)
	ReadBlob(ctx context.Context, commit, path string) ([]byte, error)
	RepoURL() string
	Subpath() string
}

// EnvLookup resolves an environment name to its Workspace and
// EffectiveEnvMap, reporting false for an unconfigured name (Resolve
// turns that into ferrors.ErrUnknownEnv).
type EnvLookup interface {
	Workspace(env string) (Workspace, bool)
	EnvMap(env string) (map[string]string, bool)
}

// PropertySource is a named, ordered mapping of dotted keys to JSON
// scalars contributed by one YAML file.
type PropertySource struct {
	Name   string                  `json:"name"`
	Source *yamlflatten.OrderedMap `json:"source"`
}

// SpringResponse is the Spring Cloud Config Server JSON shape.
type SpringResponse struct {
	Name            string           `json:"name"`
	Profiles        []string         `json:"profiles"`
	Label           *string          `json:"label"`
	Version         string           `json:"version"`
	State           string           `json:"state"`
	PropertySources []PropertySource `json:"propertySources"`
}

// Engine is the config resolution engine.
type Engine struct {
	envs EnvLookup
	log  obslog.Logger
}

// New builds an Engine over envs.
func New(envs EnvLookup, log obslog.Logger) *Engine {
	if log == nil {
		log = obslog.NewNoop()
	}
	return &Engine{envs: envs, log: log}
}

// Resolve runs the full candidate-enumeration-and-flatten algorithm
// for one (env, app, profile, label) request.
func (e *Engine) Resolve(ctx context.Context, env, app, profile string, label *string) (*SpringResponse, error) {
	ws, ok := e.envs.Workspace(env)
	if !ok {
		return nil, ferrors.ErrUnknownEnv
	}
	envMap, _ := e.envs.EnvMap(env)

	resp := &SpringResponse{
		Name:            app,
		Profiles:        []string{profile},
		Label:           label,
		State:           "",
		PropertySources: []PropertySource{},
	}

	commit, err := ws.ResolveRef(ctx, label)
	if err != nil {
		// An unresolvable ref yields an empty Spring response (200, no
		// property sources) rather than a propagated error, matching
		// upstream Spring Cloud Config Server's treatment of a bad label.
		return resp, nil
	}
	resp.Version = commit

	for _, candidate := range Candidates(app, profile) {
		blob, err := ws.ReadBlob(ctx, commit, candidate)
		if err != nil {
			if ferrors.Is(err, ferrors.ErrBlobNotFound) {
				continue
			}
			e.log.Error("read_blob failed for resolved commit", "env", env, "candidate", candidate, "error", err)
			return nil, ferrors.Wrap(err, ferrors.ErrGitError)
		}
		if binary.IsBinary(blob) {
			continue
		}

		rendered := template.RenderBytes(blob, envMap)
		flattened, err := yamlflatten.Flatten(rendered)
		if err != nil {
			e.log.Warn("skipping candidate with invalid yaml", "env", env, "candidate", candidate, "error", err)
			continue
		}

		resp.PropertySources = append(resp.PropertySources, PropertySource{
			Name:   sourceName(ws.RepoURL(), ws.Subpath(), candidate),
			Source: flattened,
		})
	}

	return resp, nil
}

func sourceName(repoURL, subpath, candidate string) string {
	if subpath == "" {
		return fmt.Sprintf("%s/%s", repoURL, candidate)
	}
	return fmt.Sprintf("%s/%s/%s", repoURL, subpath, candidate)
}
