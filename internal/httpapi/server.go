// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package httpapi

import (
	"context"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arkedev/gitconf-server/internal/assets"
	"github.com/arkedev/gitconf-server/internal/auth"
	ferrors "github.com/arkedev/gitconf-server/internal/errors"
	"github.com/arkedev/gitconf-server/internal/obslog"
	"github.com/arkedev/gitconf-server/internal/obsmetrics"
	"github.com/arkedev/gitconf-server/internal/resolve"
	"github.com/arkedev/gitconf-server/internal/workspace"
)

// EnvironmentHandle bundles one configured environment's live
// Workspace and its EffectiveEnvMap, the two pieces of per-env state
// the HTTP layer needs.
type EnvironmentHandle struct {
	Workspace *workspace.Workspace
	EnvMap    map[string]string
}

// Server wires the core components into a gin engine. It implements
// resolve.EnvLookup directly so the Resolution Engine needs no
// knowledge of config.Config or gin.
type Server struct {
	envs    map[string]EnvironmentHandle
	engine  *resolve.Engine
	gate    *auth.Gate
	log     obslog.Logger
	metrics *obsmetrics.Metrics
	basePath string
	headerName string
}

// New builds a Server over the given environment handles and auth
// configuration.
func New(
	envs map[string]EnvironmentHandle,
	basic auth.BasicAuthConfig,
	acl auth.ClientACLConfig,
	basePath, headerName string,
	log obslog.Logger,
) *Server {
	if log == nil {
		log = obslog.NewNoop()
	}
	s := &Server{
		envs:       envs,
		gate:       auth.New(basic, acl),
		log:        log,
		metrics:    obsmetrics.New(),
		basePath:   normalizeBasePath(basePath),
		headerName: headerName,
	}
	s.engine = resolve.New(s, log)
	return s
}

// Workspace implements resolve.EnvLookup.
func (s *Server) Workspace(env string) (resolve.Workspace, bool) {
	h, ok := s.envs[env]
	if !ok {
		return nil, false
	}
	return h.Workspace, true
}

// EnvMap implements resolve.EnvLookup.
func (s *Server) EnvMap(env string) (map[string]string, bool) {
	h, ok := s.envs[env]
	if !ok {
		return nil, false
	}
	return h.EnvMap, true
}

func normalizeBasePath(p string) string {
	if p == "" || p == "/" {
		return ""
	}
	p = strings.TrimSuffix(p, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Router builds the full gin engine. Every route shares one path
// segment (env) as a parameter in some branches and a literal in
// others ("env", "assets" vs. an arbitrary app name), and gin's radix
// tree rejects a node that has both a wildcard child and static
// children — so the whole table is served behind a single top-level
// catch-all, and dispatch does the branching by hand, the same way
// splitOptionalLabel already does one level down for the asset routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogging(s.log), Recovery(s.log), s.metrics.Middleware())
	r.GET("/*catchall", s.dispatch)
	return r
}

// dispatch routes every GET request by hand: the unprotected
// healthz/metrics endpoints first, then everything mounted under
// basePath, where the first remaining path segment is the environment
// name and the rest determines the scope and handler.
func (s *Server) dispatch(c *gin.Context) {
	p := c.Param("catchall")

	switch {
	case p == "/healthz":
		s.handleHealthz(c)
		return
	case p == "/healthz/env":
		s.handleHealthzEnvAll(c)
		return
	case strings.HasPrefix(p, "/healthz/env/"):
		env := strings.TrimPrefix(p, "/healthz/env/")
		if env == "" || strings.Contains(env, "/") {
			c.JSON(404, gin.H{"error": "not found"})
			return
		}
		setParam(c, "env", env)
		s.handleHealthzEnv(c)
		return
	case p == "/metrics":
		s.metrics.Handler()(c)
		return
	}

	rest, ok := stripBasePath(p, s.basePath)
	if !ok {
		c.JSON(404, gin.H{"error": "not found"})
		return
	}

	if rest == "/ui" {
		s.withScope(c, auth.ScopeUI, "", s.handleUI)
		return
	}

	rest = strings.TrimPrefix(rest, "/")
	if rest == "" {
		c.JSON(404, gin.H{"error": "not found"})
		return
	}
	env, remainder, _ := strings.Cut(rest, "/")
	setParam(c, "env", env)

	switch {
	case remainder == "env":
		s.withScope(c, auth.ScopeEnvRead, "env", s.handleEnvJSON)
	case remainder == "env/export":
		s.withScope(c, auth.ScopeEnvRead, "env", s.handleEnvExport)
	case remainder == "assets":
		s.withScope(c, auth.ScopeFilesRead, "env", s.handleAssetList)
	case strings.HasPrefix(remainder, "assets/"):
		setParam(c, "path", "/"+strings.TrimPrefix(remainder, "assets/"))
		s.withScope(c, auth.ScopeFilesRead, "env", s.handleAssetGet)
	default:
		s.dispatchSpringConfig(c, remainder)
	}
}

// dispatchSpringConfig splits remainder into app/profile[/label] for
// the Spring Cloud Config routes, the one shape with a variable number
// of segments that isn't a reserved literal like "env" or "assets".
func (s *Server) dispatchSpringConfig(c *gin.Context, remainder string) {
	parts := strings.Split(remainder, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		c.JSON(404, gin.H{"error": "not found"})
		return
	}
	setParam(c, "app", parts[0])
	setParam(c, "profile", parts[1])
	if len(parts) >= 3 && parts[2] != "" {
		setParam(c, "label", parts[2])
	}
	s.withScope(c, auth.ScopeConfigRead, "env", s.handleSpringConfig)
}

// withScope runs the Authorization Gate for scope/envParam and, if it
// allows the request, calls handler.
func (s *Server) withScope(c *gin.Context, scope auth.Scope, envParam string, handler gin.HandlerFunc) {
	s.requireScope(scope, envParam)(c)
	if c.IsAborted() {
		return
	}
	handler(c)
}

func setParam(c *gin.Context, key, value string) {
	c.Params = append(c.Params, gin.Param{Key: key, Value: value})
}

// stripBasePath removes the configured base path prefix from p,
// reporting false if p does not carry it.
func stripBasePath(p, basePath string) (string, bool) {
	if basePath == "" {
		return p, true
	}
	if !strings.HasPrefix(p, basePath) {
		return "", false
	}
	rest := strings.TrimPrefix(p, basePath)
	if rest == "" {
		rest = "/"
	}
	return rest, true
}

// requireScope builds gin middleware enforcing the Authorization Gate
// for one route's required scope. envParam names the gin path param
// holding the target environment, or "" for routes with none (the UI).
func (s *Server) requireScope(scope auth.Scope, envParam string) gin.HandlerFunc {
	return func(c *gin.Context) {
		env := ""
		if envParam != "" {
			env = c.Param(envParam)
		}

		req := auth.Request{Env: env, RequiredScope: scope}
		if user, pass, ok := c.Request.BasicAuth(); ok {
			req.HasBasicCreds = true
			req.BasicUsername = user
			req.BasicPassword = pass
		}
		if s.headerName != "" {
			if v := c.GetHeader(s.headerName); v != "" {
				req.HasHeaderValue = true
				req.HeaderValue = v
			}
		}

		switch s.gate.Authorize(req) {
		case auth.Allow:
			c.Next()
		case auth.DenyUnauthorized:
			c.Header("WWW-Authenticate", `Basic realm="gitconf-server"`)
			c.AbortWithStatusJSON(401, gin.H{"error": "unauthorized"})
		case auth.DenyForbidden:
			c.AbortWithStatusJSON(403, gin.H{"error": "forbidden"})
		}
	}
}

func (s *Server) handleSpringConfig(c *gin.Context) {
	env := c.Param("env")
	app := c.Param("app")
	profile := c.Param("profile")

	var label *string
	if l := c.Param("label"); l != "" {
		label = &l
	}

	resp, err := s.engine.Resolve(c.Request.Context(), env, app, profile, label)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(200, resp)
}

func (s *Server) handleEnvJSON(c *gin.Context) {
	h, ok := s.envs[c.Param("env")]
	if !ok {
		s.writeError(c, ferrors.ErrUnknownEnv)
		return
	}
	c.JSON(200, sortedEnvMap(h.EnvMap))
}

func (s *Server) handleEnvExport(c *gin.Context) {
	h, ok := s.envs[c.Param("env")]
	if !ok {
		s.writeError(c, ferrors.ErrUnknownEnv)
		return
	}
	c.Data(200, "text/plain; charset=utf-8", []byte(envExport(h.EnvMap)))
}

func (s *Server) handleAssetList(c *gin.Context) {
	h, ok := s.envs[c.Param("env")]
	if !ok {
		s.writeError(c, ferrors.ErrUnknownEnv)
		return
	}
	files, err := assets.List(c.Request.Context(), h.Workspace)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(200, gin.H{"files": files})
}

func (s *Server) handleAssetGet(c *gin.Context) {
	h, ok := s.envs[c.Param("env")]
	if !ok {
		s.writeError(c, ferrors.ErrUnknownEnv)
		return
	}

	raw := strings.TrimPrefix(c.Param("path"), "/")
	label, path := splitOptionalLabel(raw, h.Workspace)

	if err := assets.CheckPathSafety(path); err != nil {
		s.writeError(c, err)
		return
	}

	f, err := assets.Get(c.Request.Context(), h.Workspace, label, path, h.EnvMap)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Data(200, f.ContentType, f.Content)
}

// splitOptionalLabel implements the two asset route shapes: a bare
// path with no label, and a path prefixed with a label segment. Since
// both are registered under one gin wildcard, disambiguation happens
// here: if the first path segment names a ref the workspace can
// resolve, it is treated as a label and stripped; otherwise the whole
// remainder is the asset path.
func splitOptionalLabel(raw string, ws resolve.Workspace) (*string, string) {
	idx := strings.Index(raw, "/")
	if idx <= 0 {
		return nil, raw
	}
	candidateLabel := raw[:idx]
	rest := raw[idx+1:]
	if rest == "" {
		return nil, raw
	}
	if _, err := ws.ResolveRef(context.Background(), &candidateLabel); err == nil {
		return &candidateLabel, rest
	}
	return nil, raw
}

func (s *Server) writeError(c *gin.Context, err error) {
	switch ferrors.KindOf(err) {
	case ferrors.KindUnknownEnv:
		c.JSON(404, gin.H{"error": "unknown environment"})
	case ferrors.KindLabelNotFound, ferrors.KindBlobNotFound:
		c.JSON(404, gin.H{"error": "not found"})
	case ferrors.KindBadRequest:
		c.JSON(400, gin.H{"error": "bad request"})
	case ferrors.KindGitError, ferrors.KindGitTimeout:
		c.JSON(502, gin.H{"error": "upstream git failure"})
	case ferrors.KindYamlParse:
		c.JSON(502, gin.H{"error": "invalid yaml"})
	default:
		s.log.Error("internal error", "request_id", c.GetString("request_id"), "error", err)
		c.JSON(500, gin.H{"error": "internal error"})
	}
}

func sortedEnvMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// envExport renders a shell-sourceable export format: one
// "export KEY=\"VALUE\"" line per key, sorted alphabetically, with
// backslash and double-quote escaped.
func envExport(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString("export ")
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(escapeExportValue(m[k]))
		b.WriteString("\"\n")
	}
	return b.String()
}

func escapeExportValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return v
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}

func (s *Server) handleHealthzEnv(c *gin.Context) {
	h, ok := s.envs[c.Param("env")]
	if !ok {
		c.JSON(404, gin.H{"error": "unknown environment"})
		return
	}
	commit, err := h.Workspace.ResolveRef(c.Request.Context(), nil)
	if err != nil {
		c.JSON(200, gin.H{"env": c.Param("env"), "status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"env": c.Param("env"), "status": "ok", "commit": commit})
}

func (s *Server) handleUI(c *gin.Context) {
	c.Data(200, "text/html; charset=utf-8", []byte(uiHTML))
}
