// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package auth implements the authorization gate: the four-step
// ordered decision between Basic Auth and a header-based client ACL.
package auth

import (
	"crypto/subtle"
)

// Scope names the permission a route requires.
type Scope string

const (
	ScopeConfigRead Scope = "config:read"
	ScopeFilesRead  Scope = "files:read"
	ScopeEnvRead    Scope = "env:read"
	ScopeUI         Scope = "ui"
)

// Client describes one ACL entry.
type Client struct {
	ID           string
	Description  string
	Environments []string
	Scopes       []string
	UIAccess     bool
}

// BasicAuthConfig holds the process-env-sourced Basic Auth pair.
// Both fields must be non-empty for Basic Auth to be considered
// enabled.
type BasicAuthConfig struct {
	Username string
	Password string
}

// Enabled reports whether both username and password were configured.
func (b BasicAuthConfig) Enabled() bool {
	return b.Username != "" && b.Password != ""
}

// ClientACLConfig holds the header-based client ACL configuration.
type ClientACLConfig struct {
	Enabled    bool
	HeaderName string
	Clients    []Client
}

// Request carries the per-request facts the gate decides on.
type Request struct {
	BasicUsername  string
	BasicPassword  string
	HasBasicCreds  bool
	HeaderValue    string
	HasHeaderValue bool
	Env            string
	RequiredScope  Scope
}

// Decision is the gate's verdict.
type Decision int

const (
	// Allow grants the request.
	Allow Decision = iota
	// DenyUnauthorized corresponds to HTTP 401.
	DenyUnauthorized
	// DenyForbidden corresponds to HTTP 403.
	DenyForbidden
)

// Gate evaluates the ordered decision procedure between Basic Auth
// and the client ACL.
type Gate struct {
	basic BasicAuthConfig
	acl   ClientACLConfig
}

// New builds a Gate from its two independent auth mechanisms.
func New(basic BasicAuthConfig, acl ClientACLConfig) *Gate {
	return &Gate{basic: basic, acl: acl}
}

// Authorize runs the four-step procedure and returns the decision.
func (g *Gate) Authorize(req Request) Decision {
	basicEnabled := g.basic.Enabled()
	aclEnabled := g.acl.Enabled

	// 1. Neither mechanism enabled -> allow.
	if !basicEnabled && !aclEnabled {
		return Allow
	}

	// 2. Basic enabled and valid credentials presented -> allow,
	// regardless of any client header.
	if basicEnabled && req.HasBasicCreds && credentialsMatch(req, g.basic) {
		return Allow
	}

	// 3. Basic enabled, credentials missing/invalid, ACL disabled -> 401.
	if basicEnabled && !aclEnabled {
		return DenyUnauthorized
	}

	// 4. ACL enabled: look up the header.
	if aclEnabled {
		if !req.HasHeaderValue {
			return DenyUnauthorized
		}
		client, ok := findClient(g.acl.Clients, req.HeaderValue)
		if !ok {
			return DenyUnauthorized
		}
		if !clientAllowed(client, req.Env, req.RequiredScope) {
			return DenyForbidden
		}
		return Allow
	}

	// Basic enabled but credentials missing and ACL disabled was
	// already handled in step 3; reaching here is unreachable given
	// the two boolean flags, but default closed.
	return DenyUnauthorized
}

func credentialsMatch(req Request, basic BasicAuthConfig) bool {
	userOK := subtle.ConstantTimeCompare([]byte(req.BasicUsername), []byte(basic.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.BasicPassword), []byte(basic.Password)) == 1
	return userOK && passOK
}

func findClient(clients []Client, id string) (Client, bool) {
	for _, c := range clients {
		if c.ID == id {
			return c, true
		}
	}
	return Client{}, false
}

// clientAllowed checks env membership and scope. The UI route carries
// no env segment, so its scope check is ui_access alone, without an
// env match.
func clientAllowed(c Client, env string, scope Scope) bool {
	if scope == ScopeUI {
		return c.UIAccess
	}
	if !envAllowed(c.Environments, env) {
		return false
	}
	return scopeAllowed(c.Scopes, scope)
}

func envAllowed(envs []string, env string) bool {
	for _, e := range envs {
		if e == "*" || e == env {
			return true
		}
	}
	return false
}

func scopeAllowed(scopes []string, scope Scope) bool {
	for _, s := range scopes {
		if Scope(s) == scope {
			return true
		}
	}
	return false
}
