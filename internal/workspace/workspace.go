// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ferrors "github.com/arkedev/gitconf-server/internal/errors"
	"github.com/arkedev/gitconf-server/internal/gitcmd"
	"github.com/arkedev/gitconf-server/internal/obslog"
)

// nonInteractiveEnv disables Git's credential prompts so a stuck
// remote never blocks a refresh indefinitely; it fails fast instead.
var nonInteractiveEnv = []string{"GIT_TERMINAL_PROMPT=0"}

// subprocessTimeout bounds every Git subprocess.
const subprocessTimeout = 30 * time.Second

// Workspace owns one environment's on-disk Git working directory and
// its reader/writer discipline: refresh takes the writer side for the
// duration of fetch+reset; requests take the reader side only long
// enough to resolve a label to a commit hash, then read blobs/trees by
// that commit lock-free, since Git objects are immutable once written.
type Workspace struct {
	name string
	cfg  GitConfig
	exec *gitcmd.Executor
	log  obslog.Logger

	mu sync.RWMutex
	wg sync.WaitGroup
}

// New creates a Workspace for one environment. It performs no I/O;
// call Init to clone-or-open and run the first refresh.
func New(name string, cfg GitConfig, log obslog.Logger) *Workspace {
	if log == nil {
		log = obslog.NewNoop()
	}
	return &Workspace{
		name: name,
		cfg:  cfg,
		exec: gitcmd.NewExecutor(gitcmd.WithTimeout(subprocessTimeout)),
		log:  log,
	}
}

// Init clones the repository into cfg.Workdir if it is not already a
// Git working tree, opens it otherwise, and then performs one
// synchronous Refresh so the workspace starts at a known-fresh state.
func (w *Workspace) Init(ctx context.Context) error {
	if w.exec.IsGitRepository(ctx, w.cfg.Workdir) {
		w.log.Info("opening existing workspace", "env", w.name, "workdir", w.cfg.Workdir)
	} else {
		if err := gitcmd.SanitizeURL(w.cfg.RepoURL); err != nil {
			return ferrors.Wrap(fmt.Errorf("repo url for %q: %w", w.name, err), ferrors.ErrBadRequest)
		}
		w.log.Info("cloning workspace", "env", w.name, "repo_url", w.cfg.RepoURL, "workdir", w.cfg.Workdir)
		if err := os.MkdirAll(filepath.Dir(w.cfg.Workdir), 0o755); err != nil {
			return ferrors.Wrap(fmt.Errorf("create workdir parent: %w", err), ferrors.ErrInternal)
		}
		if _, err := w.runGit(ctx, "", "clone", w.cfg.RepoURL, w.cfg.Workdir); err != nil {
			return err
		}
	}
	return w.Refresh(ctx)
}

// Refresh performs fetch+reset --hard against the configured branch,
// holding the writer lock for the duration. Called once synchronously
// by Init and then periodically by the background loop started with
// StartRefreshLoop.
func (w *Workspace) Refresh(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.runGit(ctx, w.cfg.Workdir, "fetch", "origin"); err != nil {
		return err
	}
	ref := "origin/" + w.cfg.Branch
	if _, err := w.runGit(ctx, w.cfg.Workdir, "reset", "--hard", ref); err != nil {
		return err
	}
	return nil
}

// StartRefreshLoop runs Refresh every cfg.RefreshInterval until parent
// is done. Failures are logged and do not stop the loop; the next
// tick simply retries. An in-flight fetch/reset is always allowed to
// finish, even during shutdown — each tick runs against its own
// background context rather than parent, so it is never killed
// mid-operation; each underlying Git subprocess still self-bounds via
// subprocessTimeout.
func (w *Workspace) StartRefreshLoop(parent context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(w.cfg.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-parent.Done():
				return
			case <-ticker.C:
				if err := w.Refresh(context.Background()); err != nil {
					w.log.Error("refresh failed", "env", w.name, "error", err)
				}
			}
		}
	}()
}

// Wait blocks until the background refresh loop (if any) has exited.
// Call after cancelling the context passed to StartRefreshLoop.
func (w *Workspace) Wait() { w.wg.Wait() }

// RepoURL returns the configured clone source, used by the Resolution
// Engine and Asset Service to build PropertySource/asset names.
func (w *Workspace) RepoURL() string { return w.cfg.RepoURL }

// Subpath returns the configured repo-relative root.
func (w *Workspace) Subpath() string { return w.cfg.Subpath }

// ResolveRef resolves an optional label to a full commit hash. When
// label is nil, the default branch is used. The reader lock is held
// only for this resolution; callers must reuse the returned commit
// hash — the pinned commit — for every subsequent read in the request
// rather than calling ResolveRef again.
func (w *Workspace) ResolveRef(ctx context.Context, label *string) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if label != nil {
		if !w.labelAllowed(*label) {
			return "", ferrors.ErrLabelNotFound
		}
		if hash, err := w.revParse(ctx, *label); err == nil {
			return hash, nil
		}
		if hash, err := w.revParse(ctx, "origin/"+*label); err == nil {
			return hash, nil
		}
		return "", ferrors.ErrLabelNotFound
	}

	if hash, err := w.revParse(ctx, w.cfg.Branch); err == nil {
		return hash, nil
	}
	if hash, err := w.revParse(ctx, "origin/"+w.cfg.Branch); err == nil {
		return hash, nil
	}
	// A missing default branch carries the same HTTP treatment as an
	// unresolvable label, so the two share one sentinel.
	return "", ferrors.ErrLabelNotFound
}

func (w *Workspace) labelAllowed(label string) bool {
	if len(w.cfg.Branches) == 0 {
		return true
	}
	for _, b := range w.cfg.Branches {
		if b == label {
			return true
		}
	}
	return false
}

func (w *Workspace) revParse(ctx context.Context, ref string) (string, error) {
	out, err := w.exec.RunOutput(ctx, w.cfg.Workdir, "rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ReadBlob retrieves the blob at <subpath>/<path> (or just <path> if
// subpath is empty) as of commit, without touching any lock: commit
// hashes address immutable Git objects, so concurrent reads are safe
// even across a reset happening on another goroutine.
func (w *Workspace) ReadBlob(ctx context.Context, commit, path string) ([]byte, error) {
	full := JoinSubpath(w.cfg.Subpath, path)
	res, err := w.exec.Run(ctx, w.cfg.Workdir, "show", commit+":"+full)
	if err != nil {
		return nil, ferrors.Wrap(err, ferrors.ErrGitError)
	}
	if isTimeout(res) {
		return nil, ferrors.ErrGitTimeout
	}
	if res.ExitCode != 0 {
		if isMissingPath(res.Stderr) {
			return nil, ferrors.ErrBlobNotFound
		}
		return nil, ferrors.Wrap(gitResultError(res), ferrors.ErrGitError)
	}
	return []byte(res.Stdout), nil
}

// ListTree lists every blob path under subpath at commit, returned
// relative to subpath.
func (w *Workspace) ListTree(ctx context.Context, commit string) ([]string, error) {
	args := []string{"ls-tree", "-r", "--name-only", commit}
	if w.cfg.Subpath != "" {
		args = append(args, "--", w.cfg.Subpath)
	}
	res, err := w.exec.Run(ctx, w.cfg.Workdir, args...)
	if err != nil {
		return nil, ferrors.Wrap(err, ferrors.ErrGitError)
	}
	if isTimeout(res) {
		return nil, ferrors.ErrGitTimeout
	}
	if res.ExitCode != 0 {
		return nil, ferrors.Wrap(gitResultError(res), ferrors.ErrGitError)
	}

	lines := splitNonEmptyLines(res.Stdout)
	if w.cfg.Subpath == "" {
		return lines, nil
	}
	prefix := strings.TrimSuffix(w.cfg.Subpath, "/") + "/"
	rel := make([]string, 0, len(lines))
	for _, l := range lines {
		if stripped, ok := strings.CutPrefix(l, prefix); ok {
			rel = append(rel, stripped)
		}
	}
	return rel, nil
}

// runGit executes a Git subprocess with credential prompts disabled
// and translates failures into the taxonomy's GitError/GitTimeout.
func (w *Workspace) runGit(ctx context.Context, dir string, args ...string) (*gitcmd.Result, error) {
	res, err := w.exec.RunWithEnv(ctx, dir, nonInteractiveEnv, args...)
	if err != nil {
		return nil, ferrors.Wrap(err, ferrors.ErrGitError)
	}
	if isTimeout(res) {
		return res, ferrors.ErrGitTimeout
	}
	if res.ExitCode != 0 {
		return res, ferrors.Wrap(gitResultError(res), ferrors.ErrGitError)
	}
	return res, nil
}

// isTimeout reports whether the subprocess was stopped by the timeout.
// A process killed by an expired context reports "signal: killed"
// rather than context.DeadlineExceeded, so the elapsed time decides.
func isTimeout(res *gitcmd.Result) bool {
	return res.Error != nil &&
		(errors.Is(res.Error, context.DeadlineExceeded) || res.Duration >= subprocessTimeout)
}

func gitResultError(res *gitcmd.Result) error {
	return fmt.Errorf("exit %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
}

func isMissingPath(stderr string) bool {
	return strings.Contains(stderr, "does not exist") ||
		strings.Contains(stderr, "exists on disk, but not in") ||
		strings.Contains(stderr, "fatal: invalid object name") ||
		strings.Contains(stderr, "Not a valid object name")
}

func splitNonEmptyLines(s string) []string {
	if s == "" {
		return []string{}
	}
	raw := strings.Split(s, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// JoinSubpath joins subpath and path with exactly one separating
// slash, omitting subpath entirely when empty.
func JoinSubpath(subpath, path string) string {
	if subpath == "" {
		return path
	}
	return strings.TrimSuffix(subpath, "/") + "/" + strings.TrimPrefix(path, "/")
}
