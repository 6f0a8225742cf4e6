package git

import (
	"log/slog"
	"path/filepath"
	"sync"

	gitlib "github.com/go-git/go-git/v5"
)

// DefaultWindow bounds the history listing to the most recent commits
// reachable from HEAD.
const DefaultWindow = 100

// Session owns at most one open repository at a time. Opening a new
// repository replaces the previous handle. Every operation takes the session
// lock for its full duration; the underlying repository object is not safe
// for concurrent access.
type Session struct {
	mu     sync.Mutex
	repo   *repoHandle
	window int
}

type repoHandle struct {
	*gitlib.Repository
	path string
}

func NewSession() *Session {
	return &Session{window: DefaultWindow}
}

// SetWindow overrides the history window size. Values below 1 reset to
// DefaultWindow.
func (s *Session) SetWindow(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 {
		n = DefaultWindow
	}
	s.window = n
}

// Open resolves path to a repository and makes it the session's current
// handle, discarding any previous one. It returns the new repository's
// working-tree status.
func (s *Session) Open(path string) (RepoStatus, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return RepoStatus{}, wrapErr(KindRepoNotFound, "open", err)
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return RepoStatus{}, wrapErr(KindRepoNotFound, "open", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repo != nil {
		slog.Debug("replacing open repository",
			slog.String("old", s.repo.path),
			slog.String("new", abs),
		)
	}
	s.repo = &repoHandle{Repository: repo, path: abs}
	return s.statusLocked(s.repo)
}

// RepoPath returns the path of the open repository, or "" when none is open.
func (s *Session) RepoPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repo == nil {
		return ""
	}
	return s.repo.path
}

// handleLocked expects the caller to hold s.mu.
func (s *Session) handleLocked(op string) (*repoHandle, error) {
	if s.repo == nil {
		return nil, wrapErr(KindNoRepositoryOpen, op, nil)
	}
	return s.repo, nil
}
