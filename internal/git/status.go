package git

import (
	"sort"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// DetachedHead is the branch sentinel reported when HEAD does not point at a
// branch, or when the repository has no commits yet.
const DetachedHead = "HEAD"

// Status reports the current branch and a classified list of changed paths.
func (s *Session) Status() (RepoStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := s.handleLocked("status")
	if err != nil {
		return RepoStatus{}, err
	}
	return s.statusLocked(repo)
}

// statusLocked expects the caller to hold s.mu.
func (s *Session) statusLocked(repo *repoHandle) (RepoStatus, error) {
	branch := DetachedHead
	headRef, err := repo.Head()
	if err != nil && err != plumbing.ErrReferenceNotFound {
		return RepoStatus{}, wrapErr(KindTraversal, "status", err)
	}
	if err == nil && headRef.Name().IsBranch() {
		branch = headRef.Name().Short()
	}

	wt, err := repo.Worktree()
	if err != nil {
		return RepoStatus{}, wrapErr(KindDiff, "status", err)
	}
	status, err := wt.Status()
	if err != nil {
		return RepoStatus{}, wrapErr(KindDiff, "status", err)
	}

	paths := make([]string, 0, len(status))
	for path := range status {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	files := make([]FileStatus, 0, len(paths))
	for _, path := range paths {
		kind, ok := classifyStatus(status[path])
		if !ok {
			continue
		}
		files = append(files, FileStatus{Path: path, Kind: kind})
	}
	return RepoStatus{Branch: branch, Clean: len(files) == 0, Files: files}, nil
}

// classifyStatus maps a path's index and working-tree codes onto exactly one
// kind. Index states take priority over working-tree states; the first match
// wins.
func classifyStatus(st *gitlib.FileStatus) (StatusKind, bool) {
	switch {
	case st.Staging == gitlib.Added:
		return StatusNew, true
	case st.Staging == gitlib.Modified:
		return StatusModified, true
	case st.Staging == gitlib.Deleted:
		return StatusDeleted, true
	case st.Staging == gitlib.Renamed:
		return StatusRenamed, true
	case st.Worktree == gitlib.Modified:
		return StatusModified, true
	case st.Worktree == gitlib.Deleted:
		return StatusDeleted, true
	case st.Worktree == gitlib.Untracked:
		return StatusNew, true
	case st.Staging == gitlib.Unmodified && st.Worktree == gitlib.Unmodified:
		return "", false
	}
	return StatusUnknown, true
}
