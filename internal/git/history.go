package git

import (
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// History walks the most recent commits reachable from HEAD or any local
// branch tip in topological/committer-time order and assembles the
// render-ready graph records. The whole window is recomputed from repository
// state on every call.
func (s *Session) History() ([]CommitRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := s.handleLocked("history")
	if err != nil {
		return nil, err
	}
	head, err := repo.Head()
	if err != nil {
		return nil, wrapErr(KindTraversal, "history", err)
	}
	refs, err := buildRefIndex(repo)
	if err != nil {
		return nil, wrapErr(KindTraversal, "history", err)
	}
	tips, err := branchTips(repo)
	if err != nil {
		return nil, wrapErr(KindTraversal, "history", err)
	}
	commits, err := walkCommits(repo, head.Hash(), tips, s.window)
	if err != nil {
		return nil, wrapErr(KindTraversal, "history", err)
	}

	lanes := newLaneAssigner()
	records := make([]CommitRecord, 0, len(commits))
	for _, commit := range commits {
		records = append(records, newCommitRecord(commit, refs, tips, lanes))
	}
	slog.Debug("history assembled",
		slog.Int("commits", len(records)),
		slog.Int("window", s.window),
		slog.Int("lanes", lanes.next),
	)
	return records, nil
}

func newCommitRecord(commit *object.Commit, refs refIndex, tips branchTipSet, lanes *laneAssigner) CommitRecord {
	hash := commit.Hash.String()
	parents := make([]string, 0, len(commit.ParentHashes))
	for _, parent := range commit.ParentHashes {
		parents = append(parents, parent.String())
	}
	kind := CommitKindCommit
	if len(parents) >= 2 {
		kind = CommitKindMerge
	}
	// A failed per-commit diff degrades to zero stats instead of aborting
	// the whole window.
	stats, err := commitStats(commit)
	if err != nil {
		slog.Warn("commit stats degraded to zero",
			slog.String("hash", hash),
			slog.Any("error", wrapErr(KindDiff, "history", err)),
		)
		stats = CommitStats{}
	}
	label := branchLabel(tips, commit.Hash)
	lane := lanes.laneFor(label)
	return CommitRecord{
		Hash:           hash,
		Message:        strings.TrimRight(commit.Message, "\n"),
		AuthorName:     commit.Author.Name,
		AuthorEmail:    commit.Author.Email,
		CommitterName:  commit.Committer.Name,
		CommitterEmail: commit.Committer.Email,
		Branch:         label,
		RelativeDate:   humanize.Time(commit.Author.When),
		Parents:        parents,
		LaneColor:      laneColor(lane),
		Lane:           lane,
		Kind:           kind,
		Stats:          stats,
		Refs:           refs[hash],
	}
}
