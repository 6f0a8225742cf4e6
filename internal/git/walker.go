package git

import (
	"container/heap"
	"log/slog"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// walkCommits yields at most limit commits reachable from HEAD or any local
// branch tip, newest committer time first among commits whose discovered
// children were all emitted. A commit is held back until every child that
// entered the walk has been emitted, so parents never appear before their
// children even when committer clocks run backwards. A parent whose object
// cannot be resolved is skipped rather than expanded; the hash still appears
// in the visited commit's parent list.
func walkCommits(repo *repoHandle, head plumbing.Hash, tips branchTipSet, limit int) ([]*object.Commit, error) {
	walk := newCommitWalk(repo)
	if err := walk.discover(head); err != nil {
		return nil, err
	}
	for hash := range tips {
		if err := walk.discover(hash); err != nil {
			slog.Debug("skipping unresolvable branch tip",
				slog.String("branch", tips[hash]),
				slog.String("hash", hash.String()),
			)
		}
	}
	walk.releaseReady()

	var commits []*object.Commit
	for walk.frontier.Len() > 0 && len(commits) < limit {
		commit := heap.Pop(&walk.frontier).(*object.Commit)
		commits = append(commits, commit)
		for _, parent := range commit.ParentHashes {
			if !walk.seen[parent] {
				if err := walk.discover(parent); err != nil {
					slog.Debug("dangling parent not expanded",
						slog.String("hash", parent.String()),
					)
				}
			}
			walk.childEmitted(parent)
		}
	}
	return commits, nil
}

// commitWalk tracks, for every discovered commit, how many discovered
// children still wait in the frontier. A commit moves from waiting to the
// frontier only once that count drops to zero.
type commitWalk struct {
	repo     *repoHandle
	frontier commitFrontier
	seen     map[plumbing.Hash]bool
	pending  map[plumbing.Hash]int
	waiting  map[plumbing.Hash]*object.Commit
}

func newCommitWalk(repo *repoHandle) *commitWalk {
	return &commitWalk{
		repo:    repo,
		seen:    map[plumbing.Hash]bool{},
		pending: map[plumbing.Hash]int{},
		waiting: map[plumbing.Hash]*object.Commit{},
	}
}

// discover resolves hash and parks the commit until its discovered children
// are emitted. Discovery raises the pending count of each parent so those
// stay parked in turn.
func (w *commitWalk) discover(hash plumbing.Hash) error {
	if w.seen[hash] {
		return nil
	}
	commit, err := w.repo.CommitObject(hash)
	if err != nil {
		return err
	}
	w.seen[hash] = true
	for _, parent := range commit.ParentHashes {
		w.pending[parent]++
	}
	w.waiting[hash] = commit
	return nil
}

// childEmitted records that one discovered child of hash left the frontier
// and promotes hash once no discovered children remain.
func (w *commitWalk) childEmitted(hash plumbing.Hash) {
	w.pending[hash]--
	if commit, ok := w.waiting[hash]; ok && w.pending[hash] <= 0 {
		delete(w.waiting, hash)
		heap.Push(&w.frontier, commit)
	}
}

// releaseReady promotes every waiting commit no discovered child points at.
// Called once after seeding, before the pop loop starts.
func (w *commitWalk) releaseReady() {
	for hash, commit := range w.waiting {
		if w.pending[hash] == 0 {
			delete(w.waiting, hash)
			heap.Push(&w.frontier, commit)
		}
	}
}

// commitFrontier is a max-heap by committer time, hash as tie-breaker so
// traversal order is stable across runs.
type commitFrontier []*object.Commit

func (f commitFrontier) Len() int { return len(f) }

func (f commitFrontier) Less(i, j int) bool {
	ti, tj := f[i].Committer.When, f[j].Committer.When
	if !ti.Equal(tj) {
		return ti.After(tj)
	}
	return f[i].Hash.String() > f[j].Hash.String()
}

func (f commitFrontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *commitFrontier) Push(x any) {
	*f = append(*f, x.(*object.Commit))
}

func (f *commitFrontier) Pop() any {
	old := *f
	n := len(old)
	commit := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return commit
}
