package git

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/object"
)

// commitStats computes change counts for a commit against its first parent.
// Root commits report all-zero stats; diffing against an empty tree is
// deliberately not performed.
func commitStats(commit *object.Commit) (CommitStats, error) {
	if commit.NumParents() == 0 {
		return CommitStats{}, nil
	}
	parent, err := commit.Parent(0)
	if err != nil {
		return CommitStats{}, fmt.Errorf("resolve first parent: %w", err)
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return CommitStats{}, fmt.Errorf("resolve parent tree: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return CommitStats{}, fmt.Errorf("resolve tree: %w", err)
	}
	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return CommitStats{}, fmt.Errorf("diff trees: %w", err)
	}
	if len(changes) == 0 {
		return CommitStats{}, nil
	}
	patch, err := changes.Patch()
	if err != nil {
		return CommitStats{}, fmt.Errorf("build patch: %w", err)
	}
	stats := CommitStats{}
	for _, fileStat := range patch.Stats() {
		stats.FilesChanged++
		stats.Insertions += fileStat.Addition
		stats.Deletions += fileStat.Deletion
	}
	return stats, nil
}
