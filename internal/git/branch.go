package git

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Branches lists every local branch with its HEAD flag, upstream name and
// ahead/behind divergence. Branches are independent: a branch whose tip or
// upstream cannot be resolved reports zero counts instead of failing the
// whole list.
func (s *Session) Branches() ([]BranchInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := s.handleLocked("branches")
	if err != nil {
		return nil, err
	}
	branches, err := repo.Branches()
	if err != nil {
		return nil, wrapErr(KindBranch, "branches", err)
	}
	defer branches.Close()

	var headName plumbing.ReferenceName
	if headRef, err := repo.Head(); err == nil {
		headName = headRef.Name()
	}

	var infos []BranchInfo
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		info := BranchInfo{
			Name:      ref.Name().Short(),
			IsCurrent: ref.Name() == headName,
		}
		upstream, upstreamRef, err := upstreamFor(repo, info.Name)
		if err != nil {
			slog.Warn("upstream resolution degraded",
				slog.String("branch", info.Name),
				slog.Any("error", wrapErr(KindRemote, "branches", err)),
			)
		} else if upstreamRef != nil {
			info.Upstream = upstream
			ahead, behind, err := aheadBehind(repo, ref.Hash(), upstreamRef.Hash())
			if err != nil {
				slog.Warn("divergence counts degraded to zero",
					slog.String("branch", info.Name),
					slog.Any("error", wrapErr(KindRemote, "branches", err)),
				)
			} else {
				info.Ahead = ahead
				info.Behind = behind
			}
		}
		infos = append(infos, info)
		return nil
	})
	if err != nil {
		return nil, wrapErr(KindBranch, "branches", err)
	}
	slices.SortFunc(infos, func(a, b BranchInfo) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return infos, nil
}

// upstreamFor resolves a branch's configured upstream to its display name and
// remote-tracking reference. A branch without a configured upstream returns
// all-nil.
func upstreamFor(repo *repoHandle, branch string) (string, *plumbing.Reference, error) {
	cfg, err := repo.Config()
	if err != nil {
		return "", nil, fmt.Errorf("read config: %w", err)
	}
	branchCfg := cfg.Branches[branch]
	if branchCfg == nil || branchCfg.Merge == "" || branchCfg.Remote == "" {
		return "", nil, nil
	}
	merge := branchCfg.Merge.Short()
	if branchCfg.Remote == "." {
		// Upstream is another local branch.
		ref, err := repo.Reference(branchCfg.Merge, true)
		if err != nil {
			return "", nil, fmt.Errorf("resolve upstream %s: %w", merge, err)
		}
		return merge, ref, nil
	}
	name := plumbing.NewRemoteReferenceName(branchCfg.Remote, merge)
	ref, err := repo.Reference(name, true)
	if err != nil {
		return "", nil, fmt.Errorf("resolve upstream %s: %w", name.Short(), err)
	}
	return name.Short(), ref, nil
}

// aheadBehind counts commits reachable from one tip but not the other,
// stopping each walk at the merge bases.
func aheadBehind(repo *repoHandle, local, upstream plumbing.Hash) (int, int, error) {
	if local == upstream {
		return 0, 0, nil
	}
	localCommit, err := repo.CommitObject(local)
	if err != nil {
		return 0, 0, fmt.Errorf("resolve branch tip: %w", err)
	}
	upstreamCommit, err := repo.CommitObject(upstream)
	if err != nil {
		return 0, 0, fmt.Errorf("resolve upstream tip: %w", err)
	}
	bases, err := localCommit.MergeBase(upstreamCommit)
	if err != nil {
		return 0, 0, fmt.Errorf("merge base: %w", err)
	}
	stop := make([]plumbing.Hash, 0, len(bases))
	for _, base := range bases {
		stop = append(stop, base.Hash)
	}
	ahead, err := countCommits(localCommit, stop)
	if err != nil {
		return 0, 0, err
	}
	behind, err := countCommits(upstreamCommit, stop)
	if err != nil {
		return 0, 0, err
	}
	return ahead, behind, nil
}

func countCommits(from *object.Commit, stop []plumbing.Hash) (int, error) {
	if slices.Contains(stop, from.Hash) {
		return 0, nil
	}
	count := 0
	iter := object.NewCommitIterCTime(from, nil, stop)
	defer iter.Close()
	err := iter.ForEach(func(*object.Commit) error {
		count++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count commits: %w", err)
	}
	return count, nil
}
