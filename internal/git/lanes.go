package git

import (
	"github.com/go-git/go-git/v5/plumbing"
)

// DetachedLabel is the branch label for commits that are not the exact tip of
// any local branch.
const DetachedLabel = "detached"

// lanePalette cycles across lanes; lanes beyond its size reuse colors.
var lanePalette = []string{
	"#e11d48",
	"#2563eb",
	"#16a34a",
	"#d97706",
	"#9333ea",
	"#0d9488",
	"#db2777",
	"#65a30d",
}

// laneColor is a pure function of the lane index.
func laneColor(lane int) string {
	if lane < 0 {
		lane = 0
	}
	return lanePalette[lane%len(lanePalette)]
}

// laneAssigner hands out lane indices per branch label in first-encounter
// order during one traversal. Assignments are stable within a request.
type laneAssigner struct {
	lanes map[string]int
	next  int
}

func newLaneAssigner() *laneAssigner {
	return &laneAssigner{lanes: map[string]int{}}
}

func (a *laneAssigner) laneFor(label string) int {
	if lane, ok := a.lanes[label]; ok {
		return lane
	}
	lane := a.next
	a.lanes[label] = lane
	a.next++
	return lane
}

// branchTipSet maps local branch tip hashes to branch names.
type branchTipSet map[plumbing.Hash]string

// branchTips collects local branch tips. When several branches share a tip
// the lexicographically smallest name wins, keeping labeling deterministic.
func branchTips(repo *repoHandle) (branchTipSet, error) {
	branches, err := repo.Branches()
	if err != nil {
		return nil, err
	}
	defer branches.Close()

	tips := branchTipSet{}
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if prev, ok := tips[ref.Hash()]; ok && prev <= name {
			return nil
		}
		tips[ref.Hash()] = name
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tips, nil
}

// branchLabel resolves a commit's label under the exact-tip rule: only the
// tip commit of a branch carries its name, ancestors report DetachedLabel.
func branchLabel(tips branchTipSet, hash plumbing.Hash) string {
	if name, ok := tips[hash]; ok {
		return name
	}
	return DetachedLabel
}
