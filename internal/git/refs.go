package git

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// refIndex maps a commit hash to the display names of every ref pointing at
// it. It is rebuilt once per history request; the repository may have changed
// between requests.
type refIndex map[string][]string

func buildRefIndex(repo *repoHandle) (refIndex, error) {
	index := refIndex{}
	refs, err := repo.References()
	if err != nil {
		return nil, err
	}
	defer refs.Close()

	headRef, err := repo.Head()
	var headHash plumbing.Hash
	var headBranch string
	if err == nil && headRef != nil {
		headHash = headRef.Hash()
		if headRef.Name().IsBranch() {
			headBranch = headRef.Name().Short()
		}
	}

	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name()
		isBranch := name.IsBranch()
		isRemote := name.IsRemote()
		isTag := name.IsTag()
		if !isBranch && !isRemote && !isTag {
			return nil
		}
		short := name.Short()
		if isRemote && strings.HasSuffix(short, "/HEAD") {
			return nil
		}
		hash := ref.Hash()
		label := short
		if isTag {
			label = fmt.Sprintf("tag: %s", short)
			if peeled, ok := peelTagCommitHash(repo, hash); ok {
				hash = peeled
			}
		}
		index[hash.String()] = append(index[hash.String()], label)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if headHash != plumbing.ZeroHash {
		key := headHash.String()
		label := "HEAD"
		if headBranch != "" {
			label = fmt.Sprintf("HEAD -> %s", headBranch)
		}
		index[key] = append([]string{label}, index[key]...)
	}
	return index, nil
}

// peelTagCommitHash resolves an annotated tag chain down to the commit it
// points at. Lightweight tags already point at a commit.
func peelTagCommitHash(repo *repoHandle, hash plumbing.Hash) (plumbing.Hash, bool) {
	if repo == nil || hash == plumbing.ZeroHash {
		return plumbing.ZeroHash, false
	}
	if _, err := repo.CommitObject(hash); err == nil {
		return hash, true
	}
	cur := hash
	for i := 0; i < 8; i++ {
		tag, err := repo.TagObject(cur)
		if err != nil {
			return plumbing.ZeroHash, false
		}
		switch tag.TargetType {
		case plumbing.CommitObject:
			return tag.Target, true
		case plumbing.TagObject:
			cur = tag.Target
		default:
			return plumbing.ZeroHash, false
		}
	}
	return plumbing.ZeroHash, false
}
