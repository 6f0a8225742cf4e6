package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var testEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// testRepo builds fixture repositories programmatically, with strictly
// increasing commit timestamps so traversal order is predictable.
type testRepo struct {
	t    *testing.T
	dir  string
	repo *gitlib.Repository
	wt   *gitlib.Worktree
	seq  int
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := gitlib.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	return &testRepo{t: t, dir: dir, repo: repo, wt: wt}
}

func (r *testRepo) writeFile(name, content string) {
	r.t.Helper()
	if err := os.WriteFile(filepath.Join(r.dir, name), []byte(content), 0o644); err != nil {
		r.t.Fatalf("WriteFile %s: %v", name, err)
	}
}

func (r *testRepo) removeFile(name string) {
	r.t.Helper()
	if err := os.Remove(filepath.Join(r.dir, name)); err != nil {
		r.t.Fatalf("Remove %s: %v", name, err)
	}
}

func (r *testRepo) add(name string) {
	r.t.Helper()
	if _, err := r.wt.Add(name); err != nil {
		r.t.Fatalf("Add %s: %v", name, err)
	}
}

func (r *testRepo) nextSignature() *object.Signature {
	r.seq++
	return &object.Signature{
		Name:  "Alice",
		Email: "alice@example.com",
		When:  testEpoch.Add(time.Duration(r.seq) * time.Minute),
	}
}

func (r *testRepo) commit(message string) plumbing.Hash {
	r.t.Helper()
	sig := r.nextSignature()
	hash, err := r.wt.Commit(message, &gitlib.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: true,
	})
	if err != nil {
		r.t.Fatalf("Commit %q: %v", message, err)
	}
	return hash
}

// commitAt records an empty commit with an explicit timestamp, for fixtures
// whose committer clocks run backwards.
func (r *testRepo) commitAt(message string, when time.Time) plumbing.Hash {
	r.t.Helper()
	sig := &object.Signature{Name: "Alice", Email: "alice@example.com", When: when}
	hash, err := r.wt.Commit(message, &gitlib.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: true,
	})
	if err != nil {
		r.t.Fatalf("Commit %q: %v", message, err)
	}
	return hash
}

func (r *testRepo) commitFile(name, content, message string) plumbing.Hash {
	r.t.Helper()
	r.writeFile(name, content)
	r.add(name)
	return r.commit(message)
}

// mergeCommit records a commit with explicit parents, staging nothing extra.
func (r *testRepo) mergeCommit(message string, parents ...plumbing.Hash) plumbing.Hash {
	r.t.Helper()
	sig := r.nextSignature()
	hash, err := r.wt.Commit(message, &gitlib.CommitOptions{
		Author:            sig,
		Committer:         sig,
		Parents:           parents,
		AllowEmptyCommits: true,
	})
	if err != nil {
		r.t.Fatalf("merge commit %q: %v", message, err)
	}
	return hash
}

func (r *testRepo) checkoutNew(branch string) {
	r.t.Helper()
	err := r.wt.Checkout(&gitlib.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: true,
	})
	if err != nil {
		r.t.Fatalf("checkout -b %s: %v", branch, err)
	}
}

func (r *testRepo) checkout(branch string) {
	r.t.Helper()
	err := r.wt.Checkout(&gitlib.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
	})
	if err != nil {
		r.t.Fatalf("checkout %s: %v", branch, err)
	}
}

func (r *testRepo) detach(hash plumbing.Hash) {
	r.t.Helper()
	if err := r.wt.Checkout(&gitlib.CheckoutOptions{Hash: hash}); err != nil {
		r.t.Fatalf("checkout %s: %v", hash, err)
	}
}

func (r *testRepo) tag(name string, hash plumbing.Hash) {
	r.t.Helper()
	if _, err := r.repo.CreateTag(name, hash, nil); err != nil {
		r.t.Fatalf("CreateTag %s: %v", name, err)
	}
}

// setUpstream points refs/remotes/origin/<branch> at hash and configures the
// branch to track it, without any network remote.
func (r *testRepo) setUpstream(branch string, hash plumbing.Hash) {
	r.t.Helper()
	name := plumbing.NewRemoteReferenceName("origin", branch)
	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(name, hash)); err != nil {
		r.t.Fatalf("SetReference %s: %v", name, err)
	}
	cfg, err := r.repo.Config()
	if err != nil {
		r.t.Fatalf("Config: %v", err)
	}
	if cfg.Remotes == nil {
		cfg.Remotes = map[string]*gitcfg.RemoteConfig{}
	}
	cfg.Remotes["origin"] = &gitcfg.RemoteConfig{Name: "origin", URLs: []string{r.dir}}
	if cfg.Branches == nil {
		cfg.Branches = map[string]*gitcfg.Branch{}
	}
	cfg.Branches[branch] = &gitcfg.Branch{
		Name:   branch,
		Remote: "origin",
		Merge:  plumbing.NewBranchReferenceName(branch),
	}
	if err := r.repo.SetConfig(cfg); err != nil {
		r.t.Fatalf("SetConfig: %v", err)
	}
}

func (r *testRepo) open() *Session {
	r.t.Helper()
	sess := NewSession()
	if _, err := sess.Open(r.dir); err != nil {
		r.t.Fatalf("Open %s: %v", r.dir, err)
	}
	return sess
}
