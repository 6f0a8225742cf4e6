package git

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	diff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// CommitDiff renders a commit's full-text diff against its first parent,
// prefixed with a commit header, for the UI's detail pane. Root commits
// report their header only.
func (s *Session) CommitDiff(hash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := s.handleLocked("diff")
	if err != nil {
		return "", err
	}
	commit, err := repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return "", wrapErr(KindDiff, "diff", fmt.Errorf("resolve commit %s: %w", hash, err))
	}
	tree, err := commit.Tree()
	if err != nil {
		return "", wrapErr(KindDiff, "diff", err)
	}
	var parentTree *object.Tree
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return "", wrapErr(KindDiff, "diff", err)
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return "", wrapErr(KindDiff, "diff", err)
		}
	}
	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return "", wrapErr(KindDiff, "diff", err)
	}
	header := formatCommitHeader(commit)
	if len(changes) == 0 {
		return header + "\nNo file level changes.", nil
	}
	patch, err := changes.Patch()
	if err != nil {
		return "", wrapErr(KindDiff, "diff", err)
	}
	body, err := encodeUnifiedPatch(patch.FilePatches())
	if err != nil {
		return "", wrapErr(KindDiff, "diff", err)
	}
	return header + "\n" + body, nil
}

func formatCommitHeader(c *object.Commit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "commit %s\n", c.Hash)
	appendSignatureLine(&b, "Author", c.Author)
	committer := c.Committer
	if committer.Name == "" && committer.Email == "" && committer.When.IsZero() {
		committer = c.Author
	}
	appendSignatureLine(&b, "Committer", committer)
	b.WriteString("\n")
	message := strings.TrimRight(c.Message, "\n")
	if message == "" {
		b.WriteString("    (no commit message)\n")
		return b.String()
	}
	for _, line := range strings.Split(message, "\n") {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(&b, "    %s\n", line)
	}
	return b.String()
}

func appendSignatureLine(b *strings.Builder, label string, sig object.Signature) {
	fmt.Fprintf(b, "%s: %s <%s>", label, sig.Name, sig.Email)
	if !sig.When.IsZero() {
		fmt.Fprintf(b, "  %s", sig.When.Format("2006-01-02 15:04:05 -0700"))
	}
	b.WriteByte('\n')
}

func encodeUnifiedPatch(filePatches []diff.FilePatch) (string, error) {
	var buf bytes.Buffer
	enc := diff.NewUnifiedEncoder(&buf, diff.DefaultContextLines)
	if err := enc.Encode(filePatchSet{patches: filePatches}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type filePatchSet struct {
	patches []diff.FilePatch
}

func (f filePatchSet) FilePatches() []diff.FilePatch { return f.patches }
func (filePatchSet) Message() string                 { return "" }
