package git

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	gitindex "github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pmezard/go-difflib/difflib"
)

type localChange struct {
	path string
	from *object.File
	to   *object.File
}

// LocalChangesDiff renders unified-diff text for the staged (index vs HEAD)
// or unstaged (working tree vs HEAD) changes of the open repository. Returns
// "" when there is nothing to show.
func (s *Session) LocalChangesDiff(staged bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo, err := s.handleLocked("local changes")
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", wrapErr(KindDiff, "local changes", err)
	}
	status, err := wt.Status()
	if err != nil {
		return "", wrapErr(KindDiff, "local changes", err)
	}
	headTree, err := headTree(repo)
	if err != nil && err != plumbing.ErrReferenceNotFound {
		return "", wrapErr(KindDiff, "local changes", err)
	}
	loader := &fileLoader{repo: repo, head: headTree, staged: staged}
	if staged {
		loader.index, err = repo.Storer.Index()
		if err != nil {
			return "", wrapErr(KindDiff, "local changes", err)
		}
	}

	var paths []string
	for path, st := range status {
		include := false
		if staged {
			include = st.Staging != gitlib.Unmodified
		} else {
			include = st.Worktree != gitlib.Unmodified && st.Worktree != gitlib.Untracked
		}
		if include {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	var changes []localChange
	for _, path := range paths {
		from, to, err := loader.pair(path)
		if err != nil {
			return "", wrapErr(KindDiff, "local changes", err)
		}
		if from == nil && to == nil {
			continue
		}
		changes = append(changes, localChange{path: path, from: from, to: to})
	}
	if len(changes) == 0 {
		return "", nil
	}
	text, err := renderLocalDiff(changes)
	if err != nil {
		return "", wrapErr(KindDiff, "local changes", err)
	}
	return text, nil
}

func headTree(repo *repoHandle) (*object.Tree, error) {
	headRef, err := repo.Head()
	if err != nil {
		return nil, err
	}
	commit, err := repo.CommitObject(headRef.Hash())
	if err != nil {
		return nil, err
	}
	return commit.Tree()
}

// fileLoader resolves one path to its HEAD-side and change-side file objects.
// A nil file on either side means the path does not exist there, which the
// diff renders as a pure addition or deletion.
type fileLoader struct {
	repo   *repoHandle
	head   *object.Tree
	index  *gitindex.Index
	staged bool
}

func (l *fileLoader) pair(path string) (from, to *object.File, err error) {
	if l.head != nil {
		from, err = l.head.File(path)
		if err == object.ErrFileNotFound {
			from, err = nil, nil
		}
		if err != nil {
			return nil, nil, err
		}
	}
	if l.staged {
		to, err = l.fromIndex(path)
	} else {
		to, err = l.fromDisk(path)
	}
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func (l *fileLoader) fromIndex(path string) (*object.File, error) {
	entry, err := l.index.Entry(path)
	if err == gitindex.ErrEntryNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	blob, err := object.GetBlob(l.repo.Storer, entry.Hash)
	if err != nil {
		return nil, err
	}
	return object.NewFile(entry.Name, entry.Mode, blob), nil
}

// fromDisk wraps the working-tree content in an in-memory blob so both sides
// of the diff speak object.File.
func (l *fileLoader) fromDisk(path string) (*object.File, error) {
	full := filepath.Join(l.repo.path, path)
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	mem := &plumbing.MemoryObject{}
	mem.SetType(plumbing.BlobObject)
	if _, err := mem.Write(data); err != nil {
		return nil, err
	}
	blob, err := object.DecodeBlob(mem)
	if err != nil {
		return nil, err
	}
	mode := filemode.Regular
	if info, err := os.Stat(full); err == nil {
		if m, err := filemode.NewFromOSFileMode(info.Mode()); err == nil {
			mode = m
		}
	}
	return object.NewFile(path, mode, blob), nil
}

func renderLocalDiff(changes []localChange) (string, error) {
	var b strings.Builder
	for _, change := range changes {
		fmt.Fprintf(&b, "diff --git a/%s b/%s\n", change.path, change.path)

		binary, err := binaryChange(change)
		if err != nil {
			return "", err
		}
		if binary {
			b.WriteString("(binary files differ)\n")
			continue
		}
		fromLines, err := fileLines(change.from)
		if err != nil {
			return "", err
		}
		toLines, err := fileLines(change.to)
		if err != nil {
			return "", err
		}
		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        fromLines,
			B:        toLines,
			FromFile: fmt.Sprintf("a/%s", change.path),
			ToFile:   fmt.Sprintf("b/%s", change.path),
			Context:  3,
		})
		if err != nil {
			return "", err
		}
		if text == "" {
			b.WriteString("(no textual changes)\n")
			continue
		}
		b.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func binaryChange(ch localChange) (bool, error) {
	for _, f := range []*object.File{ch.from, ch.to} {
		if f == nil {
			continue
		}
		bin, err := f.IsBinary()
		if err != nil {
			return false, err
		}
		if bin {
			return true, nil
		}
	}
	return false, nil
}

func fileLines(f *object.File) ([]string, error) {
	if f == nil {
		return []string{}, nil
	}
	content, err := f.Contents()
	if err != nil {
		return nil, err
	}
	return difflib.SplitLines(content), nil
}
