package git

import (
	"strings"
	"testing"
)

func TestCommitDiff_AgainstFirstParent(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	r.commitFile("a.txt", "one\n", "base")
	tip := r.commitFile("a.txt", "one\ntwo\n", "add a line\n\nwith a body")
	sess := r.open()

	text, err := sess.CommitDiff(tip.String())
	if err != nil {
		t.Fatalf("CommitDiff: %v", err)
	}
	if !strings.Contains(text, "commit "+tip.String()) {
		t.Fatalf("missing commit header: %q", text)
	}
	if !strings.Contains(text, "Author: Alice <alice@example.com>") {
		t.Fatalf("missing author line: %q", text)
	}
	if !strings.Contains(text, "    add a line") || !strings.Contains(text, "    with a body") {
		t.Fatalf("missing indented message: %q", text)
	}
	if !strings.Contains(text, "+two") {
		t.Fatalf("missing diff content: %q", text)
	}
}

func TestCommitDiff_UnknownHash(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	r.commitFile("a.txt", "a\n", "base")
	sess := r.open()

	_, err := sess.CommitDiff(strings.Repeat("0", 40))
	if err == nil {
		t.Fatal("expected error for unknown hash")
	}
	if got := KindOf(err); got != KindDiff {
		t.Fatalf("KindOf(err) = %v, want %v", got, KindDiff)
	}
}
