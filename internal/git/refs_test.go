package git

import (
	"slices"
	"testing"
)

func TestBuildRefIndex_BranchesTagsAndHead(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	base := r.commitFile("a.txt", "a\n", "base")
	tip := r.commitFile("a.txt", "a\nb\n", "tip")
	r.tag("v1.0", base)
	sess := r.open()

	sess.mu.Lock()
	index, err := buildRefIndex(sess.repo)
	sess.mu.Unlock()
	if err != nil {
		t.Fatalf("buildRefIndex: %v", err)
	}

	tipLabels := index[tip.String()]
	if len(tipLabels) == 0 {
		t.Fatalf("expected labels on tip %s", tip)
	}
	if tipLabels[0] != "HEAD -> master" {
		t.Fatalf("first tip label = %q, want HEAD -> master", tipLabels[0])
	}
	if !slices.Contains(tipLabels, "master") {
		t.Fatalf("expected master label in %v", tipLabels)
	}
	if !slices.Contains(index[base.String()], "tag: v1.0") {
		t.Fatalf("expected tag label on %s, got %v", base, index[base.String()])
	}
}

func TestHistory_RefsAttachedToRecords(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	r.commitFile("a.txt", "a\n", "base")
	tip := r.commitFile("a.txt", "a\nb\n", "tip")
	r.tag("v2.0", tip)
	sess := r.open()

	records, err := sess.History()
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if records[0].Hash != tip.String() {
		t.Fatalf("newest record = %q, want %q", records[0].Hash, tip)
	}
	refs := records[0].Refs
	for _, want := range []string{"HEAD -> master", "master", "tag: v2.0"} {
		if !slices.Contains(refs, want) {
			t.Fatalf("expected ref %q in %v", want, refs)
		}
	}
	if len(records[1].Refs) != 0 {
		t.Fatalf("ancestor should carry no refs, got %v", records[1].Refs)
	}
}
