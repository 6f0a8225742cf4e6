package git

// CommitKind distinguishes regular commits from merges in the rendered graph.
type CommitKind string

const (
	CommitKindCommit CommitKind = "commit"
	CommitKindMerge  CommitKind = "merge"
)

// CommitStats holds per-commit change counts against the first parent.
// All-zero for root commits.
type CommitStats struct {
	FilesChanged int `json:"filesChanged"`
	Insertions   int `json:"insertions"`
	Deletions    int `json:"deletions"`
}

// CommitRecord is one render-ready node of the history graph. Records are
// rebuilt from repository state on every request and never mutated after
// assembly.
type CommitRecord struct {
	Hash           string      `json:"hash"`
	Message        string      `json:"message"`
	AuthorName     string      `json:"authorName"`
	AuthorEmail    string      `json:"authorEmail"`
	CommitterName  string      `json:"committerName"`
	CommitterEmail string      `json:"committerEmail"`
	Branch         string      `json:"branch"`
	RelativeDate   string      `json:"relativeDate"`
	Parents        []string    `json:"parents"`
	LaneColor      string      `json:"laneColor"`
	Lane           int         `json:"lane"`
	Kind           CommitKind  `json:"kind"`
	Stats          CommitStats `json:"stats"`
	Refs           []string    `json:"refs,omitempty"`
}

// BranchInfo summarizes one local branch and its divergence from upstream.
// Ahead and Behind are both zero when the branch has no upstream.
type BranchInfo struct {
	Name      string `json:"name"`
	IsCurrent bool   `json:"isCurrent"`
	Upstream  string `json:"upstream,omitempty"`
	Ahead     int    `json:"ahead"`
	Behind    int    `json:"behind"`
}

// StatusKind is the fixed classification for one changed path.
type StatusKind string

const (
	StatusNew      StatusKind = "new"
	StatusModified StatusKind = "modified"
	StatusDeleted  StatusKind = "deleted"
	StatusRenamed  StatusKind = "renamed"
	StatusIgnored  StatusKind = "ignored"
	StatusUnknown  StatusKind = "unknown"
)

// FileStatus is one changed path in the working tree or index, classified
// under exactly one kind.
type FileStatus struct {
	Path string     `json:"path"`
	Kind StatusKind `json:"kind"`
}

// RepoStatus is the working-tree summary for the open repository. Clean is
// true iff Files is empty.
type RepoStatus struct {
	Branch string       `json:"branch"`
	Clean  bool         `json:"clean"`
	Files  []FileStatus `json:"files"`
}
