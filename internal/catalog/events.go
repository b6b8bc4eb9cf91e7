package catalog

// ChangeKind identifies what happened to a source file in the catalog.
type ChangeKind string

const (
	ChangeMatched ChangeKind = "matched"
	ChangeMoved   ChangeKind = "moved"
	ChangeRenamed ChangeKind = "renamed"
	ChangeDeleted ChangeKind = "deleted"
)

// ChangeEvent describes one catalog mutation. The watcher cares only about
// which shows were affected, never about the kind.
type ChangeEvent struct {
	Kind    ChangeKind
	ShowIDs []int64
}
