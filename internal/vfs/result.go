package vfs

import "time"

// CleanMode selects which cleanup pass runs before linking. Modes are
// mutually exclusive per run.
type CleanMode int

const (
	// CleanNone skips deletion entirely; used by incremental watcher-driven
	// rebuilds that must not disturb unrelated mappings.
	CleanNone CleanMode = iota
	// CleanRoot deletes the whole generated tree beneath each distinct
	// import root exactly once before any show is processed.
	CleanRoot
	// CleanShow deletes only each affected show's own subdirectory.
	CleanShow
)

func (m CleanMode) String() string {
	switch m {
	case CleanRoot:
		return "root"
	case CleanShow:
		return "show"
	default:
		return "none"
	}
}

// Options configures one build pass.
type Options struct {
	// ShowIDs restricts the pass to the listed shows; empty means every show
	// known to the catalog.
	ShowIDs []int64
	Clean   CleanMode
	// CleanOnly stops after the cleanup pass, before any link creation.
	CleanOnly bool
}

// Result aggregates the outcome of one build pass. Failures never surface as
// returned errors; they are collected here.
type Result struct {
	RunID          string
	RootFolder     string
	ShowsProcessed int
	DirsCreated    int
	LinksCreated   int
	LinksPlanned   int
	LinksSkipped   int
	// Paths lists the distinct show directories this pass touched, for
	// media-server rescans.
	Paths      []string
	Warnings   []string
	Errors     []string
	Elapsed    time.Duration
	ReportPath string
}
