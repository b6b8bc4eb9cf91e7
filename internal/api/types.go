package api

import "linklib/internal/vfs"

// BuildRequest is the JSON payload for build and clean operations.
type BuildRequest struct {
	ShowIDs   []int64 `json:"show_ids,omitempty"`
	Clean     string  `json:"clean,omitempty"`
	CleanOnly bool    `json:"clean_only,omitempty"`
}

// BuildResponse mirrors a build result for API consumers.
type BuildResponse struct {
	RunID          string   `json:"run_id"`
	RootFolder     string   `json:"root_folder"`
	ShowsProcessed int      `json:"shows_processed"`
	DirsCreated    int      `json:"dirs_created"`
	LinksPlanned   int      `json:"links_planned"`
	LinksCreated   int      `json:"links_created"`
	LinksSkipped   int      `json:"links_skipped"`
	Paths          []string `json:"paths,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
	Errors         []string `json:"errors,omitempty"`
	ElapsedMS      int64    `json:"elapsed_ms"`
	ReportPath     string   `json:"report_path,omitempty"`
}

// NotifyRequest reports a catalog change to the watcher.
type NotifyRequest struct {
	Kind    string  `json:"kind,omitempty"`
	ShowIDs []int64 `json:"show_ids"`
}

// NotifyResponse acknowledges an accepted change notification.
type NotifyResponse struct {
	Accepted int `json:"accepted"`
	Pending  int `json:"pending"`
}

// StatusResponse summarizes daemon runtime state.
type StatusResponse struct {
	Running      bool   `json:"running"`
	PendingShows int    `json:"pending_shows"`
	DatabasePath string `json:"database_path"`
	ReportPath   string `json:"report_path"`
	LockFilePath string `json:"lock_file_path"`
}

// ErrorResponse carries a single error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromResult converts an engine result into its API shape.
func FromResult(res *vfs.Result) BuildResponse {
	if res == nil {
		return BuildResponse{}
	}
	return BuildResponse{
		RunID:          res.RunID,
		RootFolder:     res.RootFolder,
		ShowsProcessed: res.ShowsProcessed,
		DirsCreated:    res.DirsCreated,
		LinksPlanned:   res.LinksPlanned,
		LinksCreated:   res.LinksCreated,
		LinksSkipped:   res.LinksSkipped,
		Paths:          res.Paths,
		Warnings:       res.Warnings,
		Errors:         res.Errors,
		ElapsedMS:      res.Elapsed.Milliseconds(),
		ReportPath:     res.ReportPath,
	}
}
