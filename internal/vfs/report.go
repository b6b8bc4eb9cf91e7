package vfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// writeReport renders the run summary to the configured report file. The file
// is rewritten whole each run; report failures degrade to warnings upstream.
func (b *Builder) writeReport(res *Result) error {
	if err := os.MkdirAll(filepath.Dir(res.ReportPath), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "linklib build report\n")
	fmt.Fprintf(&sb, "run:        %s\n", res.RunID)
	fmt.Fprintf(&sb, "generated:  %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&sb, "root:       %s\n\n", res.RootFolder)

	sb.WriteString(RenderCounters(res))
	sb.WriteString("\n")

	if len(res.Paths) > 0 {
		sb.WriteString("\nShow directories:\n")
		for _, path := range res.Paths {
			fmt.Fprintf(&sb, "  %s\n", path)
		}
	}
	if len(res.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warning := range res.Warnings {
			fmt.Fprintf(&sb, "  - %s\n", warning)
		}
	}
	if len(res.Errors) > 0 {
		sb.WriteString("\nErrors:\n")
		for _, msg := range res.Errors {
			fmt.Fprintf(&sb, "  - %s\n", msg)
		}
	}

	if err := os.WriteFile(res.ReportPath, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	return nil
}

// RenderCounters formats the run counters as a table. Shared by the report
// file and the CLI summary.
func RenderCounters(res *Result) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Shows processed", res.ShowsProcessed},
		{"Directories created", res.DirsCreated},
		{"Links planned", res.LinksPlanned},
		{"Links created", res.LinksCreated},
		{"Links skipped", res.LinksSkipped},
		{"Warnings", len(res.Warnings)},
		{"Errors", len(res.Errors)},
		{"Elapsed", res.Elapsed.Round(time.Millisecond)},
	})
	return t.Render()
}
