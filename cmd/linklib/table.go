package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"linklib/internal/api"
)

func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	if isatty.IsTerminal(os.Stdout.Fd()) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleLight)
	}

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range header {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func renderBuildResponse(resp api.BuildResponse) string {
	rows := [][]string{
		{"Shows processed", strconv.Itoa(resp.ShowsProcessed)},
		{"Directories created", strconv.Itoa(resp.DirsCreated)},
		{"Links planned", strconv.Itoa(resp.LinksPlanned)},
		{"Links created", strconv.Itoa(resp.LinksCreated)},
		{"Links skipped", strconv.Itoa(resp.LinksSkipped)},
		{"Warnings", strconv.Itoa(len(resp.Warnings))},
		{"Errors", strconv.Itoa(len(resp.Errors))},
		{"Elapsed", (time.Duration(resp.ElapsedMS) * time.Millisecond).String()},
	}

	var sb strings.Builder
	sb.WriteString(renderTable([]string{"Metric", "Value"}, rows))
	for _, warning := range resp.Warnings {
		fmt.Fprintf(&sb, "\nwarning: %s", warning)
	}
	for _, msg := range resp.Errors {
		fmt.Fprintf(&sb, "\nerror: %s", msg)
	}
	if resp.ReportPath != "" {
		fmt.Fprintf(&sb, "\nreport: %s", resp.ReportPath)
	}
	return sb.String()
}
