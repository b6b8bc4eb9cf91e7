package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"linklib/internal/api"
)

var daemonClient = &http.Client{Timeout: 30 * time.Second}

func getDaemonJSON(ctx *commandContext, path string, dst any) error {
	base, err := ctx.apiBaseURL()
	if err != nil {
		return err
	}
	resp, err := daemonClient.Get(base + path)
	if err != nil {
		return fmt.Errorf("connect to daemon: %w; start it with `linklib daemon`", err)
	}
	defer resp.Body.Close()
	return decodeDaemonResponse(resp, dst)
}

func postDaemonJSON(ctx *commandContext, path string, payload, dst any) error {
	base, err := ctx.apiBaseURL()
	if err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	resp, err := daemonClient.Post(base+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("connect to daemon: %w; start it with `linklib daemon`", err)
	}
	defer resp.Body.Close()
	return decodeDaemonResponse(resp, dst)
}

func decodeDaemonResponse(resp *http.Response, dst any) error {
	if resp.StatusCode >= 400 {
		var apiErr api.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("daemon: %s", apiErr.Error)
		}
		return fmt.Errorf("daemon returned status %d", resp.StatusCode)
	}
	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode daemon response: %w", err)
	}
	return nil
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var status api.StatusResponse
			if err := getDaemonJSON(ctx, "/api/status", &status); err != nil {
				return err
			}
			rows := [][]string{
				{"Running", yesNo(status.Running)},
				{"Pending shows", strconv.Itoa(status.PendingShows)},
				{"Database", status.DatabasePath},
				{"Report", status.ReportPath},
				{"Lock file", status.LockFilePath},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows))
			return nil
		},
	}
}

func newNotifyCommand(ctx *commandContext) *cobra.Command {
	var kind string
	var showIDs []int64

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Tell the daemon that shows changed",
		Long: "Queues the named shows for a debounced incremental rebuild. Intended for\n" +
			"catalog importers and scanners that finished updating mappings.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(showIDs) == 0 {
				return fmt.Errorf("--shows is required")
			}
			var resp api.NotifyResponse
			req := api.NotifyRequest{Kind: kind, ShowIDs: showIDs}
			if err := postDaemonJSON(ctx, "/api/notify", req, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "accepted %d shows, %d pending\n", resp.Accepted, resp.Pending)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "matched", "Change kind: matched, moved, renamed, or deleted")
	cmd.Flags().Int64SliceVar(&showIDs, "shows", nil, "Affected show IDs")
	return cmd
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
