package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"linklib/internal/api"
	"linklib/internal/catalog"
	"linklib/internal/logging"
	"linklib/internal/vfs"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var showIDs []int64
	var cleanMode string
	var cleanOnly bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Synchronize the symlink tree with the catalog",
		Long: "Rebuilds the generated symlink tree for every show in the catalog, or for the\n" +
			"shows named with --shows. Use --clean to delete generated state first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocalBuild(ctx, cmd, api.BuildRequest{
				ShowIDs:   showIDs,
				Clean:     cleanMode,
				CleanOnly: cleanOnly,
			})
		},
	}

	cmd.Flags().Int64SliceVar(&showIDs, "shows", nil, "Restrict the pass to these show IDs")
	cmd.Flags().StringVar(&cleanMode, "clean", "none", "Cleanup before linking: none, show, or root")
	cmd.Flags().BoolVar(&cleanOnly, "clean-only", false, "Stop after cleanup without creating links")
	return cmd
}

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var showIDs []int64

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete generated symlink trees",
		Long: "Deletes the whole generated tree beneath every import root, or only the named\n" +
			"shows' subdirectories when --shows is given. Source files are never touched.",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := "root"
			if len(showIDs) > 0 {
				mode = "show"
			}
			return runLocalBuild(ctx, cmd, api.BuildRequest{
				ShowIDs:   showIDs,
				Clean:     mode,
				CleanOnly: true,
			})
		},
	}

	cmd.Flags().Int64SliceVar(&showIDs, "shows", nil, "Only clean these show IDs")
	return cmd
}

// runLocalBuild executes a pass against the catalog directly, without a
// running daemon.
func runLocalBuild(ctx *commandContext, cmd *cobra.Command, req api.BuildRequest) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	store, err := catalog.Open(cfg.Paths.DatabasePath)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	builder := vfs.New(cfg, store, logger)
	resp, err := api.NewBuildService(builder, nil).Build(cmd.Context(), req)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderBuildResponse(resp))
	if len(resp.Errors) > 0 {
		return fmt.Errorf("build finished with %d errors; see %s", len(resp.Errors), resp.ReportPath)
	}
	return nil
}
