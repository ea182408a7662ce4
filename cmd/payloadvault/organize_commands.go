package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"payloadvault/internal/history"
	"payloadvault/internal/logging"
	"payloadvault/internal/organizer"
	"payloadvault/internal/textutil"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Rename legacy payload files and move non-high-res payloads to drafts",
		RunE: func(cmd *cobra.Command, args []string) error {
			org, cleanup, err := newOrganizer(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := org.Migrate(cmd.Context(), dryRun)
			if err != nil {
				return fmt.Errorf("organize payloads: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(report.Actions) == 0 {
				fmt.Fprintf(out, "Scanned %d payload files; nothing to organize\n", report.Scanned)
				return nil
			}

			rows := make([][]string, 0, len(report.Actions))
			for _, action := range report.Actions {
				kind := "rename"
				if action.Draft {
					kind = "draft"
				}
				rows = append(rows, []string{kind, action.From, action.To})
			}
			fmt.Fprintln(out, renderTable([]string{"Action", "From", "To"}, rows, nil))
			fmt.Fprintf(out, "Scanned %d, organized %d, failed %d\n", report.Scanned, len(report.Actions), report.Failed)
			if dryRun {
				fmt.Fprintln(out, "Dry run: no files were changed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report planned changes without touching files")
	return cmd
}

func newDedupeCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Delete older payloads sharing the same prompt pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			org, cleanup, err := newOrganizer(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := org.Dedupe(cmd.Context(), dryRun)
			if err != nil {
				return fmt.Errorf("dedupe payloads: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(report.Groups) == 0 {
				fmt.Fprintf(out, "Scanned %d payload files; no duplicates found\n", report.Scanned)
				return nil
			}

			rows := make([][]string, 0, len(report.Groups))
			for _, group := range report.Groups {
				rows = append(rows, []string{
					textutil.Truncate(group.Prompt, 40),
					group.Keeper,
					fmt.Sprintf("%d", len(group.Deleted)),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Prompt", "Kept", "Deleted"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
			fmt.Fprintf(out, "Scanned %d, deleted %d, failed %d\n", report.Scanned, report.Deleted, report.Failed)
			if dryRun {
				fmt.Fprintln(out, "Dry run: no files were deleted")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report duplicates without deleting files")
	return cmd
}

// newOrganizer builds an organizer wired to the history store when history
// is enabled, so offline passes prune stale rows too.
func newOrganizer(ctx *commandContext) (*organizer.Organizer, func(), error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var pruner organizer.HistoryPruner
	if cfg.History.Enabled {
		store, err := history.Open(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open history store: %w", err)
		}
		pruner = store
		cleanup = func() { _ = store.Close() }
	}
	return organizer.New(cfg, logging.NewNop(), pruner), cleanup, nil
}

