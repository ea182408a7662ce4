package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"payloadvault/internal/history"
	"payloadvault/internal/textutil"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent payload captures",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return errors.New("history is disabled; enable it in the configuration")
			}

			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			captures, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list captures: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(captures) == 0 {
				fmt.Fprintln(out, "No captures recorded")
				return nil
			}

			rows := make([][]string, 0, len(captures))
			for _, capture := range captures {
				rows = append(rows, []string{
					capture.CreatedAt.Local().Format(time.DateTime),
					capture.Mode,
					capture.Tag,
					yesNo(capture.Draft),
					capture.Filename,
					textutil.Truncate(capture.Prompt, 40),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Captured", "Mode", "Tag", "Draft", "File", "Prompt"},
				rows, nil,
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of captures to list")
	return cmd
}
