package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"payloadvault/internal/payload"
	"payloadvault/internal/vault"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var fromDisk bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the most recent payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if !fromDisk {
				body, _, err := ctx.apiGet("/api/payload")
				if err == nil {
					fmt.Fprintln(out, string(body))
					return nil
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "daemon unavailable (%v); reading latest snapshot from disk\n", err)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.PayloadsDir, vault.LatestFileName)
			data, err := os.ReadFile(path)
			if os.IsNotExist(err) {
				fmt.Fprintln(out, payload.NoPayloadMessage)
				return nil
			}
			if err != nil {
				return fmt.Errorf("read latest snapshot: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromDisk, "from-disk", false, "Read the latest snapshot file instead of asking the daemon")
	return cmd
}
