package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"payloadvault/internal/daemon"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, _, err := ctx.apiGet("/api/status")
			if err != nil {
				return err
			}

			var status daemon.Status
			if err := json.Unmarshal(body, &status); err != nil {
				return fmt.Errorf("decode status response: %w", err)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			kind := statusError
			message := "stopped"
			if status.Running {
				kind = statusOK
				message = fmt.Sprintf("pid %d", status.PID)
			}
			fmt.Fprintln(out, renderStatusLine("Daemon", kind, message, colorize))
			fmt.Fprintln(out, renderStatusLine("Payloads", statusInfo, status.PayloadsDir, colorize))
			if status.HistoryPath != "" {
				fmt.Fprintln(out, renderStatusLine("History", statusInfo, status.HistoryPath, colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Lock", statusInfo, status.LockPath, colorize))
			return nil
		},
	}
}
