package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"payloadvault/internal/config"
)

func newConfigCommand(configFlag *string) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(configFlag))
	configCmd.AddCommand(newConfigPathCommand(configFlag))

	return configCmd
}

func flagPath(configFlag *string) string {
	if configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*configFlag)
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Display the resolved configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(flagPath(configFlag))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Payloads directory:     %s\n", cfg.Paths.PayloadsDir)
			fmt.Fprintf(out, "Drafts directory:       %s\n", cfg.DraftsDir())
			fmt.Fprintf(out, "Log directory:          %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "API bind:               %s\n", cfg.Paths.APIBind)
			fmt.Fprintf(out, "Include base64 images:  %s\n", yesNo(cfg.Capture.IncludeBase64Images))
			fmt.Fprintf(out, "Dedup window:           %ds\n", cfg.Capture.DedupWindowSeconds)
			fmt.Fprintf(out, "Write latest snapshot:  %s\n", yesNo(cfg.Capture.WriteLatest))
			fmt.Fprintf(out, "Write skeletons:        %s\n", yesNo(cfg.Capture.WriteSkeletons))
			fmt.Fprintf(out, "Dedupe on startup:      %s\n", yesNo(cfg.Organize.DedupeOnStartup))
			fmt.Fprintf(out, "History enabled:        %s\n", yesNo(cfg.History.Enabled))
			if cfg.History.Enabled {
				fmt.Fprintf(out, "History path:           %s\n", cfg.History.Path)
			}
			fmt.Fprintf(out, "Log format:             %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "Log level:              %s\n", cfg.Logging.Level)
			return nil
		},
	}
}

func newConfigPathCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the resolved configuration file path",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, path, _, err := config.Load(flagPath(configFlag))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
