package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theopenlane/recon/internal/shell"
)

// shellCmd starts the interactive prompt
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "start an interactive recon prompt",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cmd.SilenceUsage = true

		return runShell(cmd)
	},
}

// init registers the shell command and its flags on the root command
func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().Bool("no-color", false, "disable colored output")
}

// runShell wires the recon client into an interactive shell on stdin and stdout
func runShell(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	client, err := setupReconClient(cfg)
	if err != nil {
		return fmt.Errorf("setting up recon client: %w", err)
	}

	out := cmd.OutOrStdout()

	sh, err := shell.New(client, setupRenderer(cfg, out), cmd.InOrStdin(), out, scanOptions(cfg)...)
	if err != nil {
		return err
	}

	return sh.Run(cmd.Context())
}
