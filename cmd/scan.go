package cmd

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theopenlane/recon/internal/collector"
	"github.com/theopenlane/recon/internal/domain"
	"github.com/theopenlane/recon/internal/scanner"
	"github.com/theopenlane/recon/internal/types"
)

// scanCmd runs a single scan and prints its transcript
var scanCmd = &cobra.Command{
	Use:   "scan <domain>",
	Short: "scan a single domain and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		return scan(cmd, args[0])
	},
}

// init registers the scan command and its flags on the root command
func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringP("type", "t", string(types.DefaultScanType), "scan type ("+strings.Join(types.ScanTypeNames(), "|")+")")
	scanCmd.Flags().Bool("no-color", false, "disable colored output")
}

// scan validates the flags, performs the scan and renders the result to stdout
func scan(cmd *cobra.Command, target string) error {
	scanType, err := types.ParseScanType(k.String("type"))
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	client, err := setupReconClient(cfg)
	if err != nil {
		return fmt.Errorf("setting up recon client: %w", err)
	}

	out := cmd.OutOrStdout()
	renderer := setupRenderer(cfg, out)

	errOut := cmd.ErrOrStderr()
	loadingRenderer := setupRenderer(cfg, errOut)

	opts := append(scanOptions(cfg), scanner.WithListener(func(state scanner.State) {
		if state.Loading {
			if err := loadingRenderer.Render(errOut, nil, true); err != nil {
				log.Debug().Err(err).Msg("failed to write loading transcript")
			}
		}
	}))

	s, err := scanner.New(client, opts...)
	if err != nil {
		return err
	}

	c, err := collector.New(s)
	if err != nil {
		return err
	}

	if err := c.SetDomain(target); err != nil {
		return err
	}

	if err := c.SetScanType(scanType); err != nil {
		return err
	}

	submitted, err := c.Submit(cmd.Context())
	if err != nil {
		return err
	}

	if !submitted {
		return domain.ErrDomainRequired
	}

	result := s.Result()
	if err := renderer.Render(out, result, false); err != nil {
		return err
	}

	if result == nil || result.Failed() {
		return ErrScanFailed
	}

	return nil
}
