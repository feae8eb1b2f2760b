package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/cc-statement-consolidator/internal/config"
)

var version = "1.0.0"

// appConfig is the configuration loaded from the environment; command flags
// override it.
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "ccstatements",
	Short: "Consolidate credit card statement PDFs into a workbook",
	Long: `ccstatements extracts transactions and statement metadata from credit
card statement PDFs and consolidates them into a single workbook: one sheet
per statement plus a combined Metadata sheet.

Settings are read from the environment (and a .env file); flags override them.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree with cfg as the base configuration.
func Execute(ctx context.Context, cfg *config.Config) error {
	appConfig = cfg
	return rootCmd.ExecuteContext(ctx)
}

// effectiveConfig returns a copy of the loaded configuration with the flags
// the user set on cmd applied, validated.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Config{}
	if appConfig != nil {
		cfg = *appConfig
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.OutputPath, _ = flags.GetString("output")
	}
	if flags.Changed("format") {
		cfg.OutputFormat, _ = flags.GetString("format")
	}
	if flags.Changed("decoder") {
		cfg.Decoder, _ = flags.GetString("decoder")
	}
	if flags.Changed("sheet-naming") {
		cfg.SheetNaming, _ = flags.GetString("sheet-naming")
	}
	if flags.Changed("sheet-prefix") {
		cfg.SheetPrefix, _ = flags.GetString("sheet-prefix")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("doc-timeout") {
		cfg.DocumentTimeout, _ = flags.GetDuration("doc-timeout")
	}
	if flags.Changed("strict") {
		cfg.Strict, _ = flags.GetBool("strict")
	}
	if flags.Changed("bucket") {
		cfg.S3Bucket, _ = flags.GetString("bucket")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
