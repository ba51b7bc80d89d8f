// Package cmd implements the CLI commands for opuspipe using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/opuspipe/common"
	"github.com/gaurav-prasanna/opuspipe/core"
	"github.com/gaurav-prasanna/opuspipe/core/fetch"
	"github.com/gaurav-prasanna/opuspipe/core/htmlrender"
)

// Persistent flag variables.
var (
	flagConfig   string
	flagLogLevel string
	flagCookie   string
)

// Loaded by PersistentPreRunE for every subcommand.
var (
	cfg    *common.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "opuspipe",
	Short: "Render Bilibili opus documents as HTML",
	Long: `opuspipe fetches Bilibili opus (image-text) documents and renders their
content as the scoped HTML used by the opus page, or as Markdown, JSON or PDF.

Usage:
  opuspipe render <id>... [flags]
  opuspipe serve [flags]`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagCookie, "cookie", "", "Cookie header sent to the API")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig applies defaults, the config file, the environment and the
// persistent flags, in that order.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := common.LoadFromFile(flagConfig)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		loaded.Logging.Level = flagLogLevel
	}
	if cmd.Flags().Changed("cookie") {
		loaded.Upstream.Cookie = flagCookie
	}

	cfg = loaded
	logger = common.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	return nil
}

// newPipeline wires the fetcher and renderer from cfg.
func newPipeline(cfg *common.Config, logger *log.Logger) (*core.Pipeline, error) {
	timeout, err := cfg.Upstream.TimeoutDuration()
	if err != nil {
		return nil, fmt.Errorf("upstream timeout: %w", err)
	}
	client := fetch.NewClient(
		fetch.WithCookie(cfg.Upstream.Cookie),
		fetch.WithUserAgent(cfg.Upstream.UserAgent),
		fetch.WithTimeout(timeout),
	)
	if cfg.Upstream.Cookie == "" {
		logger.Debug().Msg("no cookie configured; some opus may be hidden")
	}
	return &core.Pipeline{
		Fetcher:  fetch.NewOpusFetcher(client, cfg.Upstream.BaseURL, logger),
		Renderer: htmlrender.New(cfg.RenderOptions()),
	}, nil
}
