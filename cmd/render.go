// Render command.
// This is the main command that orchestrates the pipeline:
// fetch → render fragment → convert → write.
//
// It handles flag validation, renderer selection and id de-duplication.

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/opuspipe/common"
	"github.com/gaurav-prasanna/opuspipe/core"
	"github.com/gaurav-prasanna/opuspipe/core/extract"
	"github.com/gaurav-prasanna/opuspipe/core/normalize"
	"github.com/gaurav-prasanna/opuspipe/core/opus"
	"github.com/gaurav-prasanna/opuspipe/core/output"
	"github.com/gaurav-prasanna/opuspipe/core/render"
)

// renderFlags holds the render command flags.
type renderFlags struct {
	HTML      bool
	Fragment  bool
	Markdown  bool
	JSON      bool
	PDF       bool
	OutputDir string
	Stdout    bool
}

var flagsRender renderFlags

var renderCmd = &cobra.Command{
	Use:   "render <id>...",
	Short: "Render one or more opus documents to the specified output format",
	Long: `Render fetches each opus, renders its content paragraphs to HTML and
converts the result to the specified output format.

Examples:
  opuspipe render 1133181564352462851 --html
  opuspipe render 1133181564352462851 --markdown --output_dir ./out
  opuspipe render 1133181564352462851 1133181564352462852 --json
  opuspipe render 1133181564352462851 --fragment --stdout`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	// Output format flags (mutually exclusive).
	renderCmd.Flags().BoolVar(&flagsRender.HTML, "html", false, "Output a standalone HTML page")
	renderCmd.Flags().BoolVar(&flagsRender.Fragment, "fragment", false, "Output the bare HTML fragment")
	renderCmd.Flags().BoolVar(&flagsRender.Markdown, "markdown", false, "Output Markdown")
	renderCmd.Flags().BoolVar(&flagsRender.JSON, "json", false, "Output structured JSON")
	renderCmd.Flags().BoolVar(&flagsRender.PDF, "pdf", false, "Output PDF")

	renderCmd.Flags().StringVar(&flagsRender.OutputDir, "output_dir", "", "Output directory (default: config output.dir or current directory)")
	renderCmd.Flags().BoolVar(&flagsRender.Stdout, "stdout", false, "Write to stdout instead of files")
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := validateFlags(flagsRender); err != nil {
		return err
	}
	if cmd.Flags().Changed("output_dir") {
		cfg.Output.Dir = flagsRender.OutputDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	renderer, err := selectRenderer(flagsRender, cfg)
	if err != nil {
		return err
	}
	pipeline, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}

	var writer *output.Writer
	if !flagsRender.Stdout {
		writer, err = output.New(cfg.Output.Dir)
		if err != nil {
			return fmt.Errorf("initializing output writer: %w", err)
		}
	}

	ids := uniqueIDs(args)
	out := cmd.OutOrStdout()
	var errCount int
	for i, id := range ids {
		logger.Info().Str("id", id).Int("index", i+1).Int("total", len(ids)).Msg("rendering opus")

		data, err := processID(cmd, pipeline, renderer, id)
		if err != nil {
			logError(id, err)
			errCount++
			continue
		}

		if writer == nil {
			if _, err := out.Write(data); err != nil {
				logger.Error().Err(err).Str("id", id).Msg("write failed")
				errCount++
			}
			continue
		}
		path, err := writer.Write(id, data, renderer.Extension())
		if err != nil {
			logger.Error().Err(err).Str("id", id).Msg("write failed")
			errCount++
			continue
		}
		fmt.Fprintf(out, "✓ Written: %s\n", path)
	}

	if errCount > 0 {
		return fmt.Errorf("%d/%d opus failed", errCount, len(ids))
	}
	return nil
}

// processID runs a single id through the full pipeline.
func processID(cmd *cobra.Command, pipeline *core.Pipeline, renderer core.Renderer, id string) ([]byte, error) {
	if !opus.ValidID(id) {
		return nil, fmt.Errorf("invalid opus id %q", id)
	}

	doc, err := pipeline.Run(cmd.Context(), id)
	if err != nil {
		return nil, err
	}

	data, err := renderer.Render(doc.Fragment, doc.Meta)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return data, nil
}

func logError(id string, err error) {
	var apiErr *opus.APIError
	switch {
	case errors.Is(err, opus.ErrMissingContent):
		logger.Error().Str("id", id).Msg("Module content not found, check opus id and cookie settings")
	case errors.As(err, &apiErr):
		logger.Error().Str("id", id).Int("code", apiErr.Code).Str("api_message", apiErr.Message).Msg("opus API error")
	default:
		logger.Error().Err(err).Str("id", id).Msg("render failed")
	}
}

// uniqueIDs drops repeated ids, keeping the first occurrence.
func uniqueIDs(args []string) []string {
	seen := make(map[string]bool, len(args))
	ids := make([]string, 0, len(args))
	for _, id := range args {
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// validateFlags checks that exactly one output format is chosen.
func validateFlags(f renderFlags) error {
	formatCount := 0
	for _, set := range []bool{f.HTML, f.Fragment, f.Markdown, f.JSON, f.PDF} {
		if set {
			formatCount++
		}
	}

	if formatCount == 0 {
		return fmt.Errorf("exactly one output format is required: --html, --fragment, --markdown, --json, or --pdf")
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}
	if f.Stdout && f.OutputDir != "" {
		return fmt.Errorf("--stdout and --output_dir are mutually exclusive")
	}
	return nil
}

// selectRenderer creates the appropriate Renderer based on flags.
func selectRenderer(f renderFlags, cfg *common.Config) (core.Renderer, error) {
	switch {
	case f.HTML:
		return &render.PageRenderer{Stylesheets: cfg.Render.Stylesheets, MaxWidth: cfg.Render.MaxWidth}, nil
	case f.Fragment:
		return render.NewFragmentRenderer(), nil
	case f.Markdown:
		return render.NewMarkdownRenderer(normalize.New()), nil
	case f.JSON:
		return render.NewJSONRenderer(extract.New(), normalize.New()), nil
	case f.PDF:
		return render.NewPDFRenderer(normalize.New(), cfg.Output.PDFFont), nil
	default:
		return nil, fmt.Errorf("no output format selected")
	}
}
