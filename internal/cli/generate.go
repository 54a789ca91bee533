package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lasercard/pkg/errors"
	"github.com/matzehuels/lasercard/pkg/export"
	"github.com/matzehuels/lasercard/pkg/pipeline"
)

// stdoutPath selects standard output instead of a file.
const stdoutPath = "-"

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	card    cardFlags
	output  string  // output file, or base path when several formats are requested
	formats string  // comma-separated output formats
	dpi     float64 // PNG resolution
	title   string  // SVG <title>
}

// generateCommand creates the generate command, the main entry point.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{
		output:  pipeline.DefaultOutput,
		formats: pipeline.FormatSVG,
		dpi:     pipeline.DefaultPNGDPI,
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the card artwork",
		Long: `Generate the card artwork from the built-in defaults, an optional
configuration file and flag overrides.

With several formats the output path acts as a base name: -o card.svg -f svg,dxf
writes card.svg and card.dxf. Use -o - to write a single format to stdout.`,
		Example: `  lasercard generate
  lasercard generate -c examples/card.toml -f svg,dxf,json
  lasercard generate --pins 5 --angle 12 -o wide.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, &opts)
		},
	}

	opts.card.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file or base path (- for stdout)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", opts.formats, "output format(s): svg, pdf, png, dxf, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.dpi, "dpi", opts.dpi, "PNG resolution in dots per inch")
	cmd.Flags().StringVar(&opts.title, "title", "", "SVG document title")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, opts *generateOpts) error {
	formats, err := pipeline.ParseFormats(opts.formats)
	if err != nil {
		return err
	}
	toStdout := opts.output == stdoutPath
	if toStdout && len(formats) > 1 {
		return errors.New(errors.ErrCodeInvalidPath, "cannot write %d formats to stdout, pick one", len(formats))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	prog := newProgress(c.Logger)
	popts := opts.card.options(cmd)
	popts.Formats = formats
	popts.PNGDPI = opts.dpi
	popts.Title = opts.title
	result, err := c.newRunner().Execute(ctx, popts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if toStdout {
		_, err := out.Write(result.Artifacts[formats[0]])
		return err
	}

	// Every artifact is rendered before the first file is written.
	paths := make([]string, len(result.Formats))
	for i, format := range result.Formats {
		paths[i] = pipeline.OutputPath(opts.output, format)
		if err := export.WriteFile(paths[i], result.Artifacts[format]); err != nil {
			return err
		}
		c.Logger.Debug("wrote artifact", "path", paths[i], "sha256", result.Stats.Digests[format])
	}
	prog.done("Generated card")

	printSuccess(out, "Generated %s card", cardSize(result.Config.Card.Width, result.Config.Card.Height))
	for _, p := range paths {
		printFile(out, p)
	}
	printStats(out,
		fmt.Sprintf("%d pins", result.Stats.Pins),
		fmt.Sprintf("%d text lines", result.Stats.TextLines),
		fmt.Sprintf("logo: %s", result.Config.Logo.Mode()))
	return nil
}

func cardSize(w, h float64) string {
	return fmt.Sprintf("%g×%g mm", w, h)
}
