package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/staffsheet/pkg/errors"
	"github.com/matzehuels/staffsheet/pkg/pipeline"
)

// defaultBase is the output name used when --output is not given.
const defaultBase = "staffsheet"

// renderOpts holds the flags of the render commands.
type renderOpts struct {
	sheet   sheetFlags
	formats []string // output formats: svg, png, pdf, json
	output  string   // output file, or base path when several files are written
	scale   float64  // PNG pixels per point
	page    int      // page rasterised for PNG
}

func (o *renderOpts) registerOutput(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (single file) or base path (several)")
	cmd.Flags().Float64Var(&o.scale, "scale", pipeline.DefaultScale, "PNG resolution in pixels per point")
	cmd.Flags().IntVar(&o.page, "page", 1, "page rendered as PNG")
}

func (o *renderOpts) pipelineOptions() (pipeline.Options, error) {
	opts, err := o.sheet.options()
	if err != nil {
		return opts, err
	}
	opts.Formats = parseFormats(o.formats)
	opts.Scale = o.scale
	opts.Page = o.page
	return opts, nil
}

// generateCommand renders a sheet to one or more formats.
func (c *CLI) generateCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a practice sheet (PDF by default)",
		Example: `  staffsheet generate --string SOL,RÉ --pages 3 -o scales.pdf
  staffsheet generate -p La4,Si4,Do5 --mode random --seed 7 -f pdf,json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), &opts)
		},
	}

	opts.sheet.register(cmd.Flags())
	opts.registerOutput(cmd)
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", nil, "output format(s): pdf (default), svg, png, json")

	return cmd
}

// previewCommand rasterises one page for a quick look.
func (c *CLI) previewCommand() *cobra.Command {
	opts := renderOpts{formats: []string{pipeline.FormatPNG}}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render one page as PNG",
		Long: `Render one page of the sheet as a PNG image. Without --output the image is
written to the temporary directory and its path printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output == "" {
				opts.output = previewPath()
			}
			return c.runRender(cmd.Context(), &opts)
		},
	}

	opts.sheet.register(cmd.Flags())
	opts.registerOutput(cmd)

	return cmd
}

// layoutCommand prints the planned geometry as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := renderOpts{formats: []string{pipeline.FormatJSON}}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the sheet geometry as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "" {
				return c.runRender(cmd.Context(), &opts)
			}
			po, err := opts.pipelineOptions()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(true)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Execute(cmd.Context(), po)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(append(res.Artifacts[pipeline.FormatJSON][0], '\n'))
			return err
		},
	}

	opts.sheet.register(cmd.Flags())
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to a file instead of stdout")

	return cmd
}

// runRender executes the pipeline with the command's flags.
func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	po, err := opts.pipelineOptions()
	if err != nil {
		return err
	}
	return c.render(ctx, po, opts.output, opts.sheet.noCache)
}

// render executes the pipeline and writes every artifact.
func (c *CLI) render(ctx context.Context, po pipeline.Options, output string, noCache bool) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Rendering sheet...")
	spinner.Start()
	res, err := runner.Execute(ctx, po)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done("Rendered sheet")

	base := basePath(output)
	single := len(po.Formats) == 1 && len(res.Artifacts[po.Formats[0]]) == 1

	printSuccess("Planned %s", res.Document.ID)
	printStats(res.Stats.Pages, res.Stats.Staves, res.Stats.Notes, res.CacheInfo.PDFHit)
	if res.Stats.Truncated > 0 {
		printWarning("%d staves hold fewer notes than requested", res.Stats.Truncated)
	}

	for _, format := range po.Formats {
		files := res.Artifacts[format]
		for i, data := range files {
			path := outputPath(base, format, i, len(files))
			if single && output != "" {
				path = output
			}
			if err := writeOutput(path, data); err != nil {
				return err
			}
			logger.Debug("wrote", "path", path, "bytes", len(data))
			printFile(path)
		}
	}
	return nil
}

// basePath strips a known format extension from output.
func basePath(output string) string {
	if output == "" {
		return defaultBase
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.ToLower(strings.TrimPrefix(ext, "."))] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath names file i of n for format. Multi-file formats get a 1-based
// page suffix.
func outputPath(base, format string, i, n int) string {
	if n > 1 {
		return fmt.Sprintf("%s-%d.%s", base, i+1, format)
	}
	return base + "." + format
}

func writeOutput(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
