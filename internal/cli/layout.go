package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/digibouquet/pkg/core/render/layout"
	"github.com/matzehuels/digibouquet/pkg/pipeline"
)

// layoutCommand creates the layout command for computing bouquet layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		jitter  float64
		spec    bouquetFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [bouquet.json]",
		Short: "Compute the layout of a bouquet",
		Long: `Compute the layout of a bouquet.

The layout command places every flower, stem and leaf of a bouquet and writes
the result as a layout.json file (same format as 'render -f json') that can be
rendered to SVG/PNG/PDF using the 'visualize' command.

Layouts are deterministic: the same flowers, seed and greenery always give
the same layout. Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			s, err := spec.spec(cmd, input)
			if err != nil {
				return err
			}
			opts.Spec = s
			if cmd.Flags().Changed("jitter") {
				opts.Jitter = &jitter
			}
			return c.runLayout(cmd.Context(), input, opts, output, noCache)
		},
	}

	spec.register(cmd, pipeline.DefaultSeed)

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")

	// Layout flags
	cmd.Flags().Float64Var(&opts.Width, "width", pipeline.DefaultWidth, "frame width")
	cmd.Flags().Float64Var(&opts.Height, "height", pipeline.DefaultHeight, "frame height")
	cmd.Flags().Float64Var(&jitter, "jitter", 0, "stem angle jitter in degrees (default 2.5)")

	return cmd
}

// runLayout computes the layout and writes it as JSON.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	l, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := layout.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + fileSuffixes[pipeline.FormatJSON]
	}
	if err := writeFile(outputPath, data); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	if outputPath == "-" {
		return nil
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(l.Flowers), len(l.Foliage.Stems), cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}
