package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/digibouquet/pkg/core/render/sink"
	"github.com/matzehuels/digibouquet/pkg/pipeline"
)

// renderCommand creates the render command that goes from a bouquet straight
// to rendered files.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		jitter     float64
		card       sink.CardText
		spec       bouquetFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [bouquet.json]",
		Short: "Render a bouquet to SVG, PNG, PDF, DOT or JSON",
		Long: `Render a bouquet to one or more output formats.

The bouquet comes from a JSON file or from --flowers, --seed and --greenery.
Equal inputs always produce identical output, so results are cached locally
for faster subsequent runs.

Formats: svg (default), png, pdf, json, thumbnail, dot, diagram.
PNG, PDF and thumbnails need rsvg-convert on PATH.`,
		Example: `  digibouquet render --flowers roses=3,tulips=2 --seed 7
  digibouquet render bouquet.json -f svg,png --style simple
  digibouquet render --flowers lily=4 --to Ben --from Ana --message "Get well soon"`,
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
			opts.Formats = parseFormats(formatsStr)
			if cmd.Flags().Changed("jitter") {
				opts.Jitter = &jitter
			}
			if card != (sink.CardText{}) {
				opts.Card = &card
			}
			if err := c.applyRenderConfig(cmd, &opts); err != nil {
				return err
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateStyle(opts.Style); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), input, opts, output, noCache)
		},
	}

	spec.register(cmd, pipeline.DefaultSeed)

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")

	// Layout flags
	cmd.Flags().Float64Var(&opts.Width, "width", pipeline.DefaultWidth, "frame width")
	cmd.Flags().Float64Var(&opts.Height, "height", pipeline.DefaultHeight, "frame height")
	cmd.Flags().Float64Var(&jitter, "jitter", 0, "stem angle jitter in degrees (default 2.5)")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s), comma-separated")
	cmd.Flags().StringVar(&opts.Style, "style", "", "visual style: handdrawn (default), simple")
	cmd.Flags().IntVar(&opts.Scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().IntVar(&opts.ThumbSize, "thumb-size", sink.DefaultThumbnailSize, "thumbnail edge length in pixels")
	cmd.Flags().BoolVar(&opts.NoGreenery, "no-greenery", false, "draw flowers without foliage")
	cmd.Flags().StringVar(&card.To, "to", "", "card recipient")
	cmd.Flags().StringVar(&card.From, "from", "", "card sender")
	cmd.Flags().StringVar(&card.Message, "message", "", "card message")

	return cmd
}

// applyRenderConfig fills style and frame from the config file for flags the
// user did not set.
func (c *CLI) applyRenderConfig(cmd *cobra.Command, opts *pipeline.Options) error {
	if opts.Style != "" && cmd.Flags().Changed("width") && cmd.Flags().Changed("height") {
		return nil
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.Style == "" {
		opts.Style = cfg.Render.Style
	}
	if f := cmd.Flags().Lookup("width"); f != nil && !f.Changed {
		opts.Width = cfg.Render.Width
	}
	if f := cmd.Flags().Lookup("height"); f != nil && !f.Changed {
		opts.Height = cfg.Render.Height
	}
	return nil
}

// runRender places the bouquet and renders every requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Arranging %d flowers...", opts.Spec.Total()))
	spinner.Start()

	l, layoutHit, err := runner.GenerateLayoutWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("layout: %w", err)
	}
	spinner.SetMessage(fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))

	artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(artifacts)))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		flowers:   len(l.Flowers),
		stems:     len(l.Foliage.Stems),
		cacheHit:  layoutHit && renderHit,
	})
}

// =============================================================================
// Artifact Output
// =============================================================================

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // source file; output names derive from it when set
	output    string
	flowers   int
	stems     int
	cacheHit  bool
}

// writeArtifacts writes one file per format and prints a summary.
func writeArtifacts(p artifactWriteParams) error {
	base := basePath(p.output, p.input)

	var written []string
	for _, format := range dedupe(p.formats) {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(base, format)
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}
		if err := writeFile(path, data); err != nil {
			return err
		}
		written = append(written, path)
	}
	if p.output == "-" {
		return nil
	}

	printSuccess("Bouquet rendered")
	for _, path := range written {
		printFile(path)
	}
	printStats(p.flowers, p.stems, p.cacheHit)
	return nil
}

// writeFile writes data to path, or to stdout when path is "-".
func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

// fileSuffixes maps formats to the suffix appended to the output base.
var fileSuffixes = map[string]string{
	pipeline.FormatSVG:       ".svg",
	pipeline.FormatPNG:       ".png",
	pipeline.FormatPDF:       ".pdf",
	pipeline.FormatJSON:      ".layout.json",
	pipeline.FormatThumbnail: ".thumb.png",
	pipeline.FormatDOT:       ".dot",
	pipeline.FormatDiagram:   ".diagram.svg",
}

func outputPath(base, format string) string {
	if suffix, ok := fileSuffixes[format]; ok {
		return base + suffix
	}
	return base + "." + format
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. Known output
// suffixes are stripped from output so "-o card.svg -f svg,png" writes
// card.svg and card.png.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return defaultOutputBase
		}
		if strings.HasSuffix(input, ".layout.json") {
			return strings.TrimSuffix(input, ".layout.json")
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, suffix := range []string{".layout.json", ".thumb.png", ".diagram.svg"} {
		if strings.HasSuffix(output, suffix) {
			return strings.TrimSuffix(output, suffix)
		}
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// "-" writes to stdout. Otherwise it creates the file, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
