package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/smartstep/pkg/render"
	"github.com/matzehuels/smartstep/pkg/scene"
)

// Output formats of the render command.
const (
	formatSVG      = "svg"
	formatPNG      = "png"
	formatDOT      = "dot"
	formatGraphviz = "graphviz" // SVG drawn by graphviz from the pinned DOT
)

// formatExt maps each format to its file extension.
var formatExt = map[string]string{
	formatSVG:      ".svg",
	formatPNG:      ".png",
	formatDOT:      ".dot",
	formatGraphviz: ".gv.svg",
}

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output  string   // output file (single format) or base path (several)
	formats []string // svg, png, dot, graphviz
	scale   float64  // output pixels per canvas unit
	margin  float64  // blank border in canvas units
	grid    bool     // draw a background grid
	handles bool     // draw segment handles and swap buttons
	noCache bool     // bypass the route cache
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		scale:  render.DefaultScale,
		margin: render.DefaultMargin,
	}

	cmd := &cobra.Command{
		Use:   "render <scene>",
		Short: "Render a routed scene to SVG, PNG or DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, graphviz (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "output pixels per canvas unit")
	cmd.Flags().Float64Var(&opts.margin, "margin", opts.margin, "blank border around the drawing")
	cmd.Flags().BoolVar(&opts.grid, "grid", false, "draw a background grid")
	cmd.Flags().BoolVar(&opts.handles, "handles", false, "draw segment handles and swap buttons")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the route cache")

	return cmd
}

// parseFormats splits the --format flag. Empty means svg.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(parts[i]))
	}
	return parts
}

// validateFormats checks that every requested format is known.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if _, ok := formatExt[f]; !ok {
			return fmt.Errorf("invalid format: %s (must be 'svg', 'png', 'dot' or 'graphviz')", f)
		}
	}
	return nil
}

// outputPaths derives one file per format. A single format writes to
// output as given; several formats treat output as a base path.
func outputPaths(input, output string, formats []string) map[string]string {
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, f := range formats {
		paths[f] = base + formatExt[f]
	}
	return paths
}

func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	s, err := scene.ReadFile(input)
	if err != nil {
		return err
	}
	router, closeCache, err := c.newRouter(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer closeCache()

	results, err := router.RouteAll(ctx, s)
	if err != nil {
		return err
	}
	frame := render.NewFrame(s, results)

	ropts := []render.Option{render.WithScale(opts.scale), render.WithMargin(opts.margin)}
	if opts.grid {
		ropts = append(ropts, render.WithGrid())
	}
	if opts.handles {
		ropts = append(ropts, render.WithHandles())
	}

	out := cmd.OutOrStdout()
	paths := outputPaths(input, opts.output, opts.formats)
	for _, f := range opts.formats {
		sw := startStopwatch(logger)
		data, err := renderFormat(ctx, frame, f, ropts)
		if err != nil {
			return fmt.Errorf("render %s: %w", f, err)
		}
		if err := os.WriteFile(paths[f], data, 0o644); err != nil {
			return err
		}
		logger.Debug("rendered", "format", f, "bytes", len(data), "took", sw.elapsed())
		printFile(out, paths[f])
	}
	printSuccess(out, "Rendered %d connectors", len(results))
	return nil
}

func renderFormat(ctx context.Context, frame render.Frame, format string, opts []render.Option) ([]byte, error) {
	switch format {
	case formatSVG:
		return render.SVG(frame, opts...), nil
	case formatDOT:
		return []byte(render.DOT(frame, opts...)), nil
	case formatGraphviz:
		return render.GraphvizSVG(ctx, render.DOT(frame, opts...))
	case formatPNG:
		var buf bytes.Buffer
		if err := render.PNG(&buf, frame, opts...); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}
