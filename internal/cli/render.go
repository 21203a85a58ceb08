package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hapticfloor/pkg/errors"
	"github.com/matzehuels/hapticfloor/pkg/pipeline"
)

// renderOpts holds flags for the render command.
type renderOpts struct {
	output     string  // output file (single format) or base path
	formats    string  // comma-separated formats
	scale      float64 // points per mesh unit, 0 keeps the config value
	engine     string  // graphviz engine, empty keeps the config value
	hideLabels bool
	noCache    bool
	refresh    bool
}

// renderCommand creates the render command for drawing a floor's mesh.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [layout]",
		Short: "Render the mesh of a floor layout",
		Long: `Load a floor layout and render its mesh topology with Graphviz.

Active nodes are drawn as numbered discs at their mesh position, passive nodes
as points, and every neighbor pair as a line. Rendered artifacts are cached by
layout content and render options.`,
		Example: `  hapticfloor render floor.json
  hapticfloor render floor.json -f svg,png -o out/floor
  hapticfloor render - -f json < floor.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), dot, json, pdf, png (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "points per mesh unit (default from config)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "graphviz layout engine: neato or fdp (default from config)")
	cmd.Flags().BoolVar(&opts.hideLabels, "no-labels", false, "omit channel labels on active nodes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render and overwrite cached artifacts")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	ctx := cmd.Context()
	cfg, err := c.config()
	if err != nil {
		return err
	}

	popts := pipeline.OptionsFromConfig(cfg.Render)
	if opts.formats != "" || len(popts.Formats) == 0 {
		popts.Formats = parseFormats(opts.formats)
	}
	if opts.scale != 0 {
		popts.Scale = opts.scale
	}
	if opts.engine != "" {
		popts.Engine = opts.engine
	}
	popts.HideLabels = opts.hideLabels
	popts.Refresh = opts.refresh
	popts.Logger = c.Logger
	if err := pipeline.ValidateFormats(popts.Formats); err != nil {
		return err
	}

	text, err := c.readLayout(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, os.Stderr, "Rendering floor...")
	spinner.Start()
	result, err := runner.Execute(ctx, text, popts)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("render %s: %w", input, err)
	}

	paths, err := writeArtifacts(result.Artifacts, popts.Formats, input, opts.output)
	if err != nil {
		return err
	}

	printSuccess("Rendered floor")
	printStats(result.Stats.ActiveCount, result.Stats.PassiveCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes each format to disk and returns the paths in format
// order. A single format is written to output verbatim when it is set.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := output
		if len(formats) > 1 || path == "" {
			path = basePath(output, input) + "." + format
		}
		if err := errors.ValidateOutputPath(path); err != nil {
			return nil, err
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
			}
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path from the output and input paths.
// With no output the input's extension is stripped; stdin becomes "floor".
// A known format extension on output is stripped as well.
func basePath(output, input string) string {
	if output == "" {
		if input == stdinPath {
			return "floor"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
