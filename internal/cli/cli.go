// Package cli implements the hapticfloor command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hapticfloor/pkg/buildinfo"
	"github.com/matzehuels/hapticfloor/pkg/cache"
	"github.com/matzehuels/hapticfloor/pkg/config"
	"github.com/matzehuels/hapticfloor/pkg/floor"
	pkgio "github.com/matzehuels/hapticfloor/pkg/io"
	"github.com/matzehuels/hapticfloor/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "hapticfloor"

	// stdinPath reads the layout from standard input.
	stdinPath = "-"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location.
	ConfigPath string

	stdin  io.Reader
	stdout io.Writer
	cfg    *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "hapticfloor loads haptic floor layouts and routes channel values onto them",
		Long: `hapticfloor parses floor layout documents, derives the triangular mesh of
active and passive nodes, renders its topology and routes value banks onto the
active nodes. It can also host a floor over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/hapticfloor/config.toml)")

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.meshCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.routeCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// config loads the config file once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	cacheCfg := cfg.Cache
	if noCache {
		cacheCfg.Backend = "none"
	}
	store, err := cache.Open(ctx, cacheCfg)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "backend", cacheCfg.Backend, "err", err)
		store = cache.NewNullCache()
	}
	r := pipeline.NewRunner(cache.Instrumented(store), nil, c.Logger)
	r.TTL = cfg.Cache.TTL
	return r, nil
}

// =============================================================================
// Layout Input
// =============================================================================

// readLayout reads layout text from path, or stdin when path is "-".
func (c *CLI) readLayout(path string) (string, error) {
	if path == stdinPath {
		return pkgio.ReadLayout(c.stdin)
	}
	return pkgio.ImportLayout(path)
}

// loadFloor reads and loads the layout at path. Rejections are reported with
// their error code and returned.
func (c *CLI) loadFloor(ctx context.Context, path string, opts ...floor.Option) (*floor.Floor, error) {
	text, err := c.readLayout(path)
	if err != nil {
		return nil, err
	}
	f := floor.New(opts...)
	prog := newProgress(loggerFromContext(ctx))
	if err := f.Reload(ctx, text); err != nil {
		return f, fmt.Errorf("load %s: %w", path, err)
	}
	prog.done(fmt.Sprintf("Loaded %s", path))
	return f, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
