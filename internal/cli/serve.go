package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hapticfloor/pkg/floor"
	"github.com/matzehuels/hapticfloor/pkg/metrics"
	"github.com/matzehuels/hapticfloor/pkg/pipeline"
	"github.com/matzehuels/hapticfloor/pkg/server"
)

// serveOpts holds flags for the serve command.
type serveOpts struct {
	addr    string
	noCache bool
	watch   bool
}

// serveCommand creates the serve command for hosting a floor over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [layout]",
		Short: "Host a floor over HTTP",
		Long: `Start an HTTP server around one floor. Clients upload layouts with
PUT /layout, route value banks with POST /tick and read nodes, edges and the
rendered mesh.

When a layout file is given it is loaded at startup and reloaded whenever the
process receives SIGHUP, or on every change to the file with --watch.`,
		Example: `  hapticfloor serve
  hapticfloor serve floor.json --addr :9000 --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var layoutPath string
			if len(args) == 1 {
				layoutPath = args[0]
			}
			return c.runServe(cmd.Context(), layoutPath, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the layout file whenever it changes")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, layoutPath string, opts serveOpts) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if opts.addr != "" {
		addr = opts.addr
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	f := floor.New(floor.WithResizeFunc(func(active int) {
		c.Logger.Info("active node count changed", "active", active)
	}))

	serverOpts := []server.Option{
		server.WithLogger(c.Logger),
		server.WithRunner(runner),
		server.WithRenderOptions(pipeline.OptionsFromConfig(cfg.Render)),
	}
	if cfg.Server.Metrics {
		reg := metrics.NewRegistry()
		reg.Install()
		serverOpts = append(serverOpts, server.WithMetrics(reg.Handler()))
	}

	if layoutPath != "" {
		c.reloadFromFile(ctx, f, layoutPath)
		go c.reloadOnHangup(ctx, f, layoutPath)
		if opts.watch && layoutPath != stdinPath {
			if err := c.watchLayout(ctx, f, layoutPath); err != nil {
				return err
			}
		}
	}

	printInfo("Serving floor on %s", addr)
	return server.New(f, serverOpts...).ListenAndServe(ctx, addr)
}

// reloadFromFile reloads f from path. Failures are logged; the floor is left
// empty by a rejected layout.
func (c *CLI) reloadFromFile(ctx context.Context, f *floor.Floor, path string) {
	text, err := c.readLayout(path)
	if err == nil {
		err = f.Reload(ctx, text)
	}
	if err != nil {
		c.Logger.Error("reload failed", "path", path, "err", err)
		return
	}
	snap := f.Snapshot()
	c.Logger.Info("reloaded layout", "path", path, "revision", snap.Revision,
		"active", snap.Nodes.ActiveCount(), "passive", snap.Nodes.PassiveCount())
}

// reloadOnHangup reloads f from path on every SIGHUP until ctx is done.
func (c *CLI) reloadOnHangup(ctx context.Context, f *floor.Floor, path string) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			c.reloadFromFile(ctx, f, path)
		}
	}
}

// watchLayout starts reloading f whenever the file at path is written or
// replaced. The parent directory is watched so editors that save through a
// rename are picked up too.
func (c *CLI) watchLayout(ctx context.Context, f *floor.Floor, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return err
	}

	target := filepath.Clean(path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) == target && ev.Has(fsnotify.Write|fsnotify.Create) {
					c.reloadFromFile(ctx, f, path)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.Logger.Warn("layout watch error", "path", path, "err", err)
			}
		}
	}()
	c.Logger.Debug("watching layout", "path", path)
	return nil
}
