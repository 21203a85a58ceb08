package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hapticfloor/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}

			store, err := cache.Open(cmd.Context(), cfg.Cache)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			var n int
			switch s := store.(type) {
			case *cache.FileCache:
				n, err = s.Clear()
				if err == nil {
					defer printDetail("Directory: %s", s.Path())
				}
			case *cache.RedisCache:
				n, err = s.Clear(cmd.Context())
				if err == nil {
					defer printDetail("Redis: %s", cfg.Cache.RedisAddr)
				}
			default:
				printInfo("Caching is disabled")
				return nil
			}
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", n)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			switch cfg.Cache.Backend {
			case "redis":
				fmt.Fprintf(c.stdout, "redis://%s\n", cfg.Cache.RedisAddr)
			case "none":
				fmt.Fprintln(c.stdout, "none")
			default:
				dir := cfg.Cache.Dir
				if dir == "" {
					if dir, err = cache.Dir(); err != nil {
						return fmt.Errorf("get cache dir: %w", err)
					}
				}
				fmt.Fprintln(c.stdout, dir)
			}
			return nil
		},
	}
}
