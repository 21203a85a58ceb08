package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hapticfloor/pkg/cache"
	"github.com/matzehuels/hapticfloor/pkg/errors"
	"github.com/matzehuels/hapticfloor/pkg/floor"
	pkgio "github.com/matzehuels/hapticfloor/pkg/io"
	"github.com/matzehuels/hapticfloor/pkg/observability"
)

// Runner loads layouts and renders them with caching.
//
// The Runner holds no per-run state, so one Runner may serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer uses
// [cache.DefaultKeyer] and a nil logger uses the charm default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    DefaultTTL,
	}
}

// Load parses text into a fresh floor. A rejected layout is logged and
// returned as an error together with the (empty) floor.
func (r *Runner) Load(ctx context.Context, text string) (*floor.Floor, error) {
	f := floor.New()
	start := time.Now()
	if err := f.Reload(ctx, text); err != nil {
		r.Logger.Warn("layout rejected", "code", errors.GetCode(err), "err", err)
		return f, err
	}
	snap := f.Snapshot()
	r.Logger.Debug("layout loaded",
		"revision", snap.Revision,
		"active", snap.Nodes.ActiveCount(),
		"passive", snap.Nodes.PassiveCount(),
		"duration", time.Since(start))
	return f, nil
}

// Execute loads text and renders it.
func (r *Runner) Execute(ctx context.Context, text string, opts Options) (*Result, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	loadStart := time.Now()
	f, err := r.Load(ctx, text)
	if err != nil {
		return nil, err
	}
	snap := f.Snapshot()

	result := &Result{
		Revision: snap.Revision,
		Stats: Stats{
			ActiveCount:  snap.Nodes.ActiveCount(),
			PassiveCount: snap.Nodes.PassiveCount(),
			EdgeCount:    len(snap.Nodes.Edges()),
			LoadTime:     time.Since(loadStart),
		},
	}

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, snap, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.LayoutHash = LayoutHash(snap.Nodes)
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// RenderWithCacheInfo renders snap, serving each format from cache when
// possible. The bool reports whether every format was a cache hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, snap floor.Snapshot, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	hash := LayoutHash(snap.Nodes)
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		key := r.key(hash, format, opts)
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
				continue
			} else if err != nil {
				r.Logger.Debug("cache get failed", "key", key, "err", err)
			}
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	observability.Pipeline().OnRenderStart(ctx, missing)
	start := time.Now()
	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, snap, renderOpts)
	observability.Pipeline().OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.key(hash, format, opts)
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			r.Logger.Debug("cache set failed", "key", key, "err", err)
		}
	}
	return artifacts, false, nil
}

// key returns the cache key of one format. The JSON export does not depend on
// render options and is keyed by layout alone.
func (r *Runner) key(layoutHash, format string, opts Options) string {
	if format == FormatJSON {
		return r.Keyer.MeshKey(layoutHash)
	}
	return r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
}

// Render is RenderWithCacheInfo without the hit flag.
func (r *Runner) Render(ctx context.Context, snap floor.Snapshot, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, snap, opts)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// LayoutHash returns the content hash of set in canonical layout form, so
// equivalent documents with different formatting share cache entries.
func LayoutHash(set floor.NodeSet) string {
	var buf bytes.Buffer
	_ = pkgio.WriteLayout(&buf, set)
	return cache.Hash(buf.Bytes())
}
