package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/hapticfloor/pkg/cache"
	"github.com/matzehuels/hapticfloor/pkg/config"
	"github.com/matzehuels/hapticfloor/pkg/errors"
	"github.com/matzehuels/hapticfloor/pkg/floor"
)

const sample = `[{"coords":[0,0],"type":"active","channel":2},{"coords":[1,1]}]`

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"dot", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestSetRenderDefaults(t *testing.T) {
	var opts Options
	opts.SetRenderDefaults()
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale == 0 || opts.Engine == "" || opts.PNGZoom != DefaultPNGZoom || opts.Logger == nil {
		t.Errorf("defaults not applied: %+v", opts)
	}
}

func TestValidateForRender(t *testing.T) {
	opts := Options{Formats: []string{"gif"}}
	if err := opts.ValidateForRender(); err == nil {
		t.Error("invalid format should fail")
	}
	opts = Options{Engine: "dot"}
	if err := opts.ValidateForRender(); err == nil {
		t.Error("invalid engine should fail")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default().Render
	opts := OptionsFromConfig(cfg)
	if opts.Scale != cfg.Scale || opts.Engine != cfg.Engine || len(opts.Formats) != len(cfg.Formats) {
		t.Errorf("OptionsFromConfig() = %+v", opts)
	}
	opts.Formats[0] = "pdf"
	if cfg.Formats[0] == "pdf" {
		t.Error("OptionsFromConfig() aliases the config formats slice")
	}
}

func TestArtifactKeyOptsDistinguishVariants(t *testing.T) {
	base := Options{}
	base.SetRenderDefaults()
	k := cache.NewDefaultKeyer()

	ref := k.ArtifactKey("h", base.ArtifactKeyOpts(FormatPNG))
	zoomed := base
	zoomed.PNGZoom = 3
	if k.ArtifactKey("h", zoomed.ArtifactKeyOpts(FormatPNG)) == ref {
		t.Error("PNG zoom does not change the key")
	}
	bare := base
	bare.HideLabels = true
	if k.ArtifactKey("h", bare.ArtifactKeyOpts(FormatPNG)) == ref {
		t.Error("HideLabels does not change the key")
	}
}

func TestRenderDOTAndJSON(t *testing.T) {
	set, _ := floor.Load(sample)
	snap := floor.Snapshot{Nodes: set, State: floor.StateLoaded, Revision: "r"}

	out, err := Render(context.Background(), snap, Options{Formats: []string{FormatDOT, FormatJSON}})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(out[FormatDOT]), `"a0" -- "p0"`) {
		t.Errorf("dot output missing edge:\n%s", out[FormatDOT])
	}
	var m map[string]any
	if err := json.Unmarshal(out[FormatJSON], &m); err != nil {
		t.Fatalf("json output invalid: %v", err)
	}
	if _, ok := m["revision"]; ok {
		t.Errorf("json artifact carries revision %v, want none", m["revision"])
	}
	if m["state"] != "loaded" {
		t.Errorf("state = %v, want loaded", m["state"])
	}
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestRunnerCachesArtifacts(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)
	ctx := context.Background()
	opts := Options{Formats: []string{FormatDOT, FormatJSON}}

	f, err := r.Load(ctx, sample)
	if err != nil {
		t.Fatal(err)
	}
	snap := f.Snapshot()

	_, hit, err := r.RenderWithCacheInfo(ctx, snap, opts)
	if err != nil || hit {
		t.Fatalf("first render hit=%v err=%v, want miss", hit, err)
	}
	if mc.sets != 2 {
		t.Errorf("cache sets = %d, want 2", mc.sets)
	}

	out, hit, err := r.RenderWithCacheInfo(ctx, snap, opts)
	if err != nil || !hit {
		t.Fatalf("second render hit=%v err=%v, want hit", hit, err)
	}
	if len(out) != 2 {
		t.Errorf("artifacts = %d, want 2", len(out))
	}

	opts.Refresh = true
	if _, hit, _ := r.RenderWithCacheInfo(ctx, snap, opts); hit {
		t.Error("Refresh served from cache")
	}
}

func TestRunnerPartialCacheHit(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)
	ctx := context.Background()
	f, _ := r.Load(ctx, sample)

	_, _ = r.Render(ctx, f.Snapshot(), Options{Formats: []string{FormatDOT}})
	out, hit, err := r.RenderWithCacheInfo(ctx, f.Snapshot(), Options{Formats: []string{FormatDOT, FormatJSON}})
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("partial hit reported as full hit")
	}
	if len(out) != 2 {
		t.Errorf("artifacts = %d, want 2", len(out))
	}
}

func TestLayoutHashIgnoresFormatting(t *testing.T) {
	a, _ := floor.Load(sample)
	b, _ := floor.Load("[\n  {\"coords\": [1, 1], \"type\": \"passive\"},\n  {\"channel\": 2, \"type\": \"active\", \"coords\": [0, 0]}\n]")
	if LayoutHash(a) != LayoutHash(b) {
		t.Error("equivalent layouts hash differently")
	}
	c, _ := floor.Load(`[{"coords":[0,0],"type":"active","channel":3},{"coords":[1,1]}]`)
	if LayoutHash(a) == LayoutHash(c) {
		t.Error("different channels hash the same")
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), sample, Options{Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Revision == "" || res.LayoutHash == "" {
		t.Errorf("result = %+v", res)
	}
	if res.Stats.ActiveCount != 1 || res.Stats.PassiveCount != 1 || res.Stats.EdgeCount != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestExecuteRejectsLayout(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), `{"coords":[0,0]}`, Options{Formats: []string{FormatJSON}})
	if !errors.Is(err, errors.ErrCodeMalformedDocument) {
		t.Errorf("Execute() error = %v, want %s", err, errors.ErrCodeMalformedDocument)
	}
}

func TestRunnerJSONIgnoresRenderOptions(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)
	ctx := context.Background()
	f, _ := r.Load(ctx, sample)

	_, _ = r.Render(ctx, f.Snapshot(), Options{Formats: []string{FormatJSON}, Scale: 40})
	_, hit, err := r.RenderWithCacheInfo(ctx, f.Snapshot(), Options{Formats: []string{FormatJSON}, Scale: 80})
	if err != nil || !hit {
		t.Errorf("json with other scale hit=%v err=%v, want hit", hit, err)
	}
}
