// Package pipeline turns layout text into loaded floors and rendered
// artifacts.
//
// The CLI and the HTTP server share this package so that loading, rendering
// and caching behave the same everywhere.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, layoutText, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
//
// Run the stages separately when a floor is already loaded:
//
//	f, err := runner.Load(ctx, layoutText)
//	artifacts, err := runner.Render(ctx, f.Snapshot(), opts)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hapticfloor/pkg/cache"
	"github.com/matzehuels/hapticfloor/pkg/config"
	"github.com/matzehuels/hapticfloor/pkg/render/mesh"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultPNGZoom renders PNGs at twice the SVG size.
	DefaultPNGZoom = 2.0

	// DefaultTTL is how long rendered artifacts stay cached.
	DefaultTTL = 24 * time.Hour
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures rendering. Zero fields take defaults.
type Options struct {
	Formats     []string `json:"formats,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	ActiveSize  float64  `json:"active_size,omitempty"`
	PassiveSize float64  `json:"passive_size,omitempty"`
	Engine      string   `json:"engine,omitempty"`
	HideLabels  bool     `json:"hide_labels,omitempty"`
	PNGZoom     float64  `json:"png_zoom,omitempty"`

	// Refresh bypasses cached artifacts and overwrites them.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// OptionsFromConfig seeds render options from the [render] config section.
func OptionsFromConfig(cfg config.RenderConfig) Options {
	return Options{
		Formats:     slices.Clone(cfg.Formats),
		Scale:       cfg.Scale,
		ActiveSize:  cfg.ActiveSize,
		PassiveSize: cfg.PassiveSize,
		Engine:      cfg.Engine,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Revision identifies the loaded layout.
	Revision string

	// LayoutHash is the content hash used for cache keys.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ActiveCount  int
	PassiveCount int
	EdgeCount    int
	LoadTime     time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // every artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SetRenderDefaults fills in zero fields.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.PNGZoom <= 0 {
		o.PNGZoom = DefaultPNGZoom
	}
	m := o.MeshOptions().WithDefaults()
	o.Scale, o.ActiveSize, o.PassiveSize, o.Engine = m.Scale, m.ActiveSize, m.PassiveSize, m.Engine
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets defaults and validates.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return o.MeshOptions().Validate()
}

// MeshOptions returns the diagram options.
func (o *Options) MeshOptions() mesh.Options {
	return mesh.Options{
		Scale:       o.Scale,
		ActiveSize:  o.ActiveSize,
		PassiveSize: o.PassiveSize,
		Engine:      o.Engine,
		HideLabels:  o.HideLabels,
	}
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:      format,
		Engine:      o.Engine,
		Scale:       o.Scale,
		ActiveSize:  o.ActiveSize,
		PassiveSize: o.PassiveSize,
	}
	if o.HideLabels {
		k.Format += "+nolabels"
	}
	if format == FormatPNG {
		k.Format += fmt.Sprintf("@%.2f", o.PNGZoom)
	}
	return k
}
