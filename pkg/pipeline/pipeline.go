// Package pipeline runs the cellspan layout pipeline.
//
// The pipeline turns a design document into rendered artifacts and is shared
// by the CLI and the HTTP server, so both entry points lay out and cache
// designs the same way.
//
// # Architecture
//
// A run consists of two stages:
//
//  1. Arrange: prepare the layout graph from the design, run the cell span
//     stage around the layout engine, and move every leaf into the span
//     group that contains it
//  2. Render: produce output in the requested formats (SVG, DOT, JSON,
//     text preview)
//
// Both stages are cached. The layout key is derived from the content of the
// design and the engine options; artifact keys are derived from the
// serialized arrangement and the render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Layout(ctx, doc, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/cellspan/pkg/cache"
	"github.com/matzehuels/cellspan/pkg/layout/hierarchic"
)

// ErrInvalidOptions is returned when pipeline options fail validation.
var ErrInvalidOptions = errors.New("invalid pipeline options")

// =============================================================================
// Default Values
// =============================================================================

// EngineHierarchic is the layered engine in package hierarchic.
const EngineHierarchic = "hierarchic"

// DefaultEngine is the layout engine used when none is set.
const DefaultEngine = EngineHierarchic

// Format constants for output formats.
const (
	FormatSVG     = "svg"
	FormatDOT     = "dot"
	FormatJSON    = "json"
	FormatPreview = "preview"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:     true,
	FormatDOT:     true,
	FormatJSON:    true,
	FormatPreview: true,
}

// ValidEngines is the set of supported layout engines.
var ValidEngines = map[string]bool{
	EngineHierarchic: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. Zero values take the defaults of the
// selected engine. Options can be decoded from API requests.
type Options struct {
	// Layout options
	Engine         string  `json:"engine,omitempty"`
	NodeSpacing    float64 `json:"node_spacing,omitempty"`
	LayerSpacing   float64 `json:"layer_spacing,omitempty"`
	Padding        float64 `json:"padding,omitempty"`
	MinTrackSize   float64 `json:"min_track_size,omitempty"`
	KeepTrackSizes bool    `json:"keep_track_sizes,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"`
	ShowEdges bool     `json:"show_edges,omitempty"`

	// Refresh skips cache lookups. Results are still written to the cache.
	Refresh bool `json:"refresh,omitempty"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	*Arrangement

	// DesignHash is the content hash of the design's layout input.
	DesignHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	SpanCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool `json:"layout_hit"` // Whether the arrangement came from cache
	RenderHit bool `json:"render_hit"` // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("%w: format %q (must be one of: svg, dot, json, preview)", ErrInvalidOptions, format)
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

// ValidateEngine checks that an engine name is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return fmt.Errorf("%w: engine %q (must be one of: hierarchic)", ErrInvalidOptions, engine)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults for the full
// pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills unset engine options.
func (o *Options) SetLayoutDefaults() {
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.NodeSpacing == 0 {
		o.NodeSpacing = hierarchic.DefaultNodeSpacing
	}
	if o.LayerSpacing == 0 {
		o.LayerSpacing = hierarchic.DefaultLayerSpacing
	}
	if o.Padding == 0 {
		o.Padding = hierarchic.DefaultPadding
	}
	if o.MinTrackSize == 0 {
		o.MinTrackSize = hierarchic.DefaultMinTrackSize
	}
}

// ValidateForLayout sets layout defaults and validates the engine options.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if o.NodeSpacing < 0 || o.LayerSpacing < 0 || o.Padding < 0 || o.MinTrackSize < 0 {
		return fmt.Errorf("%w: spacing must not be negative", ErrInvalidOptions)
	}
	return nil
}

// SetRenderDefaults fills unset render options.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
}

// ValidateForRender sets render defaults and validates the formats.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for the arrange stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Engine:         o.Engine,
		NodeSpacing:    o.NodeSpacing,
		LayerSpacing:   o.LayerSpacing,
		Padding:        o.Padding,
		MinTrackSize:   o.MinTrackSize,
		KeepTrackSizes: o.KeepTrackSizes,
	}
}

// ArtifactKeyOpts returns cache key options for rendering format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
		Edges:    o.ShowEdges,
	}
}
