package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cellspan/pkg/cache"
	"github.com/matzehuels/cellspan/pkg/design"
	"github.com/matzehuels/cellspan/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so that caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
	}
}

// Layout runs the complete arrange → render pipeline with caching.
func (r *Runner) Layout(ctx context.Context, doc *design.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hash, err := DesignHash(doc)
	if err != nil {
		return nil, err
	}
	result := &Result{DesignHash: hash}

	// Stage 1: Arrange
	layoutStart := time.Now()
	a, layoutData, hit, err := r.arrange(ctx, doc, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Arrangement = a
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = a.Graph.NodeCount()
	result.Stats.EdgeCount = len(a.Graph.Edges())
	result.Stats.SpanCount = len(a.Spans)
	result.CacheInfo.LayoutHit = hit

	r.Logger.Info("computed layout",
		"design", doc.ID,
		"nodes", result.Stats.NodeCount,
		"spans", result.Stats.SpanCount,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.render(ctx, a, cache.Hash(layoutData), doc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ArrangeWithCacheInfo lays out doc with caching and reports whether the
// arrangement came from the cache.
func (r *Runner) ArrangeWithCacheInfo(ctx context.Context, doc *design.Document, opts Options) (*Arrangement, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	hash, err := DesignHash(doc)
	if err != nil {
		return nil, false, err
	}
	a, _, hit, err := r.arrange(ctx, doc, hash, opts)
	return a, hit, err
}

// Arrange is a convenience wrapper that calls ArrangeWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Arrange(ctx context.Context, doc *design.Document, opts Options) (*Arrangement, error) {
	a, _, err := r.ArrangeWithCacheInfo(ctx, doc, opts)
	return a, err
}

func (r *Runner) arrange(ctx context.Context, doc *design.Document, hash string, opts Options) (*Arrangement, []byte, bool, error) {
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err != nil {
			r.Logger.Warn("layout cache lookup failed", "err", err)
		} else if hit {
			if a, err := UnmarshalArrangement(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return a, data, true, nil
			}
			r.Logger.Debug("discarding unreadable cached layout", "key", key)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	a, err := r.compute(ctx, doc, opts)
	if err != nil {
		return nil, nil, false, err
	}
	data, err := MarshalArrangement(a)
	if err != nil {
		return nil, nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
		r.Logger.Warn("layout cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}
	return a, data, false, nil
}

func (r *Runner) compute(ctx context.Context, doc *design.Document, opts Options) (*Arrangement, error) {
	hooks := observability.Pipeline()
	spans := len(doc.Spans())
	hooks.OnPrepare(ctx, doc.ID, len(doc.Nodes), spans)
	r.Logger.Debug("prepared design", "design", doc.ID, "nodes", len(doc.Nodes), "spans", spans)

	hooks.OnLayoutStart(ctx, opts.Engine, len(doc.Nodes))
	start := time.Now()
	a, err := Arrange(ctx, doc, opts)
	hooks.OnLayoutComplete(ctx, opts.Engine, time.Since(start), err)
	return a, err
}

// RenderWithCacheInfo renders a with caching and reports whether every
// artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, a *Arrangement, doc *design.Document, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	data, err := MarshalArrangement(a)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	return r.render(ctx, a, cache.Hash(data), doc, opts)
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, a *Arrangement, doc *design.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, a, doc, opts)
	return artifacts, err
}

func (r *Runner) render(ctx context.Context, a *Arrangement, layoutHash string, doc *design.Document, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, a, doc, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("artifact cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
