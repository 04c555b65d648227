package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pzaremba/flowxmi/pkg/cache"
	"github.com/pzaremba/flowxmi/pkg/flow"
	"github.com/pzaremba/flowxmi/pkg/layout"
	"github.com/pzaremba/flowxmi/pkg/observability"
	"github.com/pzaremba/flowxmi/pkg/repair"
	"github.com/pzaremba/flowxmi/pkg/xmi"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
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

// cachedConversion is the cache entry for a finished conversion: the
// document plus the diagnostics that belong to it, so cache hits do not
// silently lose warnings.
type cachedConversion struct {
	Document    []byte         `json:"document"`
	Diagnostics []flow.Warning `json:"diagnostics,omitempty"`
}

// Execute runs the complete build → layout → repair → serialize pipeline
// with caching. The returned Result always carries the diagnostics of the
// conversion, whether it was computed or served from cache; cache hits do
// not include the intermediate graph and plan.
func (r *Runner) Execute(ctx context.Context, doc *flow.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	docData, err := flow.MarshalDocument(doc)
	if err != nil {
		return nil, err
	}
	docHash := cache.Hash(docData)
	cacheKey := r.Keyer.ConversionKey(docHash, opts.ConversionKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached cachedConversion
			if err := json.Unmarshal(data, &cached); err == nil {
				opts.Logger.Debug("conversion served from cache", "key", cacheKey)
				observability.Cache().OnCacheHit(ctx, "conversion")
				return &Result{
					Document:    cached.Document,
					DocHash:     docHash,
					Diagnostics: cached.Diagnostics,
					Stats:       Stats{WarningCount: len(cached.Diagnostics)},
					CacheInfo:   CacheInfo{ConversionHit: true},
				}, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "conversion")
	}

	result, err := r.convert(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.DocHash = docHash

	if data, err := json.Marshal(cachedConversion{
		Document:    result.Document,
		Diagnostics: result.Diagnostics,
	}); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLConversion) == nil {
			observability.Cache().OnCacheSet(ctx, "conversion", len(data))
		}
	}

	return result, nil
}

// convert runs the four stages without touching the cache.
func (r *Runner) convert(ctx context.Context, doc *flow.Document, opts Options) (*Result, error) {
	result := &Result{}
	var rep flow.Report

	// Stage 1: Build
	buildStart := time.Now()
	observability.Pipeline().OnStageStart(ctx, observability.StageBuild, len(doc.Flows))
	g, err := flow.Build(doc, &rep)
	observability.Pipeline().OnStageComplete(ctx, observability.StageBuild, time.Since(buildStart), err)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Graph = g
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	opts.Logger.Info("built activity graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"swimlanes", len(g.Swimlanes()),
		"duration", result.Stats.BuildTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnStageStart(ctx, observability.StageLayout, g.NodeCount())
	engine, err := layout.New(opts.Layout)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	plan, err := engine.Layout(g, &rep)
	observability.Pipeline().OnStageComplete(ctx, observability.StageLayout, time.Since(layoutStart), err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Plan = plan
	result.Stats.LayoutTime = time.Since(layoutStart)

	opts.Logger.Info("computed layout",
		"columns", plan.Columns,
		"rows", plan.Rows,
		"duration", result.Stats.LayoutTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Repair
	repairStart := time.Now()
	observability.Pipeline().OnStageStart(ctx, observability.StageRepair, g.NodeCount())
	err = repair.New(opts.suggester()).Repair(g, &rep)
	observability.Pipeline().OnStageComplete(ctx, observability.StageRepair, time.Since(repairStart), err)
	if err != nil {
		return nil, fmt.Errorf("repair: %w", err)
	}
	result.Stats.RepairTime = time.Since(repairStart)

	opts.Logger.Info("repaired structure",
		"warnings", rep.Count(),
		"duration", result.Stats.RepairTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 4: Serialize
	serializeStart := time.Now()
	observability.Pipeline().OnStageStart(ctx, observability.StageSerialize, g.NodeCount())
	data, err := xmi.NewSerializer(opts.serializerOptions()).Serialize(g, &rep)
	observability.Pipeline().OnStageComplete(ctx, observability.StageSerialize, time.Since(serializeStart), err)
	if err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}
	result.Document = data
	result.Stats.SerializeTime = time.Since(serializeStart)

	result.Diagnostics = rep.Warnings()
	result.Stats.WarningCount = rep.Count()
	observability.Pipeline().OnConversionComplete(ctx, len(data), rep.Count())

	opts.Logger.Info("serialized document",
		"bytes", len(data),
		"warnings", rep.Count(),
		"duration", result.Stats.SerializeTime)

	return result, nil
}

// Convert runs the pipeline without consulting the cache. It is the
// uncached counterpart of Execute for callers that manage caching
// themselves.
func (r *Runner) Convert(ctx context.Context, doc *flow.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return r.convert(ctx, doc, opts)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
