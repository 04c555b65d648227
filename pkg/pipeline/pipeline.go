// Package pipeline provides the core conversion pipeline for flowxmi.
//
// This package implements the complete build → layout → repair → serialize
// pipeline that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Build: Turn the parsed flow document into a typed activity graph
//  2. Layout: Compute node dimensions and canvas positions
//  3. Repair: Restore structural invariants (branches, terminals, reachability)
//  4. Serialize: Emit the Enterprise Architect XMI document
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    DiagramName: "Order processing",
//	}
//	result, err := runner.Execute(ctx, doc, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	xmiData := result.Document
//	warnings := result.Diagnostics
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pzaremba/flowxmi/pkg/cache"
	"github.com/pzaremba/flowxmi/pkg/errors"
	"github.com/pzaremba/flowxmi/pkg/flow"
	"github.com/pzaremba/flowxmi/pkg/layout"
	"github.com/pzaremba/flowxmi/pkg/repair"
	"github.com/pzaremba/flowxmi/pkg/xmi"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultDiagramName is used when the input document carries no title.
	DefaultDiagramName = "Activity Diagram"

	// DefaultAuthor is recorded in the diagram's project block.
	DefaultAuthor = "flowxmi"

	// DefaultVersion is the diagram version recorded in the output.
	DefaultVersion = "1.0"
)

// Branch-suggestion strategy names for the repair stage.
const (
	StrategyKeyword = "keyword"
	StrategyNone    = "none"
)

// ValidStrategies is the set of supported branch-suggestion strategies.
var ValidStrategies = map[string]bool{
	StrategyKeyword: true,
	StrategyNone:    true,
}

// ValidateStrategy checks that a strategy name is valid.
func ValidateStrategy(strategy string) error {
	if !ValidStrategies[strategy] {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid strategy: %q (must be one of: keyword, none)", strategy)
	}
	return nil
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the conversion pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Document options
	DiagramName string `json:"diagram_name,omitempty"`
	Author      string `json:"author,omitempty"`
	Version     string `json:"version,omitempty"`

	// Layout options
	Layout layout.Config `json:"layout,omitempty"`

	// Repair options
	Strategy string `json:"strategy,omitempty"`

	// Refresh bypasses the cache and overwrites the stored result.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger    *log.Logger      `json:"-"`
	Suggester repair.Suggester `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the repaired activity graph with final geometry.
	Graph *flow.Graph

	// Plan is the grid the layout engine placed the nodes on.
	Plan *layout.Plan

	// Document is the serialized XMI output.
	Document []byte

	// DocHash is the content hash of the input document.
	DocHash string

	// Diagnostics are the structural warnings collected across all stages.
	Diagnostics []flow.Warning

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the result came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount     int
	EdgeCount     int
	WarningCount  int
	BuildTime     time.Duration
	LayoutTime    time.Duration
	RepairTime    time.Duration
	SerializeTime time.Duration
}

// CacheInfo tracks cache hits for the pipeline.
type CacheInfo struct {
	ConversionHit bool // Whether the serialized document came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.DiagramName == "" {
		o.DiagramName = DefaultDiagramName
	}
	if o.Author == "" {
		o.Author = DefaultAuthor
	}
	if o.Version == "" {
		o.Version = DefaultVersion
	}
	if o.Strategy == "" {
		o.Strategy = StrategyKeyword
	}
	if err := ValidateStrategy(o.Strategy); err != nil {
		return err
	}
	if o.Layout == (layout.Config{}) {
		o.Layout = layout.DefaultConfig()
	}
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// suggester returns the branch-target heuristic for the repair stage.
// An explicit Suggester wins over the named strategy.
func (o *Options) suggester() repair.Suggester {
	if o.Suggester != nil {
		return o.Suggester
	}
	if o.Strategy == StrategyNone {
		return repair.NullSuggester{}
	}
	return repair.KeywordSuggester{}
}

// serializerOptions maps pipeline options onto the serializer.
func (o *Options) serializerOptions() xmi.Options {
	return xmi.Options{
		DiagramName:  o.DiagramName,
		Author:       o.Author,
		Version:      o.Version,
		CanvasWidth:  o.Layout.CanvasWidth,
		CanvasHeight: o.Layout.CanvasHeight,
	}
}

// ConversionKeyOpts returns cache key options for the conversion. Everything
// that shapes the output besides the input document goes into the hash.
func (o *Options) ConversionKeyOpts() cache.ConversionKeyOpts {
	shape, _ := json.Marshal(struct {
		Layout   layout.Config `json:"layout"`
		Strategy string        `json:"strategy"`
		Author   string        `json:"author"`
		Version  string        `json:"version"`
	}{o.Layout, o.Strategy, o.Author, o.Version})
	return cache.ConversionKeyOpts{
		DiagramName: o.DiagramName,
		LayoutHash:  cache.Hash(shape),
	}
}
