// Package cache provides pluggable result caching for conversions.
//
// The pipeline caches finished XMI documents and rendered previews keyed by
// a hash of the input document and the options that shaped the output. Three
// backends exist: FileCache for the CLI, RedisCache for the server, and
// NullCache to disable caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache time-to-live values per artifact class. Conversions are pure
// functions of their input, so the TTLs mostly bound disk usage.
const (
	// TTLConversion applies to serialized XMI documents.
	TTLConversion = 24 * time.Hour

	// TTLRender applies to rendered diagram previews.
	TTLRender = 6 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves the value for key. The second return value reports
	// whether the key was present; an expired entry counts as absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl stores without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ConversionKeyOpts captures everything besides the input document that
// shapes a serialized result. Two conversions with equal document hashes and
// equal opts produce byte-identical output.
type ConversionKeyOpts struct {
	DiagramName string
	LayoutHash  string // hash of the layout configuration
}

// Keyer derives cache keys for the pipeline's artifact classes.
type Keyer interface {
	// ConversionKey keys a serialized XMI document.
	ConversionKey(docHash string, opts ConversionKeyOpts) string

	// RenderKey keys a rendered preview in the given format.
	RenderKey(docHash, format string) string
}

// DefaultKeyer hashes all key components with SHA-256 under a per-class
// prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ConversionKey generates a key for a serialized document.
func (k *DefaultKeyer) ConversionKey(docHash string, opts ConversionKeyOpts) string {
	return hashKey("conversion", docHash, opts)
}

// RenderKey generates a key for a rendered preview.
func (k *DefaultKeyer) RenderKey(docHash, format string) string {
	return hashKey("render", docHash, format)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
