package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation. The
// server uses it to keep per-tenant conversions apart while sharing one
// Redis instance.
//
// Example usage:
//
//	// Tenant-specific keys
//	tenantKeyer := NewScopedKeyer(NewDefaultKeyer(), "tenant:abc123:")
//
//	// Shared keys for anonymous conversions
//	sharedKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ConversionKey generates a prefixed key for a serialized document.
func (k *ScopedKeyer) ConversionKey(docHash string, opts ConversionKeyOpts) string {
	return k.prefix + k.inner.ConversionKey(docHash, opts)
}

// RenderKey generates a prefixed key for a rendered preview.
func (k *ScopedKeyer) RenderKey(docHash, format string) string {
	return k.prefix + k.inner.RenderKey(docHash, format)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
