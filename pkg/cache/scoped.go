package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Useful when several caption roots share one redis instance and their
// listings must not collide.
//
// Example usage:
//
//	rootKeyer := NewScopedKeyer(NewDefaultKeyer(), "root:dataset-a:")
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

// ListingKey generates a prefixed key for a caption directory listing.
func (k *ScopedKeyer) ListingKey(dir string, opts ListingKeyOpts) string {
	return k.prefix + k.inner.ListingKey(dir, opts)
}

// ResultKey generates a prefixed key for a seeded simulation result.
func (k *ScopedKeyer) ResultKey(opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(opts)
}
