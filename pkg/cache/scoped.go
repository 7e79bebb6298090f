package cache

// ScopedKeyer wraps a Keyer with a prefix so several projects can share one
// backend, typically a Redis instance.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "repomap:acme/web:")
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

// TreeKey generates a prefixed key for tree caching.
func (k *ScopedKeyer) TreeKey(payloadHash string) string {
	return k.prefix + k.inner.TreeKey(payloadHash)
}

// GraphKey generates a prefixed key for graph caching.
func (k *ScopedKeyer) GraphKey(payloadHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(payloadHash, opts)
}
