package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis database without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "xyplot:staging:")
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

// GridKey generates a prefixed key for composed pages.
func (k *ScopedKeyer) GridKey(contentHash string, opts GridKeyOpts) string {
	return k.prefix + k.inner.GridKey(contentHash, opts)
}
