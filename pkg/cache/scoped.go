package cache

// ScopedKeyer prefixes every key of an inner [Keyer]. The HTTP server uses
// it to keep its entries apart from those of CLI runs sharing a Redis.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner; a nil inner means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// TraceKey implements [Keyer].
func (k *ScopedKeyer) TraceKey(problemHash string, opts TraceKeyOpts) string {
	return k.prefix + k.inner.TraceKey(problemHash, opts)
}

// ArtifactKey implements [Keyer].
func (k *ScopedKeyer) ArtifactKey(traceHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(traceHash, opts)
}
