package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving callers separate
// namespaces in a shared backend.
//
//	apiKeyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) GridKey(imageHash string, opts GridKeyOpts) string {
	return k.prefix + k.inner.GridKey(imageHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(imageHash, rulesHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(imageHash, rulesHash, opts)
}
