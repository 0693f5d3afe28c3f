package cache

// ScopedKeyer wraps a Keyer with a prefix, giving each project its own
// namespace in a shared cache directory.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "project:shot010:")
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

// SnapshotKey generates a prefixed snapshot key.
func (k *ScopedKeyer) SnapshotKey(sceneHash string, opts SnapshotKeyOpts) string {
	return k.prefix + k.inner.SnapshotKey(sceneHash, opts)
}
