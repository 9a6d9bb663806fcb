package hl7v2

import (
	"github.com/gohl7/hl7v2/cache"
)

// CachedTerser is a Terser that memoizes parsed-locator-to-resolved-
// coordinates per path string, scoped to one Message snapshot. Caching is
// purely an optimization: for any path p held against the same unmutated
// Message, CachedTerser.Get(p) equals Terser.Get(p).
//
// The cache is invalidated only by discarding the CachedTerser. It must not
// be reused across a different Message instance, and a single instance is
// not safe for unsynchronized concurrent use; give each goroutine its own.
type CachedTerser struct {
	t      *Terser
	lookup *cache.Cache[string, cachedEntry]
}

// cachedEntry records the outcome of one path resolution. Coordinates are
// only meaningful when found is true.
type cachedEntry struct {
	c     coords
	found bool
}

// NewCachedTerser creates a CachedTerser over msg with the default cache
// capacity.
func NewCachedTerser(msg *Message) *CachedTerser {
	return &CachedTerser{
		t:      NewTerser(msg),
		lookup: cache.New[string, cachedEntry](cache.DefaultCapacity),
	}
}

// WithCapacity resizes the path cache and returns the CachedTerser. Any
// previously memoized lookups are dropped.
func (ct *CachedTerser) WithCapacity(n int) *CachedTerser {
	ct.lookup = cache.New[string, cachedEntry](n)
	return ct
}

// WithMetrics attaches a Metrics recorder and returns the CachedTerser.
func (ct *CachedTerser) WithMetrics(m *Metrics) *CachedTerser {
	ct.t.metrics = m
	return ct
}

// Message returns the underlying message.
func (ct *CachedTerser) Message() *Message {
	return ct.t.msg
}

// Get has the same contract as Terser.Get. The first lookup of a path
// string parses and resolves it; subsequent identical lookups reuse the
// resolved coordinates.
func (ct *CachedTerser) Get(path string) (string, bool, error) {
	if e, ok := ct.lookup.Get(path); ok {
		ct.t.metrics.recordCacheHit(true)
		if !e.found {
			ct.t.metrics.recordLookup(false, nil)
			return "", false, nil
		}
		v, ok := readCoords(ct.t.msg, e.c)
		ct.t.metrics.recordLookup(ok, nil)
		return v, ok, nil
	}
	ct.t.metrics.recordCacheHit(false)

	p, err := ParsePath(path)
	if err != nil {
		ct.t.metrics.recordLookup(false, err)
		return "", false, err
	}
	if p.AllOccurrences {
		err := pathSyntaxErrorf(path, 0, "wildcard occurrence requires GetPattern")
		ct.t.metrics.recordLookup(false, err)
		return "", false, err
	}

	c, found := resolveCoords(ct.t.msg, p)
	ct.lookup.Set(path, cachedEntry{c: c, found: found})
	if !found {
		ct.t.metrics.recordLookup(false, nil)
		return "", false, nil
	}
	v, ok := readCoords(ct.t.msg, c)
	ct.t.metrics.recordLookup(ok, nil)
	return v, ok, nil
}

// Stats returns path-cache statistics.
func (ct *CachedTerser) Stats() cache.Stats {
	return ct.lookup.Stats()
}
