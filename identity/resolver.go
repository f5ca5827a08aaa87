package identity

import (
	"github.com/lightninglabs/neutrino/cache/lru"
)

const (
	// DefaultResolverCacheSize is the default number of name to ID
	// mappings kept by a Resolver.
	DefaultResolverCacheSize = 4096
)

type nameKey struct {
	name   string
	parent ID
}

type cachedID struct {
	id ID
}

// Size returns the "size" of an entry. We return 1 as we just want to limit
// the total number of entries rather than their memory footprint.
func (c *cachedID) Size() (uint64, error) {
	return 1, nil
}

// Resolver computes identity IDs, remembering recent results. It is safe for
// concurrent use.
type Resolver struct {
	cache *lru.Cache[nameKey, *cachedID]
}

// NewResolver returns a Resolver caching up to size IDs. A size of zero
// disables caching.
func NewResolver(size uint64) *Resolver {
	r := &Resolver{}
	if size > 0 {
		r.cache = lru.NewCache[nameKey, *cachedID](size)
	}
	return r
}

// NameID returns the ID of name under parent.
func (r *Resolver) NameID(name string, parent ID) ID {
	if r == nil || r.cache == nil {
		return NameID(name, parent)
	}

	k := nameKey{name: name, parent: parent}
	if cached, err := r.cache.Get(k); err == nil {
		return cached.id
	}

	id := NameID(name, parent)
	_, _ = r.cache.Put(k, &cachedID{id: id})
	return id
}

// IdentityID returns the canonical ID of identity.
func (r *Resolver) IdentityID(identity *Identity) ID {
	return r.NameID(identity.Name, identity.Parent)
}

// Len returns the number of cached IDs.
func (r *Resolver) Len() int {
	if r == nil || r.cache == nil {
		return 0
	}
	return r.cache.Len()
}
