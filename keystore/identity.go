package keystore

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/czh0526/idkeystore/identity"
	"github.com/davecgh/go-spew/spew"
)

func (s *BasicKeyStore) HaveIdentity(id identity.ID) bool {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	_, ok := s.identities[id]
	return ok
}

// AddIdentity starts the history of a newly registered identity. It fails if
// the identity is already known.
func (s *BasicKeyStore) AddIdentity(ident identity.Identity, txID chainhash.Hash,
	height uint32) bool {

	id := s.resolver.IdentityID(&ident)

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.identities[id]; ok {
		return false
	}
	h := identity.NewWithHistory(ident, txID, height)
	s.identities[id] = &h

	log.Debugf("Added identity %v (%s) at height %d", id, ident.Name, height)
	return true
}

// UpdateIdentity records a new confirmed version of a known identity. It
// fails if the identity is unknown or the version is older than the
// retained history.
func (s *BasicKeyStore) UpdateIdentity(ident identity.Identity, txID chainhash.Hash,
	height uint32) bool {

	id := s.resolver.IdentityID(&ident)

	s.mtx.Lock()
	defer s.mtx.Unlock()

	h, ok := s.identities[id]
	if !ok {
		return false
	}
	if !h.Update(ident, txID, height) {
		log.Debugf("Rejected identity %v update at height %d, history "+
			"starts at %v", id, height, h.Heights())
		return false
	}
	return true
}

// RemoveIdentity forgets an identity. Removing an unknown identity succeeds.
func (s *BasicKeyStore) RemoveIdentity(id identity.ID) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.identities, id)
	return true
}

func (s *BasicKeyStore) GetIdentityAndHistory(id identity.ID) (identity.WithHistory, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	h, ok := s.identities[id]
	if !ok {
		return identity.WithHistory{}, false
	}
	return h.Clone(), true
}

// GetIdentity returns the latest version of an identity.
func (s *BasicKeyStore) GetIdentity(id identity.ID) (identity.Identity, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	h, ok := s.identities[id]
	if !ok {
		return identity.Identity{}, false
	}
	latest, ok := h.Latest()
	return latest.Identity, ok
}

// GetIdentityByName returns the latest version of the identity called name
// under parent.
func (s *BasicKeyStore) GetIdentityByName(name string, parent identity.ID) (identity.Identity, bool) {
	return s.GetIdentity(s.resolver.NameID(name, parent))
}

// AddUpdateIdentityAndHistory replaces the history of an identity with h.
// The history is filed under the ID of its earliest version. It fails if h
// is invalid or empty.
func (s *BasicKeyStore) AddUpdateIdentityAndHistory(h identity.WithHistory) bool {
	earliest, ok := h.Earliest()
	if !h.IsValid() || !ok {
		return false
	}
	id := s.resolver.IdentityID(&earliest.Identity)
	c := h.Clone()

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.identities[id] = &c
	log.Tracef("Replaced identity %v history: %v", id, newLogClosure(func() string {
		return spew.Sdump(c.Heights())
	}))
	return true
}
