package keystore

import (
	"bytes"
	"slices"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/czh0526/idkeystore/internal/zero"
	"github.com/czh0526/idkeystore/key"
)

// copyPrivKey returns an independent copy of priv.
func copyPrivKey(priv *btcec.PrivateKey) *btcec.PrivateKey {
	raw := priv.Serialize()
	defer zero.Bytes(raw)

	c, _ := btcec.PrivKeyFromBytes(raw)
	return c
}

// AddKey stores priv under the ID of its public key.
func (s *BasicKeyStore) AddKey(priv *btcec.PrivateKey) bool {
	return s.AddKeyPubKey(priv, priv.PubKey())
}

// AddKeyPubKey stores priv under the ID of pub.
func (s *BasicKeyStore) AddKeyPubKey(priv *btcec.PrivateKey, pub *btcec.PublicKey) bool {
	id := key.NewKeyID(pub)

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.keys[id] = copyPrivKey(priv)
	return true
}

func (s *BasicKeyStore) HaveKey(id key.KeyID) bool {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	_, ok := s.keys[id]
	return ok
}

func (s *BasicKeyStore) GetKey(id key.KeyID) (*btcec.PrivateKey, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	priv, ok := s.keys[id]
	if !ok {
		return nil, false
	}
	return copyPrivKey(priv), true
}

func (s *BasicKeyStore) GetPubKey(id key.KeyID) (*btcec.PublicKey, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	priv, ok := s.keys[id]
	if !ok {
		return nil, false
	}
	return priv.PubKey(), true
}

// GetKeys returns the IDs of all stored keys in ascending order.
func (s *BasicKeyStore) GetKeys() []key.KeyID {
	s.mtx.RLock()
	ids := make([]key.KeyID, 0, len(s.keys))
	for id := range s.keys {
		ids = append(ids, id)
	}
	s.mtx.RUnlock()

	slices.SortFunc(ids, func(a, b key.KeyID) int {
		return bytes.Compare(a[:], b[:])
	})
	return ids
}

// ScriptOrIdentityID returns the ID a script is filed under. A script that
// defines a valid identity is filed under the identity's ID, any other
// script under its own hash.
func (s *BasicKeyStore) ScriptOrIdentityID(script []byte) key.ScriptID {
	if s.decoder != nil {
		id, err := s.decoder.IdentityPrimary(script)
		if err == nil && id != nil && id.IsValid() {
			return key.ScriptID(s.resolver.IdentityID(id))
		}
	}
	return key.NewScriptID(script)
}

// AddCScript stores a redeem script. Scripts larger than
// txscript.MaxScriptElementSize are rejected.
func (s *BasicKeyStore) AddCScript(script []byte) bool {
	if len(script) > txscript.MaxScriptElementSize {
		log.Errorf("Redeem script of %d bytes exceeds the %d byte limit",
			len(script), txscript.MaxScriptElementSize)
		return false
	}

	id := s.ScriptOrIdentityID(script)

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.scripts[id] = bytes.Clone(script)
	log.Tracef("Added script %v", id)
	return true
}

func (s *BasicKeyStore) HaveCScript(id key.ScriptID) bool {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	_, ok := s.scripts[id]
	return ok
}

func (s *BasicKeyStore) GetCScript(id key.ScriptID) ([]byte, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	script, ok := s.scripts[id]
	if !ok {
		return nil, false
	}
	return bytes.Clone(script), true
}

// GetScriptIDs returns the IDs of all stored scripts in ascending order.
func (s *BasicKeyStore) GetScriptIDs() []key.ScriptID {
	s.mtx.RLock()
	ids := make([]key.ScriptID, 0, len(s.scripts))
	for id := range s.scripts {
		ids = append(ids, id)
	}
	s.mtx.RUnlock()

	slices.SortFunc(ids, func(a, b key.ScriptID) int {
		return bytes.Compare(a[:], b[:])
	})
	return ids
}

func (s *BasicKeyStore) AddWatchOnly(script []byte) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.watchOnly[string(script)] = struct{}{}
	return true
}

func (s *BasicKeyStore) RemoveWatchOnly(script []byte) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.watchOnly, string(script))
	return true
}

func (s *BasicKeyStore) HaveWatchOnly(script []byte) bool {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	_, ok := s.watchOnly[string(script)]
	return ok
}

// HaveAnyWatchOnly reports whether any script is watched.
func (s *BasicKeyStore) HaveAnyWatchOnly() bool {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return len(s.watchOnly) > 0
}
