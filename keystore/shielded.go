package keystore

import (
	"bytes"
	"slices"

	"github.com/czh0526/idkeystore/seed"
	"github.com/czh0526/idkeystore/shielded"
)

// SetHDSeed stores the HD seed. The seed can be set once; later calls and
// null seeds are rejected.
func (s *BasicKeyStore) SetHDSeed(hdSeed seed.HDSeed) bool {
	if hdSeed.IsNull() {
		return false
	}

	s.shieldedMtx.Lock()
	defer s.shieldedMtx.Unlock()

	if !s.hdSeed.IsNull() {
		log.Warnf("Refusing to replace HD seed %v", s.hdSeed.Fingerprint())
		return false
	}
	s.hdSeed = hdSeed
	log.Infof("HD seed %v set", hdSeed.Fingerprint())
	return true
}

func (s *BasicKeyStore) HaveHDSeed() bool {
	s.shieldedMtx.RLock()
	defer s.shieldedMtx.RUnlock()

	return !s.hdSeed.IsNull()
}

func (s *BasicKeyStore) GetHDSeed() (seed.HDSeed, bool) {
	s.shieldedMtx.RLock()
	defer s.shieldedMtx.RUnlock()

	if s.hdSeed.IsNull() {
		return seed.HDSeed{}, false
	}
	return s.hdSeed, true
}

// AddSproutSpendingKey stores sk under its payment address and registers a
// note decryptor for the address if it has none.
func (s *BasicKeyStore) AddSproutSpendingKey(sk shielded.SproutSpendingKey) bool {
	addr := sk.Address()
	rk := sk.ReceivingKey()

	s.shieldedMtx.Lock()
	defer s.shieldedMtx.Unlock()

	s.sproutSpendingKeys[addr] = sk
	s.addNoteDecryptor(addr, rk)
	return true
}

func (s *BasicKeyStore) HaveSproutSpendingKey(addr shielded.SproutPaymentAddress) bool {
	s.shieldedMtx.RLock()
	defer s.shieldedMtx.RUnlock()

	_, ok := s.sproutSpendingKeys[addr]
	return ok
}

func (s *BasicKeyStore) GetSproutSpendingKey(addr shielded.SproutPaymentAddress) (shielded.SproutSpendingKey, bool) {
	s.shieldedMtx.RLock()
	defer s.shieldedMtx.RUnlock()

	sk, ok := s.sproutSpendingKeys[addr]
	return sk, ok
}

// GetSproutPaymentAddresses returns the addresses of all Sprout spending
// keys.
func (s *BasicKeyStore) GetSproutPaymentAddresses() []shielded.SproutPaymentAddress {
	s.shieldedMtx.RLock()
	addrs := make([]shielded.SproutPaymentAddress, 0, len(s.sproutSpendingKeys))
	for addr := range s.sproutSpendingKeys {
		addrs = append(addrs, addr)
	}
	s.shieldedMtx.RUnlock()

	slices.SortFunc(addrs, func(a, b shielded.SproutPaymentAddress) int {
		return bytes.Compare(a.APk[:], b.APk[:])
	})
	return addrs
}

// AddSproutViewingKey stores vk under its payment address and registers a
// note decryptor for the address if it has none.
func (s *BasicKeyStore) AddSproutViewingKey(vk shielded.SproutViewingKey) bool {
	addr := vk.Address()

	s.shieldedMtx.Lock()
	defer s.shieldedMtx.Unlock()

	s.sproutViewingKeys[addr] = vk
	s.addNoteDecryptor(addr, vk.SkEnc)
	return true
}

// RemoveSproutViewingKey forgets vk. The note decryptor for its address is
// kept.
func (s *BasicKeyStore) RemoveSproutViewingKey(vk shielded.SproutViewingKey) bool {
	addr := vk.Address()

	s.shieldedMtx.Lock()
	defer s.shieldedMtx.Unlock()

	delete(s.sproutViewingKeys, addr)
	return true
}

func (s *BasicKeyStore) HaveSproutViewingKey(addr shielded.SproutPaymentAddress) bool {
	s.shieldedMtx.RLock()
	defer s.shieldedMtx.RUnlock()

	_, ok := s.sproutViewingKeys[addr]
	return ok
}

func (s *BasicKeyStore) GetSproutViewingKey(addr shielded.SproutPaymentAddress) (shielded.SproutViewingKey, bool) {
	s.shieldedMtx.RLock()
	defer s.shieldedMtx.RUnlock()

	vk, ok := s.sproutViewingKeys[addr]
	return vk, ok
}

// GetNoteDecryptor returns the decryptor registered for addr.
func (s *BasicKeyStore) GetNoteDecryptor(addr shielded.SproutPaymentAddress) (shielded.NoteDecryptor, bool) {
	s.shieldedMtx.RLock()
	defer s.shieldedMtx.RUnlock()

	d, ok := s.noteDecryptors[addr]
	return d, ok
}

// addNoteDecryptor must be called with shieldedMtx held for writes.
func (s *BasicKeyStore) addNoteDecryptor(addr shielded.SproutPaymentAddress,
	rk shielded.SproutReceivingKey) {

	if _, ok := s.noteDecryptors[addr]; ok {
		return
	}
	s.noteDecryptors[addr] = shielded.NewNoteDecryptor(rk)
}

// AddSaplingSpendingKey registers the viewing key chain of sk, ending at
// defaultAddr, and then stores sk under its full viewing key. Nothing is
// stored if defaultAddr does not belong to sk.
func (s *BasicKeyStore) AddSaplingSpendingKey(sk shielded.SaplingExtendedSpendingKey,
	defaultAddr shielded.SaplingPaymentAddress) bool {

	fvk := sk.Expsk.FullViewingKey()

	s.shieldedMtx.Lock()
	defer s.shieldedMtx.Unlock()

	if !s.addSaplingFullViewingKey(fvk, defaultAddr) {
		return false
	}
	s.saplingSpendingKeys[fvk] = sk
	return true
}

// AddSaplingFullViewingKey stores fvk under its incoming viewing key and
// maps defaultAddr to that key.
func (s *BasicKeyStore) AddSaplingFullViewingKey(fvk shielded.SaplingFullViewingKey,
	defaultAddr shielded.SaplingPaymentAddress) bool {

	s.shieldedMtx.Lock()
	defer s.shieldedMtx.Unlock()

	return s.addSaplingFullViewingKey(fvk, defaultAddr)
}

// AddSaplingIncomingViewingKey maps addr to ivk. It fails if addr is not an
// address of ivk. An address already mapped keeps its key, as every address
// has exactly one.
func (s *BasicKeyStore) AddSaplingIncomingViewingKey(ivk shielded.SaplingIncomingViewingKey,
	addr shielded.SaplingPaymentAddress) bool {

	s.shieldedMtx.Lock()
	defer s.shieldedMtx.Unlock()

	return s.addSaplingIncomingViewingKey(ivk, addr)
}

// addSaplingFullViewingKey must be called with shieldedMtx held for writes.
func (s *BasicKeyStore) addSaplingFullViewingKey(fvk shielded.SaplingFullViewingKey,
	defaultAddr shielded.SaplingPaymentAddress) bool {

	ivk := fvk.InViewingKey()
	if !ownsAddress(ivk, defaultAddr) {
		log.Debugf("Address %v does not belong to the given viewing key",
			defaultAddr)
		return false
	}

	s.saplingFullViewingKeys[ivk] = fvk
	return s.addSaplingIncomingViewingKey(ivk, defaultAddr)
}

// addSaplingIncomingViewingKey must be called with shieldedMtx held for
// writes.
func (s *BasicKeyStore) addSaplingIncomingViewingKey(ivk shielded.SaplingIncomingViewingKey,
	addr shielded.SaplingPaymentAddress) bool {

	if !ownsAddress(ivk, addr) {
		return false
	}
	s.saplingIncomingViewingKeys[addr] = ivk
	return true
}

// ownsAddress reports whether addr is the address of ivk for its
// diversifier.
func ownsAddress(ivk shielded.SaplingIncomingViewingKey, addr shielded.SaplingPaymentAddress) bool {
	derived, ok := ivk.Address(addr.D)
	return ok && derived == addr
}

func (s *BasicKeyStore) HaveSaplingSpendingKey(fvk shielded.SaplingFullViewingKey) bool {
	s.shieldedMtx.RLock()
	defer s.shieldedMtx.RUnlock()

	_, ok := s.saplingSpendingKeys[fvk]
	return ok
}

func (s *BasicKeyStore) GetSaplingSpendingKey(fvk shielded.SaplingFullViewingKey) (shielded.SaplingExtendedSpendingKey, bool) {
	s.shieldedMtx.RLock()
	defer s.shieldedMtx.RUnlock()

	sk, ok := s.saplingSpendingKeys[fvk]
	return sk, ok
}

func (s *BasicKeyStore) HaveSaplingFullViewingKey(ivk shielded.SaplingIncomingViewingKey) bool {
	s.shieldedMtx.RLock()
	defer s.shieldedMtx.RUnlock()

	_, ok := s.saplingFullViewingKeys[ivk]
	return ok
}

func (s *BasicKeyStore) GetSaplingFullViewingKey(ivk shielded.SaplingIncomingViewingKey) (shielded.SaplingFullViewingKey, bool) {
	s.shieldedMtx.RLock()
	defer s.shieldedMtx.RUnlock()

	fvk, ok := s.saplingFullViewingKeys[ivk]
	return fvk, ok
}

func (s *BasicKeyStore) HaveSaplingIncomingViewingKey(addr shielded.SaplingPaymentAddress) bool {
	s.shieldedMtx.RLock()
	defer s.shieldedMtx.RUnlock()

	_, ok := s.saplingIncomingViewingKeys[addr]
	return ok
}

func (s *BasicKeyStore) GetSaplingIncomingViewingKey(addr shielded.SaplingPaymentAddress) (shielded.SaplingIncomingViewingKey, bool) {
	s.shieldedMtx.RLock()
	defer s.shieldedMtx.RUnlock()

	ivk, ok := s.saplingIncomingViewingKeys[addr]
	return ivk, ok
}

// GetSaplingExtendedSpendingKey follows addr to its incoming viewing key,
// full viewing key and finally spending key.
func (s *BasicKeyStore) GetSaplingExtendedSpendingKey(addr shielded.SaplingPaymentAddress) (shielded.SaplingExtendedSpendingKey, bool) {
	s.shieldedMtx.RLock()
	defer s.shieldedMtx.RUnlock()

	ivk, ok := s.saplingIncomingViewingKeys[addr]
	if !ok {
		return shielded.SaplingExtendedSpendingKey{}, false
	}
	fvk, ok := s.saplingFullViewingKeys[ivk]
	if !ok {
		return shielded.SaplingExtendedSpendingKey{}, false
	}
	sk, ok := s.saplingSpendingKeys[fvk]
	return sk, ok
}

// GetSaplingPaymentAddresses returns every address with a known incoming
// viewing key.
func (s *BasicKeyStore) GetSaplingPaymentAddresses() []shielded.SaplingPaymentAddress {
	s.shieldedMtx.RLock()
	addrs := make([]shielded.SaplingPaymentAddress, 0, len(s.saplingIncomingViewingKeys))
	for addr := range s.saplingIncomingViewingKeys {
		addrs = append(addrs, addr)
	}
	s.shieldedMtx.RUnlock()

	slices.SortFunc(addrs, func(a, b shielded.SaplingPaymentAddress) int {
		return bytes.Compare(a.Bytes(), b.Bytes())
	})
	return addrs
}
