// Package keystore is the in-memory registry of a wallet's key material and
// identities.
//
// State is split into two lock domains. The general domain holds transparent
// keys, redeem scripts, watch-only scripts and identity histories. The
// shielded domain holds the HD seed and the Sprout and Sapling key maps.
// Every operation takes exactly one domain's lock and values are copied in
// and out, so callers never share mutable state with the registry.
package keystore

import (
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/czh0526/idkeystore/ccparams"
	"github.com/czh0526/idkeystore/identity"
	"github.com/czh0526/idkeystore/key"
	"github.com/czh0526/idkeystore/seed"
	"github.com/czh0526/idkeystore/shielded"
)

// ScriptConditionDecoder recognizes scripts that define an identity.
type ScriptConditionDecoder interface {
	// IdentityPrimary returns the valid identity defined by script or an
	// error if the script defines none.
	IdentityPrimary(script []byte) (*identity.Identity, error)
}

// Config configures a BasicKeyStore.
type Config struct {
	// Decoder resolves identity-controlled scripts. When nil, scripts
	// are always filed under their own hash.
	Decoder ScriptConditionDecoder

	// NameCacheSize is the number of name to identity ID mappings kept.
	// Zero disables the cache.
	NameCacheSize uint64
}

// DefaultConfig returns a Config using the crypto condition decoder.
func DefaultConfig() Config {
	return Config{
		Decoder:       ccparams.Decoder{},
		NameCacheSize: identity.DefaultResolverCacheSize,
	}
}

// KeyStore is the capability surface used by signing and script evaluation.
type KeyStore interface {
	AddKey(priv *btcec.PrivateKey) bool
	AddKeyPubKey(priv *btcec.PrivateKey, pub *btcec.PublicKey) bool
	HaveKey(id key.KeyID) bool
	GetKey(id key.KeyID) (*btcec.PrivateKey, bool)
	GetPubKey(id key.KeyID) (*btcec.PublicKey, bool)
	GetKeys() []key.KeyID

	AddCScript(script []byte) bool
	HaveCScript(id key.ScriptID) bool
	GetCScript(id key.ScriptID) ([]byte, bool)
	GetScriptIDs() []key.ScriptID

	AddWatchOnly(script []byte) bool
	RemoveWatchOnly(script []byte) bool
	HaveWatchOnly(script []byte) bool
	HaveAnyWatchOnly() bool

	SetHDSeed(s seed.HDSeed) bool
	HaveHDSeed() bool
	GetHDSeed() (seed.HDSeed, bool)

	AddSproutSpendingKey(sk shielded.SproutSpendingKey) bool
	HaveSproutSpendingKey(addr shielded.SproutPaymentAddress) bool
	GetSproutSpendingKey(addr shielded.SproutPaymentAddress) (shielded.SproutSpendingKey, bool)
	GetSproutPaymentAddresses() []shielded.SproutPaymentAddress
	AddSproutViewingKey(vk shielded.SproutViewingKey) bool
	RemoveSproutViewingKey(vk shielded.SproutViewingKey) bool
	HaveSproutViewingKey(addr shielded.SproutPaymentAddress) bool
	GetSproutViewingKey(addr shielded.SproutPaymentAddress) (shielded.SproutViewingKey, bool)
	GetNoteDecryptor(addr shielded.SproutPaymentAddress) (shielded.NoteDecryptor, bool)

	AddSaplingSpendingKey(sk shielded.SaplingExtendedSpendingKey, defaultAddr shielded.SaplingPaymentAddress) bool
	AddSaplingFullViewingKey(fvk shielded.SaplingFullViewingKey, defaultAddr shielded.SaplingPaymentAddress) bool
	AddSaplingIncomingViewingKey(ivk shielded.SaplingIncomingViewingKey, addr shielded.SaplingPaymentAddress) bool
	HaveSaplingSpendingKey(fvk shielded.SaplingFullViewingKey) bool
	GetSaplingSpendingKey(fvk shielded.SaplingFullViewingKey) (shielded.SaplingExtendedSpendingKey, bool)
	HaveSaplingFullViewingKey(ivk shielded.SaplingIncomingViewingKey) bool
	GetSaplingFullViewingKey(ivk shielded.SaplingIncomingViewingKey) (shielded.SaplingFullViewingKey, bool)
	HaveSaplingIncomingViewingKey(addr shielded.SaplingPaymentAddress) bool
	GetSaplingIncomingViewingKey(addr shielded.SaplingPaymentAddress) (shielded.SaplingIncomingViewingKey, bool)
	GetSaplingExtendedSpendingKey(addr shielded.SaplingPaymentAddress) (shielded.SaplingExtendedSpendingKey, bool)
	GetSaplingPaymentAddresses() []shielded.SaplingPaymentAddress

	HaveIdentity(id identity.ID) bool
	AddIdentity(id identity.Identity, txID chainhash.Hash, height uint32) bool
	UpdateIdentity(id identity.Identity, txID chainhash.Hash, height uint32) bool
	RemoveIdentity(id identity.ID) bool
	GetIdentityAndHistory(id identity.ID) (identity.WithHistory, bool)
	GetIdentity(id identity.ID) (identity.Identity, bool)
	GetIdentityByName(name string, parent identity.ID) (identity.Identity, bool)
	AddUpdateIdentityAndHistory(h identity.WithHistory) bool
}

// BasicKeyStore is the in-memory KeyStore.
type BasicKeyStore struct {
	decoder  ScriptConditionDecoder
	resolver *identity.Resolver

	// mtx guards the general domain.
	mtx        sync.RWMutex
	keys       map[key.KeyID]*btcec.PrivateKey
	scripts    map[key.ScriptID][]byte
	watchOnly  map[string]struct{}
	identities map[identity.ID]*identity.WithHistory

	// shieldedMtx guards the shielded domain.
	shieldedMtx                sync.RWMutex
	hdSeed                     seed.HDSeed
	sproutSpendingKeys         map[shielded.SproutPaymentAddress]shielded.SproutSpendingKey
	sproutViewingKeys          map[shielded.SproutPaymentAddress]shielded.SproutViewingKey
	noteDecryptors             map[shielded.SproutPaymentAddress]shielded.NoteDecryptor
	saplingSpendingKeys        map[shielded.SaplingFullViewingKey]shielded.SaplingExtendedSpendingKey
	saplingFullViewingKeys     map[shielded.SaplingIncomingViewingKey]shielded.SaplingFullViewingKey
	saplingIncomingViewingKeys map[shielded.SaplingPaymentAddress]shielded.SaplingIncomingViewingKey
}

// A compile-time assertion to ensure BasicKeyStore meets the KeyStore
// interface.
var _ KeyStore = (*BasicKeyStore)(nil)

// New returns an empty BasicKeyStore.
func New(cfg Config) *BasicKeyStore {
	return &BasicKeyStore{
		decoder:                    cfg.Decoder,
		resolver:                   identity.NewResolver(cfg.NameCacheSize),
		keys:                       make(map[key.KeyID]*btcec.PrivateKey),
		scripts:                    make(map[key.ScriptID][]byte),
		watchOnly:                  make(map[string]struct{}),
		identities:                 make(map[identity.ID]*identity.WithHistory),
		sproutSpendingKeys:         make(map[shielded.SproutPaymentAddress]shielded.SproutSpendingKey),
		sproutViewingKeys:          make(map[shielded.SproutPaymentAddress]shielded.SproutViewingKey),
		noteDecryptors:             make(map[shielded.SproutPaymentAddress]shielded.NoteDecryptor),
		saplingSpendingKeys:        make(map[shielded.SaplingFullViewingKey]shielded.SaplingExtendedSpendingKey),
		saplingFullViewingKeys:     make(map[shielded.SaplingIncomingViewingKey]shielded.SaplingFullViewingKey),
		saplingIncomingViewingKeys: make(map[shielded.SaplingPaymentAddress]shielded.SaplingIncomingViewingKey),
	}
}
