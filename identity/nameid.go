package identity

import (
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/czh0526/idkeystore/key"
)

// ID is the 160-bit identifier of an identity, derived from its name and
// parent.
type ID [key.IDSize]byte

func (id ID) IsNull() bool {
	return id == ID{}
}

func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// IDFromString parses a hex encoded ID.
func IDFromString(s string) (ID, error) {
	var id ID
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, err
	}
	if len(b) != len(id) {
		return id, identityError(ErrMalformed, "identity id must be 20 bytes", nil)
	}
	copy(id[:], b)
	return id, nil
}

// HashName folds one name into parent:
//
//	d  = Hash(lower(name))
//	h  = parent is null ? d : Hash(parent || d)
//	id = Hash160(h)
//
// Hash is double SHA-256 and Hash160 is RIPEMD160(SHA256). Only ASCII letters
// are lower-cased and hashing stops at the first NUL byte.
func HashName(name string, parent ID) ID {
	if i := strings.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}

	digest := chainhash.DoubleHashH([]byte(toLowerASCII(name)))
	if !parent.IsNull() {
		buf := make([]byte, 0, len(parent)+chainhash.HashSize)
		buf = append(buf, parent[:]...)
		buf = append(buf, digest[:]...)
		digest = chainhash.DoubleHashH(buf)
	}

	var id ID
	copy(id[:], btcutil.Hash160(digest[:]))
	return id
}

// CleanName splits name into labels, folds every ancestor label (right to
// left, leaf excluded) into parent and returns the leaf with its original
// case together with the accumulated parent ID. A name with no labels yields
// "" and parent unchanged.
func CleanName(name string, parent ID) (string, ID) {
	labels := ParseSubNames(name)
	if len(labels) == 0 {
		return "", parent
	}

	for i := len(labels) - 1; i > 0; i-- {
		parent = HashName(labels[i], parent)
	}
	return labels[0], parent
}

// NameID returns the ID of name under parent. The ID is computed from the
// raw name string, not the cleaned leaf, which keeps it identical to the IDs
// already recorded on chain.
func NameID(name string, parent ID) ID {
	return HashName(name, parent)
}
