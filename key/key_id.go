/*
   Copyright (C) BABEC. All rights reserved.
   Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.

   SPDX-License-Identifier: Apache-2.0
*/

package key

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
	"golang.org/x/crypto/ripemd160"
)

// IDSize is the size of key, script and identity IDs.
const IDSize = ripemd160.Size

// KeyID identifies a transparent key by the Hash160 of its compressed public
// key.
type KeyID [IDSize]byte

// NewKeyID returns the ID of pub.
func NewKeyID(pub *btcec.PublicKey) KeyID {
	var id KeyID
	copy(id[:], btcutil.Hash160(pub.SerializeCompressed()))
	return id
}

func (k KeyID) String() string {
	return hex.EncodeToString(k[:])
}

// Address returns the pay-to-pubkey-hash address of the key.
func (k KeyID) Address(params *chaincfg.Params) (*btcutil.AddressPubKeyHash, error) {
	return btcutil.NewAddressPubKeyHash(k[:], params)
}

// ScriptID identifies a redeem script. For ordinary scripts it is the Hash160
// of the script bytes; identity-controlled scripts are filed under the
// identity's ID instead.
type ScriptID [IDSize]byte

// NewScriptID returns the hash based ID of script.
func NewScriptID(script []byte) ScriptID {
	var id ScriptID
	copy(id[:], btcutil.Hash160(script))
	return id
}

func (s ScriptID) String() string {
	return hex.EncodeToString(s[:])
}

// Address returns the pay-to-script-hash address for the ID.
func (s ScriptID) Address(params *chaincfg.Params) (*btcutil.AddressScriptHash, error) {
	return btcutil.NewAddressScriptHashFromHash(s[:], params)
}

// IdentityAddress encodes a 20-byte identity ID as a base58check string with
// the given version byte.
func IdentityAddress(id [IDSize]byte, netID byte) string {
	return base58.CheckEncode(id[:], netID)
}

// DecodeIdentityAddress is the inverse of IdentityAddress.
func DecodeIdentityAddress(addr string) ([IDSize]byte, byte, error) {
	var id [IDSize]byte
	payload, version, err := base58.CheckDecode(addr)
	if err != nil {
		return id, 0, err
	}
	if len(payload) != IDSize {
		return id, 0, base58.ErrInvalidFormat
	}
	copy(id[:], payload)
	return id, version, nil
}
