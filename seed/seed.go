/*
   Copyright (C) BABEC. All rights reserved.
   Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.

   SPDX-License-Identifier: Apache-2.0
*/

package seed

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/blake2b"
)

var (
	ErrSeedLength = errors.New("invalid hd seed length")
)

// fingerprintTag prefixes the seed when computing its fingerprint.
var fingerprintTag = []byte("Zcash_HD_Seed_FP")

// HDSeed is the root secret of the wallet's key hierarchy. The zero value is
// the null seed.
type HDSeed struct {
	raw []byte
}

// New wraps a copy of raw after checking it against the hdkeychain seed
// length bounds.
func New(raw []byte) (HDSeed, error) {
	if len(raw) < hdkeychain.MinSeedBytes || len(raw) > hdkeychain.MaxSeedBytes {
		return HDSeed{}, fmt.Errorf("%w: %d bytes", ErrSeedLength, len(raw))
	}

	return HDSeed{raw: append([]byte(nil), raw...)}, nil
}

// Random generates a seed of the recommended length.
func Random() (HDSeed, error) {
	raw, err := hdkeychain.GenerateSeed(hdkeychain.RecommendedSeedLen)
	if err != nil {
		return HDSeed{}, err
	}
	return HDSeed{raw: raw}, nil
}

func (s HDSeed) IsNull() bool {
	return len(s.raw) == 0
}

// Bytes returns a copy of the raw seed.
func (s HDSeed) Bytes() []byte {
	if s.IsNull() {
		return nil
	}
	return append([]byte(nil), s.raw...)
}

func (s HDSeed) Equal(other HDSeed) bool {
	return bytes.Equal(s.raw, other.raw)
}

// Fingerprint identifies the seed without revealing it.
func (s HDSeed) Fingerprint() chainhash.Hash {
	h, _ := blake2b.New256(nil)
	h.Write(fingerprintTag)
	h.Write(s.raw)

	var fp chainhash.Hash
	copy(fp[:], h.Sum(nil))
	return fp
}
