/*
   Copyright (C) BABEC. All rights reserved.
   Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.

   SPDX-License-Identifier: Apache-2.0
*/

package seed

import (
	"errors"

	"github.com/czh0526/idkeystore/internal/zero"
	"github.com/czh0526/idkeystore/snacl"
)

var (
	ErrNullSeed = errors.New("null hd seed")
)

// Seal encrypts the seed under passphrase using scrypt cost parameters n, r
// and p.
func (s HDSeed) Seal(passphrase []byte, n, r, p int) ([]byte, error) {
	if s.IsNull() {
		return nil, ErrNullSeed
	}
	return snacl.Seal(passphrase, s.raw, n, r, p)
}

// Open decrypts a seed produced by Seal.
func Open(passphrase, sealed []byte) (HDSeed, error) {
	raw, err := snacl.Open(passphrase, sealed)
	if err != nil {
		return HDSeed{}, err
	}
	defer zero.Bytes(raw)

	return New(raw)
}
