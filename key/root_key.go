/*
   Copyright (C) BABEC. All rights reserved.
   Copyright (C) THL A29 Limited, a Tencent company. All rights reserved.

   SPDX-License-Identifier: Apache-2.0
*/

package key

import (
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// NewRootKey returns the master extended key of the HD tree grown from seed.
func NewRootKey(seed []byte, params *chaincfg.Params) (*hdkeychain.ExtendedKey, error) {
	if params == nil {
		params = &chaincfg.MainNetParams
	}
	return hdkeychain.NewMaster(seed, params)
}
