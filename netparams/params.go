package netparams

import "github.com/btcsuite/btcd/chaincfg"

// Params couples the chaincfg parameters with the values needed to name and
// display identities on a given network.
type Params struct {
	*chaincfg.Params

	// RootChainName is the label appended to identity names that do not
	// carry an explicit root.
	RootChainName string

	// IdentityAddrID is the base58check version byte of identity
	// addresses.
	IdentityAddrID byte
}

var MainNetParams = Params{
	Params:         &chaincfg.MainNetParams,
	RootChainName:  "VRSC",
	IdentityAddrID: 0x66,
}

var TestNetParams = Params{
	Params:         &chaincfg.TestNet3Params,
	RootChainName:  "VRSCTEST",
	IdentityAddrID: 0x66,
}

var SimNetParams = Params{
	Params:         &chaincfg.SimNetParams,
	RootChainName:  "VRSCSIM",
	IdentityAddrID: 0x66,
}
