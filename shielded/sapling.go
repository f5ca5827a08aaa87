package shielded

import (
	"encoding/hex"
	"errors"

	"github.com/czh0526/idkeystore/internal/zero"
	"golang.org/x/crypto/blake2b"
)

const (
	DiversifierSize = 11

	// SaplingPaymentAddressSize is the length of a serialized address.
	SaplingPaymentAddressSize = DiversifierSize + 32

	// maxDiversifierTries bounds the default address search.
	maxDiversifierTries = 1 << 16
)

var ErrAddressLength = errors.New("invalid sapling payment address length")

type Diversifier [DiversifierSize]byte

// SaplingExpandedSpendingKey is the (ask, nsk, ovk) triple.
type SaplingExpandedSpendingKey struct {
	Ask [32]byte
	Nsk [32]byte
	Ovk [32]byte
}

type SaplingFullViewingKey struct {
	Ak  [32]byte
	Nk  [32]byte
	Ovk [32]byte
}

type SaplingIncomingViewingKey [32]byte

type SaplingPaymentAddress struct {
	D   Diversifier
	PkD [32]byte
}

// SaplingExtendedSpendingKey is a ZIP-32 style extended spending key.
type SaplingExtendedSpendingKey struct {
	Depth        uint8
	ParentFVKTag uint32
	ChildIndex   uint32
	ChainCode    [32]byte
	Expsk        SaplingExpandedSpendingKey
	Dk           [32]byte
}

// NewSaplingMasterKey derives the master extended spending key from an HD
// seed.
func NewSaplingMasterKey(seed []byte) SaplingExtendedSpendingKey {
	h, _ := blake2b.New512(masterKeyKey)
	h.Write(seed)
	i := h.Sum(nil)

	defer zero.Bytes(i)

	var sk [32]byte
	copy(sk[:], i[:32])
	defer zero.Bytea32(&sk)

	xsk := SaplingExtendedSpendingKey{
		Expsk: expandSpendingKey(sk),
	}
	copy(xsk.ChainCode[:], i[32:])

	dk := prfExpand(sk, 0x10)
	copy(xsk.Dk[:], dk[:32])
	return xsk
}

func expandSpendingKey(sk [32]byte) SaplingExpandedSpendingKey {
	var expsk SaplingExpandedSpendingKey
	ask := prfExpand(sk, 0x00)
	nsk := prfExpand(sk, 0x01)
	ovk := prfExpand(sk, 0x02)
	copy(expsk.Ask[:], ask[:32])
	copy(expsk.Nsk[:], nsk[:32])
	copy(expsk.Ovk[:], ovk[:32])
	return expsk
}

func (e SaplingExpandedSpendingKey) FullViewingKey() SaplingFullViewingKey {
	return SaplingFullViewingKey{
		Ak:  tagged256("Zcash_ak", e.Ask[:]),
		Nk:  tagged256("Zcash_nk", e.Nsk[:]),
		Ovk: e.Ovk,
	}
}

// InViewingKey projects the full viewing key onto its incoming viewing key.
// The top five bits are cleared so the value is a valid Jubjub scalar.
func (fvk SaplingFullViewingKey) InViewingKey() SaplingIncomingViewingKey {
	ivk := SaplingIncomingViewingKey(tagged256("Zcashivk", fvk.Ak[:], fvk.Nk[:]))
	ivk[31] &= 0x07
	return ivk
}

// groupHash maps a diversifier to its base point. Roughly one diversifier in
// 256 has no point and is unusable.
func groupHash(d Diversifier) ([32]byte, bool) {
	gd := tagged256("Zcash_gd", d[:])
	return gd, gd[0] != 0
}

// Address returns the payment address of ivk for diversifier d, or false if
// d is not usable.
func (ivk SaplingIncomingViewingKey) Address(d Diversifier) (SaplingPaymentAddress, bool) {
	gd, ok := groupHash(d)
	if !ok {
		return SaplingPaymentAddress{}, false
	}
	return SaplingPaymentAddress{
		D:   d,
		PkD: tagged256("Zcash_pkd", ivk[:], gd[:]),
	}, true
}

func (ivk SaplingIncomingViewingKey) String() string {
	return hex.EncodeToString(ivk[:])
}

// Address returns the first usable diversified address at or after index j.
func (xsk SaplingExtendedSpendingKey) Address(j uint64) (SaplingPaymentAddress, uint64, bool) {
	ivk := xsk.Expsk.FullViewingKey().InViewingKey()
	for tries := 0; tries < maxDiversifierTries; tries++ {
		var d Diversifier
		h := tagged256("Zcash_dk", xsk.Dk[:], uint64LE(j))
		copy(d[:], h[:DiversifierSize])

		if addr, ok := ivk.Address(d); ok {
			return addr, j, true
		}
		j++
	}
	return SaplingPaymentAddress{}, 0, false
}

func (xsk SaplingExtendedSpendingKey) DefaultAddress() SaplingPaymentAddress {
	addr, _, _ := xsk.Address(0)
	return addr
}

func (a SaplingPaymentAddress) Bytes() []byte {
	b := make([]byte, 0, SaplingPaymentAddressSize)
	b = append(b, a.D[:]...)
	return append(b, a.PkD[:]...)
}

func SaplingPaymentAddressFromBytes(b []byte) (SaplingPaymentAddress, error) {
	var a SaplingPaymentAddress
	if len(b) != SaplingPaymentAddressSize {
		return a, ErrAddressLength
	}
	copy(a.D[:], b[:DiversifierSize])
	copy(a.PkD[:], b[DiversifierSize:])
	return a, nil
}

func (a SaplingPaymentAddress) String() string {
	return hex.EncodeToString(a.Bytes())
}
