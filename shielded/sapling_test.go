package shielded

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSaplingKey(b byte) SaplingExtendedSpendingKey {
	return NewSaplingMasterKey(bytes.Repeat([]byte{b}, 32))
}

func TestSaplingMasterKeyDeterministic(t *testing.T) {
	a := testSaplingKey(1)
	b := testSaplingKey(1)
	c := testSaplingKey(2)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a.Expsk.Ask, a.Expsk.Nsk)
}

func TestSaplingDerivationChain(t *testing.T) {
	xsk := testSaplingKey(7)
	fvk := xsk.Expsk.FullViewingKey()
	ivk := fvk.InViewingKey()

	assert.Equal(t, xsk.Expsk.Ovk, fvk.Ovk)
	assert.Zero(t, ivk[31]&0xf8)

	addr := xsk.DefaultAddress()
	derived, ok := ivk.Address(addr.D)
	require.True(t, ok)
	assert.Equal(t, addr, derived)

	other := testSaplingKey(8).Expsk.FullViewingKey().InViewingKey()
	otherAddr, ok := other.Address(addr.D)
	require.True(t, ok)
	assert.NotEqual(t, addr.PkD, otherAddr.PkD)
}

func TestSaplingDiversifiedAddresses(t *testing.T) {
	xsk := testSaplingKey(3)

	first, j, ok := xsk.Address(0)
	require.True(t, ok)
	second, _, ok := xsk.Address(j + 1)
	require.True(t, ok)

	assert.NotEqual(t, first.D, second.D)
	assert.Equal(t, first, xsk.DefaultAddress())
}

func TestSaplingPaymentAddressBytes(t *testing.T) {
	addr := testSaplingKey(5).DefaultAddress()

	raw := addr.Bytes()
	require.Len(t, raw, SaplingPaymentAddressSize)

	decoded, err := SaplingPaymentAddressFromBytes(raw)
	require.NoError(t, err)
	assert.Equal(t, addr, decoded)

	_, err = SaplingPaymentAddressFromBytes(raw[1:])
	assert.ErrorIs(t, err, ErrAddressLength)
}
