package ccparams

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/txscript"
	"github.com/czh0526/idkeystore/identity"
	"github.com/czh0526/idkeystore/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIdentity() *identity.Identity {
	return &identity.Identity{
		Version:          identity.VersionCurrent,
		PrimaryAddresses: []key.KeyID{{0x01}},
		MinSigs:          1,
		Parent:           identity.HashName("vrsc", identity.ID{}),
		Name:             "Alice",
	}
}

func TestBuildDecode(t *testing.T) {
	p := &OptCCParams{
		Version:      VersionCurrent,
		EvalCode:     0x05,
		M:            1,
		N:            2,
		Destinations: []key.KeyID{{0x01}, {0x02}},
		VData:        [][]byte{{}, {0x07}, {0x81}, bytes.Repeat([]byte{0xab}, 80)},
	}

	script, err := Build(p)
	require.NoError(t, err)

	decoded, err := Decode(script)
	require.NoError(t, err)
	assert.Equal(t, p, decoded)
}

func TestBuildRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		p    OptCCParams
	}{
		{name: "zero version", p: OptCCParams{EvalCode: 1}},
		{name: "future version", p: OptCCParams{Version: VersionCurrent + 1, EvalCode: 1}},
		{name: "zero eval code", p: OptCCParams{Version: VersionV1}},
		{name: "n mismatch", p: OptCCParams{Version: VersionV1, EvalCode: 1, N: 1}},
		{
			name: "m above n",
			p: OptCCParams{
				Version: VersionV1, EvalCode: 1, M: 2, N: 1,
				Destinations: []key.KeyID{{}},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Build(&test.p)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestDecodeRejects(t *testing.T) {
	valid, err := IdentityPrimaryScript(testIdentity())
	require.NoError(t, err)

	build := func(f func(b *txscript.ScriptBuilder)) []byte {
		b := txscript.NewScriptBuilder()
		f(b)
		s, err := b.Script()
		require.NoError(t, err)
		return s
	}
	header := []byte{VersionCurrent, EvalIdentityPrimary, 1, 1}

	tests := []struct {
		name   string
		script []byte
		err    error
	}{
		{name: "empty", script: nil, err: ErrNotCryptoCondition},
		{
			name:   "no condition opcode",
			script: bytes.Repeat([]byte{txscript.OP_NOP}, 3),
			err:    ErrNotCryptoCondition,
		},
		{name: "missing drop", script: valid[:len(valid)-1], err: ErrNotCryptoCondition},
		{name: "trailing opcode", script: append(bytes.Clone(valid), txscript.OP_NOP), err: ErrNotCryptoCondition},
		{
			name: "short header",
			script: build(func(b *txscript.ScriptBuilder) {
				params, _ := txscript.NewScriptBuilder().AddData([]byte{1, 2}).Script()
				b.AddData(header).AddOp(OpCheckCryptoCondition).AddData(params).AddOp(txscript.OP_DROP)
			}),
			err: ErrMalformedParams,
		},
		{
			name: "missing destination",
			script: build(func(b *txscript.ScriptBuilder) {
				params, _ := txscript.NewScriptBuilder().AddData(header).Script()
				b.AddData(header).AddOp(OpCheckCryptoCondition).AddData(params).AddOp(txscript.OP_DROP)
			}),
			err: ErrMalformedParams,
		},
		{
			name: "opcode in data",
			script: build(func(b *txscript.ScriptBuilder) {
				params, _ := txscript.NewScriptBuilder().
					AddData(header).AddData(make([]byte, key.IDSize)).
					AddOp(txscript.OP_DUP).Script()
				b.AddData(header).AddOp(OpCheckCryptoCondition).AddData(params).AddOp(txscript.OP_DROP)
			}),
			err: ErrMalformedParams,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Decode(test.script)
			assert.ErrorIs(t, err, test.err)
		})
	}
}

func TestDecoderIdentityPrimary(t *testing.T) {
	id := testIdentity()

	script, err := IdentityPrimaryScript(id)
	require.NoError(t, err)

	got, err := Decoder{}.IdentityPrimary(script)
	require.NoError(t, err)
	assert.Equal(t, id.NameID(), got.NameID())
	assert.Equal(t, id.PrimaryAddresses, got.PrimaryAddresses)

	p, err := Decode(script)
	require.NoError(t, err)
	assert.Equal(t, []key.KeyID{key.KeyID(id.NameID())}, p.Destinations)
}

func TestDecoderIdentityPrimaryErrors(t *testing.T) {
	other, err := Build(&OptCCParams{
		Version: VersionCurrent, EvalCode: 0x05, M: 1, N: 1,
		Destinations: []key.KeyID{{0x01}},
		VData:        [][]byte{testIdentity().Bytes()},
	})
	require.NoError(t, err)
	_, err = Decoder{}.IdentityPrimary(other)
	assert.ErrorIs(t, err, ErrNotIdentity)

	garbage, err := Build(&OptCCParams{
		Version: VersionCurrent, EvalCode: EvalIdentityPrimary, M: 1, N: 1,
		Destinations: []key.KeyID{{0x01}},
		VData:        [][]byte{{0xde, 0xad, 0xbe, 0xef}},
	})
	require.NoError(t, err)
	_, err = Decoder{}.IdentityPrimary(garbage)
	assert.ErrorIs(t, err, ErrInvalidIdentity)

	invalid := testIdentity()
	invalid.MinSigs = 0
	script, err := IdentityPrimaryScript(invalid)
	require.NoError(t, err)
	_, err = Decoder{}.IdentityPrimary(script)
	assert.ErrorIs(t, err, ErrInvalidIdentity)
}
