// Package ccparams builds and decodes the parameters carried by crypto
// condition output scripts.
//
// An output script has the form
//
//	<condition> OP_CHECKCRYPTOCONDITION <params> OP_DROP
//
// where params is itself a script: a push of [version, evalCode, m, n],
// n pushes of 20-byte destinations and then any number of data pushes.
package ccparams

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/czh0526/idkeystore/key"
)

const (
	// OpCheckCryptoCondition marks a crypto condition output.
	OpCheckCryptoCondition = 0xcc

	// EvalIdentityPrimary is the eval code of an identity definition.
	EvalIdentityPrimary uint8 = 0x0d

	VersionV1      uint8 = 1
	VersionV2      uint8 = 2
	VersionV3      uint8 = 3
	VersionCurrent       = VersionV3

	headerSize = 4
)

var (
	// ErrNotCryptoCondition is returned for scripts that are not crypto
	// condition outputs.
	ErrNotCryptoCondition = errors.New("not a crypto condition script")

	// ErrMalformedParams is returned when the params payload cannot be
	// parsed.
	ErrMalformedParams = errors.New("malformed condition params")

	// ErrInvalidParams is returned when parsed params are inconsistent.
	ErrInvalidParams = errors.New("invalid condition params")
)

// OptCCParams are the decoded parameters of a crypto condition output.
type OptCCParams struct {
	Version      uint8
	EvalCode     uint8
	M            uint8
	N            uint8
	Destinations []key.KeyID
	VData        [][]byte
}

// IsValid reports whether the params are internally consistent.
func (p *OptCCParams) IsValid() bool {
	if p.Version < VersionV1 || p.Version > VersionCurrent {
		return false
	}
	if p.EvalCode == 0 {
		return false
	}
	return int(p.N) == len(p.Destinations) && p.M <= p.N
}

func (p *OptCCParams) header() []byte {
	return []byte{p.Version, p.EvalCode, p.M, p.N}
}

// paramsScript serializes the params payload.
func (p *OptCCParams) paramsScript() ([]byte, error) {
	b := txscript.NewScriptBuilder().AddData(p.header())
	for _, dest := range p.Destinations {
		b.AddData(dest[:])
	}
	for _, data := range p.VData {
		b.AddData(data)
	}
	return b.Script()
}

// Build returns the output script carrying p.
func Build(p *OptCCParams) ([]byte, error) {
	if !p.IsValid() {
		return nil, ErrInvalidParams
	}

	params, err := p.paramsScript()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	return txscript.NewScriptBuilder().
		AddData(p.header()).
		AddOp(OpCheckCryptoCondition).
		AddData(params).
		AddOp(txscript.OP_DROP).
		Script()
}

// Decode parses the params of a crypto condition output script.
func Decode(script []byte) (*OptCCParams, error) {
	tok := txscript.MakeScriptTokenizer(0, script)

	if !tok.Next() || tok.Data() == nil {
		return nil, ErrNotCryptoCondition
	}
	if !tok.Next() || tok.Opcode() != OpCheckCryptoCondition {
		return nil, ErrNotCryptoCondition
	}
	if !tok.Next() || tok.Data() == nil {
		return nil, ErrNotCryptoCondition
	}
	params := tok.Data()
	if !tok.Next() || tok.Opcode() != txscript.OP_DROP {
		return nil, ErrNotCryptoCondition
	}
	if tok.Next() || tok.Err() != nil {
		return nil, ErrNotCryptoCondition
	}

	return decodeParams(params)
}

func decodeParams(params []byte) (*OptCCParams, error) {
	tok := txscript.MakeScriptTokenizer(0, params)

	if !tok.Next() || len(tok.Data()) != headerSize {
		return nil, fmt.Errorf("%w: missing header", ErrMalformedParams)
	}
	h := tok.Data()
	p := &OptCCParams{Version: h[0], EvalCode: h[1], M: h[2], N: h[3]}

	for i := 0; i < int(p.N); i++ {
		if !tok.Next() || len(tok.Data()) != key.IDSize {
			return nil, fmt.Errorf("%w: destination %d", ErrMalformedParams, i)
		}
		var dest key.KeyID
		copy(dest[:], tok.Data())
		p.Destinations = append(p.Destinations, dest)
	}

	for tok.Next() {
		data, ok := pushedData(tok.Opcode(), tok.Data())
		if !ok {
			return nil, fmt.Errorf("%w: unexpected opcode 0x%02x",
				ErrMalformedParams, tok.Opcode())
		}
		p.VData = append(p.VData, data)
	}
	if err := tok.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedParams, err)
	}

	if !p.IsValid() {
		return nil, ErrInvalidParams
	}
	return p, nil
}

// pushedData recovers the bytes of a canonical push, which encodes short
// values as small integer opcodes.
func pushedData(op byte, data []byte) ([]byte, bool) {
	switch {
	case op == txscript.OP_0:
		return []byte{}, true
	case op == txscript.OP_1NEGATE:
		return []byte{0x81}, true
	case op >= txscript.OP_1 && op <= txscript.OP_16:
		return []byte{op - txscript.OP_1 + 1}, true
	case op <= txscript.OP_PUSHDATA4:
		return append([]byte{}, data...), true
	}
	return nil, false
}
