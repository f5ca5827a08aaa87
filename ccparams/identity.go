package ccparams

import (
	"errors"
	"fmt"

	"github.com/czh0526/idkeystore/identity"
	"github.com/czh0526/idkeystore/key"
)

var (
	// ErrNotIdentity is returned when a condition does not define an
	// identity.
	ErrNotIdentity = errors.New("condition is not an identity definition")

	// ErrInvalidIdentity is returned when the embedded identity cannot be
	// decoded or is not valid.
	ErrInvalidIdentity = errors.New("invalid identity in condition")
)

// IdentityPrimaryParams returns the params defining id: a single
// destination, the identity's own ID, and the serialized identity.
func IdentityPrimaryParams(id *identity.Identity) *OptCCParams {
	return &OptCCParams{
		Version:      VersionCurrent,
		EvalCode:     EvalIdentityPrimary,
		M:            1,
		N:            1,
		Destinations: []key.KeyID{key.KeyID(id.NameID())},
		VData:        [][]byte{id.Bytes()},
	}
}

// IdentityPrimaryScript returns the output script defining id.
func IdentityPrimaryScript(id *identity.Identity) ([]byte, error) {
	return Build(IdentityPrimaryParams(id))
}

// Decoder extracts identity definitions from output scripts.
type Decoder struct{}

// IdentityPrimary returns the valid identity defined by script.
func (Decoder) IdentityPrimary(script []byte) (*identity.Identity, error) {
	p, err := Decode(script)
	if err != nil {
		return nil, err
	}
	if p.EvalCode != EvalIdentityPrimary || len(p.VData) == 0 {
		return nil, ErrNotIdentity
	}

	id, err := identity.FromBytes(p.VData[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}
	if !id.IsValid() {
		return nil, ErrInvalidIdentity
	}
	return id, nil
}
