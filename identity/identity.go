package identity

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/czh0526/idkeystore/key"
	"github.com/czh0526/idkeystore/shielded"
)

const (
	VersionInvalid uint32 = 0
	VersionVerusID uint32 = 1
	VersionVault   uint32 = 2
	VersionCurrent        = VersionVault

	// FlagRevoked marks an identity that can no longer spend.
	FlagRevoked uint32 = 0x8000

	// MaxPrimaryAddresses bounds the primary addresses of a valid identity.
	MaxPrimaryAddresses = 10

	// maxListEntries caps any list read from the wire.
	maxListEntries = 1000

	// pver is passed to the btcd wire helpers; the encoding does not vary by
	// protocol version.
	pver = 0
)

// Identity is one version of an on-chain identity.
type Identity struct {
	Version          uint32
	Flags            uint32
	PrimaryAddresses []key.KeyID
	MinSigs          int32

	Parent ID
	Name   string

	ContentMap          map[ID]chainhash.Hash
	RevocationAuthority ID
	RecoveryAuthority   ID
	PrivateAddresses    []shielded.SaplingPaymentAddress
}

// NameID returns the identity's own canonical ID.
func (i *Identity) NameID() ID {
	return NameID(i.Name, i.Parent)
}

// NameIDFor returns the ID name would have under this identity's parent.
func (i *Identity) NameIDFor(name string) ID {
	return NameID(name, i.Parent)
}

func (i *Identity) IsRevoked() bool {
	return i.Flags&FlagRevoked != 0
}

// IsValid reports whether the identity is well formed.
func (i *Identity) IsValid() bool {
	if i.Version < VersionVerusID || i.Version > VersionCurrent {
		return false
	}
	n := len(i.PrimaryAddresses)
	if n == 0 || n > MaxPrimaryAddresses {
		return false
	}
	if i.MinSigs < 1 || int(i.MinSigs) > n {
		return false
	}
	return len(i.Name) > 0 && len(i.Name) <= MaxNameLen-1
}

// Clone returns a deep copy.
func (i *Identity) Clone() Identity {
	c := *i
	c.PrimaryAddresses = slices.Clone(i.PrimaryAddresses)
	c.PrivateAddresses = slices.Clone(i.PrivateAddresses)
	c.ContentMap = maps.Clone(i.ContentMap)
	return c
}

// Serialize writes the identity in its wire format.
func (i *Identity) Serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, i.Version); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, i.Flags); err != nil {
		return err
	}

	if err := wire.WriteVarInt(w, pver, uint64(len(i.PrimaryAddresses))); err != nil {
		return err
	}
	for _, addr := range i.PrimaryAddresses {
		if _, err := w.Write(addr[:]); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, i.MinSigs); err != nil {
		return err
	}

	if _, err := w.Write(i.Parent[:]); err != nil {
		return err
	}
	if err := wire.WriteVarString(w, pver, i.Name); err != nil {
		return err
	}

	// Content map entries are written in key order so equal identities
	// serialize identically.
	contentKeys := slices.SortedFunc(maps.Keys(i.ContentMap), func(a, b ID) int {
		return bytes.Compare(a[:], b[:])
	})
	if err := wire.WriteVarInt(w, pver, uint64(len(contentKeys))); err != nil {
		return err
	}
	for _, k := range contentKeys {
		v := i.ContentMap[k]
		if _, err := w.Write(k[:]); err != nil {
			return err
		}
		if _, err := w.Write(v[:]); err != nil {
			return err
		}
	}

	if _, err := w.Write(i.RevocationAuthority[:]); err != nil {
		return err
	}
	if _, err := w.Write(i.RecoveryAuthority[:]); err != nil {
		return err
	}

	if err := wire.WriteVarInt(w, pver, uint64(len(i.PrivateAddresses))); err != nil {
		return err
	}
	for _, addr := range i.PrivateAddresses {
		if _, err := w.Write(addr.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize reads an identity written by Serialize.
func (i *Identity) Deserialize(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, &i.Version); err != nil {
		return identityError(ErrMalformed, "failed to read version", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &i.Flags); err != nil {
		return identityError(ErrMalformed, "failed to read flags", err)
	}

	count, err := readListLen(r, "primary addresses")
	if err != nil {
		return err
	}
	i.PrimaryAddresses = make([]key.KeyID, count)
	for j := range i.PrimaryAddresses {
		if _, err := io.ReadFull(r, i.PrimaryAddresses[j][:]); err != nil {
			return identityError(ErrMalformed, "failed to read primary address", err)
		}
	}
	if err := binary.Read(r, binary.LittleEndian, &i.MinSigs); err != nil {
		return identityError(ErrMalformed, "failed to read minimum signatures", err)
	}

	if _, err := io.ReadFull(r, i.Parent[:]); err != nil {
		return identityError(ErrMalformed, "failed to read parent", err)
	}
	if i.Name, err = wire.ReadVarString(r, pver); err != nil {
		return identityError(ErrMalformed, "failed to read name", err)
	}

	count, err = readListLen(r, "content map")
	if err != nil {
		return err
	}
	i.ContentMap = nil
	if count > 0 {
		i.ContentMap = make(map[ID]chainhash.Hash, count)
	}
	for j := uint64(0); j < count; j++ {
		var (
			k ID
			v chainhash.Hash
		)
		if _, err := io.ReadFull(r, k[:]); err != nil {
			return identityError(ErrMalformed, "failed to read content key", err)
		}
		if _, err := io.ReadFull(r, v[:]); err != nil {
			return identityError(ErrMalformed, "failed to read content value", err)
		}
		i.ContentMap[k] = v
	}

	if _, err := io.ReadFull(r, i.RevocationAuthority[:]); err != nil {
		return identityError(ErrMalformed, "failed to read revocation authority", err)
	}
	if _, err := io.ReadFull(r, i.RecoveryAuthority[:]); err != nil {
		return identityError(ErrMalformed, "failed to read recovery authority", err)
	}

	count, err = readListLen(r, "private addresses")
	if err != nil {
		return err
	}
	i.PrivateAddresses = nil
	var raw [shielded.SaplingPaymentAddressSize]byte
	for j := uint64(0); j < count; j++ {
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return identityError(ErrMalformed, "failed to read private address", err)
		}
		addr, _ := shielded.SaplingPaymentAddressFromBytes(raw[:])
		i.PrivateAddresses = append(i.PrivateAddresses, addr)
	}
	return nil
}

func readListLen(r io.Reader, what string) (uint64, error) {
	count, err := wire.ReadVarInt(r, pver)
	if err != nil {
		return 0, identityError(ErrMalformed, "failed to read "+what+" count", err)
	}
	if count > maxListEntries {
		str := fmt.Sprintf("%d %s exceeds limit %d", count, what, maxListEntries)
		return 0, identityError(ErrTooManyEntries, str, nil)
	}
	return count, nil
}

// Bytes returns the serialized identity.
func (i *Identity) Bytes() []byte {
	var buf bytes.Buffer
	_ = i.Serialize(&buf)
	return buf.Bytes()
}

// FromBytes decodes an identity and rejects trailing data.
func FromBytes(b []byte) (*Identity, error) {
	r := bytes.NewReader(b)

	var id Identity
	if err := id.Deserialize(r); err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		str := fmt.Sprintf("%d trailing bytes after identity", r.Len())
		return nil, identityError(ErrMalformed, str, nil)
	}
	return &id, nil
}
