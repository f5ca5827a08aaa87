package shielded

import (
	"crypto/rand"
	"encoding/hex"
	"io"

	"golang.org/x/crypto/curve25519"
)

// SproutSpendingKey is the 252-bit Sprout secret a_sk, stored in 32 bytes
// with the top four bits clear.
type SproutSpendingKey [32]byte

// SproutReceivingKey is the Curve25519 secret used to decrypt notes.
type SproutReceivingKey [32]byte

// SproutViewingKey grants visibility into the notes of one address.
type SproutViewingKey struct {
	APk   [32]byte
	SkEnc SproutReceivingKey
}

// SproutPaymentAddress is the public half of a Sprout key.
type SproutPaymentAddress struct {
	APk   [32]byte
	PkEnc [32]byte
}

// NewSproutSpendingKey draws a random spending key.
func NewSproutSpendingKey() (SproutSpendingKey, error) {
	var sk SproutSpendingKey
	if _, err := io.ReadFull(rand.Reader, sk[:]); err != nil {
		return sk, err
	}
	sk[0] &= 0x0f
	return sk, nil
}

// ReceivingKey derives the clamped Curve25519 decryption secret.
func (sk SproutSpendingKey) ReceivingKey() SproutReceivingKey {
	rk := SproutReceivingKey(prfAddr(sk, 1))
	rk[0] &= 248
	rk[31] &= 127
	rk[31] |= 64
	return rk
}

func (sk SproutSpendingKey) ViewingKey() SproutViewingKey {
	return SproutViewingKey{
		APk:   prfAddr(sk, 0),
		SkEnc: sk.ReceivingKey(),
	}
}

func (sk SproutSpendingKey) Address() SproutPaymentAddress {
	return sk.ViewingKey().Address()
}

func (vk SproutViewingKey) Address() SproutPaymentAddress {
	return SproutPaymentAddress{
		APk:   vk.APk,
		PkEnc: vk.SkEnc.PublicKey(),
	}
}

// PublicKey returns the transmission key pk_enc.
func (rk SproutReceivingKey) PublicKey() [32]byte {
	var pk [32]byte
	out, err := curve25519.X25519(rk[:], curve25519.Basepoint)
	if err != nil {
		return pk
	}
	copy(pk[:], out)
	return pk
}

func (a SproutPaymentAddress) String() string {
	return hex.EncodeToString(a.APk[:])
}

// NoteDecryptor holds the material needed to trial-decrypt notes sent to a
// Sprout address.
type NoteDecryptor struct {
	SkEnc SproutReceivingKey
	PkEnc [32]byte
}

func NewNoteDecryptor(rk SproutReceivingKey) NoteDecryptor {
	return NoteDecryptor{
		SkEnc: rk,
		PkEnc: rk.PublicKey(),
	}
}

// SharedSecret computes the Diffie-Hellman secret with a note's ephemeral
// public key.
func (d NoteDecryptor) SharedSecret(epk [32]byte) ([32]byte, error) {
	var secret [32]byte
	out, err := curve25519.X25519(d.SkEnc[:], epk[:])
	if err != nil {
		return secret, err
	}
	copy(secret[:], out)
	return secret, nil
}
