// Package snacl seals secrets under a passphrase using scrypt for key
// derivation and NaCl secretbox for authenticated encryption.
package snacl

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"io"

	"github.com/czh0526/idkeystore/internal/zero"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	KeySize   = 32
	NonceSize = 24

	// ParametersSize is the length of marshalled Parameters.
	ParametersSize = KeySize + sha256.Size + 24
)

// Default scrypt cost parameters.
const (
	DefaultN = 262144
	DefaultR = 8
	DefaultP = 1
)

var (
	prng = rand.Reader
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrMalformed       = errors.New("malformed data")
	ErrDecryptFailed   = errors.New("unable to decrypt")
)

// CryptoKey is a symmetric secretbox key.
type CryptoKey [KeySize]byte

// Encrypt seals in with a random nonce. The nonce is prepended to the
// returned ciphertext.
func (ck *CryptoKey) Encrypt(in []byte) ([]byte, error) {
	var nonce [NonceSize]byte
	_, err := io.ReadFull(prng, nonce[:])
	if err != nil {
		return nil, err
	}
	blob := secretbox.Seal(nil, in, &nonce, (*[KeySize]byte)(ck))
	return append(nonce[:], blob...), nil
}

// Decrypt opens a ciphertext produced by Encrypt.
func (ck *CryptoKey) Decrypt(in []byte) ([]byte, error) {
	if len(in) < NonceSize+secretbox.Overhead {
		return nil, ErrMalformed
	}

	var nonce [NonceSize]byte
	copy(nonce[:], in[:NonceSize])
	blob := in[NonceSize:]

	opened, ok := secretbox.Open(nil, blob, &nonce, (*[KeySize]byte)(ck))
	if !ok {
		return nil, ErrDecryptFailed
	}

	return opened, nil
}

func (ck *CryptoKey) Zero() {
	zero.Bytea32((*[KeySize]byte)(ck))
}

// GenerateCryptoKey returns a random CryptoKey.
func GenerateCryptoKey() (*CryptoKey, error) {
	var key CryptoKey
	_, err := io.ReadFull(prng, key[:])
	if err != nil {
		return nil, err
	}

	return &key, nil
}

// Parameters are the scrypt inputs needed to re-derive a SecretKey, plus a
// digest of the derived key used to detect a wrong passphrase.
type Parameters struct {
	Salt   [KeySize]byte
	Digest [sha256.Size]byte
	N      int
	R      int
	P      int
}

// SecretKey is a CryptoKey derived from a passphrase.
type SecretKey struct {
	Key        *CryptoKey
	Parameters Parameters
}

func (sk *SecretKey) Encrypt(in []byte) ([]byte, error) {
	return sk.Key.Encrypt(in)
}

func (sk *SecretKey) Decrypt(in []byte) ([]byte, error) {
	return sk.Key.Decrypt(in)
}

// Marshal serializes the key parameters. The key itself is not included.
func (sk *SecretKey) Marshal() []byte {
	params := &sk.Parameters

	marshalled := make([]byte, ParametersSize)

	b := marshalled
	copy(b[:KeySize], params.Salt[:])
	b = b[KeySize:]
	copy(b[:sha256.Size], params.Digest[:])
	b = b[sha256.Size:]
	binary.LittleEndian.PutUint64(b[:8], uint64(params.N))
	b = b[8:]
	binary.LittleEndian.PutUint64(b[:8], uint64(params.R))
	b = b[8:]
	binary.LittleEndian.PutUint64(b[:8], uint64(params.P))

	return marshalled
}

// Unmarshal restores the parameters written by Marshal. DeriveKey must be
// called before the key can be used.
func (sk *SecretKey) Unmarshal(marshalled []byte) error {
	if len(marshalled) != ParametersSize {
		return ErrMalformed
	}

	if sk.Key == nil {
		sk.Key = (*CryptoKey)(&[KeySize]byte{})
	}

	params := &sk.Parameters
	copy(params.Salt[:], marshalled[:KeySize])
	marshalled = marshalled[KeySize:]
	copy(params.Digest[:], marshalled[:sha256.Size])
	marshalled = marshalled[sha256.Size:]
	params.N = int(binary.LittleEndian.Uint64(marshalled[:8]))
	marshalled = marshalled[8:]
	params.R = int(binary.LittleEndian.Uint64(marshalled[:8]))
	marshalled = marshalled[8:]
	params.P = int(binary.LittleEndian.Uint64(marshalled[:8]))

	return nil
}

func (sk *SecretKey) Zero() {
	sk.Key.Zero()
}

// DeriveKey re-derives the key from password and checks it against the
// stored digest.
func (sk *SecretKey) DeriveKey(password *[]byte) error {
	if err := sk.deriveKey(password); err != nil {
		return err
	}

	digest := sha256.Sum256(sk.Key[:])
	if subtle.ConstantTimeCompare(digest[:], sk.Parameters.Digest[:]) != 1 {
		return ErrInvalidPassword
	}

	return nil
}

func (sk *SecretKey) deriveKey(password *[]byte) error {
	key, err := scrypt.Key(
		*password,
		sk.Parameters.Salt[:],
		sk.Parameters.N,
		sk.Parameters.R,
		sk.Parameters.P,
		len(sk.Key))
	if err != nil {
		return err
	}

	copy(sk.Key[:], key)
	zero.Bytes(key)
	return nil
}

// NewSecretKey derives a fresh key from password with a random salt.
func NewSecretKey(password *[]byte, n, r, p int) (*SecretKey, error) {
	sk := SecretKey{
		Key: (*CryptoKey)(&[KeySize]byte{}),
	}

	sk.Parameters.N = n
	sk.Parameters.R = r
	sk.Parameters.P = p
	_, err := io.ReadFull(prng, sk.Parameters.Salt[:])
	if err != nil {
		return nil, err
	}

	err = sk.deriveKey(password)
	if err != nil {
		return nil, err
	}

	sk.Parameters.Digest = sha256.Sum256(sk.Key[:])

	return &sk, nil
}

// Seal encrypts plaintext under a key derived from password. The result
// carries the marshalled parameters followed by the ciphertext, so Open
// needs only the password.
func Seal(password, plaintext []byte, n, r, p int) ([]byte, error) {
	sk, err := NewSecretKey(&password, n, r, p)
	if err != nil {
		return nil, err
	}
	defer sk.Zero()

	ct, err := sk.Encrypt(plaintext)
	if err != nil {
		return nil, err
	}

	return append(sk.Marshal(), ct...), nil
}

// Open reverses Seal.
func Open(password, sealed []byte) ([]byte, error) {
	if len(sealed) < ParametersSize {
		return nil, ErrMalformed
	}

	var sk SecretKey
	if err := sk.Unmarshal(sealed[:ParametersSize]); err != nil {
		return nil, err
	}
	defer sk.Zero()

	if err := sk.DeriveKey(&password); err != nil {
		return nil, err
	}

	return sk.Decrypt(sealed[ParametersSize:])
}
