package shielded

import (
	"encoding/binary"

	sha256 "github.com/minio/sha256-simd"
	"golang.org/x/crypto/blake2b"
)

var (
	expandSeedKey = []byte("Zcash_ExpandSeed")
	masterKeyKey  = []byte("ZcashIP32Sapling")
)

// prfAddr is the Sprout address PRF: SHA256 over the 252-bit secret with the
// domain byte t appended.
func prfAddr(ask [32]byte, t byte) [32]byte {
	var block [33]byte
	copy(block[:], ask[:])
	block[0] &= 0x0f
	block[32] = t
	return sha256.Sum256(block[:])
}

// prfExpand is the Sapling seed expansion PRF.
func prfExpand(sk [32]byte, t byte) [64]byte {
	h, _ := blake2b.New512(expandSeedKey)
	h.Write(sk[:])
	h.Write([]byte{t})

	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}

// tagged256 returns BLAKE2b-256 over the domain tag followed by parts.
func tagged256(tag string, parts ...[]byte) [32]byte {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(tag))
	for _, p := range parts {
		h.Write(p)
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func uint64LE(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}
