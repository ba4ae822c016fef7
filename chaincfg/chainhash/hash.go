// Package chainhash provides the double-SHA256 digest type used throughout
// the transaction and script layers to identify transactions and build
// signature hashes.
package chainhash

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/pkt-cash/scriptforge/btcutil/er"
)

// HashSize is the number of bytes in a hash.
const HashSize = 32

// Hash is a double-SHA256 digest, stored internally in the little-endian
// (wire) byte order Bitcoin uses for hashing.
type Hash [HashSize]byte

// String returns the hash in the conventional big-endian (network display)
// hex order used by block explorers and RPC interfaces, i.e. the reverse of
// the internal byte order.
func (h Hash) String() string {
	var reversed Hash
	for i := 0; i < HashSize/2; i++ {
		reversed[i], reversed[HashSize-1-i] = h[HashSize-1-i], h[i]
	}
	return hex.EncodeToString(reversed[:])
}

// CloneBytes returns a newly allocated copy of the hash's bytes.
func (h *Hash) CloneBytes() []byte {
	out := make([]byte, HashSize)
	copy(out, h[:])
	return out
}

// SetBytes copies the passed little-endian byte slice into the hash. An
// error is returned if the number of bytes passed in is not HashSize.
func (h *Hash) SetBytes(newHash []byte) er.R {
	if len(newHash) != HashSize {
		return er.Errorf("invalid hash length of %v, want %v", len(newHash), HashSize)
	}
	copy(h[:], newHash)
	return nil
}

// NewHash returns a new Hash from a byte slice.
func NewHash(newHash []byte) (*Hash, er.R) {
	var h Hash
	if err := h.SetBytes(newHash); err != nil {
		return nil, err
	}
	return &h, nil
}

// HashB calculates hash(b) and returns the resulting bytes.
func HashB(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}

// HashH calculates hash(b) and returns the resulting bytes as a Hash.
func HashH(b []byte) Hash {
	return Hash(sha256.Sum256(b))
}

// DoubleHashB calculates hash(hash(b)) and returns the resulting bytes.
func DoubleHashB(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

// DoubleHashH calculates hash(hash(b)) and returns the resulting bytes as a
// Hash.
func DoubleHashH(b []byte) Hash {
	first := sha256.Sum256(b)
	return Hash(sha256.Sum256(first[:]))
}
