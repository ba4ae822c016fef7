// Copyright (c) 2013-2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package btcec preserves the call shape of the historical btcec package
// (S256/ParsePubKey/ParseSignature/Signature.Verify) that the rest of this
// module is written against, while delegating the actual elliptic-curve
// arithmetic to decred's secp256k1 implementation.
package btcec

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// PublicKey is a secp256k1 public key.
type PublicKey = secp256k1.PublicKey

// PrivateKey is a secp256k1 private key.
type PrivateKey = secp256k1.PrivateKey

// Signature is an ECDSA signature over secp256k1.
type Signature = ecdsa.Signature

// KoblitzCurve is the secp256k1 curve.
type KoblitzCurve = secp256k1.KoblitzCurve

// S256 returns the secp256k1 curve, kept as a function (rather than a
// package-level var) to match the shape every caller in this module
// already uses: btcec.S256().
func S256() *KoblitzCurve {
	return secp256k1.S256()
}

// ParsePubKey parses a serialized (compressed or uncompressed) public key
// into a PublicKey. The curve argument is accepted for call-site
// compatibility with the historical API but secp256k1 is the only curve
// this package ever deals with.
func ParsePubKey(pubKeyStr []byte, _ *KoblitzCurve) (*PublicKey, error) {
	return secp256k1.ParsePubKey(pubKeyStr)
}

// ParseDERSignature parses a strict DER-encoded signature.
func ParseDERSignature(sigStr []byte, _ *KoblitzCurve) (*Signature, error) {
	return ecdsa.ParseDERSignature(sigStr)
}

// ParseSignature parses a signature, tolerating the historical BER/lax
// encoding quirks that strict DER parsing rejects.
func ParseSignature(sigStr []byte, _ *KoblitzCurve) (*Signature, error) {
	return ecdsa.ParseSignature(sigStr)
}

// PrivKeyFromBytes turns a raw 32-byte scalar into a private key and its
// corresponding public key.
func PrivKeyFromBytes(privKeyBytes []byte) (*PrivateKey, *PublicKey) {
	priv := secp256k1.PrivKeyFromBytes(privKeyBytes)
	return priv, priv.PubKey()
}

// SignCompact signs hash with key and returns a signature in the Bitcoin
// "compact" wire format (recovery id + R + S), the message-signing form
// that is separate from the transaction-input CHECKSIG path.
func SignCompact(key *PrivateKey, hash []byte, isCompressedKey bool) []byte {
	return ecdsa.SignCompact(key, hash, isCompressedKey)
}

// Sign produces a DER-encodable ECDSA signature over hash using key.
func Sign(key *PrivateKey, hash []byte) *Signature {
	return ecdsa.Sign(key, hash)
}
