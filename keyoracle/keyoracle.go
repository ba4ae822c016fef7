// Package keyoracle is the signing oracle the input signer delegates to: a
// synchronous, side-effect-free wrapper around the module's secp256k1
// implementation (github.com/pkt-cash/scriptforge/btcec, itself backed by
// decred's dcrec/secp256k1). It never touches a transaction or a script; it
// only turns private keys into signatures and public keys, the contract
// spec.md section 6 calls the "key oracle" collaborator.
package keyoracle

import (
	"github.com/pkt-cash/scriptforge/btcec"
	"github.com/pkt-cash/scriptforge/btcutil"
)

// Sign produces a DER-encoded ECDSA signature over a 32-byte digest, the
// shape every CHECKSIG subscript in this module hashes down to.
func Sign(priv *btcec.PrivateKey, digest []byte) []byte {
	return btcec.Sign(priv, digest).Serialize()
}

// PubkeyOf returns the compressed SEC-encoded public key for priv.
func PubkeyOf(priv *btcec.PrivateKey) []byte {
	return priv.PubKey().SerializeCompressed()
}

// Hash160Of returns HASH160(pubkey), the digest addresses and redeem-script
// pushes are built from.
func Hash160Of(pubkey []byte) []byte {
	return btcutil.Hash160(pubkey)
}
