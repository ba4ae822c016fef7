// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcutil

import (
	"github.com/pkt-cash/scriptforge/btcec"
	"github.com/pkt-cash/scriptforge/btcutil/base58"
	"github.com/pkt-cash/scriptforge/btcutil/er"
	"github.com/pkt-cash/scriptforge/chaincfg"
)

// ErrAddress is the error type returned for malformed addresses and keys.
var ErrAddress = er.NewErrorType("btcutil.ErrAddress")

var (
	ErrChecksumMismatch      = ErrAddress.Code("ErrChecksumMismatch")
	ErrUnknownAddressType    = ErrAddress.Code("ErrUnknownAddressType")
	ErrMalformedAddress      = ErrAddress.Code("ErrMalformedAddress")
	ErrMalformedPrivateKey   = ErrAddress.Code("ErrMalformedPrivateKey")
)

// Address is an interface type for any type of destination a transaction
// output may be spent to. It includes standard pay-to-pubkey-hash (P2PKH),
// pay-to-script-hash (P2SH), and pay-to-pubkey (P2PK), but excludes SegWit
// and Taproot output types.
type Address interface {
	// String returns the string encoding of the transaction output
	// destination.
	//
	// Please note that String differs subtly from EncodeAddress: String
	// will return the value as a string regardless of whether the
	// address is valid for the current network.
	String() string

	// EncodeAddress returns the string encoding of the payment address
	// associated with the Address value. See the comment on String
	// for how this method differs from String.
	EncodeAddress() string

	// ScriptAddress returns the raw bytes of the address to be used
	// when inserting the address into a txout's script.
	ScriptAddress() []byte

	// IsForNet returns whether the address is associated with the
	// passed network.
	IsForNet(*chaincfg.Params) bool
}

// IsNilAddress reports whether addr is a nil interface or a typed nil
// pointer, which PayToAddrScript treats as an error rather than panicking
// on a nil pointer dereference deeper in the switch.
func IsNilAddress(addr Address) bool {
	if addr == nil {
		return true
	}
	switch a := addr.(type) {
	case *AddressPubKeyHash:
		return a == nil
	case *AddressScriptHash:
		return a == nil
	case *AddressPubKey:
		return a == nil
	case *AddressNonStandard:
		return a == nil
	}
	return false
}

// encodeAddress returns a human readable payment address given a ripemd160
// hash and netID which encodes the bitcoin network and address type.
func encodeAddress(hash160 []byte, netID byte) string {
	return base58.CheckEncode(hash160, netID)
}

// DecodeAddress decodes the string encoding of an address and returns the
// Address if it is a valid encoding for a known address type on net. The
// leading version byte (checked against net's registered P2PKH and P2SH
// identifiers) selects which concrete Address type is returned; a pay-to-
// pubkey address has no distinct base58 encoding of its own and is always
// recovered as an AddressPubKeyHash.
func DecodeAddress(addr string, net *chaincfg.Params) (Address, er.R) {
	decoded, netID, err := base58.CheckDecode(addr)
	if err != nil {
		if err == base58.ErrChecksum {
			return nil, ErrChecksumMismatch.Default()
		}
		return nil, ErrMalformedAddress.New("decoded address is of unknown format", er.E(err))
	}

	switch {
	case netID == net.PubKeyHashAddrID && len(decoded) == Hash160Size:
		return newAddressPubKeyHash(decoded, netID)
	case netID == net.ScriptHashAddrID && len(decoded) == Hash160Size:
		return newAddressScriptHashFromHash(decoded, netID)
	default:
		return nil, ErrUnknownAddressType.Default()
	}
}

// AddressPubKeyHash is an Address for a pay-to-pubkey-hash (P2PKH)
// transaction.
type AddressPubKeyHash struct {
	hash  [Hash160Size]byte
	netID byte
}

// NewAddressPubKeyHash returns a new AddressPubKeyHash. pkHash must be
// 20 bytes.
func NewAddressPubKeyHash(pkHash []byte, net *chaincfg.Params) (*AddressPubKeyHash, er.R) {
	return newAddressPubKeyHash(pkHash, net.PubKeyHashAddrID)
}

func newAddressPubKeyHash(pkHash []byte, netID byte) (*AddressPubKeyHash, er.R) {
	if len(pkHash) != Hash160Size {
		return nil, ErrMalformedAddress.New("pkHash must be 20 bytes", nil)
	}

	addr := &AddressPubKeyHash{netID: netID}
	copy(addr.hash[:], pkHash)
	return addr, nil
}

// EncodeAddress returns the string encoding of a pay-to-pubkey-hash
// address.
func (a *AddressPubKeyHash) EncodeAddress() string {
	return encodeAddress(a.hash[:], a.netID)
}

// ScriptAddress returns the bytes to be included in a txout script to pay
// to this address.
func (a *AddressPubKeyHash) ScriptAddress() []byte {
	return a.hash[:]
}

// IsForNet returns whether the pay-to-pubkey-hash address is associated
// with the passed bitcoin network.
func (a *AddressPubKeyHash) IsForNet(net *chaincfg.Params) bool {
	return a.netID == net.PubKeyHashAddrID
}

// String returns a human-readable string for the pay-to-pubkey-hash
// address.
func (a *AddressPubKeyHash) String() string {
	return a.EncodeAddress()
}

// Hash160 returns the underlying array of the pubkey hash.
func (a *AddressPubKeyHash) Hash160() *[Hash160Size]byte {
	return &a.hash
}

// AddressScriptHash is an Address for a pay-to-script-hash (P2SH)
// transaction.
type AddressScriptHash struct {
	hash  [Hash160Size]byte
	netID byte
}

// NewAddressScriptHash returns a new AddressScriptHash computed from the
// passed serialized redeem script.
func NewAddressScriptHash(serializedScript []byte, net *chaincfg.Params) (*AddressScriptHash, er.R) {
	scriptHash := Hash160(serializedScript)
	return newAddressScriptHashFromHash(scriptHash, net.ScriptHashAddrID)
}

// NewAddressScriptHashFromHash returns a new AddressScriptHash from an
// already-computed script hash.
func NewAddressScriptHashFromHash(scriptHash []byte, net *chaincfg.Params) (*AddressScriptHash, er.R) {
	return newAddressScriptHashFromHash(scriptHash, net.ScriptHashAddrID)
}

func newAddressScriptHashFromHash(scriptHash []byte, netID byte) (*AddressScriptHash, er.R) {
	if len(scriptHash) != Hash160Size {
		return nil, ErrMalformedAddress.New("scriptHash must be 20 bytes", nil)
	}

	addr := &AddressScriptHash{netID: netID}
	copy(addr.hash[:], scriptHash)
	return addr, nil
}

// EncodeAddress returns the string encoding of a pay-to-script-hash
// address.
func (a *AddressScriptHash) EncodeAddress() string {
	return encodeAddress(a.hash[:], a.netID)
}

// ScriptAddress returns the bytes to be included in a txout script to pay
// to this address.
func (a *AddressScriptHash) ScriptAddress() []byte {
	return a.hash[:]
}

// IsForNet returns whether the pay-to-script-hash address is associated
// with the passed bitcoin network.
func (a *AddressScriptHash) IsForNet(net *chaincfg.Params) bool {
	return a.netID == net.ScriptHashAddrID
}

// String returns a human-readable string for the pay-to-script-hash
// address.
func (a *AddressScriptHash) String() string {
	return a.EncodeAddress()
}

// Hash160 returns the underlying array of the script hash.
func (a *AddressScriptHash) Hash160() *[Hash160Size]byte {
	return &a.hash
}

// PubKeyFormat describes how a pay-to-pubkey address's public key is
// serialized and hashed.
type PubKeyFormat int

const (
	PKFUncompressed PubKeyFormat = iota
	PKFCompressed
	PKFHybrid
)

// AddressPubKey is an Address for a pay-to-pubkey (P2PK) transaction.
type AddressPubKey struct {
	pubKeyFormat PubKeyFormat
	pubKey       *btcec.PublicKey
	pubKeyBytes  []byte
	pubKeyHashID byte
}

// NewAddressPubKey returns a new AddressPubKey which represents a pay-to-
// pubkey address, parsed from a serialized (compressed, uncompressed, or
// hybrid) public key. The original encoding is preserved verbatim in
// ScriptAddress rather than re-derived, since the hybrid format (0x06/0x07)
// that appears in old scripts has no re-serialization method on the curve
// point itself.
func NewAddressPubKey(serializedPubKey []byte, net *chaincfg.Params) (*AddressPubKey, er.R) {
	pubKey, err := btcec.ParsePubKey(serializedPubKey, btcec.S256())
	if err != nil {
		return nil, ErrMalformedAddress.New("invalid public key", er.E(err))
	}

	pkFormat := PKFUncompressed
	if len(serializedPubKey) > 0 {
		switch serializedPubKey[0] {
		case 0x02, 0x03:
			pkFormat = PKFCompressed
		case 0x06, 0x07:
			pkFormat = PKFHybrid
		}
	}

	raw := make([]byte, len(serializedPubKey))
	copy(raw, serializedPubKey)

	return &AddressPubKey{
		pubKeyFormat: pkFormat,
		pubKey:       pubKey,
		pubKeyBytes:  raw,
		pubKeyHashID: net.PubKeyHashAddrID,
	}, nil
}

// serialize returns the serialization of the public key according to the
// format associated with the address.
func (a *AddressPubKey) serialize() []byte {
	return a.pubKeyBytes
}

// PubKey returns the underlying public key for the address.
func (a *AddressPubKey) PubKey() *btcec.PublicKey {
	return a.pubKey
}

// ScriptAddress returns the bytes to be included in a txout script to pay
// to this address: the serialized public key.
func (a *AddressPubKey) ScriptAddress() []byte {
	return a.serialize()
}

// IsForNet returns whether the pay-to-pubkey address is associated with
// the passed bitcoin network.
func (a *AddressPubKey) IsForNet(net *chaincfg.Params) bool {
	return a.pubKeyHashID == net.PubKeyHashAddrID
}

// AddressPubKeyHash returns the pay-to-pubkey-hash address derived from
// the public key.
func (a *AddressPubKey) AddressPubKeyHash() *AddressPubKeyHash {
	addr, _ := newAddressPubKeyHash(Hash160(a.serialize()), a.pubKeyHashID)
	return addr
}

// EncodeAddress returns the string encoding of the public key as a
// pay-to-pubkey-hash address -- the standard way a P2PK address is shown,
// since bare pubkey scripts have no canonical address form of their own.
func (a *AddressPubKey) EncodeAddress() string {
	return a.AddressPubKeyHash().EncodeAddress()
}

// String returns the hex-encoded serialized public key.
func (a *AddressPubKey) String() string {
	return hexEncode(a.serialize())
}

// AddressNonStandard is a fallback Address wrapping a pkScript that this
// library could not reduce to a single standard address and required
// signature count -- it round-trips the script unchanged rather than
// failing outright. This resolves the classifier's dispatch gap the same
// way the signer's input classifier resolves an unrecognized previous
// output script: fall through to a generic, unsigned variant rather than
// reject it.
type AddressNonStandard struct {
	script []byte
}

// NewAddressNonStandard returns an AddressNonStandard wrapping script.
func NewAddressNonStandard(script []byte) *AddressNonStandard {
	cp := make([]byte, len(script))
	copy(cp, script)
	return &AddressNonStandard{script: cp}
}

// ScriptAddress returns the wrapped script verbatim.
func (a *AddressNonStandard) ScriptAddress() []byte {
	return a.script
}

// IsForNet always returns true: a raw script carries no network tag of its
// own.
func (a *AddressNonStandard) IsForNet(*chaincfg.Params) bool {
	return true
}

// EncodeAddress returns the hex encoding of the wrapped script.
func (a *AddressNonStandard) EncodeAddress() string {
	return hexEncode(a.script)
}

// String returns the hex encoding of the wrapped script.
func (a *AddressNonStandard) String() string {
	return a.EncodeAddress()
}

func hexEncode(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexdigits[c>>4]
		out[i*2+1] = hexdigits[c&0x0f]
	}
	return string(out)
}
