// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2019 Caleb James DeLisle
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg defines the network parameters a script or address
// belongs to. It is trimmed to what address encoding and signature hashing
// need: the proof-of-work, checkpoint, and consensus-deployment machinery
// that the full node carries has no caller in this module.
package chaincfg

import (
	"strings"

	"github.com/pkt-cash/scriptforge/btcutil/er"
)

// Params defines a Bitcoin-style network by the parameters that affect
// address and key encoding.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Address encoding magics.
	PubKeyHashAddrID byte // First byte of a P2PKH address.
	ScriptHashAddrID byte // First byte of a P2SH address.
	PrivateKeyID     byte // First byte of a WIF private key.

	// BIP32 hierarchical deterministic extended key magics.
	HDPrivateKeyID [4]byte
	HDPublicKeyID  [4]byte

	// HDCoinType is the BIP44 coin type used in the hierarchical
	// deterministic path for address generation.
	HDCoinType uint32
}

// MainNetParams defines the network parameters for the main Bitcoin network.
var MainNetParams = Params{
	Name: "mainnet",

	PubKeyHashAddrID: 0x00,
	ScriptHashAddrID: 0x05,
	PrivateKeyID:     0x80,

	HDPrivateKeyID: [4]byte{0x04, 0x88, 0xad, 0xe4},
	HDPublicKeyID:  [4]byte{0x04, 0x88, 0xb2, 0x1e},
	HDCoinType:     0,
}

// RegressionNetParams defines the network parameters for the regression
// test network.
var RegressionNetParams = Params{
	Name: "regtest",

	PubKeyHashAddrID: 0x6f,
	ScriptHashAddrID: 0xc4,
	PrivateKeyID:     0xef,

	HDPrivateKeyID: [4]byte{0x04, 0x35, 0x83, 0x94},
	HDPublicKeyID:  [4]byte{0x04, 0x35, 0x87, 0xcf},
	HDCoinType:     1,
}

// TestNet3Params defines the network parameters for the test network
// (version 3).
var TestNet3Params = Params{
	Name: "testnet3",

	PubKeyHashAddrID: 0x6f,
	ScriptHashAddrID: 0xc4,
	PrivateKeyID:     0xef,

	HDPrivateKeyID: [4]byte{0x04, 0x35, 0x83, 0x94},
	HDPublicKeyID:  [4]byte{0x04, 0x35, 0x87, 0xcf},
	HDCoinType:     1,
}

// SimNetParams defines the network parameters for the simulation test
// network.
var SimNetParams = Params{
	Name: "simnet",

	PubKeyHashAddrID: 0x3f,
	ScriptHashAddrID: 0x7b,
	PrivateKeyID:     0x64,

	HDPrivateKeyID: [4]byte{0x04, 0x20, 0xb9, 0x00},
	HDPublicKeyID:  [4]byte{0x04, 0x20, 0xbd, 0x3a},
	HDCoinType:     115,
}

var (
	registeredNets       = make(map[string]*Params)
	pubKeyHashAddrIDs    = make(map[byte]struct{})
	scriptHashAddrIDs    = make(map[byte]struct{})
)

// Register registers the network parameters for a Bitcoin network.  It
// returns an error if a network with the same name is already registered
// (either due to a previous Register call, or the network being one of the
// default networks).
func Register(params *Params) er.R {
	if _, ok := registeredNets[params.Name]; ok {
		return er.Errorf("network %s is already registered", params.Name)
	}
	registeredNets[params.Name] = params
	pubKeyHashAddrIDs[params.PubKeyHashAddrID] = struct{}{}
	scriptHashAddrIDs[params.ScriptHashAddrID] = struct{}{}
	return nil
}

// IsPubKeyHashAddrID returns whether the id is an identifier known to prefix
// a pay-to-pubkey-hash address on any registered network.
func IsPubKeyHashAddrID(id byte) bool {
	_, ok := pubKeyHashAddrIDs[id]
	return ok
}

// IsScriptHashAddrID returns whether the id is an identifier known to prefix
// a pay-to-script-hash address on any registered network.
func IsScriptHashAddrID(id byte) bool {
	_, ok := scriptHashAddrIDs[id]
	return ok
}

func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.String())
	}
}

// ParamsByName returns the registered network parameters matching name,
// case-insensitively, or nil if none match.
func ParamsByName(name string) *Params {
	for n, p := range registeredNets {
		if strings.EqualFold(n, name) {
			return p
		}
	}
	return nil
}

func init() {
	mustRegister(&MainNetParams)
	mustRegister(&RegressionNetParams)
	mustRegister(&TestNet3Params)
	mustRegister(&SimNetParams)
}
