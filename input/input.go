// Package input implements the transaction-input classifier and signer:
// given a previous output's script (and, for P2SH, the redeem script it
// commits to), it decides which of the standard spending templates applies
// and knows how to produce the placeholder script used while building a
// signature hash and the final spending script once signatures are in hand.
//
// This is a fresh translation of original_source/bitforge/transaction/
// input.py's tagged-variant design (AddressInput/ScriptInput/MultisigInput)
// into Go's idiom: one Input struct carrying a Variant tag and dispatching
// on it via a switch on that tag, rather than a class hierarchy.
package input

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/pkt-cash/scriptforge/btcec"
	"github.com/pkt-cash/scriptforge/btcutil/er"
	"github.com/pkt-cash/scriptforge/keyoracle"
	"github.com/pkt-cash/scriptforge/txscript"
	"github.com/pkt-cash/scriptforge/txscript/opcode"
	"github.com/pkt-cash/scriptforge/txscript/params"
	"github.com/pkt-cash/scriptforge/txscript/scriptbuilder"
	"github.com/pkt-cash/scriptforge/wire"
)

// Variant identifies which of the standard spending templates an Input was
// classified as.
type Variant int

const (
	// VariantAddress is a pay-to-pubkey-hash previous output, spent with a
	// single signature and the matching public key.
	VariantAddress Variant = iota

	// VariantScript is a pay-to-script-hash previous output whose redeem
	// script is not a standard multisig template: it is spent by pushing
	// whatever signatures the redeem script demands ahead of the
	// serialized redeem script itself.
	VariantScript

	// VariantMultisig is a pay-to-script-hash previous output whose
	// redeem script is the standard `m <pubkeys...> n CHECKMULTISIG`
	// template.
	VariantMultisig

	// VariantGeneric is any previous-output script that does not match a
	// known template. Per spec.md section 9's resolution of the source's
	// Input.create bug, a Generic input always refuses to sign.
	VariantGeneric
)

// Input is a transaction input paired with enough information about the
// output it spends to classify it and, given private keys, sign it.
type Input struct {
	PrevOut  wire.OutPoint
	Sequence uint32

	Variant Variant

	// placeholder is the script that occupies this input's position while
	// the signature-hash preimage is built: the P2PKH output script for
	// VariantAddress, the raw redeem script for VariantScript and
	// VariantMultisig. Empty for VariantGeneric.
	placeholder []byte

	// addressHash is the 20-byte HASH160 a VariantAddress input's single
	// signing key must match.
	addressHash []byte

	// requiredSigs is the number of signatures Sign requires: always 1
	// for VariantAddress, m for VariantMultisig, and caller-declared (via
	// NewScriptInput) for VariantScript.
	requiredSigs int

	// pubkeys is the ordered list of public keys pushed in a
	// VariantMultisig redeem script, in the order CHECKMULTISIG will
	// walk them.
	pubkeys [][]byte
}

// DefaultSequence is the final sequence number used unless a caller
// overrides it, matching spec.md's 0xFFFFFFFF default.
const DefaultSequence uint32 = 0xFFFFFFFF

// Classify inspects prevOutScript (the script of the output this input
// spends) and, for a pay-to-script-hash output, redeemScript (the script it
// commits to) and builds the Input accordingly. redeemScript is ignored
// when prevOutScript is not P2SH.
//
// Per spec.md section 9's Open Question (a): a prevOutScript that is
// neither P2PKH nor P2SH, or a P2SH output with no redeemScript supplied,
// classifies to VariantGeneric and Sign on it always fails.
func Classify(prevOut wire.OutPoint, sequence uint32, prevOutScript, redeemScript []byte) (*Input, er.R) {
	in := &Input{PrevOut: prevOut, Sequence: sequence}

	switch txscript.GetScriptClass(prevOutScript) {
	case txscript.PubKeyHashTy:
		hash, err := pubKeyHashFromScript(prevOutScript)
		if err != nil {
			return nil, err
		}
		in.Variant = VariantAddress
		in.placeholder = prevOutScript
		in.addressHash = hash
		in.requiredSigs = 1
		return in, nil

	case txscript.ScriptHashTy:
		if len(redeemScript) == 0 {
			in.Variant = VariantGeneric
			return in, nil
		}
		scriptHash, err := scriptHashFromScript(prevOutScript)
		if err != nil {
			return nil, err
		}
		redeemHash := keyoracle.Hash160Of(redeemScript)
		if !bytes.Equal(redeemHash, scriptHash) {
			return nil, ErrInvalidScript.New(
				"redeem script does not match the pay-to-script-hash output", nil)
		}

		if txscript.GetScriptClass(redeemScript) == txscript.MultiSigTy {
			pubkeys, perr := txscript.PushedData(redeemScript)
			if perr != nil {
				return nil, ErrInvalidScript.New("malformed multisig redeem script", perr)
			}
			_, numSigs, merr := txscript.CalcMultiSigStats(redeemScript)
			if merr != nil {
				return nil, merr
			}
			in.Variant = VariantMultisig
			in.placeholder = redeemScript
			in.requiredSigs = numSigs
			in.pubkeys = pubkeys
			return in, nil
		}

		in.Variant = VariantScript
		in.placeholder = redeemScript
		in.requiredSigs = 1
		return in, nil

	default:
		in.Variant = VariantGeneric
		return in, nil
	}
}

// NewScriptInput builds a VariantScript input directly, for redeem scripts
// the caller already knows are not a multisig template and that need a
// signature count other than the default of one.
func NewScriptInput(prevOut wire.OutPoint, sequence uint32, redeemScript []byte, requiredSigs int) *Input {
	return &Input{
		PrevOut:      prevOut,
		Sequence:     sequence,
		Variant:      VariantScript,
		placeholder:  redeemScript,
		requiredSigs: requiredSigs,
	}
}

// PlaceholderScript returns the script that should occupy this input while
// the signature hash is computed.
func (in *Input) PlaceholderScript() []byte {
	return in.placeholder
}

// TxIn returns the wire.TxIn for this input carrying the given script
// (either the placeholder, while building a preimage, or the final
// spending script, once signed).
func (in *Input) TxIn(script []byte) *wire.TxIn {
	return &wire.TxIn{
		PreviousOutPoint: in.PrevOut,
		SignatureScript:  script,
		Sequence:         in.Sequence,
	}
}

// CanSign reports whether privs is exactly the set of private keys needed
// to produce a valid spend for this input.
func (in *Input) CanSign(privs []*btcec.PrivateKey) bool {
	switch in.Variant {
	case VariantAddress:
		if len(privs) != 1 {
			return false
		}
		pub := keyoracle.PubkeyOf(privs[0])
		return bytes.Equal(keyoracle.Hash160Of(pub), in.addressHash)

	case VariantMultisig:
		if len(privs) != in.requiredSigs {
			return false
		}
		for _, priv := range privs {
			if in.pubkeyIndex(keyoracle.PubkeyOf(priv)) < 0 {
				return false
			}
		}
		return true

	case VariantScript:
		return len(privs) == in.requiredSigs

	default:
		return false
	}
}

// pubkeyIndex returns the position of pub within the redeem script's pubkey
// list, or -1 if it is not present.
func (in *Input) pubkeyIndex(pub []byte) int {
	for i, rp := range in.pubkeys {
		if bytes.Equal(rp, pub) {
			return i
		}
	}
	return -1
}

// Assemble builds the final spending script from signatures already paired
// with the pubkeys that produced them. sigs[i] must be the DER-encoded
// signature (with the sighash-type byte already appended) produced by
// pubkeys[i]. For VariantMultisig the pairs are reordered internally to
// match the redeem script's pubkey order, since CHECKMULTISIG requires
// signatures to appear in the same relative order as their pubkeys.
func (in *Input) Assemble(sigs, pubkeys [][]byte) ([]byte, er.R) {
	switch in.Variant {
	case VariantAddress:
		if len(sigs) != 1 || len(pubkeys) != 1 {
			return nil, ErrInvalidSignatureCount.New(
				"address input takes exactly one signature and one pubkey", nil)
		}
		return scriptbuilder.NewScriptBuilder().
			AddData(sigs[0]).AddData(pubkeys[0]).Script()

	case VariantScript:
		b := scriptbuilder.NewScriptBuilder()
		for _, sig := range sigs {
			b.AddData(sig)
		}
		b.AddData(in.placeholder)
		return b.Script()

	case VariantMultisig:
		if len(sigs) != len(pubkeys) {
			return nil, ErrInvalidSignatureCount.New(
				"multisig assemble requires one pubkey per signature", nil)
		}
		type pair struct {
			pos int
			sig []byte
		}
		ordered := make([]pair, 0, len(sigs))
		for i, pub := range pubkeys {
			pos := in.pubkeyIndex(pub)
			if pos < 0 {
				return nil, ErrInvalidScript.New(
					"pubkey is not a member of the redeem script", nil)
			}
			ordered = append(ordered, pair{pos, sigs[i]})
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].pos < ordered[j].pos })

		// The leading OP_0 works around the historical off-by-one bug
		// in OP_CHECKMULTISIG, which pops one extra stack item.
		b := scriptbuilder.NewScriptBuilder().AddOp(opcode.OP_0)
		for _, o := range ordered {
			b.AddData(o.sig)
		}
		b.AddData(in.placeholder)
		return b.Script()

	default:
		return nil, ErrUnknownSignatureMethod.New(
			"generic input has no known assembly method", nil)
	}
}

// Sign computes the signature-hash preimage for this input within tx at
// txIdx, signs it with each of privs via the key oracle, and assembles the
// final spending script. The sighash-type byte is appended to every
// signature. len(privs) must match exactly what this input's variant
// requires, or ErrInvalidSignatureCount is returned; a VariantGeneric input
// always fails with ErrUnknownSignatureMethod.
func Sign(in *Input, tx *wire.MsgTx, txIdx int, privs []*btcec.PrivateKey, hashType params.SigHashType) ([]byte, er.R) {
	if in.Variant == VariantGeneric {
		return nil, ErrUnknownSignatureMethod.New(
			"previous output does not match a known spending template", nil)
	}
	if len(privs) != in.requiredSigs {
		return nil, ErrInvalidSignatureCount.New(
			fmt.Sprintf("this input requires exactly %d signature(s), got %d",
				in.requiredSigs, len(privs)), nil)
	}

	digest, err := txscript.CalcSignatureHash(in.placeholder, hashType, tx, txIdx)
	if err != nil {
		return nil, err
	}

	sigs := make([][]byte, len(privs))
	pubkeys := make([][]byte, len(privs))
	for i, priv := range privs {
		sig := keyoracle.Sign(priv, digest)
		sigs[i] = append(sig, byte(hashType))
		pubkeys[i] = keyoracle.PubkeyOf(priv)
	}

	return in.Assemble(sigs, pubkeys)
}

// pubKeyHashFromScript extracts the 20-byte hash from a P2PKH output script
// already known (by txscript.GetScriptClass) to match that template.
func pubKeyHashFromScript(script []byte) ([]byte, er.R) {
	data, err := txscript.PushedData(script)
	if err != nil || len(data) != 1 || len(data[0]) != 20 {
		return nil, ErrInvalidPush.New("malformed pay-to-pubkey-hash output script", nil)
	}
	return data[0], nil
}

// scriptHashFromScript extracts the 20-byte hash from a P2SH output script
// already known (by txscript.GetScriptClass) to match that template.
func scriptHashFromScript(script []byte) ([]byte, er.R) {
	data, err := txscript.PushedData(script)
	if err != nil || len(data) != 1 || len(data[0]) != 20 {
		return nil, ErrInvalidPush.New("malformed pay-to-script-hash output script", nil)
	}
	return data[0], nil
}
