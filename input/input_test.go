package input_test

import (
	"testing"

	"github.com/pkt-cash/scriptforge/btcec"
	"github.com/pkt-cash/scriptforge/btcutil"
	"github.com/pkt-cash/scriptforge/btcutil/util"
	"github.com/pkt-cash/scriptforge/chaincfg"
	"github.com/pkt-cash/scriptforge/input"
	"github.com/pkt-cash/scriptforge/keyoracle"
	"github.com/pkt-cash/scriptforge/txscript"
	"github.com/pkt-cash/scriptforge/txscript/opcode"
	"github.com/pkt-cash/scriptforge/txscript/params"
	"github.com/pkt-cash/scriptforge/txscript/scriptbuilder"
	"github.com/pkt-cash/scriptforge/wire"
	"github.com/stretchr/testify/require"
)

func newPrivKey(seed byte) *btcec.PrivateKey {
	b := make([]byte, 32)
	for i := range b {
		b[i] = seed
	}
	priv, _ := btcec.PrivKeyFromBytes(b)
	return priv
}

func newTx(prevScript []byte) (*wire.MsgTx, wire.OutPoint) {
	outpoint := wire.OutPoint{Index: 0}
	tx := wire.NewMsgTx()
	tx.AddTxIn(wire.NewTxIn(&outpoint, nil))
	tx.AddTxOut(wire.NewTxOut(5000, nil))
	return tx, outpoint
}

// Testable property 5: sign-then-verify for a freshly built P2PKH
// transaction, and flipping a bit of the signature flips the result.
func TestSignThenVerifyP2PKH(t *testing.T) {
	priv := newPrivKey(0x11)
	pub := keyoracle.PubkeyOf(priv)

	addr, err := btcutil.NewAddressPubKeyHash(keyoracle.Hash160Of(pub), &chaincfg.MainNetParams)
	util.RequireNoErr(t, err)
	prevScript, err := txscript.PayToAddrScript(addr)
	util.RequireNoErr(t, err)

	tx, outpoint := newTx(prevScript)

	in, err := input.Classify(outpoint, input.DefaultSequence, prevScript, nil)
	util.RequireNoErr(t, err)
	require.Equal(t, input.VariantAddress, in.Variant)
	require.True(t, in.CanSign([]*btcec.PrivateKey{priv}))

	finalScript, err := input.Sign(in, tx, 0, []*btcec.PrivateKey{priv}, params.SigHashAll)
	util.RequireNoErr(t, err)
	tx.TxIn[0].SignatureScript = finalScript

	vm, err := txscript.NewEngine(prevScript, tx, 0, txscript.StandardVerifyFlags, nil)
	util.RequireNoErr(t, err)
	util.RequireNoErr(t, vm.Execute())

	flipped := make([]byte, len(finalScript))
	copy(flipped, finalScript)
	flipped[4] ^= 0xff
	tx.TxIn[0].SignatureScript = flipped

	vm2, err := txscript.NewEngine(prevScript, tx, 0, txscript.StandardVerifyFlags, nil)
	if err != nil {
		return
	}
	require.NotNil(t, vm2.Execute())
}

func TestSignRejectsWrongKeyCount(t *testing.T) {
	priv := newPrivKey(0x22)
	other := newPrivKey(0x23)
	pub := keyoracle.PubkeyOf(priv)

	addr, err := btcutil.NewAddressPubKeyHash(keyoracle.Hash160Of(pub), &chaincfg.MainNetParams)
	util.RequireNoErr(t, err)
	prevScript, err := txscript.PayToAddrScript(addr)
	util.RequireNoErr(t, err)

	tx, outpoint := newTx(prevScript)
	in, err := input.Classify(outpoint, input.DefaultSequence, prevScript, nil)
	util.RequireNoErr(t, err)

	require.False(t, in.CanSign([]*btcec.PrivateKey{other}))
	_, err = input.Sign(in, tx, 0, []*btcec.PrivateKey{priv, other}, params.SigHashAll)
	require.True(t, input.ErrInvalidSignatureCount.Is(err))
}

// S7: a multisig 2-of-3 transaction signed with keys #1 and #3 verifies
// true; with #1 and a key not in the set, verifies false (CanSign rejects
// it before signing is even attempted).
func TestMultisig2of3(t *testing.T) {
	priv1 := newPrivKey(0x01)
	priv2 := newPrivKey(0x02)
	priv3 := newPrivKey(0x03)
	outsider := newPrivKey(0x99)

	addr1, err := btcutil.NewAddressPubKey(keyoracle.PubkeyOf(priv1), &chaincfg.MainNetParams)
	util.RequireNoErr(t, err)
	addr2, err := btcutil.NewAddressPubKey(keyoracle.PubkeyOf(priv2), &chaincfg.MainNetParams)
	util.RequireNoErr(t, err)
	addr3, err := btcutil.NewAddressPubKey(keyoracle.PubkeyOf(priv3), &chaincfg.MainNetParams)
	util.RequireNoErr(t, err)

	redeem, err := txscript.MultiSigScript(
		[]*btcutil.AddressPubKey{addr1, addr2, addr3}, 2)
	util.RequireNoErr(t, err)

	scriptHashAddr, err := btcutil.NewAddressScriptHash(redeem, &chaincfg.MainNetParams)
	util.RequireNoErr(t, err)
	prevScript, err := txscript.PayToAddrScript(scriptHashAddr)
	util.RequireNoErr(t, err)

	tx, outpoint := newTx(prevScript)
	in, err := input.Classify(outpoint, input.DefaultSequence, prevScript, redeem)
	util.RequireNoErr(t, err)
	require.Equal(t, input.VariantMultisig, in.Variant)

	require.True(t, in.CanSign([]*btcec.PrivateKey{priv1, priv3}))
	finalScript, err := input.Sign(in, tx, 0, []*btcec.PrivateKey{priv1, priv3}, params.SigHashAll)
	util.RequireNoErr(t, err)
	tx.TxIn[0].SignatureScript = finalScript

	vm, err := txscript.NewEngine(prevScript, tx, 0, txscript.StandardVerifyFlags, nil)
	util.RequireNoErr(t, err)
	util.RequireNoErr(t, vm.Execute())

	require.False(t, in.CanSign([]*btcec.PrivateKey{priv1, outsider}))
}

// A pay-to-script-hash input whose redeem script is not a multisig template
// classifies as VariantScript and is spent with however many signatures the
// caller declares the redeem script needs (one, here).
func TestScriptVariantSignThenVerify(t *testing.T) {
	priv := newPrivKey(0x55)
	pub := keyoracle.PubkeyOf(priv)

	redeem, err := scriptbuilder.NewScriptBuilder().
		AddData(pub).AddOp(opcode.OP_CHECKSIG).Script()
	util.RequireNoErr(t, err)

	scriptHashAddr, err := btcutil.NewAddressScriptHash(redeem, &chaincfg.MainNetParams)
	util.RequireNoErr(t, err)
	prevScript, err := txscript.PayToAddrScript(scriptHashAddr)
	util.RequireNoErr(t, err)

	tx, outpoint := newTx(prevScript)
	in, err := input.Classify(outpoint, input.DefaultSequence, prevScript, redeem)
	util.RequireNoErr(t, err)
	require.Equal(t, input.VariantScript, in.Variant)

	finalScript, err := input.Sign(in, tx, 0, []*btcec.PrivateKey{priv}, params.SigHashAll)
	util.RequireNoErr(t, err)
	tx.TxIn[0].SignatureScript = finalScript

	vm, err := txscript.NewEngine(prevScript, tx, 0, txscript.StandardVerifyFlags, nil)
	util.RequireNoErr(t, err)
	util.RequireNoErr(t, vm.Execute())
}

// A previous-output script that matches no known template classifies as
// Generic and always refuses to sign (spec.md section 9's resolution of
// the Input.create bug).
func TestGenericInputRefusesToSign(t *testing.T) {
	nullData, err := txscript.NullDataScript([]byte("not a spendable template"))
	util.RequireNoErr(t, err)

	tx, outpoint := newTx(nullData)
	in, err := input.Classify(outpoint, input.DefaultSequence, nullData, nil)
	util.RequireNoErr(t, err)
	require.Equal(t, input.VariantGeneric, in.Variant)

	priv := newPrivKey(0x66)
	_, err = input.Sign(in, tx, 0, []*btcec.PrivateKey{priv}, params.SigHashAll)
	require.True(t, input.ErrUnknownSignatureMethod.Is(err))
}
