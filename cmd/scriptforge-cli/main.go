// Command scriptforge-cli is a small command-line front end over the
// scriptforge packages: it classifies a previous output script, signs an
// input against it, or replays a (scriptSig, scriptPubKey) pair through the
// interpreter and reports whether it verifies. It follows the shape of the
// teacher's own single-purpose cmd/checksig tool, grown into a handful of
// go-flags subcommands.
package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/pkt-cash/scriptforge/btcec"
	"github.com/pkt-cash/scriptforge/chaincfg"
	"github.com/pkt-cash/scriptforge/input"
	"github.com/pkt-cash/scriptforge/pktconfig/version"
	"github.com/pkt-cash/scriptforge/txscript"
	"github.com/pkt-cash/scriptforge/txscript/params"
	"github.com/pkt-cash/scriptforge/wire"
)

type options struct{}

var opts options

func decodeHex(name, s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: invalid hex: %v\n", name, err)
		os.Exit(1)
	}
	return b
}

func netByName(name string) *chaincfg.Params {
	p := chaincfg.ParamsByName(name)
	if p == nil {
		fmt.Fprintf(os.Stderr, "unknown network %q\n", name)
		os.Exit(1)
	}
	return p
}

type classifyCmd struct {
	Args struct {
		PrevScript   string `positional-arg-name:"prev-script-hex"`
		RedeemScript string `positional-arg-name:"redeem-script-hex"`
	} `positional-args:"yes"`
}

func (c *classifyCmd) Execute(args []string) error {
	prevScript := decodeHex("prev-script", c.Args.PrevScript)
	var redeem []byte
	if c.Args.RedeemScript != "" {
		redeem = decodeHex("redeem-script", c.Args.RedeemScript)
	}

	in, err := input.Classify(wire.OutPoint{}, input.DefaultSequence, prevScript, redeem)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.String())
		os.Exit(1)
	}

	names := map[input.Variant]string{
		input.VariantAddress:  "address",
		input.VariantScript:   "script",
		input.VariantMultisig: "multisig",
		input.VariantGeneric:  "generic",
	}
	fmt.Println(names[in.Variant])
	return nil
}

type signCmd struct {
	Network string `short:"n" long:"network" default:"mainnet" description:"network name; checked against the registered networks, not otherwise used"`
	SigHash uint32 `short:"t" long:"sighash" default:"1" description:"sighash type (1=ALL, 2=NONE, 3=SINGLE, +0x80 for ANYONECANPAY)"`

	Args struct {
		PrevScript   string   `positional-arg-name:"prev-script-hex"`
		RedeemScript string   `positional-arg-name:"redeem-script-hex"`
		PrivKeysHex  []string `positional-arg-name:"priv-key-hex..."`
	} `positional-args:"yes"`
}

func (c *signCmd) Execute(args []string) error {
	_ = netByName(c.Network)
	prevScript := decodeHex("prev-script", c.Args.PrevScript)
	var redeem []byte
	if c.Args.RedeemScript != "" {
		redeem = decodeHex("redeem-script", c.Args.RedeemScript)
	}

	in, err := input.Classify(wire.OutPoint{}, input.DefaultSequence, prevScript, redeem)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.String())
		os.Exit(1)
	}

	privs := make([]*btcec.PrivateKey, 0, len(c.Args.PrivKeysHex))
	for _, h := range c.Args.PrivKeysHex {
		priv, _ := btcec.PrivKeyFromBytes(decodeHex("priv-key", h))
		privs = append(privs, priv)
	}

	tx := wire.NewMsgTx()
	tx.AddTxIn(in.TxIn(nil))
	tx.AddTxOut(wire.NewTxOut(0, nil))

	finalScript, serr := input.Sign(in, tx, 0, privs, params.SigHashType(c.SigHash))
	if serr != nil {
		fmt.Fprintln(os.Stderr, serr.String())
		os.Exit(1)
	}
	fmt.Println(hex.EncodeToString(finalScript))
	return nil
}

type verifyCmd struct {
	Args struct {
		ScriptSig    string `positional-arg-name:"script-sig-hex"`
		ScriptPubKey string `positional-arg-name:"script-pubkey-hex"`
	} `positional-args:"yes"`
}

func (c *verifyCmd) Execute(args []string) error {
	scriptSig := decodeHex("script-sig", c.Args.ScriptSig)
	scriptPubKey := decodeHex("script-pubkey", c.Args.ScriptPubKey)

	tx := wire.NewMsgTx()
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{}, scriptSig))
	tx.AddTxOut(wire.NewTxOut(0, nil))

	vm, verr := txscript.NewEngine(scriptPubKey, tx, 0, txscript.StandardVerifyFlags, nil)
	if verr != nil {
		fmt.Println("INVALID:", verr.String())
		os.Exit(1)
	}
	if xerr := vm.Execute(); xerr != nil {
		fmt.Println("INVALID:", xerr.String())
		os.Exit(1)
	}
	fmt.Println("OK")
	return nil
}

type decodeTxCmd struct {
	Args struct {
		RawTxHex string `positional-arg-name:"raw-tx-hex"`
	} `positional-args:"yes"`
}

func (c *decodeTxCmd) Execute(args []string) error {
	raw := decodeHex("raw-tx", c.Args.RawTxHex)
	tx := wire.NewMsgTx()
	if errr := tx.Deserialize(bytes.NewReader(raw)); errr != nil {
		fmt.Fprintf(os.Stderr, "failed to deserialize transaction: %v\n", errr)
		os.Exit(1)
	}
	fmt.Printf("version=%d locktime=%d inputs=%d outputs=%d\n",
		tx.Version, tx.LockTime, len(tx.TxIn), len(tx.TxOut))
	for i, in := range tx.TxIn {
		fmt.Printf("  in[%d] %s:%d sig=%s\n", i,
			in.PreviousOutPoint.Hash.String(), in.PreviousOutPoint.Index,
			hex.EncodeToString(in.SignatureScript))
	}
	for i, out := range tx.TxOut {
		fmt.Printf("  out[%d] value=%d script=%s\n", i, out.Value, hex.EncodeToString(out.PkScript))
	}
	return nil
}

func main() {
	version.SetUserAgentName("scriptforge-cli")

	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.AddCommand("classify", "Classify a previous output script",
		"Report which spending template a previous output script (and optional redeem script) matches.",
		&classifyCmd{}); err != nil {
		panic(err)
	}
	if _, err := parser.AddCommand("sign", "Sign an input",
		"Classify a previous output, sign it with the given private keys, and print the resulting scriptSig.",
		&signCmd{}); err != nil {
		panic(err)
	}
	if _, err := parser.AddCommand("verify", "Verify a scriptSig against a scriptPubKey",
		"Run a scriptSig and scriptPubKey pair through the interpreter under the standard verification flags.",
		&verifyCmd{}); err != nil {
		panic(err)
	}
	if _, err := parser.AddCommand("decode-tx", "Decode a raw transaction",
		"Deserialize a raw transaction and print its inputs and outputs.",
		&decodeTxCmd{}); err != nil {
		panic(err)
	}

	if _, err := parser.Parse(); err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
			os.Exit(1)
		}
		return
	}
}
