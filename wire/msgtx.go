// Copyright (c) 2013 Conformal Systems LLC.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkt-cash/scriptforge/chaincfg/chainhash"
)

// TxVersion is the current latest supported transaction version.
const TxVersion = 1

// MaxTxInSequenceNum is the maximum sequence number the sequence field
// of a transaction input can be.
const MaxTxInSequenceNum uint32 = 0xffffffff

// defaultTxInOutAlloc is the default size used for the backing array for
// transaction inputs and outputs. The array will dynamically grow as needed,
// but this figure is intended to provide enough space for the number of
// inputs and outputs in a typical transaction without needing to grow the
// backing array multiple times.
const defaultTxInOutAlloc = 15

// OutPoint defines a data type used to track a previous transaction output
// being spent by a transaction input.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new transaction outpoint with the provided hash and
// index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{
		Hash:  *hash,
		Index: index,
	}
}

// TxIn defines a transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction input.
func (t *TxIn) SerializeSize() int {
	// Outpoint Hash 32 bytes + Outpoint Index 4 bytes + Sequence 4 bytes +
	// serialized varint size for the length of SignatureScript +
	// SignatureScript bytes.
	return 40 + VarIntSerializeSize(uint64(len(t.SignatureScript))) +
		len(t.SignatureScript)
}

// NewTxIn returns a new transaction input with the provided previous
// outpoint and signature script, with a default sequence of
// MaxTxInSequenceNum.
func NewTxIn(prevOut *OutPoint, signatureScript []byte) *TxIn {
	return &TxIn{
		PreviousOutPoint: *prevOut,
		SignatureScript:  signatureScript,
		Sequence:         MaxTxInSequenceNum,
	}
}

// TxOut defines a transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction output.
func (t *TxOut) SerializeSize() int {
	// Value 8 bytes + serialized varint size for the length of PkScript +
	// PkScript bytes.
	return 8 + VarIntSerializeSize(uint64(len(t.PkScript))) + len(t.PkScript)
}

// NewTxOut returns a new transaction output with the provided value and
// public key script.
func NewTxOut(value int64, pkScript []byte) *TxOut {
	return &TxOut{
		Value:    value,
		PkScript: pkScript,
	}
}

// MsgTx represents a transaction: a set of inputs spending previous outputs
// and a set of new outputs.
//
// Use the AddTxIn and AddTxOut functions to build up the list of transaction
// inputs and outputs.
type MsgTx struct {
	Version  int32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// AddTxIn adds a transaction input to the message.
func (msg *MsgTx) AddTxIn(ti *TxIn) {
	msg.TxIn = append(msg.TxIn, ti)
}

// AddTxOut adds a transaction output to the message.
func (msg *MsgTx) AddTxOut(to *TxOut) {
	msg.TxOut = append(msg.TxOut, to)
}

// TxHash generates the chainhash.Hash identifying the transaction, which is
// the double-SHA256 of its serialized form.
func (msg *MsgTx) TxHash() chainhash.Hash {
	var buf bytes.Buffer
	// The only way Serialize can fail here is running out of memory or a
	// nil pointer, both of which would panic rather than return an error.
	_ = msg.Serialize(&buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// Copy creates a deep copy of a transaction so that the original does not
// get modified when the copy is manipulated.
func (tx *MsgTx) Copy() *MsgTx {
	newTx := MsgTx{
		Version:  tx.Version,
		TxIn:     make([]*TxIn, 0, len(tx.TxIn)),
		TxOut:    make([]*TxOut, 0, len(tx.TxOut)),
		LockTime: tx.LockTime,
	}

	for _, oldTxIn := range tx.TxIn {
		newOutPoint := OutPoint{
			Hash:  oldTxIn.PreviousOutPoint.Hash,
			Index: oldTxIn.PreviousOutPoint.Index,
		}

		var newScript []byte
		if len(oldTxIn.SignatureScript) > 0 {
			newScript = make([]byte, len(oldTxIn.SignatureScript))
			copy(newScript, oldTxIn.SignatureScript)
		}

		newTx.TxIn = append(newTx.TxIn, &TxIn{
			PreviousOutPoint: newOutPoint,
			SignatureScript:  newScript,
			Sequence:         oldTxIn.Sequence,
		})
	}

	for _, oldTxOut := range tx.TxOut {
		var newScript []byte
		if len(oldTxOut.PkScript) > 0 {
			newScript = make([]byte, len(oldTxOut.PkScript))
			copy(newScript, oldTxOut.PkScript)
		}

		newTx.TxOut = append(newTx.TxOut, &TxOut{
			Value:    oldTxOut.Value,
			PkScript: newScript,
		})
	}

	return &newTx
}

// Deserialize decodes a transaction from r into the receiver. It is the
// inverse of Serialize.
func (msg *MsgTx) Deserialize(r io.Reader) error {
	var version int32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return err
	}
	msg.Version = version

	inCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	msg.TxIn = make([]*TxIn, 0, inCount)
	for i := uint64(0); i < inCount; i++ {
		ti := TxIn{}
		if err := readTxIn(r, &ti); err != nil {
			return err
		}
		msg.TxIn = append(msg.TxIn, &ti)
	}

	outCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	msg.TxOut = make([]*TxOut, 0, outCount)
	for i := uint64(0); i < outCount; i++ {
		to := TxOut{}
		if err := readTxOut(r, &to); err != nil {
			return err
		}
		msg.TxOut = append(msg.TxOut, &to)
	}

	return binary.Read(r, binary.LittleEndian, &msg.LockTime)
}

// Serialize encodes the transaction to w. Every transaction this package
// produces is a legacy (non-witness) transaction, so Serialize and
// SerializeNoWitness are equivalent; the latter name exists only so the
// signature-hash code can be explicit about which form it means.
func (msg *MsgTx) Serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, msg.Version); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := writeTxIn(w, ti); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := WriteTxOut(w, to); err != nil {
			return err
		}
	}

	return binary.Write(w, binary.LittleEndian, msg.LockTime)
}

// SerializeNoWitness is an alias of Serialize kept for parity with the
// signature-hash code, which is explicit about serializing the non-witness
// form of the transaction.
func (msg *MsgTx) SerializeNoWitness(w io.Writer) error {
	return msg.Serialize(w)
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction.
func (msg *MsgTx) SerializeSize() int {
	n := 8 + VarIntSerializeSize(uint64(len(msg.TxIn))) +
		VarIntSerializeSize(uint64(len(msg.TxOut)))

	for _, txIn := range msg.TxIn {
		n += txIn.SerializeSize()
	}

	for _, txOut := range msg.TxOut {
		n += txOut.SerializeSize()
	}

	return n
}

// SerializeSizeStripped is an alias of SerializeSize kept for parity with
// the signature-hash code.
func (msg *MsgTx) SerializeSizeStripped() int {
	return msg.SerializeSize()
}

// NewMsgTx returns a new transaction with a default version of TxVersion and
// no inputs or outputs. The lock time is set to zero to indicate the
// transaction is valid immediately.
func NewMsgTx() *MsgTx {
	return &MsgTx{
		Version: TxVersion,
		TxIn:    make([]*TxIn, 0, defaultTxInOutAlloc),
		TxOut:   make([]*TxOut, 0, defaultTxInOutAlloc),
	}
}

func readOutPoint(r io.Reader, op *OutPoint) error {
	if _, err := io.ReadFull(r, op.Hash[:]); err != nil {
		return err
	}
	return binary.Read(r, binary.LittleEndian, &op.Index)
}

func writeOutPoint(w io.Writer, op *OutPoint) error {
	if _, err := w.Write(op.Hash[:]); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, op.Index)
}

func readTxIn(r io.Reader, ti *TxIn) error {
	if err := readOutPoint(r, &ti.PreviousOutPoint); err != nil {
		return err
	}

	script, err := ReadVarBytes(r, 0x400000, "signature script")
	if err != nil {
		return err
	}
	ti.SignatureScript = script

	return binary.Read(r, binary.LittleEndian, &ti.Sequence)
}

func writeTxIn(w io.Writer, ti *TxIn) error {
	if err := writeOutPoint(w, &ti.PreviousOutPoint); err != nil {
		return err
	}
	if err := WriteVarBytes(w, ti.SignatureScript); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, ti.Sequence)
}

func readTxOut(r io.Reader, to *TxOut) error {
	if err := binary.Read(r, binary.LittleEndian, &to.Value); err != nil {
		return err
	}

	script, err := ReadVarBytes(r, 0x400000, "public key script")
	if err != nil {
		return err
	}
	to.PkScript = script

	return nil
}

// WriteTxOut encodes to in the wire format for a transaction output to w.
// MsgTx.Serialize calls it for each output.
func WriteTxOut(w io.Writer, to *TxOut) error {
	if err := binary.Write(w, binary.LittleEndian, to.Value); err != nil {
		return err
	}
	return WriteVarBytes(w, to.PkScript)
}
