// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package scriptbuilder provides a facility for building custom scripts. It
// allows for users to push data while respecting canonical encodes.
package scriptbuilder

import (
	"github.com/pkt-cash/scriptforge/btcutil/er"
	"github.com/pkt-cash/scriptforge/txscript/opcode"
	"github.com/pkt-cash/scriptforge/txscript/params"
	"github.com/pkt-cash/scriptforge/txscript/scriptnum"
	"github.com/pkt-cash/scriptforge/txscript/txscripterr"
)

// defaultScriptAlloc is the default size used for the backing array for a
// script being built by the ScriptBuilder. The array will be reallocated
// once the builder's script surpasses this size.
const defaultScriptAlloc = 500

// ScriptBuilder provides a facility for building custom scripts. It allows
// you to push opcodes, ints, and data while respecting canonical encoding.
// In general it does not ensure the script will execute correctly, however
// there are some specific checks made, such as ensuring a pushed value is
// not larger than the max allowed, and that the final script does not exceed
// the max allowed size.
//
// A ScriptBuilder is not thread-safe; concurrent writers must hold their own
// lock.
type ScriptBuilder struct {
	script []byte
	err    er.R
}

// AddOp pushes the passed opcode to the end of the script. The script will
// not be modified if pushing the opcode would cause the script to exceed
// the maximum allowed script size.
func (b *ScriptBuilder) AddOp(op byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}

	if len(b.script)+1 > params.MaxScriptSize {
		b.err = txscripterr.ScriptError(txscripterr.ErrScriptTooBig,
			"adding an opcode would exceed the maximum allowed script length")
		return b
	}

	b.script = append(b.script, op)
	return b
}

// AddOps pushes the passed opcodes to the end of the script.
func (b *ScriptBuilder) AddOps(opcodes []byte) *ScriptBuilder {
	for _, op := range opcodes {
		b.AddOp(op)
	}
	return b
}

// canonicalDataSize returns the number of bytes the canonical encoding of
// the data will take.
func canonicalDataSize(data []byte) int {
	dataLen := len(data)

	if dataLen == 0 {
		return 1
	} else if dataLen == 1 && data[0] <= 16 {
		return 1
	} else if dataLen == 1 && data[0] == 0x81 {
		return 1
	}

	if dataLen < opcode.OP_PUSHDATA1 {
		return 1 + dataLen
	} else if dataLen <= 0xff {
		return 2 + dataLen
	} else if dataLen <= 0xffff {
		return 3 + dataLen
	}

	return 5 + dataLen
}

// addData is the internal function that actually pushes the passed data to
// the end of the script.  It automatically chooses canonical opcodes
// depending on the length of the data.  A zero length buffer will lead to a
// push of an empty array onto the stack (OP_0).  No data limits are
// enforced with this function.
func (b *ScriptBuilder) addData(data []byte) *ScriptBuilder {
	dataLen := len(data)

	// When the data consists of a single number that can be represented
	// by one of the "small integer" opcodes, use that opcode instead of
	// a data push opcode followed by the number.
	if dataLen == 0 || (dataLen == 1 && data[0] == 0) {
		b.script = append(b.script, opcode.OP_0)
		return b
	} else if dataLen == 1 && data[0] <= 16 {
		b.script = append(b.script, byte(opcode.OP_1)+byte(data[0]-1))
		return b
	} else if dataLen == 1 && data[0] == 0x81 {
		b.script = append(b.script, opcode.OP_1NEGATE)
		return b
	}

	// Use one of the OP_DATA_# opcodes if the length of the data is small
	// enough so the data push instruction is only a single byte.
	// Otherwise, choose the smallest possible OP_PUSHDATA# opcode that can
	// represent the length of the data.
	if dataLen < opcode.OP_PUSHDATA1 {
		b.script = append(b.script, byte((opcode.OP_DATA_1-1)+dataLen))
	} else if dataLen <= 0xff {
		b.script = append(b.script, opcode.OP_PUSHDATA1, byte(dataLen))
	} else if dataLen <= 0xffff {
		buf := make([]byte, 2)
		buf[0] = byte(dataLen)
		buf[1] = byte(dataLen >> 8)
		b.script = append(b.script, opcode.OP_PUSHDATA2)
		b.script = append(b.script, buf...)
	} else {
		buf := make([]byte, 4)
		buf[0] = byte(dataLen)
		buf[1] = byte(dataLen >> 8)
		buf[2] = byte(dataLen >> 16)
		buf[3] = byte(dataLen >> 24)
		b.script = append(b.script, opcode.OP_PUSHDATA4)
		b.script = append(b.script, buf...)
	}

	// Append the actual data.
	b.script = append(b.script, data...)

	return b
}

// AddFullData should not typically be used by ordinary users as it does not
// include the checks which prevent data pushes larger than the maximum
// allowed sizes which leads to scripts that can't be executed. This is
// provided for testing purposes such as tests where sizes are made larger
// than allowed.
//
// Use AddData instead.
func (b *ScriptBuilder) AddFullData(data []byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}

	return b.addData(data)
}

// AddData pushes the passed data to the end of the script. It automatically
// chooses canonical opcodes depending on the length of the data. A zero
// length buffer will lead to a push of an empty array onto the stack
// (OP_0) and any push of data greater than params.MaxScriptElementSize
// (which the underlying interpreter would reject anyway) is refused.
func (b *ScriptBuilder) AddData(data []byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}

	if len(data) > params.MaxScriptElementSize {
		str := "adding a data element would exceed the maximum allowed script element size"
		b.err = txscripterr.ScriptError(txscripterr.ErrElementTooBig, str)
		return b
	}

	if len(b.script)+canonicalDataSize(data) > params.MaxScriptSize {
		str := "adding data would exceed the maximum allowed script length"
		b.err = txscripterr.ScriptError(txscripterr.ErrScriptTooBig, str)
		return b
	}

	return b.addData(data)
}

// AddInt64 pushes the passed integer to the end of the script. The
// integer is converted to the script's native sign-magnitude encoding and
// pushed using the smallest canonical opcode available (OP_1NEGATE, a
// small-integer opcode, or a generic data push).
func (b *ScriptBuilder) AddInt64(val int64) *ScriptBuilder {
	if b.err != nil {
		return b
	}

	if len(b.script)+1 > params.MaxScriptSize {
		str := "adding an integer would exceed the maximum allowed script length"
		b.err = txscripterr.ScriptError(txscripterr.ErrScriptTooBig, str)
		return b
	}

	if val == 0 {
		b.script = append(b.script, opcode.OP_0)
		return b
	} else if val == -1 || (val >= 1 && val <= 16) {
		b.script = append(b.script, byte((opcode.OP_1-1)+val))
		return b
	}

	return b.AddData(scriptnum.ScriptNum(val).Bytes())
}

// Reset resets the script so it has no content.
func (b *ScriptBuilder) Reset() *ScriptBuilder {
	b.script = b.script[0:0]
	b.err = nil
	return b
}

// Script returns the currently built script. When any errors occurred while
// building the script, the script will be returned up to the point of the
// first error along with the error.
func (b *ScriptBuilder) Script() ([]byte, er.R) {
	return b.script, b.err
}

// NewScriptBuilder returns a new instance of a script builder. See
// ScriptBuilder for details.
func NewScriptBuilder() *ScriptBuilder {
	return &ScriptBuilder{
		script: make([]byte, 0, defaultScriptAlloc),
	}
}
