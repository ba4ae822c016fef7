// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"encoding/hex"

	"github.com/pkt-cash/scriptforge/btcutil/er"
	"github.com/pkt-cash/scriptforge/txscript/scriptnum"
	"github.com/pkt-cash/scriptforge/txscript/txscripterr"
)

// asBool gets the boolean value of the byte array.
func asBool(t []byte) bool {
	for i := range t {
		if t[i] != 0 {
			// Negative 0 is also considered false.
			if i == len(t)-1 && t[i] == 0x80 {
				return false
			}
			return true
		}
	}
	return false
}

// fromBool converts a boolean into the appropriate byte array.
func fromBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return nil
}

// stack represents a stack of immutable objects to be used with bitcoin
// scripts.  Objects may be shared, therefore in usage if a value is to be
// changed it *must* be deep-copied first to avoid changing other values on
// the stack.
type stack struct {
	stk               [][]byte
	verifyMinimalData bool
}

// Depth returns the number of items on the stack.
func (s *stack) Depth() int32 {
	return int32(len(s.stk))
}

// PushByteArray adds the given back array to the top of the stack.
func (s *stack) PushByteArray(so []byte) {
	s.stk = append(s.stk, so)
}

// PushInt converts the provided scriptNum to a suitable byte array then
// pushes it onto the top of the stack.
func (s *stack) PushInt(val scriptnum.ScriptNum) {
	s.PushByteArray(val.Bytes())
}

// PushBool converts the provided boolean to a suitable byte array then
// pushes it onto the top of the stack.
func (s *stack) PushBool(val bool) {
	s.PushByteArray(fromBool(val))
}

// PopByteArray pops the value off the top of the stack and returns it.
func (s *stack) PopByteArray() ([]byte, er.R) {
	so, err := s.peekByteArray(0)
	if err != nil {
		return nil, err
	}
	s.stk = s.stk[:len(s.stk)-1]
	return so, nil
}

// PopInt pops the value off the top of the stack, converts it into a script
// num and returns it.
func (s *stack) PopInt() (scriptnum.ScriptNum, er.R) {
	so, err := s.PopByteArray()
	if err != nil {
		return 0, err
	}
	return scriptnum.MakeScriptNum(so, s.verifyMinimalData, scriptnum.DefaultScriptNumLen)
}

// PopBool pops the value off the top of the stack, converts it into a bool
// and returns it.
func (s *stack) PopBool() (bool, er.R) {
	so, err := s.PopByteArray()
	if err != nil {
		return false, err
	}
	return asBool(so), nil
}

// PeekByteArray returns the Nth item on the stack without removing it.
func (s *stack) PeekByteArray(idx int32) ([]byte, er.R) {
	return s.peekByteArray(idx)
}

func (s *stack) peekByteArray(idx int32) ([]byte, er.R) {
	sz := int32(len(s.stk))
	if idx < 0 || idx >= sz {
		return nil, txscripterr.ScriptError(txscripterr.ErrInvalidStackOperation,
			"index out of range")
	}
	return s.stk[sz-idx-1], nil
}

// PeekInt returns the Nth item on the stack as a script num without removing
// it.
func (s *stack) PeekInt(idx int32) (scriptnum.ScriptNum, er.R) {
	so, err := s.peekByteArray(idx)
	if err != nil {
		return 0, err
	}
	return scriptnum.MakeScriptNum(so, s.verifyMinimalData, scriptnum.DefaultScriptNumLen)
}

// PeekBool returns the Nth item on the stack as a bool without removing it.
func (s *stack) PeekBool(idx int32) (bool, er.R) {
	so, err := s.peekByteArray(idx)
	if err != nil {
		return false, err
	}
	return asBool(so), nil
}

// nipN removes the Nth object on the stack.
func (s *stack) nipN(idx int32) ([]byte, er.R) {
	so, err := s.peekByteArray(idx)
	if err != nil {
		return nil, err
	}
	sz := int32(len(s.stk))
	switch {
	case idx == 0:
		s.stk = s.stk[:sz-1]
	case idx == sz-1:
		var s1 [][]byte
		s1 = append(s1, s.stk[1:]...)
		s.stk = s1
	default:
		var s1 [][]byte
		s1 = append(s1, s.stk[:sz-idx-1]...)
		s1 = append(s1, s.stk[sz-idx:]...)
		s.stk = s1
	}
	return so, nil
}

// NipN removes the Nth item on the stack.
func (s *stack) NipN(n int32) er.R {
	_, err := s.nipN(n)
	return err
}

// Tuck copies the item at the top of the stack and inserts it before the 2nd
// to top item.
func (s *stack) Tuck() er.R {
	so2, err := s.PopByteArray()
	if err != nil {
		return err
	}
	so1, err := s.PopByteArray()
	if err != nil {
		return err
	}
	s.PushByteArray(so2)
	s.PushByteArray(so1)
	s.PushByteArray(so2)
	return nil
}

// DropN removes the top N items from the stack.
func (s *stack) DropN(n int32) er.R {
	if n < 1 {
		return txscripterr.ScriptError(txscripterr.ErrInvalidStackOperation,
			"attempt to drop less than one item from the stack")
	}
	for ; n > 0; n-- {
		_, err := s.PopByteArray()
		if err != nil {
			return err
		}
	}
	return nil
}

// DupN duplicates the top N items on the stack.
func (s *stack) DupN(n int32) er.R {
	if n < 1 {
		return txscripterr.ScriptError(txscripterr.ErrInvalidStackOperation,
			"attempt to dup less than one item from the stack")
	}
	for i := n; i > 0; i-- {
		so, err := s.PeekByteArray(n - 1)
		if err != nil {
			return err
		}
		s.PushByteArray(so)
	}
	return nil
}

// RotN rotates the top 3N items on the stack to the left N times.
func (s *stack) RotN(n int32) er.R {
	if n < 1 {
		return txscripterr.ScriptError(txscripterr.ErrInvalidStackOperation,
			"attempt to rotate less than one item from the stack")
	}
	entry := 3*n - 1
	for i := int32(0); i < n; i++ {
		so, err := s.nipN(entry)
		if err != nil {
			return err
		}
		s.PushByteArray(so)
	}
	return nil
}

// SwapN swaps the top N items on the stack with those below them.
func (s *stack) SwapN(n int32) er.R {
	if n < 1 {
		return txscripterr.ScriptError(txscripterr.ErrInvalidStackOperation,
			"attempt to swap less than one item from the stack")
	}
	entry := 2*n - 1
	for i := int32(0); i < n; i++ {
		so, err := s.nipN(entry)
		if err != nil {
			return err
		}
		s.PushByteArray(so)
	}
	return nil
}

// OverN copies N items N items back to the top of the stack.
func (s *stack) OverN(n int32) er.R {
	if n < 1 {
		return txscripterr.ScriptError(txscripterr.ErrInvalidStackOperation,
			"attempt to perform over on less than one item from the stack")
	}
	entry := 2*n - 1
	for ; n > 0; n-- {
		so, err := s.PeekByteArray(entry)
		if err != nil {
			return err
		}
		s.PushByteArray(so)
	}
	return nil
}

// PickN copies the item N items back in the stack to the top.
func (s *stack) PickN(n int32) er.R {
	so, err := s.PeekByteArray(n)
	if err != nil {
		return err
	}
	s.PushByteArray(so)
	return nil
}

// RollN moves the item N items back in the stack to the top.
func (s *stack) RollN(n int32) er.R {
	so, err := s.nipN(n)
	if err != nil {
		return err
	}
	s.PushByteArray(so)
	return nil
}

// String returns the stack in a human readable format.
func (s *stack) String() string {
	var result string
	for _, stack := range s.stk {
		if len(stack) == 0 {
			result += "00000000  <empty>\n"
		}
		result += hex.Dump(stack)
	}
	return result
}
