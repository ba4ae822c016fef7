// Package scriptnum implements Bitcoin Script's sign-magnitude,
// little-endian integer encoding used for arithmetic opcode operands.
package scriptnum

import (
	"github.com/pkt-cash/scriptforge/btcutil/er"
	"github.com/pkt-cash/scriptforge/txscript/txscripterr"
)

// ScriptNum represents a numeric value used by the script engine. It wraps
// an int64 but is serialized using the script's variable-length,
// sign-magnitude little-endian encoding, not the usual twos-complement.
type ScriptNum int64

const (
	// DefaultScriptNumLen is the default number of bytes data being
	// interpreted as a script number may be for most operations.
	DefaultScriptNumLen = 4
)

func checkMinimalDataEncoding(v []byte) er.R {
	if len(v) == 0 {
		return nil
	}

	// Check that the number is encoded with the minimum possible number
	// of bytes.
	if v[len(v)-1]&0x7f == 0 {
		// The second to last byte must have the high bit set in order
		// for the last byte to be zero, otherwise it should have
		// been encoded with one fewer byte.
		if len(v) == 1 || v[len(v)-2]&0x80 == 0 {
			return txscripterr.ScriptError(txscripterr.ErrMinimalData,
				"numeric value encoded is not minimally encoded")
		}
	}

	return nil
}

// MakeScriptNum interprets the passed serialized bytes as an encoded
// integer and returns the result as a script number. When requireMinimal is
// true, the function will return an error if the encoded bytes are not
// minimally encoded. The scriptNumLen argument is the maximum number of
// bytes the encoded value can be and any given value exceeding it is an
// error.
func MakeScriptNum(v []byte, requireMinimal bool, scriptNumLen int) (ScriptNum, er.R) {
	if len(v) > scriptNumLen {
		return 0, txscripterr.ScriptError(txscripterr.ErrNumberTooBig,
			"script number overflow")
	}

	if requireMinimal {
		if err := checkMinimalDataEncoding(v); err != nil {
			return 0, err
		}
	}

	if len(v) == 0 {
		return 0, nil
	}

	var result int64
	for i, val := range v {
		result |= int64(val) << uint8(8*i)
	}

	// When the most significant byte, which is the last byte of the
	// little-endian representation, has the MSB set, the number is
	// negative and the rest of the bytes give the magnitude.
	if v[len(v)-1]&0x80 != 0 {
		result &= ^(int64(0x80) << uint8(8*(len(v)-1)))
		return ScriptNum(-result), nil
	}

	return ScriptNum(result), nil
}

// Bytes returns the script number serialized as a little endian
// sign-magnitude integer.
func (n ScriptNum) Bytes() []byte {
	if n == 0 {
		return nil
	}

	isNegative := n < 0
	m := n
	if isNegative {
		m = -m
	}

	result := make([]byte, 0, 9)
	for m > 0 {
		result = append(result, byte(m&0xff))
		m >>= 8
	}

	if result[len(result)-1]&0x80 != 0 {
		extraByte := byte(0x00)
		if isNegative {
			extraByte = 0x80
		}
		result = append(result, extraByte)
	} else if isNegative {
		result[len(result)-1] |= 0x80
	}

	return result
}

// Int32 returns the script number clamped to a valid int32. That is to say
// that it returns math.MaxInt32 or math.MinInt32 when the script number is
// out of range, otherwise the value cast to an int32.
func (n ScriptNum) Int32() int32 {
	if n > 2147483647 {
		return 2147483647
	}
	if n < -2147483648 {
		return -2147483648
	}
	return int32(n)
}
