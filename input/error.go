package input

import (
	"github.com/pkt-cash/scriptforge/btcutil/er"
)

// Err is the error type for the input classifier/signer. Unlike the
// interpreter's errstr tokens (txscript/txscripterr), these are raised to
// the caller and never swallowed: classification and signing are not
// consensus predicates, they are API calls that can simply fail.
var Err er.ErrorType = er.NewErrorType("input.Err")

var (
	// ErrInvalidSignatureCount is returned by Sign when the number of
	// private keys supplied does not match what the input's variant
	// requires (exactly one for an address input, exactly m for a
	// multisig input).
	ErrInvalidSignatureCount = Err.Code("ErrInvalidSignatureCount")

	// ErrUnknownSignatureMethod is returned by Sign for a Generic input:
	// one whose previous-output script did not classify to a template
	// this package knows how to spend.
	ErrUnknownSignatureMethod = Err.Code("ErrUnknownSignatureMethod")

	// ErrInvalidScript is returned when a redeem script does not hash to
	// the pushed value in a P2SH previous-output script, or otherwise
	// fails to parse.
	ErrInvalidScript = Err.Code("ErrInvalidScript")

	// ErrInvalidPush is returned when a previous-output script matches a
	// template by shape but carries a malformed push (wrong length hash,
	// unparseable pubkey).
	ErrInvalidPush = Err.Code("ErrInvalidPush")
)
