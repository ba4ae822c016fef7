// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2019 Caleb James DeLisle
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"
	"math/big"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkt-cash/scriptforge/btcec"
	"github.com/pkt-cash/scriptforge/btcutil/er"
	"github.com/pkt-cash/scriptforge/pktlog/log"
	"github.com/pkt-cash/scriptforge/txscript/opcode"
	"github.com/pkt-cash/scriptforge/txscript/params"
	"github.com/pkt-cash/scriptforge/txscript/parsescript"
	"github.com/pkt-cash/scriptforge/txscript/txscripterr"
	"github.com/pkt-cash/scriptforge/wire"
)

// ScriptFlags is a bitmask defining additional operations or tests that will
// be done when executing a script pair.
type ScriptFlags uint32

const (
	// ScriptBip16 defines whether the bip16 threshold has passed and thus
	// pay-to-script-hash transactions will be fully validated.
	ScriptBip16 ScriptFlags = 1 << iota

	// ScriptStrictMultiSig defines whether to verify the stack item used
	// by CHECKMULTISIG is zero length.
	ScriptStrictMultiSig

	// ScriptDiscourageUpgradableNops defines whether to verify that NOP1
	// through NOP10 are reserved for future soft-fork upgrades. This flag
	// must not be used for consensus critical code, only for stricter
	// standard transaction checks.
	ScriptDiscourageUpgradableNops

	// ScriptVerifyCheckLockTimeVerify defines whether to verify that a
	// transaction output is spendable based on the locktime. This is
	// BIP0065.
	ScriptVerifyCheckLockTimeVerify

	// ScriptVerifyCheckSequenceVerify defines whether to allow execution
	// pathways of a script to be restricted based on the age of the
	// output being spent. This is BIP0112.
	ScriptVerifyCheckSequenceVerify

	// ScriptVerifyCleanStack defines that the stack must contain only one
	// element after evaluation and that the element must be true if
	// interpreted as a boolean. This is rule 6 of BIP0062. This flag
	// should never be used without the ScriptBip16 flag.
	ScriptVerifyCleanStack

	// ScriptVerifyDERSignatures defines that signatures are required to
	// comply with the DER format.
	ScriptVerifyDERSignatures

	// ScriptVerifyLowS defines that signatures are required to comply
	// with the DER format and whose S value is <= order / 2. This is
	// rule 5 of BIP0062.
	ScriptVerifyLowS

	// ScriptVerifyMinimalData defines that numbers on the stack must use
	// the smallest push operator. This is both rules 3 and 4 of BIP0062.
	ScriptVerifyMinimalData

	// ScriptVerifyNullFail defines that signatures must be empty if a
	// CHECKSIG or CHECKMULTISIG operation fails.
	ScriptVerifyNullFail

	// ScriptVerifySigPushOnly defines that signature scripts must contain
	// only pushed data. This is rule 2 of BIP0062.
	ScriptVerifySigPushOnly

	// ScriptVerifyStrictEncoding defines that signatures and public keys
	// must follow the strict encoding requirements.
	ScriptVerifyStrictEncoding

	// ScriptVerifyMinimalIf makes a script with an OP_IF/OP_NOTIF whose
	// operand is anything other than an empty vector or [0x01] invalid.
	ScriptVerifyMinimalIf
)

// halfOrder is used to tame ECDSA malleability (see BIP0062).
var halfOrder = new(big.Int).Rsh(btcec.S256().N, 1)

// Engine is the virtual machine that executes scripts.
type Engine struct {
	scripts         [][]parsescript.ParsedOpcode
	scriptIdx       int
	scriptOff       int
	lastCodeSep     int
	dstack          stack
	astack          stack
	tx              wire.MsgTx
	txIdx           int
	condStack       []int
	numOps          int
	flags           ScriptFlags
	sigCache        *SigCache
	isP2SH          bool
	savedFirstStack [][]byte
}

// hasFlag returns whether or not the script engine instance has the passed
// flag set.
func (vm *Engine) hasFlag(flag ScriptFlags) bool {
	return vm.flags&flag == flag
}

// isBranchExecuting returns whether or not the current conditional branch is
// actively executing. It properly accounts for nested conditionals.
func (vm *Engine) isBranchExecuting() bool {
	if len(vm.condStack) == 0 {
		return true
	}
	return vm.condStack[len(vm.condStack)-1] == OpCondTrue
}

// executeOpcode performs execution on the passed opcode, taking into account
// whether or not it is hidden by conditionals, disabled, or reserved.
func (vm *Engine) executeOpcode(pop *parsescript.ParsedOpcode) er.R {
	if popIsDisabled(pop) {
		str := fmt.Sprintf("attempt to execute disabled opcode %s",
			opcode.OpcodeName(pop.Opcode.Value))
		return txscripterr.ScriptError(txscripterr.ErrDisabledOpcode, str)
	}

	if popAlwaysIllegal(pop) {
		str := fmt.Sprintf("attempt to execute reserved opcode %s",
			opcode.OpcodeName(pop.Opcode.Value))
		return txscripterr.ScriptError(txscripterr.ErrReservedOpcode, str)
	}

	// Note that this includes OP_RESERVED which counts as a push operation.
	if pop.Opcode.Value > opcode.OP_16 {
		vm.numOps++
		if vm.numOps > params.MaxOpsPerScript {
			str := fmt.Sprintf("exceeded max operation limit of %d",
				params.MaxOpsPerScript)
			return txscripterr.ScriptError(txscripterr.ErrTooManyOperations, str)
		}
	} else if len(pop.Data) > params.MaxScriptElementSize {
		str := fmt.Sprintf("element size %d exceeds max allowed size %d",
			len(pop.Data), params.MaxScriptElementSize)
		return txscripterr.ScriptError(txscripterr.ErrElementTooBig, str)
	}

	// Nothing left to do when this is not a conditional opcode and it is
	// not in an executing branch.
	if !vm.isBranchExecuting() && !popIsConditional(pop) {
		return nil
	}

	// Ensure all executed data push opcodes use the minimal encoding when
	// the minimal data verification flag is set.
	if vm.isBranchExecuting() && vm.hasFlag(ScriptVerifyMinimalData) &&
		pop.Opcode.Value >= 0 && pop.Opcode.Value <= opcode.OP_PUSHDATA4 {

		if err := popCheckMinimalDataPush(pop); err != nil {
			return err
		}
	}

	return executeOp(pop, vm)
}

// disasm produces the output for DisasmPC and DisasmScript: the opcode
// prefixed by the program counter at the provided position in the script.
func (vm *Engine) disasm(scriptIdx int, scriptOff int) string {
	return fmt.Sprintf("%02x:%04x: %s", scriptIdx, scriptOff,
		popPrint(&vm.scripts[scriptIdx][scriptOff], false))
}

// validPC returns an error if the current script position is not valid for
// execution, nil otherwise.
func (vm *Engine) validPC() er.R {
	if vm.scriptIdx >= len(vm.scripts) {
		str := fmt.Sprintf("past input scripts %v:%v %v:xxxx",
			vm.scriptIdx, vm.scriptOff, len(vm.scripts))
		return txscripterr.ScriptError(txscripterr.ErrInvalidProgramCounter, str)
	}
	if vm.scriptOff >= len(vm.scripts[vm.scriptIdx]) {
		str := fmt.Sprintf("past input scripts %v:%v %v:%04d",
			vm.scriptIdx, vm.scriptOff, vm.scriptIdx,
			len(vm.scripts[vm.scriptIdx]))
		return txscripterr.ScriptError(txscripterr.ErrInvalidProgramCounter, str)
	}
	return nil
}

// curPC returns either the current script and offset, or an error if the
// position isn't valid.
func (vm *Engine) curPC() (script int, off int, err er.R) {
	err = vm.validPC()
	if err != nil {
		return 0, 0, err
	}
	return vm.scriptIdx, vm.scriptOff, nil
}

// DisasmPC returns the string for the disassembly of the opcode that will be
// next to execute when Step() is called.
func (vm *Engine) DisasmPC() (string, er.R) {
	scriptIdx, scriptOff, err := vm.curPC()
	if err != nil {
		return "", err
	}
	return vm.disasm(scriptIdx, scriptOff), nil
}

// DisasmScript returns the disassembly string for the script at the
// requested offset index. Index 0 is the signature script and 1 is the
// public key script.
func (vm *Engine) DisasmScript(idx int) (string, er.R) {
	if idx < 0 || idx >= len(vm.scripts) {
		str := fmt.Sprintf("script index %d >= total scripts %d", idx,
			len(vm.scripts))
		return "", txscripterr.ScriptError(txscripterr.ErrInvalidIndex, str)
	}

	var disstr string
	for i := range vm.scripts[idx] {
		disstr = disstr + vm.disasm(idx, i) + "\n"
	}
	return disstr, nil
}

// CheckErrorCondition returns nil if the running script has ended and was
// successful, leaving a true boolean on top of the stack. An error
// otherwise, including if the script has not finished.
func (vm *Engine) CheckErrorCondition(finalScript bool) er.R {
	if vm.scriptIdx < len(vm.scripts) {
		return txscripterr.ScriptError(txscripterr.ErrScriptUnfinished,
			"error check when script unfinished")
	}

	if finalScript && vm.hasFlag(ScriptVerifyCleanStack) {
		if vm.dstack.Depth() > 1 {
			str := fmt.Sprintf("stack contains %d unexpected items",
				vm.dstack.Depth()-1)
			return txscripterr.ScriptError(txscripterr.ErrCleanStack, str)
		}
	}
	if vm.dstack.Depth() < 1 {
		return txscripterr.ScriptError(txscripterr.ErrEmptyStack,
			"stack empty at end of script execution")
	}

	v, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}
	if !v {
		return txscripterr.ScriptError(txscripterr.ErrEvalFalse,
			"false stack entry at end of script execution")
	}
	return nil
}

// Step executes the next instruction and moves the program counter to the
// next opcode in the script, or the next script if the current one has
// ended. Step returns true when the last opcode has been executed.
//
// The result of calling Step or any other method is undefined if an error
// is returned.
func (vm *Engine) Step() (done bool, err er.R) {
	err = vm.validPC()
	if err != nil {
		return true, err
	}
	pop := &vm.scripts[vm.scriptIdx][vm.scriptOff]
	vm.scriptOff++

	log.Tracef("stepping script %d opcode %02x", vm.scriptIdx, pop.Opcode.Value)

	err = vm.executeOpcode(pop)
	if err != nil {
		return true, err
	}

	combinedStackSize := vm.dstack.Depth() + vm.astack.Depth()
	if combinedStackSize > params.MaxStackSize {
		str := fmt.Sprintf("combined stack size %d > max allowed %d",
			combinedStackSize, params.MaxStackSize)
		return false, txscripterr.ScriptError(txscripterr.ErrStackOverflow, str)
	}

	if vm.scriptOff >= len(vm.scripts[vm.scriptIdx]) {
		// Illegal to have an if that straddles two scripts.
		if len(vm.condStack) != 0 {
			return false, txscripterr.ScriptError(txscripterr.ErrUnbalancedConditional,
				"end of script reached in conditional execution")
		}

		// Alt stack doesn't persist.
		_ = vm.astack.DropN(vm.astack.Depth())

		vm.numOps = 0
		vm.scriptOff = 0
		vm.lastCodeSep = 0
		if vm.scriptIdx == 0 && vm.isP2SH {
			vm.scriptIdx++
			vm.savedFirstStack = vm.GetStack()
		} else if vm.scriptIdx == 1 && vm.isP2SH {
			// Put us past the end for CheckErrorCondition().
			vm.scriptIdx++

			// Check the script ran successfully and pull the
			// redeem script out of the first stack.
			if err := vm.CheckErrorCondition(false); err != nil {
				return false, err
			}

			script := vm.savedFirstStack[len(vm.savedFirstStack)-1]
			pops, err := parseScriptAndVerifySize(script)
			if err != nil {
				return false, err
			}
			vm.scripts = append(vm.scripts, pops)

			// Set the stack to be the stack from the first script
			// minus the script itself.
			vm.SetStack(vm.savedFirstStack[:len(vm.savedFirstStack)-1])
		} else {
			vm.scriptIdx++
		}

		// There are zero-length scripts in the wild.
		if vm.scriptIdx < len(vm.scripts) && vm.scriptOff >= len(vm.scripts[vm.scriptIdx]) {
			vm.scriptIdx++
		}
		if vm.scriptIdx >= len(vm.scripts) {
			return true, nil
		}
	}
	return false, nil
}

// Execute runs all scripts in the engine and returns nil for successful
// validation or an error if one occurred.
func (vm *Engine) Execute() er.R {
	done := false
	for !done {
		var err er.R
		done, err = vm.Step()
		if err != nil {
			return err
		}
	}
	return vm.CheckErrorCondition(true)
}

// currentScript returns the script currently being processed.
func (vm *Engine) currentScript() []parsescript.ParsedOpcode {
	return vm.scripts[vm.scriptIdx]
}

// subScript returns the script since the last OP_CODESEPARATOR.
func (vm *Engine) subScript() []parsescript.ParsedOpcode {
	return vm.scripts[vm.scriptIdx][vm.lastCodeSep:]
}

// checkHashTypeEncoding returns an error if the passed hash type does not
// adhere to the strict encoding requirements when ScriptVerifyStrictEncoding
// is set.
func (vm *Engine) checkHashTypeEncoding(hashType params.SigHashType) er.R {
	if !vm.hasFlag(ScriptVerifyStrictEncoding) {
		return nil
	}

	sigHashType := hashType & ^params.SigHashType(params.SigHashAnyOneCanPay)
	if sigHashType < params.SigHashAll || sigHashType > params.SigHashSingle {
		str := fmt.Sprintf("invalid hash type 0x%x", hashType)
		return txscripterr.ScriptError(txscripterr.ErrInvalidSigHashType, str)
	}
	return nil
}

// checkPubKeyEncoding returns an error if the passed public key does not
// adhere to the strict encoding requirements when ScriptVerifyStrictEncoding
// is set.
func (vm *Engine) checkPubKeyEncoding(pubKey []byte) er.R {
	if !vm.hasFlag(ScriptVerifyStrictEncoding) {
		return nil
	}

	if len(pubKey) == 33 && (pubKey[0] == 0x02 || pubKey[0] == 0x03) {
		return nil
	}
	if len(pubKey) == 65 && pubKey[0] == 0x04 {
		return nil
	}

	return txscripterr.ScriptError(txscripterr.ErrPubKeyType, "unsupported public key type")
}

// checkSignatureEncoding returns an error if the passed signature does not
// adhere to the strict DER / low-S encoding requirements when the relevant
// flags are set.
func (vm *Engine) checkSignatureEncoding(sig []byte) er.R {
	if !vm.hasFlag(ScriptVerifyDERSignatures) &&
		!vm.hasFlag(ScriptVerifyLowS) &&
		!vm.hasFlag(ScriptVerifyStrictEncoding) {

		return nil
	}

	const (
		asn1SequenceID = 0x30
		asn1IntegerID  = 0x02

		// minSigLen is when both R and S are 1 byte each.
		minSigLen = 8
		// maxSigLen is when both R and S are 33 bytes each.
		maxSigLen = 72

		sequenceOffset = 0
		dataLenOffset  = 1
		rTypeOffset    = 2
		rLenOffset     = 3
		rOffset        = 4
	)

	sigLen := len(sig)
	if sigLen < minSigLen {
		str := fmt.Sprintf("malformed signature: too short: %d < %d", sigLen, minSigLen)
		return txscripterr.ScriptError(txscripterr.ErrSigTooShort, str)
	}
	if sigLen > maxSigLen {
		str := fmt.Sprintf("malformed signature: too long: %d > %d", sigLen, maxSigLen)
		return txscripterr.ScriptError(txscripterr.ErrSigTooLong, str)
	}
	if sig[sequenceOffset] != asn1SequenceID {
		str := fmt.Sprintf("malformed signature: format has wrong type: %#x", sig[sequenceOffset])
		return txscripterr.ScriptError(txscripterr.ErrSigInvalidSeqID, str)
	}
	if int(sig[dataLenOffset]) != sigLen-2 {
		str := fmt.Sprintf("malformed signature: bad length: %d != %d", sig[dataLenOffset], sigLen-2)
		return txscripterr.ScriptError(txscripterr.ErrSigInvalidDataLen, str)
	}

	rLen := int(sig[rLenOffset])
	sTypeOffset := rOffset + rLen
	sLenOffset := sTypeOffset + 1
	if sTypeOffset >= sigLen {
		return txscripterr.ScriptError(txscripterr.ErrSigMissingSTypeID,
			"malformed signature: S type indicator missing")
	}
	if sLenOffset >= sigLen {
		return txscripterr.ScriptError(txscripterr.ErrSigMissingSLen,
			"malformed signature: S length missing")
	}

	sOffset := sLenOffset + 1
	sLen := int(sig[sLenOffset])
	if sOffset+sLen != sigLen {
		return txscripterr.ScriptError(txscripterr.ErrSigInvalidSLen,
			"malformed signature: invalid S length")
	}

	if sig[rTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: R integer marker: %#x != %#x",
			sig[rTypeOffset], asn1IntegerID)
		return txscripterr.ScriptError(txscripterr.ErrSigInvalidRIntID, str)
	}
	if rLen == 0 {
		return txscripterr.ScriptError(txscripterr.ErrSigZeroRLen,
			"malformed signature: R length is zero")
	}
	if sig[rOffset]&0x80 != 0 {
		return txscripterr.ScriptError(txscripterr.ErrSigNegativeR,
			"malformed signature: R is negative")
	}
	if rLen > 1 && sig[rOffset] == 0x00 && sig[rOffset+1]&0x80 == 0 {
		return txscripterr.ScriptError(txscripterr.ErrSigTooMuchRPadding,
			"malformed signature: R value has too much padding")
	}

	if sig[sTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: S integer marker: %#x != %#x",
			sig[sTypeOffset], asn1IntegerID)
		return txscripterr.ScriptError(txscripterr.ErrSigInvalidSIntID, str)
	}
	if sLen == 0 {
		return txscripterr.ScriptError(txscripterr.ErrSigZeroSLen,
			"malformed signature: S length is zero")
	}
	if sig[sOffset]&0x80 != 0 {
		return txscripterr.ScriptError(txscripterr.ErrSigNegativeS,
			"malformed signature: S is negative")
	}
	if sLen > 1 && sig[sOffset] == 0x00 && sig[sOffset+1]&0x80 == 0 {
		return txscripterr.ScriptError(txscripterr.ErrSigTooMuchSPadding,
			"malformed signature: S value has too much padding")
	}

	if vm.hasFlag(ScriptVerifyLowS) {
		sValue := new(big.Int).SetBytes(sig[sOffset : sOffset+sLen])
		if sValue.Cmp(halfOrder) > 0 {
			return txscripterr.ScriptError(txscripterr.ErrSigHighS,
				"signature is not canonical due to unnecessarily high S value")
		}
	}

	return nil
}

// getStack returns the contents of a stack as a byte array, bottom up.
func getStack(s *stack) [][]byte {
	array := make([][]byte, s.Depth())
	for i := range array {
		array[len(array)-i-1], _ = s.PeekByteArray(int32(i))
	}
	return array
}

// setStack sets the stack to the contents of the array, where the last item
// in the array is the top item of the stack.
func setStack(s *stack, data [][]byte) {
	_ = s.DropN(s.Depth())
	for i := range data {
		s.PushByteArray(data[i])
	}
}

// GetStack returns the contents of the primary stack as an array where the
// last item in the array is the top of the stack.
func (vm *Engine) GetStack() [][]byte {
	return getStack(&vm.dstack)
}

// SetStack sets the contents of the primary stack to the contents of the
// provided array where the last item in the array will be the top of the
// stack.
func (vm *Engine) SetStack(data [][]byte) {
	setStack(&vm.dstack, data)
}

// GetAltStack returns the contents of the alternate stack as an array where
// the last item in the array is the top of the stack.
func (vm *Engine) GetAltStack() [][]byte {
	return getStack(&vm.astack)
}

// TraceString returns a deep dump of both stacks, suitable for logging at
// Trace level alongside a disassembled script, the same role spew.Sdump
// plays in the teacher's own Trace-level log lines.
func (vm *Engine) TraceString() string {
	return "dstack:\n" + spew.Sdump(vm.GetStack()) + "astack:\n" + spew.Sdump(vm.GetAltStack())
}

// SetAltStack sets the contents of the alternate stack to the contents of
// the provided array where the last item in the array will be the top of
// the stack.
func (vm *Engine) SetAltStack(data [][]byte) {
	setStack(&vm.astack, data)
}

func parseScriptAndVerifySize(script []byte) ([]parsescript.ParsedOpcode, er.R) {
	if len(script) > params.MaxScriptSize {
		str := fmt.Sprintf("script size %d is larger than max allowed size %d",
			len(script), params.MaxScriptSize)
		return nil, txscripterr.ScriptError(txscripterr.ErrScriptTooBig, str)
	}
	return parsescript.ParseScript(script)
}

// NewEngine returns a new script engine for the provided public key script,
// transaction, and input index. The flags modify the behavior of the script
// engine according to the description provided by each flag.
func NewEngine(scriptPubKey []byte, tx *wire.MsgTx, txIdx int, flags ScriptFlags, sigCache *SigCache) (*Engine, er.R) {
	if txIdx < 0 || txIdx >= len(tx.TxIn) {
		str := fmt.Sprintf("transaction input index %d is negative or >= %d",
			txIdx, len(tx.TxIn))
		return nil, txscripterr.ScriptError(txscripterr.ErrInvalidIndex, str)
	}
	scriptSig := tx.TxIn[txIdx].SignatureScript

	// When both the signature script and public key script are empty the
	// result is necessarily an error since the stack would end up empty,
	// which is equivalent to a false top element.
	if len(scriptSig) == 0 && len(scriptPubKey) == 0 {
		return nil, txscripterr.ScriptError(txscripterr.ErrEvalFalse,
			"false stack entry at end of script execution")
	}

	vm := Engine{flags: flags, sigCache: sigCache}

	parsedScriptSig, err := parseScriptAndVerifySize(scriptSig)
	if err != nil {
		return nil, err
	}
	if vm.hasFlag(ScriptVerifySigPushOnly) && !parsescript.IsPushOnly(parsedScriptSig) {
		return nil, txscripterr.ScriptError(txscripterr.ErrNotPushOnly,
			"signature script is not push only")
	}

	parsedScriptPubKey, err := parseScriptAndVerifySize(scriptPubKey)
	if err != nil {
		return nil, err
	}

	// The engine stores scripts in parsed form as a slice of slices. This
	// allows multiple scripts to be executed in sequence; with a
	// pay-to-script-hash transaction there will ultimately be a third.
	vm.scripts = [][]parsescript.ParsedOpcode{parsedScriptSig, parsedScriptPubKey}

	if len(scriptSig) == 0 {
		vm.scriptIdx++
	}

	if vm.hasFlag(ScriptBip16) && isScriptHash(vm.scripts[1]) {
		// Only accept input scripts that push data for P2SH.
		if !parsescript.IsPushOnly(vm.scripts[0]) {
			return nil, txscripterr.ScriptError(txscripterr.ErrNotPushOnly,
				"pay to script hash is not push only")
		}
		vm.isP2SH = true
	}

	vm.tx = *tx
	vm.txIdx = txIdx
	vm.dstack.verifyMinimalData = vm.hasFlag(ScriptVerifyMinimalData)
	vm.astack.verifyMinimalData = vm.hasFlag(ScriptVerifyMinimalData)

	return &vm, nil
}
