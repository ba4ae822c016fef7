// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package constants holds the handful of wire-level constants that the
// script engine needs but that don't belong to any single message type.
package constants

// MaxTxInSequenceNum is the maximum sequence number the sequence field
// of a transaction input can be.
const MaxTxInSequenceNum uint32 = 0xffffffff

// SequenceLockTimeDisabled is the bit in a sequence number which, when
// set, disables the relative locktime/sequence-number semantics of
// OP_CHECKSEQUENCEVERIFY for that input.
const SequenceLockTimeDisabled = 1 << 31

// SequenceLockTimeIsSeconds is the bit in a sequence number which, when
// set, indicates that the relative locktime is expressed in units of
// 512 seconds rather than a count of blocks.
const SequenceLockTimeIsSeconds = 1 << 22

// SequenceLockTimeMask extracts the relative locktime value from a
// sequence number once the disable bit and units bit are known.
const SequenceLockTimeMask = 0x0000ffff

// SequenceLockTimeGranularity is the right shift applied to a number of
// seconds to express it in relative-locktime units when
// SequenceLockTimeIsSeconds is set: one unit is 1<<9 = 512 seconds.
const SequenceLockTimeGranularity = 9
