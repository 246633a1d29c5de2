// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.
//
// The ProbeChain is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ProbeChain is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ProbeChain. If not, see <http://www.gnu.org/licenses/>.

// Package verify implements the trex bytecode verifier: a two-pass static
// analyzer that proves a state handler safe to execute without
// per-instruction bounds checks, or rejects it with a precise diagnostic.
//
// Move-inspired: the point of running this over already-compiled bytecode
// is to catch unsafe code even when the compiler that produced it has bugs.
package verify

import "fmt"

// Status is the outcome of verifying a single state handler.
type Status uint8

const (
	// Unverified is the zero value; no verification has run yet.
	Unverified Status = iota
	// Verified means the handler may be executed at full speed.
	Verified
	// InvalidOpcode means a decoded byte is not a known opcode.
	InvalidOpcode
	// InvalidOpcodeIncomplete means an opcode's immediate operand runs past
	// the end of the code buffer.
	InvalidOpcodeIncomplete
	// InvalidStackOverflow means some path pushes past the host stack capacity.
	InvalidStackOverflow
	// InvalidStackUnderflow means some path pops from an empty stack.
	InvalidStackUnderflow
	// InvalidStackMustBeEmptyOnReturn means some path reaches RET, HALT, or
	// the end of the code with a non-zero relative stack depth.
	InvalidStackMustBeEmptyOnReturn
	// InvalidBranchTarget means a branch targets a byte that is not the start
	// of an opcode (and is not exactly pc_end).
	InvalidBranchTarget
	// InvalidTooManyBranches means the number of live pending branch targets
	// exceeded the verifier's configured capacity, or pass 2 exhausted its
	// path-fork budget (PathCap).
	InvalidTooManyBranches
	// InvalidLocal means a local index names a slot outside [0, locals_count).
	InvalidLocal
	// InvalidState means an SST target names a handler index out of range.
	InvalidState
	// InvalidSyscallNumber means a syscall index is out of range.
	InvalidSyscallNumber
	// InvalidSyscallUnmapped means a syscall index is in range but has no
	// callable bound to it.
	InvalidSyscallUnmapped
)

var names = [...]string{
	Unverified:                       "unverified",
	Verified:                         "verified",
	InvalidOpcode:                    "invalid-opcode",
	InvalidOpcodeIncomplete:          "invalid-opcode-incomplete",
	InvalidStackOverflow:             "invalid-stack-overflow",
	InvalidStackUnderflow:            "invalid-stack-underflow",
	InvalidStackMustBeEmptyOnReturn:  "invalid-stack-must-be-empty-on-return",
	InvalidBranchTarget:              "invalid-branch-target",
	InvalidTooManyBranches:           "invalid-too-many-branches",
	InvalidLocal:                     "invalid-local",
	InvalidState:                     "invalid-state",
	InvalidSyscallNumber:             "invalid-syscall-number",
	InvalidSyscallUnmapped:           "invalid-syscall-unmapped",
}

// String returns the status's canonical name, e.g. "invalid-stack-underflow".
func (s Status) String() string {
	if int(s) >= len(names) || names[s] == "" {
		return fmt.Sprintf("verify.Status(%d)", uint8(s))
	}
	return names[s]
}

// OK reports whether s is Verified.
func (s Status) OK() bool { return s == Verified }
