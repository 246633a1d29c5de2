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

// Package trex implements a small embedded runtime that cooperatively
// schedules many state machines, each built from bytecode handlers that are
// statically verified (package verify) before they ever run.
package trex

import "fmt"

// ExecStatus is the run state of a Machine.
type ExecStatus uint8

const (
	// NotExecutable means MachineVerify has not yet succeeded for every handler
	// (it has not run, or some handler failed verification).
	NotExecutable ExecStatus = iota
	// Ready means the machine is waiting to enter its next state.
	Ready
	// Executing means the machine is inside a handler's dispatch loop.
	Executing
	// InSyscall means a syscall call is currently running on behalf of the machine.
	InSyscall
	// Halted is a terminal state reached by the HALT opcode.
	Halted
	// ErrUnverified is terminal: the scheduler tried to enter a handler that never verified.
	ErrUnverified
	// ErrSyscMismatchedArgs is terminal: a syscall didn't pop exactly its declared args.
	ErrSyscMismatchedArgs
	// ErrSyscMismatchedRets is terminal: a syscall didn't push exactly its declared returns.
	ErrSyscMismatchedRets
	// ErrSyscInvalidArg is terminal: a syscall signalled that an argument was invalid.
	ErrSyscInvalidArg
	// ErrSyscInvalidState is terminal: a syscall signalled that machine state was invalid.
	ErrSyscInvalidState
)

var execStatusNames = [...]string{
	NotExecutable:          "not-executable",
	Ready:                  "ready",
	Executing:              "executing",
	InSyscall:              "in-syscall",
	Halted:                 "halted",
	ErrUnverified:          "error-unverified",
	ErrSyscMismatchedArgs:  "error-sysc-mismatched-args",
	ErrSyscMismatchedRets:  "error-sysc-mismatched-rets",
	ErrSyscInvalidArg:      "error-sysc-invalid-arg",
	ErrSyscInvalidState:    "error-sysc-invalid-state",
}

func (s ExecStatus) String() string {
	if int(s) >= len(execStatusNames) || execStatusNames[s] == "" {
		return fmt.Sprintf("trex.ExecStatus(%d)", uint8(s))
	}
	return execStatusNames[s]
}

// Terminal reports whether s is a state the scheduler will never advance out
// of on its own: Halted or any Err* status.
func (s ExecStatus) Terminal() bool {
	return s == Halted || s >= ErrUnverified
}

// Runnable reports whether the scheduler may hand a machine in this status
// to the interpreter: it is not halted or errored. Machine.Runnable also
// requires at least one handler.
func (s ExecStatus) Runnable() bool {
	return !s.Terminal()
}
