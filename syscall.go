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

package trex

import (
	"errors"

	"github.com/alttpo/trex/verify"
)

// ErrStackUnderflow is returned by Context.Pop when the shared stack is empty.
var ErrStackUnderflow = errors.New("trex: stack underflow")

// ErrStackOverflow is returned by Context.Push when the shared stack is full.
var ErrStackOverflow = errors.New("trex: stack overflow")

// Syscall is a host-provided callable a handler may invoke via SYS1/SYS2.
// Call must pop exactly Args values and push exactly Returns values using
// Context.Pop / Context.Push; a mismatch traps the calling machine with
// ErrSyscMismatchedArgs or ErrSyscMismatchedRets once Call returns.
type Syscall struct {
	Name    string
	Args    uint8
	Returns uint8
	Call    func(ctx *Context) error
}

// descriptors adapts the bound syscall table into the shape the verifier
// understands, without the verify package ever needing to import trex.
func descriptors(syscalls []Syscall) []verify.SyscallInfo {
	out := make([]verify.SyscallInfo, len(syscalls))
	for i, s := range syscalls {
		out[i] = verify.SyscallInfo{Args: s.Args, Returns: s.Returns, Mapped: s.Call != nil}
	}
	return out
}

// Push pushes v onto the shared evaluation stack. Intended for use from
// inside a Syscall.Call callback; the interpreter's own PSHA/PSH* write the
// stack directly and do not go through Push.
func (ctx *Context) Push(v uint32) error {
	if ctx.sp == 0 {
		return ErrStackOverflow
	}
	ctx.sp--
	ctx.stack[ctx.sp] = v
	if ctx.execInSyscall {
		ctx.expectedPush--
	}
	return nil
}

// Pop pops the top of the shared evaluation stack. Intended for use from
// inside a Syscall.Call callback.
func (ctx *Context) Pop() (uint32, error) {
	if ctx.sp >= len(ctx.stack) {
		return 0, ErrStackUnderflow
	}
	v := ctx.stack[ctx.sp]
	ctx.sp++
	if ctx.execInSyscall {
		ctx.expectedPops--
	}
	return v, nil
}

// Trap lets a Syscall.Call signal a domain-specific failure (invalid
// argument or invalid machine state) instead of the generic audit-mismatch
// errors the dispatch loop applies automatically on return.
func (ctx *Context) Trap(status ExecStatus) {
	ctx.current.ExecStatus = status
}
