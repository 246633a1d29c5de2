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
	"github.com/alttpo/trex/verify"
	"github.com/alttpo/trex/xlog"
)

// Context is the runtime instance: it owns the shared evaluation stack, the
// syscall table, the cycle budget per tick, and the vector of machines.
// Exactly one machine is "current" at any instant while Exec is running.
type Context struct {
	stack         []uint32
	Syscalls      []Syscall
	CyclesPerExec int

	// Log receives scheduler and verification diagnostics. Nil disables
	// logging entirely; NewContext leaves it nil so tests and embedders that
	// don't care about logs pay nothing for it.
	Log *xlog.Logger

	// VerifyCache, if set, memoizes MachineVerify's Pass 1/Pass 2 work across
	// machines sharing identical handler code. Nil means every MachineVerify
	// call re-verifies from scratch.
	VerifyCache *verify.Cache

	Machines    []*Machine
	currMachine int

	// current is the machine presently executing, or nil between ticks.
	current *Machine

	// execInSyscall mirrors "exec_status == in-syscall" for Push/Pop's
	// audit-counter bookkeeping without exposing a machine pointer check at
	// every call site.
	execInSyscall bool
	expectedPops  int
	expectedPush  int

	sp int
}

// NewContext builds a Context with a shared evaluation stack of the given
// word capacity and the given per-tick cycle budget.
func NewContext(stackCapacity int, cyclesPerExec int, syscalls []Syscall) *Context {
	return &Context{
		stack:         make([]uint32, stackCapacity),
		Syscalls:      syscalls,
		CyclesPerExec: cyclesPerExec,
		sp:            stackCapacity,
	}
}

// AddMachine registers m with the context. Machines are visited in
// registration order by the round-robin scheduler.
func (ctx *Context) AddMachine(m *Machine) {
	ctx.Machines = append(ctx.Machines, m)
}

// MachineVerify verifies every handler of m and transitions m to Ready only
// if all of them verify cleanly; otherwise m stays NotExecutable and the
// failing Handler's Result describes why.
func (ctx *Context) MachineVerify(m *Machine) {
	syscalls := descriptors(ctx.Syscalls)
	allOK := true
	for i := range m.Handlers {
		h := &m.Handlers[i]
		params := verify.Params{
			Code:          h.Code,
			StackCapacity: len(ctx.stack),
			LocalsCount:   len(m.Locals),
			HandlersCount: len(m.Handlers),
			Syscalls:      syscalls,
		}
		if ctx.VerifyCache != nil {
			h.Result = ctx.VerifyCache.Verify(params)
		} else {
			h.Result = verify.Verify(params)
		}
		if !h.Verified() {
			allOK = false
		}
	}
	if allOK {
		m.ExecStatus = Ready
	} else {
		m.ExecStatus = NotExecutable
		if ctx.Log != nil {
			for i := range m.Handlers {
				h := &m.Handlers[i]
				if !h.Verified() {
					ctx.Log.Warn("handler failed verification",
						"trace", m.TraceID, "state", i, "status", h.Result.Status.String(), "pc", h.Result.InvalidPC)
				}
			}
		}
	}
}
