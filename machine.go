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

import "github.com/google/uuid"

// Machine is one cooperating state machine: a set of verified handlers
// sharing a locals array and a current/next state pair. A Machine owns its
// locals and handler code buffers exclusively; it does not own the shared
// evaluation stack or the syscall table, both of which belong to the
// Context that drives it.
type Machine struct {
	// TraceID identifies this machine across log records and the admin API;
	// stable for the lifetime of the Machine, meaningless across restarts.
	TraceID uuid.UUID

	Locals   []uint32
	Handlers []Handler

	// Iterations is the configured per-scheduler-turn iteration budget; zero
	// means unbounded (the scheduler never rotates away on iteration count
	// alone, only on halt/error/cycle exhaustion).
	Iterations int

	St   uint16
	Nxst uint16

	ExecStatus ExecStatus

	// iterationsRemaining counts down from Iterations each time the
	// scheduler picks this machine; it reaches zero exactly when the
	// handler has returned Iterations times in a row.
	iterationsRemaining int

	// Persisted interpreter registers, valid only while ExecStatus is
	// Executing or InSyscall; copied into the interpreter's local registers
	// at the start of a dispatch run and copied back on every yield.
	pc int
	sp int
	a  uint32

	// InvalidPC records the PC at the time of a terminal error, for host
	// inspection, per the error-handling design's "current PC is preserved".
	InvalidPC int
}

// NewMachine constructs a Machine with locals of the given size and the
// given iteration budget. Handlers must still be supplied and verified via
// Context.MachineVerify before the machine becomes runnable.
func NewMachine(localsCount int, iterations int) *Machine {
	return &Machine{
		TraceID:    uuid.New(),
		Locals:     make([]uint32, localsCount),
		Iterations: iterations,
		ExecStatus: NotExecutable,
	}
}

// Runnable reports whether the scheduler should consider this machine: it
// has at least one handler and is not halted or errored.
func (m *Machine) Runnable() bool {
	return len(m.Handlers) > 0 && m.ExecStatus.Runnable()
}
