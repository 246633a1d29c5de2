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

import "github.com/alttpo/trex/verify"

// Handler is one state's bytecode, plus the outcome of verifying it. A
// Machine owns its handlers and their code buffers; the host guarantees the
// underlying Code slice outlives the Machine.
type Handler struct {
	Code []byte

	// Result is populated by MachineVerify; Result.Status == verify.Unverified
	// until then.
	Result verify.Result
}

// Verified reports whether this handler may be executed at full speed.
func (h *Handler) Verified() bool {
	return h.Result.Status == verify.Verified
}
