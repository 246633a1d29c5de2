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

package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/imroc/biu"
)

// DisasmLine is one decoded instruction, ready for a byte-level listing.
type DisasmLine struct {
	PC      int
	Opcode  byte
	Operand []byte
}

// RenderBinary writes each line's opcode and operand bytes in binary, one
// instruction per line, e.g. "0000: 00000110 [00000111]". Intended for
// bisecting a rejected handler down to the exact bit pattern the verifier
// choked on.
func RenderBinary(w io.Writer, lines []DisasmLine) {
	for _, l := range lines {
		opBits := biu.ToBinaryString(l.Opcode)
		if len(l.Operand) == 0 {
			fmt.Fprintf(w, "%04x: %s\n", l.PC, opBits)
			continue
		}
		operandBits := make([]string, len(l.Operand))
		for i, b := range l.Operand {
			operandBits[i] = biu.ToBinaryString(b)
		}
		fmt.Fprintf(w, "%04x: %s [%s]\n", l.PC, opBits, strings.Join(operandBits, " "))
	}
}

// Dump renders v (typically a *trex.Context or *trex.Machine) as a deeply
// expanded Go-syntax tree, for pasting into a bug report.
func Dump(w io.Writer, v interface{}) {
	spew.Fdump(w, v)
}
