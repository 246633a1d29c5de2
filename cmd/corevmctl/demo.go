// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package main

import (
	"fmt"

	"github.com/alttpo/trex"
	"github.com/alttpo/trex/config"
	"github.com/alttpo/trex/opcode"
	"github.com/alttpo/trex/verify"
)

// buildDemoContext wires up a Context with a small built-in syscall table
// and a two-state handler (push and print 42, then halt), so the CLI has something to drive
// without requiring a compiled handler file on day one. A real deployment
// supplies its own syscalls and handler bytecode; this is the equivalent of
// probec's own worked examples.
func buildDemoContext(cfg config.Config) *trex.Context {
	syscalls := []trex.Syscall{
		{
			Name: "print", Args: 1, Returns: 0,
			Call: func(ctx *trex.Context) error {
				v, err := ctx.Pop()
				if err != nil {
					return err
				}
				fmt.Printf("corevmctl: print %d\n", v)
				return nil
			},
		},
	}

	cache, err := verify.NewCache(64)
	if err != nil {
		cache = nil
	}

	ctx := trex.NewContext(cfg.Runtime.StackCapacity, cfg.Runtime.CyclesPerExec, syscalls)
	ctx.Log = log
	ctx.VerifyCache = cache

	m := trex.NewMachine(1, 4)
	m.Handlers = []trex.Handler{
		{ // state 0: push 42, print it, advance to state 1
			Code: []byte{
				byte(opcode.PSH1), 42,
				byte(opcode.SYS1), 0,
				byte(opcode.SST1), 1,
				byte(opcode.RET),
			},
		},
		{ // state 1: halt
			Code: []byte{byte(opcode.HALT)},
		},
	}
	ctx.AddMachine(m)
	ctx.MachineVerify(m)

	return ctx
}
