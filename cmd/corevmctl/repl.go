// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/alttpo/trex"
	"github.com/alttpo/trex/diagnostics"
)

// runRepl drives ctx one tick at a time from operator input: "exec" runs one
// scheduler tick, "status" prints the machine table, "dump" prints the full
// Context structure, "help" lists commands, and "quit"/"exit" (or ^D) leave.
func runRepl(ctx *trex.Context) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println("corevmctl repl -- type 'help' for commands")
	for {
		input, err := line.Prompt("trex> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}

		cmd := strings.TrimSpace(input)
		if cmd == "" {
			continue
		}
		line.AppendHistory(cmd)

		switch cmd {
		case "help":
			fmt.Println("commands: exec, status, dump, help, quit")
		case "exec":
			ctx.Exec()
			diagnostics.RenderStatusTable(os.Stdout, statusRows(ctx))
		case "status":
			diagnostics.RenderStatusTable(os.Stdout, statusRows(ctx))
		case "dump":
			diagnostics.Dump(os.Stdout, ctx)
		case "quit", "exit":
			return nil
		default:
			fmt.Printf("unknown command %q; try 'help'\n", cmd)
		}
	}
}
