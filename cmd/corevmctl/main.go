// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

// Command corevmctl hosts a trex Context outside of an embedding program,
// for bringing up new handler bytecode against a syscall table during
// development.
//
// Usage:
//
//	corevmctl [-config <path>] <subcommand> [args]
//
// Subcommands:
//
//	status   print the current machine table once and exit
//	repl     interactive line-edited REPL: single-step the scheduler,
//	         inspect machine state, dump the Context's full structure
//	dump     print a full structural dump of the Context and exit
//	serve    run the hostapi admin HTTP server until interrupted
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/alttpo/trex/config"
	"github.com/alttpo/trex/xlog"
)

var log = xlog.New("corevmctl")

func main() {
	configPath := flag.String("config", "", "path to a TOML config file (default: built-in defaults)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "corevmctl: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	log.SetLevel(levelFromString(cfg.Log.Level))

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: corevmctl [-config <path>] <status|repl|dump|serve>")
		os.Exit(1)
	}

	ctx := buildDemoContext(cfg)

	var err error
	switch args[0] {
	case "status":
		err = runStatus(ctx)
	case "repl":
		err = runRepl(ctx)
	case "dump":
		err = runDump(ctx)
	case "serve":
		err = runServe(ctx, cfg)
	default:
		fmt.Fprintf(os.Stderr, "corevmctl: unknown subcommand %q\n", args[0])
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "corevmctl: %v\n", err)
		os.Exit(1)
	}
}

func levelFromString(s string) xlog.Level {
	switch s {
	case "debug":
		return xlog.LvlDebug
	case "warn":
		return xlog.LvlWarn
	case "error":
		return xlog.LvlError
	default:
		return xlog.LvlInfo
	}
}
