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

// Package xlog is the leveled, colorized logger used by the runtime host:
// verification failures and machines entering a terminal error state
// (including syscall traps) go through here rather than fmt.Printf, so a host embedding the runtime gets
// consistent, greppable output.
package xlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/go-stack/stack"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Level is a log verbosity level, ordered least to most severe.
type Level uint8

const (
	LvlDebug Level = iota
	LvlInfo
	LvlWarn
	LvlError
)

var levelNames = [...]string{
	LvlDebug: "DBUG",
	LvlInfo:  "INFO",
	LvlWarn:  "WARN",
	LvlError: "EROR",
}

func (l Level) String() string {
	if int(l) >= len(levelNames) {
		return "????"
	}
	return levelNames[l]
}

var levelColor = [...]*color.Color{
	LvlDebug: color.New(color.FgHiBlack),
	LvlInfo:  color.New(color.FgGreen),
	LvlWarn:  color.New(color.FgYellow),
	LvlError: color.New(color.FgRed, color.Bold),
}

// Logger writes leveled, structured-ish log lines. Safe for concurrent use.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	color   bool
	minLvl  Level
	ctx     []interface{} // inherited key=value pairs from With
	name    string
}

// New returns a Logger writing to os.Stderr, auto-detecting whether the
// stream is a terminal to decide whether to colorize (mirroring the
// go-ethereum-style log package's own isatty probe).
func New(name string) *Logger {
	w := colorable.NewColorable(os.Stderr)
	isTerm := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return &Logger{out: w, color: isTerm, minLvl: LvlInfo, name: name}
}

// SetLevel changes the minimum level this logger emits.
func (l *Logger) SetLevel(lvl Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLvl = lvl
}

// With returns a child logger that prepends the given key/value pairs (an
// even-length list) to every subsequent line.
func (l *Logger) With(kv ...interface{}) *Logger {
	child := &Logger{out: l.out, color: l.color, minLvl: l.minLvl, name: l.name}
	child.ctx = append(append([]interface{}{}, l.ctx...), kv...)
	return child
}

func (l *Logger) log(lvl Level, skip int, msg string, kv ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lvl < l.minLvl {
		return
	}

	ts := time.Now().Format("15:04:05.000")
	caller := stack.Caller(skip)

	prefix := fmt.Sprintf("[%s] %-4s", ts, lvl)
	if l.color {
		prefix = levelColor[lvl].Sprintf("[%s] %-4s", ts, lvl)
	}

	fmt.Fprintf(l.out, "%s %s: %s", prefix, l.name, msg)
	for _, pair := range append(l.ctx, kv...) {
		fmt.Fprintf(l.out, " %v", pair)
	}
	fmt.Fprintf(l.out, " (%v)\n", caller)
}

func (l *Logger) Debug(msg string, kv ...interface{}) { l.log(LvlDebug, 2, msg, kv...) }
func (l *Logger) Info(msg string, kv ...interface{})  { l.log(LvlInfo, 2, msg, kv...) }
func (l *Logger) Warn(msg string, kv ...interface{})  { l.log(LvlWarn, 2, msg, kv...) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.log(LvlError, 2, msg, kv...) }

// Dump writes a full structural dump of v at debug level, for diagnosing a
// machine or context snapshot without hand-writing a formatter.
func (l *Logger) Dump(label string, v interface{}) {
	if l.minLvl > LvlDebug {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s:\n%s\n", label, spew.Sdump(v))
}
