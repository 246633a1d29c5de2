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

// Package config loads the host's TOML configuration file and, optionally,
// watches it for changes so cycles_per_exec and the log level can be tuned
// without restarting the process.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/naoina/toml"
)

// Config is the host-level configuration for one corevmctl process. It
// covers only the scheduler, logging and admin API knobs the host reads;
// anything machine-specific (locals, handlers, syscalls) is host glue and
// out of scope here.
type Config struct {
	Runtime RuntimeConfig
	Log     LogConfig
	API     APIConfig
}

// RuntimeConfig configures the Context's scheduler.
type RuntimeConfig struct {
	StackCapacity int `toml:",omitempty"`
	CyclesPerExec int `toml:",omitempty"`
}

// LogConfig configures xlog.
type LogConfig struct {
	Level string `toml:",omitempty"`
}

// APIConfig configures hostapi's admin server.
type APIConfig struct {
	ListenAddr      string `toml:",omitempty"`
	RateLimitPerSec float64 `toml:",omitempty"`
}

// Default returns the configuration used when no file is loaded.
func Default() Config {
	return Config{
		Runtime: RuntimeConfig{StackCapacity: 64, CyclesPerExec: 1000},
		Log:     LogConfig{Level: "info"},
		API:     APIConfig{ListenAddr: "127.0.0.1:8745", RateLimitPerSec: 20},
	}
}

// tomlSettings keeps struct field names as the TOML keys verbatim, and
// makes an unrecognized field in the file a hard error rather than
// silently ignoring it.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string { return key },
	FieldToKey:    func(rt reflect.Type, field string) string { return field },
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("config: field %q is not defined in %s", field, rt.String())
	},
}

// Load reads and decodes a TOML file on top of Default().
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(&cfg)
	var lineErr *toml.LineError
	if errors.As(err, &lineErr) {
		err = fmt.Errorf("%s, %w", path, err)
	}
	return cfg, err
}
