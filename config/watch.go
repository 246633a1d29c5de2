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

package config

import (
	"github.com/rjeczalik/notify"
)

// Watcher re-loads path whenever it changes on disk and delivers the new
// Config on Updates. Callers that don't want hot reload simply never
// construct one and call Load directly.
type Watcher struct {
	path    string
	events  chan notify.EventInfo
	Updates chan Config
	Errors  chan error
}

// Watch starts watching path for writes and returns a Watcher. Call Close
// when done to release the underlying filesystem watch.
func Watch(path string) (*Watcher, error) {
	w := &Watcher{
		path:    path,
		events:  make(chan notify.EventInfo, 4),
		Updates: make(chan Config, 1),
		Errors:  make(chan error, 1),
	}
	if err := notify.Watch(path, w.events, notify.Write); err != nil {
		return nil, err
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for range w.events {
		cfg, err := Load(w.path)
		if err != nil {
			select {
			case w.Errors <- err:
			default:
			}
			continue
		}
		select {
		case w.Updates <- cfg:
		default:
			// drop the stale pending update, the new one supersedes it
			select {
			case <-w.Updates:
			default:
			}
			w.Updates <- cfg
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() {
	notify.Stop(w.events)
	close(w.events)
}
