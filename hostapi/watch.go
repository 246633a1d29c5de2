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

package hostapi

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// chanSet tracks the set of currently-connected /watch subscribers.
type chanSet struct {
	mu   sync.Mutex
	subs map[chan statusView]struct{}
}

func newChanSet() chanSet {
	return chanSet{subs: make(map[chan statusView]struct{})}
}

func (c *chanSet) add(ch chan statusView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs[ch] = struct{}{}
}

func (c *chanSet) remove(ch chan statusView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subs, ch)
	close(ch)
}

func (c *chanSet) broadcast(v statusView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for ch := range c.subs {
		select {
		case ch <- v:
		default:
			// slow subscriber: drop this tick's update rather than block
			// the host's scheduler loop.
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleWatch upgrades to a websocket and streams a statusView snapshot
// after every Broadcast call until the client disconnects.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if s.log != nil {
			s.log.Warn("watch: upgrade failed", "err", err)
		}
		return
	}
	defer conn.Close()

	ch := make(chan statusView, 4)
	s.watchMu.add(ch)
	defer s.watchMu.remove(ch)

	// Detect client-initiated close without blocking the write loop on it.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case v, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(v); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

// Broadcast pushes the current machine status to every connected /watch
// client. The host calls this once per scheduler tick, typically right
// after Context.Exec.
func (s *Server) Broadcast() {
	views := make([]machineView, len(s.ctx.Machines))
	for i, m := range s.ctx.Machines {
		views[i] = viewOf(i, m)
	}
	s.watchMu.broadcast(statusView{
		CyclesPerExec: s.ctx.CyclesPerExec,
		MachineCount:  len(s.ctx.Machines),
		Machines:      views,
	})
}
