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

package verify

import (
	"crypto/sha256"
	"encoding/binary"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes Verify results by a hash of (code, verification
// parameters). A host running many machines against the same compiled
// handler set re-verifies identical code bytes on every Machine it spins
// up; Cache lets it pay for Pass 1/Pass 2 once per distinct handler.
//
// Safe for concurrent use: lookups missing the cache are collapsed via
// singleflight so concurrently-constructed Contexts sharing a handler set
// never run the same verification twice.
type Cache struct {
	entries *lru.ARCCache
	group   singleflight.Group
}

// NewCache builds a Cache holding up to size distinct verification
// results.
func NewCache(size int) (*Cache, error) {
	c, err := lru.NewARC(size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: c}, nil
}

// Verify behaves like the package-level Verify, but returns a cached
// Result when p.Code (together with the parameters that affect
// verification outcome) has been seen before.
func (c *Cache) Verify(p Params) Result {
	key := cacheKey(p)
	if v, ok := c.entries.Get(key); ok {
		return v.(Result)
	}

	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		if v, ok := c.entries.Get(key); ok {
			return v, nil
		}
		r := Verify(p)
		c.entries.Add(key, r)
		return r, nil
	})
	return v.(Result)
}

// cacheKey hashes everything that can change a verification outcome for
// the same code bytes: the code itself, the stack/locals/handler-count
// bounds, the pending-target and path caps, and the syscall descriptor
// table (argument/return arity and mapped-ness, not names — two hosts with
// differently-named but identically-shaped syscalls verify identically).
func cacheKey(p Params) string {
	h := sha256.New()
	h.Write(p.Code)

	var hdr [6 * 4]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(p.StackCapacity))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(p.LocalsCount))
	binary.LittleEndian.PutUint32(hdr[8:], uint32(p.HandlersCount))
	binary.LittleEndian.PutUint32(hdr[12:], uint32(len(p.Syscalls)))
	binary.LittleEndian.PutUint32(hdr[16:], uint32(p.PendingTargetCapacity))
	binary.LittleEndian.PutUint32(hdr[20:], uint32(p.PathCap))
	h.Write(hdr[:])

	for _, s := range p.Syscalls {
		var buf [3]byte
		buf[0] = s.Args
		buf[1] = s.Returns
		if s.Mapped {
			buf[2] = 1
		}
		h.Write(buf[:])
	}

	sum := h.Sum(nil)
	return string(sum)
}
