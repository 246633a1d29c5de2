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

// Package hostapi exposes a read-only admin HTTP surface over a running
// trex.Context: GET /status, GET /machines, GET /machines/:id for polling,
// GET /watch for a live exec_status stream, and GET /health for process and
// interpreter memory stats. It never mutates the Context it serves.
package hostapi

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/alttpo/trex"
	"github.com/alttpo/trex/xlog"
)

// Server is the admin HTTP surface for one Context.
type Server struct {
	ctx     *trex.Context
	log     *xlog.Logger
	limiter *rate.Limiter
	router  *httprouter.Router
	handler http.Handler

	watchMu   chanSet
	startedAt time.Time
}

// Config controls the admin server's own behavior, distinct from the
// trex.Context it reports on.
type Config struct {
	// RateLimitPerSec caps requests/second across the whole surface; zero
	// disables limiting.
	RateLimitPerSec float64
	// CORSOrigins, if non-empty, restricts Access-Control-Allow-Origin to
	// this set; nil allows any origin (suitable for a local dashboard).
	CORSOrigins []string
}

// NewServer builds a Server reporting on ctx. The returned Server
// implements http.Handler and can be passed directly to http.ListenAndServe
// or an httptest.Server.
func NewServer(ctx *trex.Context, cfg Config, log *xlog.Logger) *Server {
	s := &Server{
		ctx:       ctx,
		log:       log,
		startedAt: time.Now(),
		watchMu:   newChanSet(),
	}
	if cfg.RateLimitPerSec > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitPerSec), int(cfg.RateLimitPerSec))
	}

	router := httprouter.New()
	router.GET("/status", s.handleStatus)
	router.GET("/machines", s.handleMachines)
	router.GET("/machines/:id", s.handleMachine)
	router.GET("/watch", s.handleWatch)
	router.GET("/health", s.handleHealth)
	s.router = router

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet},
	})
	s.handler = c.Handler(s.rateLimited(router))

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) rateLimited(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
