// Copyright 2024 The ProbeChain Authors
// This file is part of the ProbeChain.

package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alttpo/trex"
	"github.com/alttpo/trex/config"
	"github.com/alttpo/trex/hostapi"
)

// runServe serves the admin HTTP surface from a background goroutine and
// drives ctx's scheduler on a 10ms ticker until interrupted.
func runServe(ctx *trex.Context, cfg config.Config) error {
	srv := hostapi.NewServer(ctx, hostapi.Config{
		RateLimitPerSec: cfg.API.RateLimitPerSec,
	}, log)

	httpSrv := &http.Server{Addr: cfg.API.ListenAddr, Handler: srv}
	errCh := make(chan error, 1)
	go func() {
		log.Info("admin server listening", "addr", cfg.API.ListenAddr)
		errCh <- httpSrv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx.Exec()
			srv.Broadcast()
		case err := <-errCh:
			if err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		case <-sigCh:
			log.Info("shutting down")
			return httpSrv.Close()
		}
	}
}
