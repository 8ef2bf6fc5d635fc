package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/rateexplorer/pkg/log"
	"github.com/raterudder/rateexplorer/pkg/server"
	"github.com/raterudder/rateexplorer/pkg/storage"
	"github.com/raterudder/rateexplorer/pkg/urdb"
)

func main() {
	// init packages
	s := storage.Configured()
	u := urdb.Configured()

	// init server
	srv := server.Configured(s, u)

	// parse flags
	lflag.Configure()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	level, err := log.ConfigureFromFlags()
	if err != nil {
		panic(err)
	}
	log.Ctx(ctx).DebugContext(ctx, "logger configured", "level", level.String())

	if err := u.Validate(); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "invalid urdb config", "error", err)
		os.Exit(1)
	}

	// If initialization inside lflag.Do failed, we wouldn't be here (panic).
	defer func() {
		if err := s.Close(); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to close storage", "error", err)
		}
	}()

	// Run will block until context is canceled or error happens
	if err := srv.Run(ctx); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "server failed", "error", err)
		os.Exit(1)
	}
	log.Ctx(ctx).InfoContext(ctx, "server exited cleanly")
}
