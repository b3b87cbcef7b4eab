package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nbview/internal/config"
	"nbview/internal/server"
	"nbview/internal/termview"
)

const shutdownTimeout = 10 * time.Second

func serveMain(cfg config.Config, args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.Addr, "Listen address")
	quiet := fs.Bool("quiet", false, "Disable per-request logs")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parse serve args: %v", err)
	}

	srv := server.New(&server.Options{
		Address:        *addr,
		DisableReqLogs: *quiet,
		MaxBodyBytes:   cfg.MaxDocumentBytes,
		Render: termview.Options{
			Width:          resolveWidth(0, cfg),
			MaxOutputLines: cfg.MaxOutputLines,
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server: %v", err)
		}
		return
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	if err := <-errCh; err != nil {
		log.Errorf("server: %v", err)
	}
}
