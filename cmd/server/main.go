package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"shopnav/server/internal/app"
)

func main() {
	cfg := app.ConfigFromEnv()
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flag.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "path to the sqlite database")
	flag.StringVar(&cfg.ClientDir, "client", cfg.ClientDir, "directory with the static viewer assets")
	flag.StringVar(&cfg.LayoutFile, "layout", cfg.LayoutFile, "layout JSON to seed an empty database with")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		log.Fatalf("server: %v", err)
	}
}
