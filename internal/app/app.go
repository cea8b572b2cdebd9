package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	nethttp "net/http"
	"os"
	"time"

	"shopnav/server/internal/layout"
	httpnet "shopnav/server/internal/net"
	"shopnav/server/internal/net/ws"
	"shopnav/server/internal/store"
	"shopnav/server/logging"
	"shopnav/server/logging/sinks"
)

// Run wires the store, websocket hub, event router, and HTTP surface, then
// serves until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	cfg = cfg.Normalized()
	logger := log.New(os.Stdout, "[shopnav] ", log.LstdFlags)

	router, err := newEventRouter(cfg.Logging)
	if err != nil {
		return fmt.Errorf("build event router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := router.Close(closeCtx); err != nil {
			logger.Printf("event router close: %v", err)
		}
	}()

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if cfg.LayoutFile != "" {
		if err := seedLayout(st, cfg.LayoutFile, logger); err != nil {
			return fmt.Errorf("seed layout: %w", err)
		}
	}

	hub := ws.NewHub(logger)
	handler := httpnet.NewHTTPHandler(st, hub, httpnet.HTTPHandlerConfig{
		ClientDir: cfg.ClientDir,
		Logger:    logger,
		Publisher: router,
	})

	server := &nethttp.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("listening on %s", cfg.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func newEventRouter(cfg logging.Config) (*logging.Router, error) {
	var named []logging.NamedSink
	if cfg.HasSink("console") {
		named = append(named, logging.NamedSink{Name: "console", Sink: sinks.NewConsole(os.Stdout)})
	}
	if cfg.HasSink("ndjson") && cfg.NDJSON.FilePath != "" {
		file, err := os.OpenFile(cfg.NDJSON.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		named = append(named, logging.NamedSink{Name: "ndjson", Sink: sinks.NewNDJSON(file, cfg.NDJSON.FlushInterval)})
	}
	return logging.NewRouter(logging.SystemClock{}, cfg, named), nil
}

// seedLayout imports a layout document from disk when the database has none
// yet. An existing layout always wins over the file.
func seedLayout(st *store.Store, path string, logger *log.Logger) error {
	if _, err := st.LoadLayout(); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc layout.Store
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	doc = doc.Normalized()
	if err := st.SaveLayout(doc); err != nil {
		return err
	}
	logger.Printf("seeded layout %q from %s", doc.Name, path)
	return nil
}
