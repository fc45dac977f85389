// Package app wires the logging router, hub, and HTTP surface into a
// runnable server.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	server "ashvale/server"
	servernet "ashvale/server/internal/net"
	"ashvale/server/logging"
	loggingsinks "ashvale/server/logging/sinks"
)

// Run starts the trading post server and blocks until the listener fails.
func Run(ctx context.Context) error {
	logger := log.Default()

	cfg := logging.DefaultConfig()
	if path := os.Getenv("EVENT_LOG_PATH"); path != "" {
		cfg.EnabledSinks = append(cfg.EnabledSinks, "json")
		cfg.JSONFilePath = path
	}

	sinks := []logging.NamedSink{
		{Name: "console", Sink: loggingsinks.NewConsole(os.Stdout)},
	}
	if cfg.HasSink("json") {
		file, err := os.OpenFile(cfg.JSONFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open event log: %w", err)
		}
		sinks = append(sinks, logging.NamedSink{Name: "json", Sink: loggingsinks.NewJSON(file)})
	}

	router := logging.NewRouter(cfg, sinks)
	defer func() {
		if err := router.Close(context.Background()); err != nil {
			logger.Printf("failed to close logging router: %v", err)
		}
	}()

	hub := server.NewHub(router)
	handler := servernet.NewHTTPHandler(hub, servernet.HTTPHandlerConfig{Logger: logger})

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{Addr: addr, Handler: handler}
	logger.Printf("server listening on %s", srv.Addr)
	router.Publish(ctx, logging.Event{
		Type:     "system.server_started",
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityInfo,
		Category: logging.CategorySystem,
		Payload:  map[string]string{"addr": addr},
	})

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
