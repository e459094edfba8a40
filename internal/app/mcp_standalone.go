package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"aura/internal/config"
	mcpserver "aura/internal/mcp"
)

// ServeMCP runs a session as a standalone MCP server on stdin/stdout.
// It opens storage, rehydrates the document and serves until stdin closes
// or the process is interrupted.
func ServeMCP(cfg config.Config, version string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := New(cfg)
	if err := a.Startup(ctx); err != nil {
		return err
	}
	defer a.Shutdown(context.Background())

	mcpSrv := mcpserver.New(mcpserver.Deps{
		Documents: a.Documents(),
		Exports:   a.Exports(),
		Version:   version,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- mcpSrv.ServeStdio() }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
	case <-ctx.Done():
		log.Println("[MCP] interrupted, shutting down")
	}
	return nil
}
