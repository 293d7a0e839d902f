// Copyright (c) 2026 Libraryms Team
// Libraryms - library management record keeper
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shivamvadalia/libraryms/internal/api"
	"github.com/shivamvadalia/libraryms/internal/i18n"
	"github.com/shivamvadalia/libraryms/internal/logging"
	"github.com/shivamvadalia/libraryms/internal/metrics"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: i18n.T("cli.serve_short"),
		Long: `Starts the HTTP API on server.addr (default ":8000").

The server stops gracefully on SIGINT or SIGTERM, waiting up to
server.shutdown_timeout for in-flight requests.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handle, err := openDB()
	if err != nil {
		return err
	}
	defer func() { _ = handle.Close() }()

	ln, err := net.Listen("tcp", appConfig.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", appConfig.Server.Addr, err)
	}
	return runHTTPServer(ctx, ln, api.New(handle, metrics.New()))
}

// runHTTPServer serves handler on ln until ctx is done, then shuts the
// server down within the configured shutdown timeout.
func runHTTPServer(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       appConfig.Server.ReadTimeout,
		ReadHeaderTimeout: appConfig.Server.ReadTimeout,
		WriteTimeout:      appConfig.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	logging.Infof("%s", i18n.T("cli.serve_listening", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logging.Infof("%s", i18n.T("cli.serve_shutdown"))
	timeout := appConfig.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
