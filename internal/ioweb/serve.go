package ioweb

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gnames/gn"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout limits how long in-flight requests may run after the
// server is asked to stop.
const ShutdownTimeout = 10 * time.Second

// Serve runs an HTTP server on addr until ctx is canceled, then shuts it
// down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return ServerError(addr, err)
	}
	return ServeListener(ctx, ln, h)
}

// ServeListener is like Serve, but accepts connections on ln.
func ServeListener(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	addr := ln.Addr().String()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		gn.Info("Serving on <em>http://%s</em> (Ctrl-C to stop)", addr)
		slog.Info("Server started", "addr", addr)
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return ServerError(addr, err)
	})

	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		slog.Info("Server is shutting down", "addr", addr)
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}
