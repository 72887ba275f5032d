package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/wordgraph/internal/graph"
	"github.com/heartmarshall/wordgraph/internal/transport/middleware"
	"github.com/heartmarshall/wordgraph/internal/transport/rest"
)

// Handler builds the HTTP API over g. The returned stop function releases
// the rate limiter.
func (a *App) Handler(g *graph.Graph) (http.Handler, func(), error) {
	engine, err := a.Engine(g)
	if err != nil {
		return nil, nil, err
	}

	// A nil *pgxpool.Pool must not reach the interface.
	var health *rest.HealthHandler
	if a.pool != nil {
		health = rest.NewHealthHandler(g, a.pool, BuildVersion())
	} else {
		health = rest.NewHealthHandler(g, nil, BuildVersion())
	}

	limiter := middleware.NewRateLimiter(time.Minute)
	handler := rest.NewRouter(rest.RouterDeps{
		Search:  rest.NewSearchHandler(engine, a.cfg.Search.TopN, a.log),
		Health:  health,
		Limiter: limiter,
		Config:  a.cfg.Server,
		Logger:  a.log,
	})
	return handler, limiter.Stop, nil
}

// Serve runs the HTTP API over g until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (a *App) Serve(ctx context.Context, g *graph.Graph) error {
	sc := a.cfg.Server

	handler, stop, err := a.Handler(g)
	if err != nil {
		return err
	}
	defer stop()

	ln, err := net.Listen("tcp", net.JoinHostPort(sc.Host, strconv.Itoa(sc.Port)))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: sc.WriteTimeout,
		IdleTimeout:  sc.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(a.log.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server started",
			slog.String("addr", ln.Addr().String()),
			slog.String("version", BuildVersion()),
			slog.Int("nodes", g.NodeCount()),
			slog.Int("edges", g.EdgeCount()),
		)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down http server", slog.Duration("timeout", sc.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), sc.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
