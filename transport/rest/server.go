package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 5 * time.Second

// NewRouter - wires the engine, game and stats routes. ws, when not nil, is mounted on /ws.
func NewRouter(handlers Handlers, ws http.Handler) http.Handler {
	router := chi.NewRouter()

	router.Get("/ping", handlers.Ping)

	router.Route("/engine", func(r chi.Router) {
		r.Post("/evaluate", handlers.Evaluate)
		r.Post("/move", handlers.Move)
	})

	router.Route("/game", func(r chi.Router) {
		r.Get("/", handlers.GetGame)
		r.Delete("/", handlers.ResetAll)
		r.Post("/start", handlers.StartGame)
		r.Post("/turn", handlers.Turn)
		r.Post("/computer", handlers.ComputerTurn)
		r.Post("/undo", handlers.Undo)
		r.Post("/restart", handlers.Restart)
		r.Post("/new", handlers.NewGame)
	})

	router.Route("/stats", func(r chi.Router) {
		r.Get("/", handlers.GetStats)
		r.Delete("/", handlers.ResetStats)
	})

	if ws != nil {
		router.Handle("/ws", ws)
	}

	return router
}

// Start - serves handler on port until ctx is canceled, then shuts down gracefully.
func Start(ctx context.Context, logger *slog.Logger, port string, handler http.Handler) error {
	log := logger.With("method", "Start")

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
