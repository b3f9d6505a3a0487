// Package server runs the long-lived background components.
package server

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/shelfarr/internal/handlers"
)

// Runner manages the event-driven components.
type Runner struct {
	handlers []handlers.Handler
	logger   *slog.Logger
}

// NewRunner creates a runner over the given handlers.
func NewRunner(hs []handlers.Handler, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{handlers: hs, logger: logger}
}

// Run starts every handler and blocks until the context is canceled or one
// of them fails.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, h := range r.handlers {
		g.Go(func() error {
			r.logger.Info("handler started", "handler", h.Name())
			err := h.Start(ctx)
			if err != nil && ctx.Err() == nil {
				r.logger.Error("handler stopped", "handler", h.Name(), "error", err)
			}
			return err
		})
	}

	return g.Wait()
}
