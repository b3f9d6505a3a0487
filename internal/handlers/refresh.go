package handlers

import (
	"context"
	"log/slog"

	"github.com/vmunix/shelfarr/internal/events"
	"github.com/vmunix/shelfarr/internal/queue"
)

// AuthorRescanner re-reconciles one author's folder with the library.
type AuthorRescanner interface {
	RescanAuthor(ctx context.Context, authorID int64) error
}

// RefreshHandler drains the command queue and executes refresh commands.
type RefreshHandler struct {
	*BaseHandler
	commands *queue.Manager
	scanner  AuthorRescanner
}

// NewRefreshHandler creates a refresh handler.
func NewRefreshHandler(bus *events.Bus, commands *queue.Manager, scanner AuthorRescanner, logger *slog.Logger) *RefreshHandler {
	return &RefreshHandler{
		BaseHandler: NewBaseHandler(bus, logger),
		commands:    commands,
		scanner:     scanner,
	}
}

// Name returns the handler name.
func (h *RefreshHandler) Name() string {
	return "refresh"
}

// Start pops commands until the context is canceled.
func (h *RefreshHandler) Start(ctx context.Context) error {
	for {
		cmd, err := h.commands.Pop(ctx)
		if err != nil {
			return err
		}

		switch c := cmd.(type) {
		case queue.RefreshAuthors:
			for _, id := range c.AuthorIDs {
				if err := h.scanner.RescanAuthor(ctx, id); err != nil {
					h.Logger().Error("author refresh failed", "author_id", id, "error", err)
				}
			}
		default:
			h.Logger().Warn("unknown command", "command", cmd.Name())
		}
	}
}
