package handlers

import (
	"context"
	"log/slog"

	"github.com/vmunix/shelfarr/internal/events"
)

// ImportedHandler reacts to finished imports. It currently records an audit
// line per imported book; notification targets hang off this handler.
type ImportedHandler struct {
	*BaseHandler
}

// NewImportedHandler creates an imported handler.
func NewImportedHandler(bus *events.Bus, logger *slog.Logger) *ImportedHandler {
	return &ImportedHandler{BaseHandler: NewBaseHandler(bus, logger)}
}

// Name returns the handler name.
func (h *ImportedHandler) Name() string {
	return "imported"
}

// Start begins processing events.
func (h *ImportedHandler) Start(ctx context.Context) error {
	imported := h.Bus().Subscribe(events.EventBookImported, 100)
	failed := h.Bus().Subscribe(events.EventImportFailed, 100)

	for {
		select {
		case e := <-imported:
			if e == nil {
				return nil // Channel closed
			}
			ev := e.(*events.BookImported)
			h.Logger().Info("book imported",
				"book_id", ev.EntityID(),
				"files", len(ev.NewFiles),
				"replaced", len(ev.OldFiles))
		case e := <-failed:
			if e == nil {
				return nil
			}
			ev := e.(*events.ImportFailed)
			h.Logger().Warn("import failed", "path", ev.Path, "reason", ev.Reason)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
