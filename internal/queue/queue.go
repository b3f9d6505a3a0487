// Package queue provides the asynchronous command queue the import pipeline
// pushes follow-up work onto. Pushes are fire-and-forget; a worker owned by
// the caller drains the queue.
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Command is one unit of asynchronous follow-up work.
type Command interface {
	// Name identifies the command type.
	Name() string

	// Key dedupes commands: a command whose key is already queued and not
	// yet drained is dropped on Push.
	Key() string
}

// RefreshAuthors requests a bulk metadata refresh for newly added authors.
type RefreshAuthors struct {
	AuthorIDs []int64
}

func (c RefreshAuthors) Name() string { return "RefreshAuthors" }

func (c RefreshAuthors) Key() string {
	ids := make([]string, len(c.AuthorIDs))
	sorted := append([]int64(nil), c.AuthorIDs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i, id := range sorted {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return "refresh-authors:" + strings.Join(ids, ",")
}

// Manager is a buffered command queue with duplicate suppression.
type Manager struct {
	mu     sync.Mutex
	queued map[string]bool
	ch     chan Command
	log    *slog.Logger
}

// NewManager creates a manager with the given buffer size.
func NewManager(size int, log *slog.Logger) *Manager {
	return &Manager{
		queued: make(map[string]bool),
		ch:     make(chan Command, size),
		log:    log,
	}
}

// Push enqueues cmd unless an identical command is already waiting or the
// queue is full. Returns whether the command was accepted. Pushing never
// blocks: the import pipeline does not wait on follow-up work.
func (m *Manager) Push(cmd Command) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.queued[cmd.Key()] {
		m.log.Debug("command already queued", "command", cmd.Name(), "key", cmd.Key())
		return false
	}

	select {
	case m.ch <- cmd:
		m.queued[cmd.Key()] = true
		m.log.Debug("command queued", "command", cmd.Name())
		return true
	default:
		m.log.Warn("command queue full, dropping", "command", cmd.Name())
		return false
	}
}

// Pop blocks until a command is available or the context is canceled. The
// command's key is released as soon as it is handed out, so an identical
// command may be queued again while this one runs.
func (m *Manager) Pop(ctx context.Context) (Command, error) {
	select {
	case cmd := <-m.ch:
		m.mu.Lock()
		delete(m.queued, cmd.Key())
		m.mu.Unlock()
		return cmd, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len returns the number of commands waiting.
func (m *Manager) Len() int {
	return len(m.ch)
}
