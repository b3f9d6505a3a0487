package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/shelfarr/internal/events"
)

// syncBuffer lets the test read log output written from the handler goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestImportedHandler_LogsImports(t *testing.T) {
	bus := events.NewBus(nil, testLogger())
	defer bus.Close()

	out := &syncBuffer{}
	logger := slog.New(slog.NewTextHandler(out, nil))

	h := NewImportedHandler(bus, logger)
	assert.Equal(t, "imported", h.Name())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- h.Start(ctx)
	}()

	// Give the handler time to subscribe before publishing.
	time.Sleep(20 * time.Millisecond)

	bus.Publish(context.Background(), events.NewBookImported(42, 7, []int64{1, 2}, nil, false))
	bus.Publish(context.Background(), events.NewImportFailed(42, "/downloads/bad.epub", "corrupt archive", true))

	require.Eventually(t, func() bool {
		s := out.String()
		return strings.Contains(s, "book imported") && strings.Contains(s, "import failed")
	}, time.Second, 10*time.Millisecond, "expected both events logged")

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestImportedHandler_StopsOnBusClose(t *testing.T) {
	bus := events.NewBus(nil, testLogger())

	h := NewImportedHandler(bus, testLogger())

	done := make(chan error, 1)
	go func() {
		done <- h.Start(context.Background())
	}()

	time.Sleep(20 * time.Millisecond)
	bus.Close()

	select {
	case err := <-done:
		require.NoError(t, err, "closed bus should end the handler cleanly")
	case <-time.After(time.Second):
		t.Fatal("handler did not stop after bus close")
	}
}
