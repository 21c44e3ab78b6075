package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestSetupSignalHandler tests that the signal handler context works
func TestSetupSignalHandler(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Signal tests not supported on Windows")
	}

	var shutdownCalled atomic.Bool

	ctx := SetupSignalHandler(context.Background(), discardLogger(), func(ctx context.Context) {
		shutdownCalled.Store(true)
	})

	// Context should not be cancelled initially
	select {
	case <-ctx.Done():
		t.Error("Context should not be cancelled initially")
	default:
	}

	// Send SIGINT to ourselves
	p, _ := os.FindProcess(os.Getpid())
	p.Signal(os.Interrupt)

	select {
	case <-ctx.Done():
	case <-time.After(1 * time.Second):
		t.Fatal("Context should be cancelled after signal")
	}

	if !shutdownCalled.Load() {
		t.Error("Shutdown function should have been called")
	}
}

// TestSetupSignalHandler_ParentCancelled tests that cancelling the parent
// releases the handler without a signal
func TestSetupSignalHandler_ParentCancelled(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())

	var shutdownCalled atomic.Bool
	ctx := SetupSignalHandler(parent, discardLogger(), func(context.Context) {
		shutdownCalled.Store(true)
	})
	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(1 * time.Second):
		t.Fatal("Context should be cancelled with its parent")
	}

	if shutdownCalled.Load() {
		t.Error("Shutdown function should not run without a signal")
	}
}
