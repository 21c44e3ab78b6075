package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a child of parent that is cancelled on SIGTERM
// or SIGINT, after calling shutdownFunc if given. A second signal exits the
// process immediately.
func SetupSignalHandler(parent context.Context, logger *slog.Logger, shutdownFunc func(context.Context)) context.Context {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		var sig os.Signal
		select {
		case sig = <-sigCh:
		case <-ctx.Done():
			signal.Stop(sigCh)
			return
		}
		logger.Info("received signal, stopping after the current cycle", "signal", sig.String())

		if shutdownFunc != nil {
			shutdownFunc(ctx)
		}
		cancel()

		sig = <-sigCh
		logger.Warn("received second signal, forcing exit", "signal", sig.String())
		os.Exit(1)
	}()

	return ctx
}
