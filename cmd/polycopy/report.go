package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/alejandrodnm/polycopy/internal/adapters/notify"
	"github.com/alejandrodnm/polycopy/internal/ports"
)

func runReport(ctx context.Context, store ports.RunStore, notifier *notify.Console, address string) {
	runs, err := store.GetRuns(ctx, address)
	if err != nil {
		slog.Error("failed to read run history", "err", err)
		os.Exit(1)
	}
	notifier.PrintRuns(address, runs)
}
