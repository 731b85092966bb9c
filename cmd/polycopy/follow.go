package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alejandrodnm/polycopy/internal/domain"
	"github.com/alejandrodnm/polycopy/internal/ports"
	"github.com/alejandrodnm/polycopy/internal/sim"
)

// runFollow polls the activity feed and replays only fills that landed
// after the moment the loop started, so the session begins flat with the
// full configured capital.
func runFollow(ctx context.Context, client ports.TradeProvider, store ports.TradeStore, notifier ports.Notifier, address string, cfg domain.SimulationConfig, poll time.Duration) {
	start := time.Now().Unix()
	if latest, err := store.LatestTradeTs(ctx, address); err == nil && latest >= start {
		start = latest + 1
	}

	cfg.StartTs = start
	cfg.EndTs = 0

	simulator, err := sim.NewSimulator()
	if err != nil {
		slog.Error("failed to init simulator", "err", err)
		os.Exit(1)
	}
	defer simulator.Close()

	slog.Info("=== FOLLOW MODE ===",
		"address", address,
		"since", time.Unix(start, 0).UTC().Format(time.RFC3339),
		"poll", poll,
	)
	fmt.Printf("[FOLLOW] Watching %s — press Ctrl+C or create STOP file to exit\n", address)

	stopFile := "STOP"
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	last := runFollowCycle(ctx, client, store, simulator, notifier, address, cfg)

	for {
		select {
		case <-ctx.Done():
			slog.Info("follow mode stopped (signal)")
			printFollowExitSummary(notifier, last)
			return
		case <-ticker.C:
			if _, err := os.Stat(stopFile); err == nil {
				slog.Info("STOP file detected — shutting down follow mode")
				os.Remove(stopFile)
				printFollowExitSummary(notifier, last)
				return
			}
			if res := runFollowCycle(ctx, client, store, simulator, notifier, address, cfg); res != nil {
				last = res
			}
		}
	}
}

func runFollowCycle(ctx context.Context, client ports.TradeProvider, store ports.TradeStore, simulator *sim.Simulator, notifier ports.Notifier, address string, cfg domain.SimulationConfig) *domain.Result {
	fetched, err := client.FetchActivity(ctx, address)
	if err != nil {
		slog.Warn("feed fetch failed, keeping last state", "err", err)
		return nil
	}
	if err := store.SaveTrades(ctx, address, fetched); err != nil {
		slog.Warn("could not cache trades", "err", err)
	}

	trades, err := store.GetTrades(ctx, address)
	if err != nil {
		slog.Warn("cache read failed, using fetched trades", "err", err)
		trades = fetched
	}

	res := simulator.Run(trades, cfg)
	notifier.PrintCompact(res, time.Now())
	return res
}

func printFollowExitSummary(notifier ports.Notifier, res *domain.Result) {
	if res == nil {
		return
	}
	fmt.Println("\n=== SESSION SUMMARY ===")
	notifier.PrintResult(res)
}
