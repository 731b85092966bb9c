package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alejandrodnm/polycopy/internal/adapters/notify"
	"github.com/alejandrodnm/polycopy/internal/domain"
	"github.com/alejandrodnm/polycopy/internal/ports"
	"github.com/alejandrodnm/polycopy/internal/sim"
)

type exportPaths struct {
	realized string
	equity   string
	html     string
}

func runBacktest(ctx context.Context, client ports.TradeProvider, store ports.Storage, notifier ports.Notifier, address string, cfg domain.SimulationConfig, refresh bool, exports exportPaths) error {
	trades, err := loadTrades(ctx, client, store, address, refresh)
	if err != nil {
		return err
	}
	if len(trades) == 0 {
		slog.Warn("no trades found for address", "address", address)
	}

	res := sim.Replay(trades, cfg)
	notifier.PrintResult(res)

	if err := writeExports(res, address, exports); err != nil {
		return err
	}

	run := newReplayRun(address, cfg, res)
	if err := store.SaveRun(ctx, run); err != nil {
		slog.Warn("could not record run", "err", err)
	} else {
		slog.Info("run recorded", "id", run.ID, "final_equity", run.FinalEquity)
	}
	return nil
}

// loadTrades serves from the local cache when it has anything for the
// address, unless a refresh is forced. A fetch always merges into the
// cache so the next invocation is offline-capable.
func loadTrades(ctx context.Context, client ports.TradeProvider, store ports.TradeStore, address string, refresh bool) ([]domain.Trade, error) {
	if !refresh {
		cached, err := store.GetTrades(ctx, address)
		if err != nil {
			return nil, fmt.Errorf("main.loadTrades: read cache: %w", err)
		}
		if len(cached) > 0 {
			slog.Info("using cached trades", "address", address, "count", len(cached))
			return cached, nil
		}
	}

	slog.Info("fetching trade activity", "address", address)
	fetched, err := client.FetchActivity(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("main.loadTrades: fetch activity: %w", err)
	}
	if err := store.SaveTrades(ctx, address, fetched); err != nil {
		slog.Warn("could not cache trades", "err", err)
	}

	// Read back so a refresh still sees older cached fills that fell
	// off the feed's pagination window.
	merged, err := store.GetTrades(ctx, address)
	if err != nil || len(merged) == 0 {
		return fetched, nil
	}
	return merged, nil
}

func writeExports(res *domain.Result, address string, exports exportPaths) error {
	if exports.realized != "" {
		if err := writeFile(exports.realized, func(f *os.File) error {
			return notify.WriteRealizedCSV(f, res)
		}); err != nil {
			return err
		}
		slog.Info("realized trades exported", "path", exports.realized)
	}
	if exports.equity != "" {
		if err := writeFile(exports.equity, func(f *os.File) error {
			return notify.WriteEquityCSV(f, res)
		}); err != nil {
			return err
		}
		slog.Info("equity curve exported", "path", exports.equity)
	}
	if exports.html != "" {
		if err := writeFile(exports.html, func(f *os.File) error {
			return notify.WriteHTMLReport(f, res, address)
		}); err != nil {
			return err
		}
		slog.Info("HTML report exported", "path", exports.html)
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("main.writeFile: %w", err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("main.writeFile: %s: %w", path, err)
	}
	return nil
}
