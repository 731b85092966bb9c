package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/polycopy/config"
	"github.com/alejandrodnm/polycopy/internal/adapters/notify"
	"github.com/alejandrodnm/polycopy/internal/adapters/polymarket"
	"github.com/alejandrodnm/polycopy/internal/adapters/storage"
	"github.com/alejandrodnm/polycopy/internal/domain"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	address := flag.String("address", "", "trader address to replay (0x...)")
	from := flag.String("from", "", "window start: YYYY-MM-DD, RFC3339 or unix seconds")
	to := flag.String("to", "", "window end: YYYY-MM-DD, RFC3339 or unix seconds")
	capital := flag.Float64("capital", 0, "initial capital in USDC (overrides config)")
	ratio := flag.Float64("ratio", 0, "proportional sizing ratio (overrides config)")
	budget := flag.Float64("budget", 0, "fixed notional per buy; switches to fixed sizing")
	partial := flag.Bool("partial", false, "allow partial fills when cash runs short")
	follow := flag.Bool("follow", false, "live mode: poll the feed and replay new fills")
	report := flag.Bool("report", false, "print recorded run history and exit")
	refresh := flag.Bool("refresh", false, "refetch the feed even when cached trades exist")
	csvPath := flag.String("csv", "", "write realized trades CSV to this path")
	equityPath := flag.String("equity", "", "write equity curve CSV to this path")
	htmlPath := flag.String("html", "", "write HTML report to this path")
	table := flag.Bool("table", false, "print full tables (default: summary only)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	if *address == "" {
		slog.Error("missing -address")
		os.Exit(1)
	}
	if !polymarket.ValidAddress(*address) {
		slog.Error("invalid address", "address", *address)
		os.Exit(1)
	}

	simCfg, err := buildSimConfig(cfg, *capital, *ratio, *budget, *partial, *from, *to)
	if err != nil {
		slog.Error("invalid simulation settings", "err", err)
		os.Exit(1)
	}

	slog.Info("polycopy starting",
		"config", *configPath,
		"address", *address,
		"capital", simCfg.InitialCapital,
		"sizing", simCfg.Sizing.Mode,
		"follow", *follow,
		"report", *report,
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	notifier := notify.NewConsole(*table || *follow)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *report {
		runReport(ctx, store, notifier, *address)
		return
	}

	client := polymarket.NewClient(cfg.API.DataBase)

	if *follow {
		runFollow(ctx, client, store, notifier, *address, simCfg, cfg.PollInterval())
		return
	}

	exports := exportPaths{realized: *csvPath, equity: *equityPath, html: *htmlPath}
	if err := runBacktest(ctx, client, store, notifier, *address, simCfg, *refresh, exports); err != nil {
		slog.Error("backtest failed", "err", err)
		os.Exit(1)
	}
}

func buildSimConfig(cfg *config.Config, capital, ratio, budget float64, partial bool, from, to string) (domain.SimulationConfig, error) {
	simCfg := domain.SimulationConfig{
		InitialCapital:    cfg.Sim.InitialCapital,
		Sizing:            domain.RatioSizing(cfg.Sim.FollowRatio),
		AllowPartialFills: cfg.Sim.PartialFills || partial,
	}

	if capital > 0 {
		simCfg.InitialCapital = capital
	}
	if ratio > 0 {
		simCfg.Sizing = domain.RatioSizing(ratio)
	}
	switch {
	case budget > 0:
		simCfg.Sizing = domain.FixedNotionalSizing(budget)
	case cfg.Sim.FixedBudget > 0 && ratio == 0:
		simCfg.Sizing = domain.FixedNotionalSizing(cfg.Sim.FixedBudget)
	}

	if cfg.Sim.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Sim.Timezone)
		if err != nil {
			return simCfg, err
		}
		simCfg.Location = loc
	}

	var err error
	if simCfg.StartTs, err = parseTime(from); err != nil {
		return simCfg, err
	}
	if simCfg.EndTs, err = parseTime(to); err != nil {
		return simCfg, err
	}
	return simCfg, nil
}

// parseTime accepts unix seconds, RFC3339 or a bare date. Empty means
// unbounded and maps to zero.
func parseTime(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ts, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, &time.ParseError{Layout: time.RFC3339, Value: s, Message: ": unrecognized time"}
}

func newReplayRun(address string, cfg domain.SimulationConfig, res *domain.Result) domain.Run {
	return domain.Run{
		ID:             uuid.New().String(),
		Address:        address,
		InitialCapital: cfg.InitialCapital,
		SizingMode:     cfg.Sizing.Mode,
		Ratio:          cfg.Sizing.Ratio,
		Budget:         cfg.Sizing.Budget,
		StartTs:        cfg.StartTs,
		EndTs:          cfg.EndTs,
		PartialFills:   cfg.AllowPartialFills,
		FinalEquity:    res.Summary.FinalEquity,
		PnL:            res.Summary.PnL,
		PnLPct:         res.Summary.PnLPct,
		Trades:         res.Summary.TradesConsidered,
		SkippedTrades:  res.Summary.SkippedTrades,
		CreatedAt:      time.Now().UTC(),
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
