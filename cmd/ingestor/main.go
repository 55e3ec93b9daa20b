package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rickgao/tick-data/internal/config"
	"github.com/rickgao/tick-data/internal/database"
	"github.com/rickgao/tick-data/internal/instrument"
	"github.com/rickgao/tick-data/internal/model"
	"github.com/rickgao/tick-data/internal/pipeline"
	"github.com/rickgao/tick-data/internal/reader"
	"github.com/rickgao/tick-data/internal/refdata"
	"github.com/rickgao/tick-data/internal/version"
	"github.com/rickgao/tick-data/internal/writer"
)

const dateLayout = "2006-01-02"

func main() {
	configPath := flag.String("config", "configs/ingestor.local.yaml", "path to config file")
	filePath := flag.String("file", "", "tick data file to ingest")
	dateArg := flag.String("date", "", "session reference date (YYYY-MM-DD)")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting ingestor",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	if *filePath == "" || *dateArg == "" {
		logger.Error("both -file and -date are required")
		os.Exit(1)
	}

	refDate, err := time.Parse(dateLayout, *dateArg)
	if err != nil {
		logger.Error("invalid -date", "date", *dateArg, "error", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Logging.Level),
	}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"feed_kind", cfg.Feed.Kind,
		"date_check", cfg.Feed.DateCheck,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := run(ctx, cfg, *filePath, refDate, logger); err != nil {
		logger.Error("ingest failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.IngestorConfig, filePath string, refDate time.Time, logger *slog.Logger) error {
	runID := uuid.New()
	logger.Info("starting ingest run", "run_id", runID, "file", filePath, "date", refDate.Format(dateLayout))

	resolver, err := buildResolver(cfg.Feed, logger)
	if err != nil {
		return err
	}

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)
	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	// Wire reader -> buffer -> writer
	buf := pipeline.NewBuffer[model.Tick](cfg.Writer.BufferSize)
	w := writer.NewTickWriter(writer.Config{
		BatchSize:     cfg.Writer.BatchSize,
		FlushInterval: cfg.Writer.FlushInterval,
	}, buf, pool, runID, logger)

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start writer: %w", err)
	}

	readerCfg := reader.Config{
		Kind:      model.TickKind(cfg.Feed.Kind),
		Security:  model.SecurityKind(cfg.Feed.Security),
		DateCheck: reader.DateCheckMode(cfg.Feed.DateCheck),
		Venue:     cfg.Feed.Venue,
		Filter:    cfg.Feed.Symbols,
	}

	r, err := reader.New(filePath, refDate, resolver, readerCfg, logger)
	if err != nil {
		stopWriter(w, logger)
		return fmt.Errorf("open reader: %w", err)
	}

	// Single-consumer pull loop. The reader is primed, so the first element
	// is already current when the file produced one.
	for ok := r.HasCurrent(); ok && ctx.Err() == nil; ok = r.Advance() {
		buf.Send(r.Current())
	}

	if err := r.Close(); err != nil {
		logger.Warn("reader close failed", "error", err)
	}

	buf.Close()
	stopWriter(w, logger)

	stats := r.Stats()
	logger.Info("ingest run complete",
		"run_id", runID,
		"rows_read", stats.RowsRead,
		"accepted", stats.Accepted,
		"rejected", stats.Rejected,
		"policy_skipped", stats.PolicySkipped,
		"inserted", w.Stats().Inserts,
		"insert_errors", w.Stats().Errors,
	)

	if ctx.Err() != nil {
		return fmt.Errorf("ingest interrupted: %w", ctx.Err())
	}
	return nil
}

// buildResolver loads reference data for option feeds and assembles the
// identity resolver. Equity feeds resolve without a table.
func buildResolver(feed config.FeedConfig, logger *slog.Logger) (*instrument.Resolver, error) {
	resolverCfg := instrument.Config{
		Market:     feed.Venue,
		CodeStart:  feed.CodeStart,
		CodeLength: feed.CodeLength,
	}

	var table *refdata.Table
	if feed.Security == "option" {
		fallback, err := fallbackSecurity(feed)
		if err != nil {
			return nil, fmt.Errorf("build fallback identity: %w", err)
		}
		resolverCfg.Fallback = fallback

		table, err = refdata.Load(feed.ReferenceFile, logger)
		if err != nil {
			return nil, fmt.Errorf("load reference table: %w", err)
		}
	}

	return instrument.NewResolver(table, resolverCfg, logger), nil
}

// fallbackSecurity builds the configured lookup-miss identity.
func fallbackSecurity(feed config.FeedConfig) (*model.Security, error) {
	fb := feed.Fallback

	sec := &model.Security{
		Symbol: fb.Symbol,
		Market: feed.Venue,
		Kind:   model.SecurityOption,
		Style:  model.StyleEuropean,
	}

	if fb.Underlying != "" {
		sec.Underlying = &model.Security{
			Symbol: fb.Underlying,
			Market: feed.Venue,
			Kind:   model.SecurityEquity,
		}
	}

	switch fb.Right {
	case "call":
		sec.Right = model.RightCall
	case "put":
		sec.Right = model.RightPut
	case "":
	default:
		return nil, fmt.Errorf("unknown fallback right %q", fb.Right)
	}

	if fb.Strike != "" {
		strike, err := decimal.NewFromString(fb.Strike)
		if err != nil {
			return nil, fmt.Errorf("parse fallback strike %q: %w", fb.Strike, err)
		}
		sec.Strike = strike
	}

	if fb.Expiry != "" {
		expiry, err := time.Parse(dateLayout, fb.Expiry)
		if err != nil {
			return nil, fmt.Errorf("parse fallback expiry %q: %w", fb.Expiry, err)
		}
		sec.Expiry = expiry
	}

	return sec, nil
}

func stopWriter(w *writer.TickWriter, logger *slog.Logger) {
	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := w.Stop(stopCtx); err != nil {
		logger.Warn("writer stop failed", "error", err)
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
