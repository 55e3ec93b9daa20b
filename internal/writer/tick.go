package writer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/tick-data/internal/model"
	"github.com/rickgao/tick-data/internal/pipeline"
)

// TickWriter consumes ticks from the pipeline buffer and writes them to the
// ticks table.
type TickWriter struct {
	cfg    Config
	logger *slog.Logger
	runID  uuid.UUID

	// Input from the ingest loop
	input *pipeline.Buffer[model.Tick]

	// Database
	db *pgxpool.Pool

	// Batching
	batch       []tickRow
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Metrics
	metrics Metrics

	// insert performs the batch write. Swappable in tests.
	insert func(ctx context.Context, rows []tickRow) error
}

// NewTickWriter creates a new TickWriter stamping runID on every row.
func NewTickWriter(
	cfg Config,
	input *pipeline.Buffer[model.Tick],
	db *pgxpool.Pool,
	runID uuid.UUID,
	logger *slog.Logger,
) *TickWriter {
	if logger == nil {
		logger = slog.Default()
	}
	w := &TickWriter{
		cfg:    cfg,
		input:  input,
		db:     db,
		runID:  runID,
		logger: logger,
		batch:  make([]tickRow, 0, cfg.BatchSize),
	}
	w.insert = w.batchInsert
	return w
}

// Start begins consuming ticks and writing to the database.
func (w *TickWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("tick writer started",
		"run_id", w.runID,
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer and flushes the remaining batch.
func (w *TickWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping tick writer")

	if w.cancel != nil {
		w.cancel()
	}
	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("tick writer stopped")
	case <-ctx.Done():
		w.logger.Warn("tick writer stop timed out")
	}

	// Drain whatever the consume loop did not get to. Accumulate only: the
	// run context is already cancelled, so batches must not auto-flush
	// against it. The single final flush below runs on a fresh context.
	for {
		tick, ok := w.input.TryReceive()
		if !ok {
			break
		}
		row := w.transform(tick)
		w.batchMu.Lock()
		w.batch = append(w.batch, row)
		w.batchMu.Unlock()
	}
	w.flush(context.Background())

	return nil
}

// Stats returns current metrics.
func (w *TickWriter) Stats() Metrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// consumeLoop reads from the input buffer and accumulates batches.
func (w *TickWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		default:
			tick, ok := w.input.TryReceive()
			if !ok {
				select {
				case <-w.ctx.Done():
					return
				case <-time.After(10 * time.Millisecond):
					continue
				}
			}
			w.append(tick)
		}
	}
}

// flushLoop periodically flushes the batch.
func (w *TickWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush(w.ctx)
		}
	}
}

// append transforms and adds a tick to the batch.
func (w *TickWriter) append(tick model.Tick) {
	row := w.transform(tick)

	w.batchMu.Lock()
	w.batch = append(w.batch, row)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush(w.ctx)
	}
}

// transform converts a model.Tick to a tickRow.
func (w *TickWriter) transform(tick model.Tick) tickRow {
	return tickRow{
		RunID:      w.runID.String(),
		Symbol:     tick.Security.Symbol,
		Underlying: tick.Security.UnderlyingSymbol(),
		Market:     tick.Security.Market,
		Kind:       string(tick.Kind),
		EventTS:    tick.Timestamp.UnixMicro(),
		Price:      tick.Price.String(),
		Quantity:   tick.Quantity.String(),
		BidPrice:   tick.BidPrice.String(),
		BidSize:    tick.BidSize.String(),
		AskPrice:   tick.AskPrice.String(),
		AskSize:    tick.AskSize.String(),
		Value:      tick.Value.String(),
	}
}

// flush writes the current batch to the database.
func (w *TickWriter) flush(ctx context.Context) {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]tickRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	if err := w.insert(ctx, batch); err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	w.batchMu.Lock()
	w.metrics.Inserts += int64(len(batch))
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed ticks",
		"count", len(batch),
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch.
func (w *TickWriter) batchInsert(ctx context.Context, rows []tickRow) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO ticks (run_id, symbol, underlying, market, kind, event_ts,
			                   price, quantity, bid_price, bid_size, ask_price, ask_size, value)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`, r.RunID, r.Symbol, r.Underlying, r.Market, r.Kind, r.EventTS,
			r.Price, r.Quantity, r.BidPrice, r.BidSize, r.AskPrice, r.AskSize, r.Value)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return nil
}
