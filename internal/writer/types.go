package writer

import "time"

// Config contains configuration for the batch writer.
type Config struct {
	// BatchSize is the number of rows to accumulate before flushing.
	BatchSize int

	// FlushInterval is the maximum time between flushes.
	FlushInterval time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:     1000,
		FlushInterval: time.Second,
	}
}

// Metrics counts writer outcomes.
type Metrics struct {
	Inserts int64
	Flushes int64
	Errors  int64
}

// tickRow is one row of the ticks table. Numeric payloads are decimal
// strings so pgx binds them to NUMERIC columns without precision loss.
type tickRow struct {
	RunID      string // Ingest run UUID
	Symbol     string
	Underlying string
	Market     string
	Kind       string
	EventTS    int64 // Microseconds since epoch

	Price    string
	Quantity string
	BidPrice string
	BidSize  string
	AskPrice string
	AskSize  string
	Value    string
}
