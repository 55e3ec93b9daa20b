package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultFeedKind      = "open_interest"
	DefaultFeedSecurity  = "option"
	DefaultDateCheck     = "lenient"
	DefaultVenue         = "sse"
	DefaultCodeLength    = 8
	DefaultDBPort        = 5432
	DefaultDBSSLMode     = "prefer"
	DefaultMaxConns      = 10
	DefaultMinConns      = 2
	DefaultBatchSize     = 1000
	DefaultFlushInterval = 1 * time.Second
	DefaultBufferSize    = 10000
	DefaultLogLevel      = "info"
)

func (c *IngestorConfig) applyDefaults() {
	// Feed defaults
	if c.Feed.Kind == "" {
		c.Feed.Kind = DefaultFeedKind
	}
	if c.Feed.Security == "" {
		c.Feed.Security = DefaultFeedSecurity
	}
	if c.Feed.DateCheck == "" {
		c.Feed.DateCheck = DefaultDateCheck
	}
	if c.Feed.Venue == "" {
		c.Feed.Venue = DefaultVenue
	}
	if c.Feed.CodeLength == 0 {
		c.Feed.CodeLength = DefaultCodeLength
	}

	// Database defaults
	if c.Database.Postgres.Port == 0 {
		c.Database.Postgres.Port = DefaultDBPort
	}
	if c.Database.Postgres.SSLMode == "" {
		c.Database.Postgres.SSLMode = DefaultDBSSLMode
	}
	if c.Database.Postgres.MaxConns == 0 {
		c.Database.Postgres.MaxConns = DefaultMaxConns
	}
	if c.Database.Postgres.MinConns == 0 {
		c.Database.Postgres.MinConns = DefaultMinConns
	}

	// Writer defaults
	if c.Writer.BatchSize == 0 {
		c.Writer.BatchSize = DefaultBatchSize
	}
	if c.Writer.FlushInterval == 0 {
		c.Writer.FlushInterval = DefaultFlushInterval
	}
	if c.Writer.BufferSize == 0 {
		c.Writer.BufferSize = DefaultBufferSize
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}
