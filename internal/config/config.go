package config

import "time"

// IngestorConfig is the root configuration for an ingestor run.
type IngestorConfig struct {
	Instance InstanceConfig `yaml:"instance"`
	Feed     FeedConfig     `yaml:"feed"`
	Database DatabaseConfig `yaml:"database"`
	Writer   WriterConfig   `yaml:"writer"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// InstanceConfig identifies this ingestor.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// FeedConfig describes one feed's files and its per-feed policy. The event
// kind and date-check mode are properties of the feed, not of individual rows.
type FeedConfig struct {
	Kind      string `yaml:"kind"`       // trade | quote | open_interest
	Security  string `yaml:"security"`   // equity | option
	DateCheck string `yaml:"date_check"` // lenient | strict
	Venue     string `yaml:"venue"`

	// ReferenceFile is the contract lookup table (option feeds only).
	ReferenceFile string `yaml:"reference_file"`

	// CodeStart and CodeLength locate the contract code in a data file name.
	CodeStart  int `yaml:"code_start"`
	CodeLength int `yaml:"code_length"`

	// Symbols optionally restricts ingestion to these underlyings.
	Symbols []string `yaml:"symbols"`

	Fallback FallbackConfig `yaml:"fallback"`
}

// FallbackConfig is the identity used when the reference table has no row
// for a file's code. Option feeds must configure it explicitly.
type FallbackConfig struct {
	Symbol     string `yaml:"symbol"`
	Underlying string `yaml:"underlying"`
	Right      string `yaml:"right"`  // call | put
	Strike     string `yaml:"strike"` // decimal string
	Expiry     string `yaml:"expiry"` // 2006-01-02
}

// DatabaseConfig holds the Postgres connection for persisted ticks.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// WriterConfig holds batch writer settings.
type WriterConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}
