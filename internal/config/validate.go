package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *IngestorConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if err := c.Feed.validate(); err != nil {
		return err
	}

	if err := c.Database.Postgres.validate("database.postgres"); err != nil {
		return err
	}

	if c.Writer.BatchSize < 1 {
		return errors.New("writer.batch_size must be >= 1")
	}
	if c.Writer.BufferSize < 1 {
		return errors.New("writer.buffer_size must be >= 1")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}

	return nil
}

func (f *FeedConfig) validate() error {
	switch f.Kind {
	case "trade", "quote", "open_interest":
	default:
		return fmt.Errorf("feed.kind must be trade, quote or open_interest, got %q", f.Kind)
	}

	switch f.Security {
	case "equity", "option":
	default:
		return fmt.Errorf("feed.security must be equity or option, got %q", f.Security)
	}

	switch f.DateCheck {
	case "lenient", "strict":
	default:
		return fmt.Errorf("feed.date_check must be lenient or strict, got %q", f.DateCheck)
	}

	if f.CodeStart < 0 {
		return errors.New("feed.code_start must be >= 0")
	}
	if f.CodeLength < 1 {
		return errors.New("feed.code_length must be >= 1")
	}

	if f.Security == "option" {
		if f.ReferenceFile == "" {
			return errors.New("feed.reference_file is required for option feeds")
		}
		if f.Fallback.Symbol == "" {
			return errors.New("feed.fallback.symbol is required for option feeds")
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
