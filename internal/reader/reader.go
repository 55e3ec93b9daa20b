package reader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rickgao/tick-data/internal/instrument"
	"github.com/rickgao/tick-data/internal/model"
	"github.com/rickgao/tick-data/internal/schema"
	"github.com/rickgao/tick-data/internal/source"
)

// ErrResetNotSupported is returned by Reset: a TickReader is single-pass.
var ErrResetNotSupported = errors.New("tick reader cannot be reset")

// Config fixes a reader's behavior for its whole run.
type Config struct {
	// Kind is the event kind every accepted row produces. It is a property
	// of the feed, never inferred from row content.
	Kind model.TickKind

	// Security selects how the file's identity is resolved: option files go
	// through the reference table, equity files synthesize from the file
	// name code.
	Security model.SecurityKind

	// DateCheck is the per-feed date policy.
	DateCheck DateCheckMode

	// Venue is stamped on every event.
	Venue string

	// Filter optionally restricts the stream to files whose resolved
	// underlying is in the set. Empty means accept everything.
	Filter []string
}

// Stats counts row outcomes for one reader.
type Stats struct {
	RowsRead      int64
	Accepted      int64
	Rejected      int64
	PolicySkipped int64
}

// TickReader is a pull-based, single-pass stream of ticks over one file.
// A freshly constructed reader is already primed: HasCurrent reports whether
// the file produced a first event.
type TickReader struct {
	cfg    Config
	logger *slog.Logger

	src    source.LineSource
	parser *rowParser

	current    model.Tick
	hasCurrent bool
	done       bool
	closed     bool

	stats Stats
}

// New opens path, consumes its header, resolves the file's identity and
// primes the stream. The source is released on every failure path. An
// unreadable file is the only construction-fatal condition; a file with no
// usable header constructs fine and yields zero events.
func New(path string, refDate time.Time, res *instrument.Resolver, cfg Config, logger *slog.Logger) (*TickReader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Kind {
	case model.TickTrade, model.TickQuote, model.TickOpenInterest:
	default:
		return nil, fmt.Errorf("unsupported tick kind %q", cfg.Kind)
	}

	src, err := source.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tick file: %w", err)
	}

	header, err := readHeader(src)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	sm := schema.Detect(splitFields(header))

	var sec *model.Security
	if cfg.Security == model.SecurityOption {
		sec = res.ResolveOption(path)
	} else {
		sec = res.ResolveEquity(res.CodeFromFileName(path))
	}

	t := &TickReader{
		cfg:    cfg,
		logger: logger,
		src:    src,
		parser: newRowParser(cfg, sm, sec, refDate),
	}

	if !filterAccepts(cfg.Filter, sec) {
		logger.Debug("underlying not in filter, stream yields no events",
			"file", path,
			"underlying", sec.UnderlyingSymbol(),
		)
		t.done = true
	}

	// Prime: a new reader already exposes its first element, or none.
	t.Advance()

	return t, nil
}

// filterAccepts reports whether the filter set admits the file's underlying.
func filterAccepts(filter []string, sec *model.Security) bool {
	if len(filter) == 0 {
		return true
	}
	for _, symbol := range filter {
		if symbol == sec.UnderlyingSymbol() {
			return true
		}
	}
	return false
}

// Advance reads lines until one yields an accepted event or the file is
// exhausted. Rejected rows are logged and skipped with no upper bound: a file
// of nothing but malformed rows degrades to a full scan producing no events.
func (t *TickReader) Advance() bool {
	if t.done {
		return false
	}

	for {
		line, err := t.src.ReadLine()
		if err != nil {
			if err != io.EOF {
				t.logger.Error("tick file read failed", "error", err)
			}
			t.done = true
			t.hasCurrent = false
			t.current = model.Tick{}
			return false
		}

		t.stats.RowsRead++

		tick, err := t.parser.parse(line)
		if err != nil {
			if errors.Is(err, errDateMismatch) {
				t.stats.PolicySkipped++
				t.logger.Debug("skipping cross-date row", "line", line)
			} else {
				t.stats.Rejected++
				t.logger.Warn("rejecting row", "error", err, "line", line)
			}
			continue
		}

		t.current = tick
		t.hasCurrent = true
		t.stats.Accepted++
		return true
	}
}

// Current returns the last accepted event. Guarding against reading before
// the first Advance or after exhaustion is the caller's job; HasCurrent
// reports whether Current is meaningful.
func (t *TickReader) Current() model.Tick {
	return t.current
}

// HasCurrent reports whether the reader currently exposes an event.
func (t *TickReader) HasCurrent() bool {
	return t.hasCurrent
}

// Reset always fails: the stream is single-pass.
func (t *TickReader) Reset() error {
	return ErrResetNotSupported
}

// Close releases the line source. Idempotent.
func (t *TickReader) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.done = true
	t.hasCurrent = false
	t.current = model.Tick{}
	return t.src.Close()
}

// Stats returns row outcome counters.
func (t *TickReader) Stats() Stats {
	return t.stats
}

// readHeader returns the first non-empty line, or "" at immediate EOF so a
// headerless file detects an empty schema instead of failing the open.
func readHeader(src source.LineSource) (string, error) {
	for {
		line, err := src.ReadLine()
		if err == io.EOF {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
	}
}
