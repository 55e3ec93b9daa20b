package instrument

import (
	"log/slog"
	"path/filepath"

	"github.com/rickgao/tick-data/internal/model"
	"github.com/rickgao/tick-data/internal/refdata"
)

// Config controls identity resolution for one file session.
type Config struct {
	// Market is the venue code stamped on resolved identities.
	Market string

	// CodeStart and CodeLength locate the contract code inside the data
	// file's base name.
	CodeStart  int
	CodeLength int

	// Fallback is returned when the reference table has no row for the
	// file's code. It is caller-supplied: the resolver never invents a
	// default identity of its own.
	Fallback *model.Security
}

// Resolver maps file tokens to security identities, memoizing underlyings.
type Resolver struct {
	table  *refdata.Table
	cfg    Config
	logger *slog.Logger

	// underlyings caches one identity per underlying code.
	underlyings map[string]*model.Security
}

// NewResolver creates a resolver over a loaded reference table. table may be
// nil for equity-only sessions that never consult reference data.
func NewResolver(table *refdata.Table, cfg Config, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		table:       table,
		cfg:         cfg,
		logger:      logger,
		underlyings: make(map[string]*model.Security),
	}
}

// CodeFromFileName extracts the contract code from a file name using the
// configured fixed positions. Returns "" when the name is too short.
func (r *Resolver) CodeFromFileName(name string) string {
	base := filepath.Base(name)
	end := r.cfg.CodeStart + r.cfg.CodeLength
	if r.cfg.CodeStart < 0 || end > len(base) {
		return ""
	}
	return base[r.cfg.CodeStart:end]
}

// ResolveOption resolves the option contract identified by the data file's
// name. A reference-table miss yields the configured fallback identity; the
// miss is a policy outcome, not an error.
func (r *Resolver) ResolveOption(fileName string) *model.Security {
	code := r.CodeFromFileName(fileName)

	contract, ok := refLookup(r.table, code)
	if !ok {
		if r.cfg.Fallback == nil {
			r.logger.Warn("contract code not in reference table and no fallback configured, synthesizing identity",
				"file", fileName,
				"code", code,
			)
			return &model.Security{
				Symbol: code,
				Market: r.cfg.Market,
				Kind:   model.SecurityOption,
				Style:  model.StyleEuropean,
			}
		}
		r.logger.Info("contract code not in reference table, using fallback identity",
			"file", fileName,
			"code", code,
			"fallback", r.cfg.Fallback.Symbol,
		)
		return r.cfg.Fallback
	}

	underlying := r.underlying(contract.Underlying)

	// The contract identity is derived fresh per resolve; only the
	// underlying is shared.
	return &model.Security{
		Symbol:     contract.Code,
		Market:     r.cfg.Market,
		Kind:       model.SecurityOption,
		Underlying: underlying,
		Style:      model.StyleEuropean,
		Right:      contract.Right,
		Strike:     contract.Strike,
		Expiry:     contract.Expiry,
	}
}

// ResolveEquity resolves (and caches) an equity identity for symbol.
func (r *Resolver) ResolveEquity(symbol string) *model.Security {
	return r.underlying(symbol)
}

// underlying returns the cached identity for code, creating it on first use.
func (r *Resolver) underlying(code string) *model.Security {
	if s, ok := r.underlyings[code]; ok {
		return s
	}
	s := &model.Security{
		Symbol: code,
		Market: r.cfg.Market,
		Kind:   model.SecurityEquity,
	}
	r.underlyings[code] = s
	return s
}

func refLookup(table *refdata.Table, code string) (refdata.Contract, bool) {
	if table == nil || code == "" {
		return refdata.Contract{}, false
	}
	return table.Lookup(code)
}
