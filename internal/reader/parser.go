package reader

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/tick-data/internal/model"
	"github.com/rickgao/tick-data/internal/schema"
)

// timeLayout parses the row timestamp. The hour field is the 12-hour form on
// purpose: the upstream feed writes its stamps that way, and rows whose hour
// field exceeds 12 do not parse. Switching to the 24-hour form would change
// which rows are accepted, so the ambiguity is preserved.
const timeLayout = "2006-01-02 03:04:05"

// DateCheckMode selects how a row's embedded date relates to the session
// reference date.
type DateCheckMode string

const (
	// DateCheckLenient ignores the row's date entirely; the reference date
	// is authoritative. Used by the option feed.
	DateCheckLenient DateCheckMode = "lenient"

	// DateCheckStrict additionally requires the row's date to equal the
	// reference date and skips mismatches. Used by the equity feed.
	DateCheckStrict DateCheckMode = "strict"
)

// Row reject reasons. All are contained at the row boundary; none is fatal.
var (
	errShortRow     = errors.New("row has fewer columns than the header requires")
	errTimeMissing  = errors.New("time column not addressable in row")
	errBadTime      = errors.New("unparseable time field")
	errFieldMissing = errors.New("required column not bound by header")

	// errDateMismatch is a policy outcome, not a malformed row; strict-mode
	// readers skip such rows silently.
	errDateMismatch = errors.New("row date differs from session reference date")
)

// rowParser converts one raw line into a Tick for a fixed schema, identity
// and session date.
type rowParser struct {
	cfg      Config
	schema   schema.Map
	security *model.Security
	refDate  time.Time
}

func newRowParser(cfg Config, sm schema.Map, sec *model.Security, refDate time.Time) *rowParser {
	return &rowParser{
		cfg:      cfg,
		schema:   sm,
		security: sec,
		refDate:  refDate,
	}
}

// parse converts line into a Tick or reports why the row is unusable.
func (p *rowParser) parse(line string) (model.Tick, error) {
	tokens := splitFields(line)

	// Column indices are compared against token count minus one: every
	// bound index must be addressable in this row.
	if len(tokens) < p.schema.MinColumns+1 {
		return model.Tick{}, errShortRow
	}

	timeIdx := p.schema.Index(schema.FieldTime)
	if timeIdx < 0 || timeIdx >= len(tokens) {
		return model.Tick{}, errTimeMissing
	}

	parsed, err := time.Parse(timeLayout, strings.TrimSpace(tokens[timeIdx]))
	if err != nil {
		return model.Tick{}, fmt.Errorf("%w: %v", errBadTime, err)
	}

	if p.cfg.DateCheck == DateCheckStrict && !sameDate(parsed, p.refDate) {
		return model.Tick{}, errDateMismatch
	}

	// The row's date portion is discarded: the event timestamp is the
	// session reference date plus the row's time of day.
	y, m, d := p.refDate.Date()
	ts := time.Date(y, m, d,
		parsed.Hour(), parsed.Minute(), parsed.Second(), parsed.Nanosecond(),
		p.refDate.Location())

	// Numeric fields bound by the header parse unconditionally; a garbage
	// value rejects the row whatever the configured kind.
	var price, volume, openInt decimal.Decimal
	if price, err = p.decimalAt(tokens, schema.FieldPrice, false); err != nil {
		return model.Tick{}, err
	}
	if volume, err = p.decimalAt(tokens, schema.FieldVolume, false); err != nil {
		return model.Tick{}, err
	}
	if openInt, err = p.decimalAt(tokens, schema.FieldOpenInt, false); err != nil {
		return model.Tick{}, err
	}

	tick := model.Tick{
		Security:  p.security,
		Kind:      p.cfg.Kind,
		Timestamp: ts,
		Venue:     p.cfg.Venue,
	}

	switch p.cfg.Kind {
	case model.TickTrade:
		if !p.schema.Has(schema.FieldPrice) || !p.schema.Has(schema.FieldVolume) {
			return model.Tick{}, fmt.Errorf("%w: trade needs %s and %s", errFieldMissing, schema.FieldPrice, schema.FieldVolume)
		}
		tick.Price = price
		tick.Quantity = volume

	case model.TickQuote:
		if tick.BidPrice, err = p.decimalAt(tokens, schema.FieldBidPrice, true); err != nil {
			return model.Tick{}, err
		}
		if tick.BidSize, err = p.decimalAt(tokens, schema.FieldBidSize, true); err != nil {
			return model.Tick{}, err
		}
		if tick.AskPrice, err = p.decimalAt(tokens, schema.FieldAskPrice, true); err != nil {
			return model.Tick{}, err
		}
		if tick.AskSize, err = p.decimalAt(tokens, schema.FieldAskSize, true); err != nil {
			return model.Tick{}, err
		}

	case model.TickOpenInterest:
		if !p.schema.Has(schema.FieldOpenInt) {
			return model.Tick{}, fmt.Errorf("%w: open interest needs %s", errFieldMissing, schema.FieldOpenInt)
		}
		tick.Value = openInt

	default:
		return model.Tick{}, fmt.Errorf("unsupported tick kind %q", p.cfg.Kind)
	}

	return tick, nil
}

// decimalAt parses the token bound to field. When required is false an
// unbound field yields zero; an unaddressable or unparseable token always
// rejects the row.
func (p *rowParser) decimalAt(tokens []string, field string, required bool) (decimal.Decimal, error) {
	idx := p.schema.Index(field)
	if idx < 0 {
		if required {
			return decimal.Decimal{}, fmt.Errorf("%w: %s", errFieldMissing, field)
		}
		return decimal.Decimal{}, nil
	}
	if idx >= len(tokens) {
		return decimal.Decimal{}, errShortRow
	}

	v, err := decimal.NewFromString(strings.TrimSpace(tokens[idx]))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse %s %q: %w", field, tokens[idx], err)
	}
	return v, nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
