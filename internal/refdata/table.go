package refdata

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/tick-data/internal/model"
)

// Fixed column positions in the reference file.
const (
	colCode       = 0
	colUnderlying = 1
	colRight      = 2
	colStrike     = 3
	colExpiry     = 4

	minFields = 5
)

// StrikeScale divides the integer strike column to obtain the decimal strike.
const StrikeScale = 1000

// expiryLayout is the expiry date format in the reference file.
const expiryLayout = "2006-01-02"

// Right codes as they appear in the reference file.
const (
	rightCodeCall = "CO"
	rightCodePut  = "PO"
)

// Contract is one parsed reference row.
type Contract struct {
	Code       string
	Underlying string
	Right      model.OptionRight
	Strike     decimal.Decimal
	Expiry     time.Time
}

// Table is an in-memory contract reference table.
type Table struct {
	rows []Contract
}

// Load reads and parses the reference file at path. An unreadable file is a
// fatal error; malformed rows are skipped and counted.
func Load(path string, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read reference file %s: %w", path, err)
	}

	t := &Table{rows: make([]Contract, 0, len(records))}
	skipped := 0

	for i, rec := range records {
		c, err := parseRow(rec)
		if err != nil {
			skipped++
			logger.Debug("skipping malformed reference row",
				"file", path,
				"row", i+1,
				"error", err,
			)
			continue
		}
		t.rows = append(t.rows, c)
	}

	logger.Info("reference table loaded",
		"file", path,
		"contracts", len(t.rows),
		"skipped", skipped,
	)
	return t, nil
}

// Lookup returns the first contract whose code equals code.
func (t *Table) Lookup(code string) (Contract, bool) {
	for _, c := range t.rows {
		if c.Code == code {
			return c, true
		}
	}
	return Contract{}, false
}

// Len returns the number of usable contract rows.
func (t *Table) Len() int {
	return len(t.rows)
}

func parseRow(rec []string) (Contract, error) {
	if len(rec) < minFields {
		return Contract{}, fmt.Errorf("want at least %d fields, got %d", minFields, len(rec))
	}

	var right model.OptionRight
	switch rec[colRight] {
	case rightCodeCall:
		right = model.RightCall
	case rightCodePut:
		right = model.RightPut
	default:
		return Contract{}, fmt.Errorf("unknown right code %q", rec[colRight])
	}

	rawStrike, err := strconv.ParseInt(rec[colStrike], 10, 64)
	if err != nil {
		return Contract{}, fmt.Errorf("parse strike %q: %w", rec[colStrike], err)
	}

	expiry, err := time.Parse(expiryLayout, rec[colExpiry])
	if err != nil {
		return Contract{}, fmt.Errorf("parse expiry %q: %w", rec[colExpiry], err)
	}

	return Contract{
		Code:       rec[colCode],
		Underlying: rec[colUnderlying],
		Right:      right,
		Strike:     decimal.NewFromInt(rawStrike).Div(decimal.NewFromInt(StrikeScale)),
		Expiry:     expiry,
	}, nil
}
