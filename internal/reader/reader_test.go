package reader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/tick-data/internal/instrument"
	"github.com/rickgao/tick-data/internal/model"
	"github.com/rickgao/tick-data/internal/refdata"
)

var testRefDate = time.Date(2015, 3, 25, 0, 0, 0, 0, time.UTC)

func writeTickFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestResolver(t *testing.T) *instrument.Resolver {
	t.Helper()
	refPath := filepath.Join(t.TempDir(), "contracts.csv")
	ref := "10000001,510050,CO,2200,2015-04-22\n"
	if err := os.WriteFile(refPath, []byte(ref), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := refdata.Load(refPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	return instrument.NewResolver(table, instrument.Config{
		Market:     "sse",
		CodeStart:  0,
		CodeLength: 8,
		Fallback:   &model.Security{Symbol: "10000001", Market: "sse", Kind: model.SecurityOption},
	}, nil)
}

func optionConfig() Config {
	return Config{
		Kind:      model.TickOpenInterest,
		Security:  model.SecurityOption,
		DateCheck: DateCheckLenient,
		Venue:     "sse",
	}
}

func TestTickReader_PrimedOnConstruction(t *testing.T) {
	path := writeTickFile(t, "10000001_20150325.csv",
		"Time,Price,Volume,OpenInt\n2015-03-25 09:30:00,2.2,100,500\n")

	r, err := New(path, testRefDate, newTestResolver(t), optionConfig(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Close()

	if !r.HasCurrent() {
		t.Fatal("HasCurrent() = false after construction, want primed first event")
	}

	tick := r.Current()
	if tick.Kind != model.TickOpenInterest {
		t.Errorf("Kind = %q, want open_interest", tick.Kind)
	}
	if want := decimal.NewFromInt(500); !tick.Value.Equal(want) {
		t.Errorf("Value = %s, want 500", tick.Value)
	}
	wantTS := time.Date(2015, 3, 25, 9, 30, 0, 0, time.UTC)
	if !tick.Timestamp.Equal(wantTS) {
		t.Errorf("Timestamp = %v, want %v", tick.Timestamp, wantTS)
	}
	if tick.Security.Right != model.RightCall {
		t.Errorf("Security.Right = %q, want call", tick.Security.Right)
	}

	// Single data row: the next advance exhausts the stream.
	if r.Advance() {
		t.Error("Advance() = true, want false after last row")
	}
	if r.HasCurrent() {
		t.Error("HasCurrent() = true after exhaustion, want false")
	}
}

func TestTickReader_HeaderOnly(t *testing.T) {
	path := writeTickFile(t, "10000001_20150325.csv", "Time,Price,Volume,OpenInt\n")

	r, err := New(path, testRefDate, newTestResolver(t), optionConfig(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Close()

	if r.HasCurrent() {
		t.Error("HasCurrent() = true for header-only file, want false")
	}
	if r.Advance() {
		t.Error("Advance() = true for header-only file, want false")
	}
}

func TestTickReader_EmptyFile(t *testing.T) {
	path := writeTickFile(t, "10000001_20150325.csv", "")

	r, err := New(path, testRefDate, newTestResolver(t), optionConfig(), nil)
	if err != nil {
		t.Fatalf("New() error = %v, empty files must construct", err)
	}
	defer r.Close()

	if r.HasCurrent() {
		t.Error("HasCurrent() = true for empty file, want false")
	}
}

func TestTickReader_NoUsableHeader(t *testing.T) {
	// The first line binds no recognized field, so every data row rejects
	// and the reader produces zero events rather than failing to open.
	path := writeTickFile(t, "10000001_20150325.csv",
		"foo,bar,baz\n2015-03-25 09:30:00,2.2,100,500\n")

	r, err := New(path, testRefDate, newTestResolver(t), optionConfig(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Close()

	if r.HasCurrent() {
		t.Error("HasCurrent() = true without a usable header, want false")
	}
	if got := r.Stats().Rejected; got != 1 {
		t.Errorf("Stats().Rejected = %d, want 1", got)
	}
}

func TestTickReader_AllRowsMalformed(t *testing.T) {
	path := writeTickFile(t, "10000001_20150325.csv",
		"Time,Price,Volume,OpenInt\njunk\nmore,junk\n2015-03-25 09:30:00,x,y,z\n")

	r, err := New(path, testRefDate, newTestResolver(t), optionConfig(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Close()

	if r.HasCurrent() {
		t.Error("HasCurrent() = true, want false when every row is malformed")
	}

	stats := r.Stats()
	if stats.Accepted != 0 {
		t.Errorf("Stats().Accepted = %d, want 0", stats.Accepted)
	}
	if stats.Rejected != 3 {
		t.Errorf("Stats().Rejected = %d, want 3", stats.Rejected)
	}
}

func TestTickReader_SkipsMalformedRows(t *testing.T) {
	path := writeTickFile(t, "10000001_20150325.csv",
		"Time,Price,Volume,OpenInt\n"+
			"2015-03-25 09:30:00,2.2,100,500\n"+
			"garbage row\n"+
			"2015-03-25 09:30:03,2.3,50,510\n")

	r, err := New(path, testRefDate, newTestResolver(t), optionConfig(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Close()

	var values []string
	for ok := r.HasCurrent(); ok; ok = r.Advance() {
		values = append(values, r.Current().Value.String())
	}

	if len(values) != 2 || values[0] != "500" || values[1] != "510" {
		t.Errorf("values = %v, want [500 510]", values)
	}
	if got := r.Stats().Rejected; got != 1 {
		t.Errorf("Stats().Rejected = %d, want 1", got)
	}
}

func TestTickReader_StrictModeSkipsCrossDateRows(t *testing.T) {
	path := writeTickFile(t, "510050_20150325.csv",
		"Time,Price,Volume\n"+
			"2015-03-24 09:30:00,2.2,100\n"+
			"2015-03-25 09:30:00,2.3,200\n")

	cfg := Config{
		Kind:      model.TickTrade,
		Security:  model.SecurityEquity,
		DateCheck: DateCheckStrict,
		Venue:     "sse",
	}
	r, err := New(path, testRefDate, newTestResolver(t), cfg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Close()

	if !r.HasCurrent() {
		t.Fatal("HasCurrent() = false, want the same-date row accepted")
	}
	if want := decimal.RequireFromString("2.3"); !r.Current().Price.Equal(want) {
		t.Errorf("Price = %s, want 2.3 (cross-date row skipped)", r.Current().Price)
	}

	stats := r.Stats()
	if stats.PolicySkipped != 1 {
		t.Errorf("Stats().PolicySkipped = %d, want 1", stats.PolicySkipped)
	}
	if stats.Rejected != 0 {
		t.Errorf("Stats().Rejected = %d, want 0: date mismatch is policy, not malformation", stats.Rejected)
	}
}

func TestTickReader_Deterministic(t *testing.T) {
	content := "Time,Price,Volume,OpenInt\n" +
		"2015-03-25 09:30:00,2.2,100,500\n" +
		"bad row\n" +
		"2015-03-25 09:30:03,2.3,50,510\n" +
		"2015-03-25 09:30:06,2.4,75,520\n"
	path := writeTickFile(t, "10000001_20150325.csv", content)

	collect := func() []model.Tick {
		r, err := New(path, testRefDate, newTestResolver(t), optionConfig(), nil)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		defer r.Close()

		var ticks []model.Tick
		for ok := r.HasCurrent(); ok; ok = r.Advance() {
			ticks = append(ticks, r.Current())
		}
		return ticks
	}

	first := collect()
	second := collect()

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("event counts = %d, %d, want 3, 3", len(first), len(second))
	}
	for i := range first {
		if !first[i].Timestamp.Equal(second[i].Timestamp) ||
			!first[i].Value.Equal(second[i].Value) {
			t.Errorf("event %d differs between passes: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestTickReader_Filter(t *testing.T) {
	content := "Time,Price,Volume,OpenInt\n2015-03-25 09:30:00,2.2,100,500\n"

	path := writeTickFile(t, "10000001_20150325.csv", content)

	cfg := optionConfig()
	cfg.Filter = []string{"510300"} // contract's underlying is 510050
	r, err := New(path, testRefDate, newTestResolver(t), cfg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Close()

	if r.HasCurrent() {
		t.Error("HasCurrent() = true for filtered-out underlying, want false")
	}

	cfg.Filter = []string{"510050"}
	r2, err := New(path, testRefDate, newTestResolver(t), cfg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r2.Close()

	if !r2.HasCurrent() {
		t.Error("HasCurrent() = false for admitted underlying, want true")
	}
}

func TestTickReader_ResetNotSupported(t *testing.T) {
	path := writeTickFile(t, "10000001_20150325.csv", "Time,Price,Volume,OpenInt\n")

	r, err := New(path, testRefDate, newTestResolver(t), optionConfig(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Close()

	if err := r.Reset(); !errors.Is(err, ErrResetNotSupported) {
		t.Errorf("Reset() error = %v, want ErrResetNotSupported", err)
	}
}

func TestTickReader_CloseIdempotent(t *testing.T) {
	path := writeTickFile(t, "10000001_20150325.csv",
		"Time,Price,Volume,OpenInt\n2015-03-25 09:30:00,2.2,100,500\n")

	r, err := New(path, testRefDate, newTestResolver(t), optionConfig(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !r.HasCurrent() {
		t.Fatal("HasCurrent() = false before Close, want primed event")
	}

	if err := r.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if r.HasCurrent() {
		t.Error("HasCurrent() = true after Close, want false")
	}
	if r.Advance() {
		t.Error("Advance() = true after Close, want false")
	}
}

func TestTickReader_MissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.csv"), testRefDate, newTestResolver(t), optionConfig(), nil)
	if err == nil {
		t.Error("New() error = nil, want error for missing file")
	}
}

func TestTickReader_UnsupportedKind(t *testing.T) {
	path := writeTickFile(t, "10000001_20150325.csv", "Time\n")

	_, err := New(path, testRefDate, newTestResolver(t), Config{Kind: "candles"}, nil)
	if err == nil {
		t.Error("New() error = nil, want error for unsupported kind")
	}
}
