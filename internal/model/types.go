package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Security Identity
// -----------------------------------------------------------------------------

// SecurityKind classifies a tradable security.
type SecurityKind string

const (
	SecurityEquity SecurityKind = "equity"
	SecurityOption SecurityKind = "option"
	SecurityFuture SecurityKind = "future"
)

// OptionRight is the contract right of an option.
type OptionRight string

const (
	RightCall OptionRight = "call"
	RightPut  OptionRight = "put"
)

// OptionStyle is the exercise style of an option.
type OptionStyle string

const (
	StyleEuropean OptionStyle = "european"
	StyleAmerican OptionStyle = "american"
)

// Security identifies one tradable instrument. A Security is immutable once
// constructed; derivative contracts point at a shared underlying Security so
// that identity comparisons within a file session are pointer comparisons.
type Security struct {
	Symbol string // Contract or equity code (e.g., "10000001", "510050")
	Market string // Venue code (e.g., "sse")
	Kind   SecurityKind

	// Derivative fields (zero values for equities)
	Underlying *Security       // Shared underlying identity, nil for equities
	Style      OptionStyle     // Exercise style
	Right      OptionRight     // Call or put
	Strike     decimal.Decimal // Strike price
	Expiry     time.Time       // Expiration date (midnight, session zone)
}

// UnderlyingSymbol returns the underlying code, or the security's own symbol
// when it has no underlying.
func (s *Security) UnderlyingSymbol() string {
	if s.Underlying != nil {
		return s.Underlying.Symbol
	}
	return s.Symbol
}

// -----------------------------------------------------------------------------
// Market Events
// -----------------------------------------------------------------------------

// TickKind classifies a market event.
type TickKind string

const (
	TickTrade        TickKind = "trade"
	TickQuote        TickKind = "quote"
	TickOpenInterest TickKind = "open_interest"
)

// Tick is one observed market fact at a point in time. The payload fields
// populated depend on Kind: trades carry Price and Quantity, quotes carry the
// bid/ask pairs, open-interest ticks carry Value only.
type Tick struct {
	Security  *Security
	Kind      TickKind
	Timestamp time.Time // Session date + row time of day
	Venue     string

	// Trade payload
	Price    decimal.Decimal
	Quantity decimal.Decimal

	// Quote payload
	BidPrice decimal.Decimal
	BidSize  decimal.Decimal
	AskPrice decimal.Decimal
	AskSize  decimal.Decimal

	// Open-interest payload
	Value decimal.Decimal
}
