package schema

// Recognized header field names. Matching is case-sensitive and exact.
const (
	FieldTime        = "Time"
	FieldPrice       = "Price"
	FieldVolume      = "Volume"
	FieldAmount      = "Amount"
	FieldOpenInt     = "OpenInt"
	FieldTotalVol    = "TotalVol"
	FieldTotalAmount = "TotalAmount"
	FieldLastClose   = "LastClose"
	FieldOpen        = "Open"
	FieldHigh        = "High"
	FieldLow         = "Low"
	FieldAskPrice    = "SP1"
	FieldAskSize     = "SV1"
	FieldBidPrice    = "BP1"
	FieldBidSize     = "BV1"
)

// recognizedFields is the fixed vocabulary a header can bind.
var recognizedFields = []string{
	FieldTime,
	FieldPrice,
	FieldVolume,
	FieldAmount,
	FieldOpenInt,
	FieldTotalVol,
	FieldTotalAmount,
	FieldLastClose,
	FieldOpen,
	FieldHigh,
	FieldLow,
	FieldAskPrice,
	FieldAskSize,
	FieldBidPrice,
	FieldBidSize,
}

// Map is the header-derived mapping from field name to zero-based column
// index. It is immutable after Detect.
type Map struct {
	indices map[string]int

	// MinColumns is the highest resolved index, or -1 when no recognized
	// field is present. A data row must carry at least MinColumns+1 tokens.
	MinColumns int
}

// Detect builds a Map from header tokens (already delimiter-split and
// quote-stripped). Absent fields resolve to -1. An empty or missing header
// leaves every index at -1 and MinColumns at -1.
func Detect(fields []string) Map {
	m := Map{
		indices:    make(map[string]int, len(recognizedFields)),
		MinColumns: -1,
	}

	for _, name := range recognizedFields {
		idx := -1
		for i, tok := range fields {
			if tok == name {
				idx = i
				break
			}
		}
		m.indices[name] = idx
		if idx > m.MinColumns {
			m.MinColumns = idx
		}
	}

	return m
}

// Index returns the column index for a field name, or -1 when the field is
// absent from the header (or the name is not recognized).
func (m Map) Index(name string) int {
	idx, ok := m.indices[name]
	if !ok {
		return -1
	}
	return idx
}

// Has reports whether the header bound the given field.
func (m Map) Has(name string) bool {
	return m.Index(name) >= 0
}
