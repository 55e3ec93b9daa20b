package reader

import "strings"

// splitFields splits a row on commas with quote awareness: commas inside
// double quotes do not split, and the quotes themselves are stripped.
// An empty line yields nil.
func splitFields(line string) []string {
	if line == "" {
		return nil
	}

	fields := make([]string, 0, 16)
	var b strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	fields = append(fields, b.String())

	return fields
}
