// Package reader converts raw delimited tick files into ordered, lazily
// produced market events.
//
// A TickReader owns its line source and schema for the duration of one file.
// It is single-pass and single-consumer: Advance pulls the next accepted row,
// Current exposes it, and malformed rows are logged and skipped without ever
// stopping the stream. The event kind and the date-check policy are fixed per
// reader, not inferred per row.
package reader
