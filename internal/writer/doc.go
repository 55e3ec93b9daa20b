// Package writer persists accepted ticks to Postgres in batches.
//
// A TickWriter consumes from a pipeline buffer, accumulates rows up to a
// batch size, and flushes on size or interval. Insert failures are logged and
// counted; they never stop the writer.
package writer
