// Package source opens tick files as line sources, transparently handling
// compressed inputs keyed by file extension (.gz, .zip). Sources are
// single-pass and must be closed by the owner; Close is idempotent.
package source
