package source

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// maxLineBytes bounds a single line. Tick rows are short; this guards
// against scanning a binary file as text.
const maxLineBytes = 1 << 20

// LineSource yields successive lines from an underlying transport.
type LineSource interface {
	// ReadLine returns the next line without its trailing newline.
	// io.EOF signals exhaustion.
	ReadLine() (string, error)

	// Close releases the underlying transport. Idempotent.
	Close() error
}

// Open opens path as a LineSource, selecting decompression by extension:
// ".gz" is gunzipped, ".zip" reads the archive's first member, anything
// else is treated as plain text.
func Open(path string) (LineSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return openGzip(path)
	case ".zip":
		return openZip(path)
	default:
		return openPlain(path)
	}
}

// lineSource wraps a scanner plus the closers that own its transport.
type lineSource struct {
	scanner *bufio.Scanner
	closers []io.Closer
	closed  bool
}

func newLineSource(r io.Reader, closers ...io.Closer) *lineSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &lineSource{scanner: sc, closers: closers}
}

func (s *lineSource) ReadLine() (string, error) {
	if s.closed {
		return "", io.EOF
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

// Close closes in reverse acquisition order so readers shut down before the
// file they wrap.
func (s *lineSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func openPlain(path string) (LineSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return newLineSource(f, f), nil
}

func openGzip(path string) (LineSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open gzip %s: %w", path, err)
	}
	return newLineSource(gz, f, gz), nil
}

func openZip(path string) (LineSource, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip %s: %w", path, err)
	}

	if len(zr.File) == 0 {
		zr.Close()
		return nil, fmt.Errorf("open zip %s: archive has no members", path)
	}

	// Daily tick archives hold a single data member.
	member, err := zr.File[0].Open()
	if err != nil {
		zr.Close()
		return nil, fmt.Errorf("open zip member %s in %s: %w", zr.File[0].Name, path, err)
	}
	return newLineSource(member, zr, member), nil
}
