// Package upload unwraps uploaded file content before it is stored.
package upload

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
)

var (
	// ErrCorrupt is returned when compressed upload content cannot be decoded.
	ErrCorrupt = errors.New("corrupt compressed upload")
	// ErrTooLarge is returned once decoded content exceeds the size limit.
	ErrTooLarge = errors.New("upload too large")
)

var gzipMagic = []byte{0x1f, 0x8b}

// Decode returns a reader over the plain content of an upload and the
// name it should be stored under. Gzip content is detected by its magic
// bytes and decompressed on the fly; a trailing ".gz" is dropped from the
// name. Anything else passes through unchanged. Reading more than maxSize
// decoded bytes fails with ErrTooLarge; maxSize <= 0 means no limit.
func Decode(r io.Reader, name string, maxSize int64) (io.ReadCloser, string, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, "", fmt.Errorf("reading upload: %w", err)
	}
	if len(magic) < len(gzipMagic) || magic[0] != gzipMagic[0] || magic[1] != gzipMagic[1] {
		return &limitedReader{r: br, remaining: maxSize, limited: maxSize > 0}, name, nil
	}

	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if trimmed := strings.TrimSuffix(name, ".gz"); trimmed != "" {
		name = trimmed
	}
	return &limitedReader{r: &gzipReader{zr: zr}, remaining: maxSize, limited: maxSize > 0}, name, nil
}

// limitedReader fails, rather than stopping quietly like io.LimitReader,
// once more than the allowed bytes are read.
type limitedReader struct {
	r         io.Reader
	remaining int64
	limited   bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if !l.limited {
		return l.r.Read(p)
	}
	// Read one byte past the limit to tell "exactly at" from "over".
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	if int64(n) > l.remaining {
		l.remaining = 0
		return 0, ErrTooLarge
	}
	l.remaining -= int64(n)
	return n, err
}

func (l *limitedReader) Close() error {
	if c, ok := l.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

type gzipReader struct {
	zr *gzip.Reader
}

func (g *gzipReader) Read(p []byte) (int, error) {
	n, err := g.zr.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return n, err
}

func (g *gzipReader) Close() error {
	return g.zr.Close()
}
