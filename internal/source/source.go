// Package source opens WAD archives from disk as seekable byte sources,
// decompressing gzip and zstd files on the way.
package source

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Open reads the file at path fully into memory. Files ending in ".gz" or
// ".zst" are decompressed first.
func Open(path string) (*bytes.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := decompress(strings.ToLower(path), f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %v", path)
	}
	return bytes.NewReader(data), nil
}

func decompress(name string, r io.Reader) ([]byte, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	default:
		return io.ReadAll(r)
	}
}
