package compscreen

import (
	"compress/bzip2"
	"compress/gzip"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression extensions recognized on uploaded files.
const (
	extGZ   = ".gz"
	extBZ2  = ".bz2"
	extXZ   = ".xz"
	extZSTD = ".zst"
)

var compressionExts = []string{extGZ, extBZ2, extXZ, extZSTD}

// stripCompressionExt removes a trailing compression extension, if any.
func stripCompressionExt(path string) string {
	lower := strings.ToLower(path)
	for _, ext := range compressionExts {
		if strings.HasSuffix(lower, ext) {
			return path[:len(path)-len(ext)]
		}
	}
	return path
}

// isCompressed reports whether the path carries a compression extension.
func isCompressed(path string) bool {
	return stripCompressionExt(path) != path
}

// DecompressReader wraps r with the decompressor matching the path's
// extension. The returned close function releases decompressor state; it
// does not close the underlying reader. Uncompressed paths pass through.
func DecompressReader(r io.Reader, path string) (io.Reader, func() error, error) {
	noop := func() error { return nil }
	if !isCompressed(path) {
		return r, noop, nil
	}
	switch {
	case strings.HasSuffix(strings.ToLower(path), extGZ):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gz, gz.Close, nil
	case strings.HasSuffix(strings.ToLower(path), extBZ2):
		return bzip2.NewReader(r), noop, nil
	case strings.HasSuffix(strings.ToLower(path), extXZ):
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return xzr, noop, nil
	case strings.HasSuffix(strings.ToLower(path), extZSTD):
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return dec, func() error { dec.Close(); return nil }, nil
	default:
		return r, noop, nil
	}
}
