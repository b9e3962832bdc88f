// Package source opens header inputs, transparently decompressing gzip,
// zstd and lz4 streams, and computes content digests.
package source

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"
)

// Compression identifies the compression wrapped around an input.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

var magics = []struct {
	magic       []byte
	compression Compression
}{
	{[]byte{0x1f, 0x8b}, CompressionGzip},
	{[]byte{0x28, 0xb5, 0x2f, 0xfd}, CompressionZstd},
	{[]byte{0x04, 0x22, 0x4d, 0x18}, CompressionLZ4},
}

// Detect identifies the compression from the leading bytes of a stream.
func Detect(head []byte) Compression {
	for _, m := range magics {
		if bytes.HasPrefix(head, m.magic) {
			return m.compression
		}
	}
	return CompressionNone
}

// NewReader returns a reader over the decompressed contents of r.
func NewReader(r io.Reader) (io.ReadCloser, Compression, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return nil, CompressionNone, err
	}

	c := Detect(head)
	switch c {
	case CompressionGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, c, fmt.Errorf("gzip: %w", err)
		}
		return zr, c, nil

	case CompressionZstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, c, fmt.Errorf("zstd: %w", err)
		}
		return zr.IOReadCloser(), c, nil

	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(br)), c, nil
	}

	return io.NopCloser(br), c, nil
}

// File is an opened input.
type File struct {
	io.Reader

	Path        string
	Compression Compression

	dec io.Closer
	f   *os.File
}

// Open opens path for reading its decompressed contents.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	rc, c, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &File{Reader: rc, Path: path, Compression: c, dec: rc, f: f}, nil
}

// Close releases the decompressor and the file.
func (f *File) Close() error {
	err := f.dec.Close()
	if cerr := f.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Format is the header format of an input, judged by its name.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatFITS
	FormatXISF
)

var compressedSuffixes = []string{".gz", ".zst", ".lz4"}

// FormatOf classifies path by extension. Compressed FITS files
// (name.fits.gz and the like) are FITS.
func FormatOf(path string) Format {
	name := strings.ToLower(filepath.Base(path))
	for _, s := range compressedSuffixes {
		name = strings.TrimSuffix(name, s)
	}

	switch filepath.Ext(name) {
	case ".fits", ".fit", ".fts":
		return FormatFITS
	case ".xisf":
		return FormatXISF
	}
	return FormatUnknown
}

// Digest returns the hex BLAKE3 digest of everything read from r.
func Digest(r io.Reader) (string, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestFile returns the hex BLAKE3 digest of the file at path, as stored
// on disk.
func DigestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sum, err := Digest(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return sum, nil
}
