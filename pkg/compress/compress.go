// Package compress encodes and decodes entry payloads as DEFLATE streams in
// a gzip wrapper (the zlib windowBits=31 variant the format prescribes).
package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/lotusos/varc/pkg/common"
)

// DefaultLevel is used when the caller does not pick one.
const DefaultLevel = 6

// LevelName maps a compression level to its CLI-visible name.
func LevelName(level int) string {
	switch {
	case level <= 0:
		return "None"
	case level == 1:
		return "Fastest"
	case level <= 3:
		return "Fast"
	case level <= 6:
		return "Default"
	default:
		return "Best"
	}
}

// Compress deflates data at the given level. Level 0 passes the input through
// untouched; the caller decides whether the entry is marked compressed.
func Compress(data []byte, level int) ([]byte, error) {
	if level < 0 || level > 9 {
		return nil, fmt.Errorf("compression level %d out of range 0-9", level)
	}
	if level == 0 {
		return bytes.Clone(data), nil
	}

	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress inflates data, growing the output buffer by doubling. When
// expectedLen >= 0 a cleanly terminated stream of any other length fails with
// a size_mismatch DecompressError.
func Decompress(data []byte, expectedLen int64) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, classify(err)
	}
	defer r.Close()

	out := make([]byte, 0, initialCapacity(expectedLen))
	chunk := make([]byte, 32*1024)
	for {
		n, err := r.Read(chunk)
		out = append(out, chunk[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, classify(err)
		}
	}

	if expectedLen >= 0 && int64(len(out)) != expectedLen {
		return nil, &common.DecompressError{
			Reason: common.DecompressSizeMismatch,
			Err:    fmt.Errorf("got %d bytes, expected %d", len(out), expectedLen),
		}
	}
	return out, nil
}

func initialCapacity(expectedLen int64) int {
	if expectedLen > 0 {
		return int(expectedLen)
	}
	return 4096
}

func classify(err error) error {
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return &common.DecompressError{Reason: common.DecompressTruncated, Err: err}
	default:
		return &common.DecompressError{Reason: common.DecompressCorrupted, Err: err}
	}
}
