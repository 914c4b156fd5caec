// Package compress shrinks article bodies for storage using zlib,
// falling back to the raw bytes when compression would not help.
package compress

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// Level is the zlib compression level applied to article content.
const Level = 6

// ErrCorruptData indicates a stored blob that cannot be decompressed.
var ErrCorruptData = errors.New("corrupt content blob")

// Result holds the stored form of a piece of content.
type Result struct {
	Blob       []byte
	Compressed bool
	Ratio      float64
}

// Compress encodes text with zlib. If the encoded form is not strictly
// smaller than the input, the original bytes are kept and Compressed is
// false. Ratio is compressed size over original size and is reported
// even on fallback (where it is >= 1.0); an empty input reports 1.0.
func Compress(text string) (Result, error) {
	raw := []byte(text)
	if len(raw) == 0 {
		return Result{Blob: []byte{}, Compressed: false, Ratio: 1.0}, nil
	}

	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, Level)
	if err != nil {
		return Result{}, fmt.Errorf("creating zlib writer: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return Result{}, fmt.Errorf("compressing content: %w", err)
	}
	if err := w.Close(); err != nil {
		return Result{}, fmt.Errorf("flushing zlib writer: %w", err)
	}

	encoded := buf.Bytes()
	ratio := float64(len(encoded)) / float64(len(raw))
	if len(encoded) >= len(raw) {
		return Result{Blob: raw, Compressed: false, Ratio: ratio}, nil
	}
	return Result{Blob: encoded, Compressed: true, Ratio: ratio}, nil
}

// Decompress restores content stored by Compress. Blobs flagged as
// uncompressed are returned verbatim; anything that fails to decode is
// reported as ErrCorruptData.
func Decompress(blob []byte, compressed bool) (string, error) {
	if !compressed {
		return string(blob), nil
	}
	r, err := zlib.NewReader(bytes.NewReader(blob))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	return string(raw), nil
}
