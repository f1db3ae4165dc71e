// internal/format/header.go

// Package format reads and writes the TMLP archive layout:
//
//	offset 0            magic "TMLP" (4 bytes)
//	offset 4            index offset, uint64 little-endian
//	offset 12           concatenated unique file contents
//	index offset        "FILETABLE" marker, entry count, entries
//
// All integers are little-endian uint64.
package format

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/creativeyann17/go-pack/internal/errs"
)

const (
	// Magic identifies a TMLP archive
	Magic     = "TMLP"
	MagicSize = 4

	// HeaderSize is magic(4) + index_offset(8); content starts right after it
	HeaderSize = MagicSize + 8
)

// Header is the fixed record at offset 0
type Header struct {
	IndexOffset uint64
}

// WriteHeader writes the 12-byte header at the writer's current position
func WriteHeader(w io.Writer, h Header) error {
	var buf [HeaderSize]byte
	copy(buf[:MagicSize], Magic)
	binary.LittleEndian.PutUint64(buf[MagicSize:], h.IndexOffset)

	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// PatchHeader rewrites the header at offset 0 with the final index offset,
// then restores the writer's position
func PatchHeader(w io.WriteSeeker, indexOffset uint64) error {
	currentPos, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("get current position: %w", err)
	}

	if _, err := w.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek to header: %w", err)
	}

	if err := WriteHeader(w, Header{IndexOffset: indexOffset}); err != nil {
		return err
	}

	if _, err := w.Seek(currentPos, io.SeekStart); err != nil {
		return fmt.Errorf("restore position: %w", err)
	}
	return nil
}

// ReadHeader reads and validates the header at the reader's current position.
// A missing or wrong magic is a FormatError; a header cut short after a
// valid magic is a TruncatedDataError.
func ReadHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte

	n, err := io.ReadFull(r, buf[:])
	if err != nil && !isShortRead(err) {
		return Header{}, errs.IO("read header", "", 0, err)
	}

	if DetectFormat(buf[:n]) != FormatTMLP {
		return Header{}, errs.Format("magic", 0,
			fmt.Errorf("expected %q, got %q", Magic, buf[:min(n, MagicSize)]))
	}
	if n < HeaderSize {
		return Header{}, errs.Truncated("index_offset", MagicSize, io.ErrUnexpectedEOF)
	}

	return Header{IndexOffset: binary.LittleEndian.Uint64(buf[MagicSize:])}, nil
}

func isShortRead(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
