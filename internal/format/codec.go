// internal/format/codec.go
package format

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/creativeyann17/go-pack/internal/errs"
	"github.com/creativeyann17/go-pack/internal/index"
)

const (
	// IndexMarker opens the serialized index block
	IndexMarker     = "FILETABLE"
	IndexMarkerSize = len(IndexMarker)

	// minEntrySize is path_count(8) + size(8) + offset(8)
	minEntrySize = 24
)

// WriteIndex serializes entries, in order, at the writer's current position.
// Format: Marker(9) + EntryCount(8) + per entry:
// PathCount(8) + [PathLen(8) + Path]... + Size(8) + Offset(8).
// Returns the number of bytes written.
func WriteIndex(w io.Writer, entries []*index.Entry) (int64, error) {
	cw := &countingWriter{w: w}

	if _, err := cw.Write([]byte(IndexMarker)); err != nil {
		return cw.n, fmt.Errorf("write index marker: %w", err)
	}

	if err := binary.Write(cw, binary.LittleEndian, uint64(len(entries))); err != nil {
		return cw.n, fmt.Errorf("write entry count: %w", err)
	}

	for i, e := range entries {
		if err := binary.Write(cw, binary.LittleEndian, uint64(len(e.Paths))); err != nil {
			return cw.n, fmt.Errorf("write path count of entry %d: %w", i, err)
		}

		for _, p := range e.Paths {
			if err := binary.Write(cw, binary.LittleEndian, uint64(len(p))); err != nil {
				return cw.n, fmt.Errorf("write path length: %w", err)
			}
			if _, err := io.WriteString(cw, p); err != nil {
				return cw.n, fmt.Errorf("write path: %w", err)
			}
		}

		if err := binary.Write(cw, binary.LittleEndian, e.Size); err != nil {
			return cw.n, fmt.Errorf("write size of entry %d: %w", i, err)
		}
		if err := binary.Write(cw, binary.LittleEndian, e.Offset); err != nil {
			return cw.n, fmt.Errorf("write offset of entry %d: %w", i, err)
		}
	}

	return cw.n, nil
}

// ReadIndex decodes the index block starting at the reader's position.
//
// base is the archive offset of the block, used in error context. avail is
// the number of bytes the archive holds from base onward, or -1 if unknown;
// declared counts and lengths that exceed it fail with TruncatedDataError
// before any allocation. A wrong marker fails with FormatError.
// Offsets and sizes are not checked against the archive length.
func ReadIndex(r io.Reader, base, avail int64) ([]index.Entry, error) {
	d := &decoder{r: r, base: base, avail: avail}

	marker := make([]byte, IndexMarkerSize)
	if err := d.read("marker", marker); err != nil {
		return nil, err
	}
	if string(marker) != IndexMarker {
		return nil, errs.Format("marker", base,
			fmt.Errorf("expected %q, got %q", IndexMarker, marker))
	}

	entryCount, err := d.uint64("entry_count")
	if err != nil {
		return nil, err
	}
	if err := d.need("entry_count", entryCount, minEntrySize); err != nil {
		return nil, err
	}

	entries := make([]index.Entry, 0, min(entryCount, 1<<16))
	for i := uint64(0); i < entryCount; i++ {
		e, err := d.entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// decoder tracks the position inside the index block
type decoder struct {
	r     io.Reader
	base  int64
	avail int64
	pos   int64
}

func (d *decoder) entry() (index.Entry, error) {
	var e index.Entry

	pathCount, err := d.uint64("path_count")
	if err != nil {
		return e, err
	}
	if err := d.need("path_count", pathCount, 8); err != nil {
		return e, err
	}

	e.Paths = make([]string, 0, min(pathCount, 1<<12))
	for j := uint64(0); j < pathCount; j++ {
		pathLen, err := d.uint64("path_length")
		if err != nil {
			return e, err
		}
		if err := d.need("path_length", pathLen, 1); err != nil {
			return e, err
		}
		buf := make([]byte, pathLen)
		if err := d.read("path", buf); err != nil {
			return e, err
		}
		e.Paths = append(e.Paths, string(buf))
	}

	if e.Size, err = d.uint64("size"); err != nil {
		return e, err
	}
	if e.Offset, err = d.uint64("offset"); err != nil {
		return e, err
	}
	return e, nil
}

// need fails with TruncatedDataError if count items of unit bytes cannot
// fit in what is left of the block
func (d *decoder) need(field string, count, unit uint64) error {
	if d.avail < 0 {
		return nil
	}
	left := uint64(max(d.avail-d.pos, 0))
	if count > left/unit {
		return errs.Truncated(field, d.base+d.pos,
			fmt.Errorf("declares %d x %d bytes, %d available", count, unit, left))
	}
	return nil
}

func (d *decoder) read(field string, buf []byte) error {
	at := d.base + d.pos
	n, err := io.ReadFull(d.r, buf)
	d.pos += int64(n)
	if err != nil {
		if isShortRead(err) {
			return errs.Truncated(field, at, io.ErrUnexpectedEOF)
		}
		return errs.IO("read index", "", at, err)
	}
	return nil
}

func (d *decoder) uint64(field string) (uint64, error) {
	var buf [8]byte
	if err := d.read(field, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
