// internal/index/index.go

// Package index holds the deduplication index: fingerprint to stored
// content location plus every path sharing that content.
package index

import (
	"errors"
	"fmt"
)

// ErrSizeMismatch is returned when a fingerprint already in the index is
// added again with a different size, which means two distinct contents
// collided on the same fingerprint
var ErrSizeMismatch = errors.New("fingerprint reused with a different size")

// Entry describes one unique content stored in the archive
type Entry struct {
	Fingerprint string   // dedup key; empty for entries decoded from an archive
	Paths       []string // every relative path with this content, discovery order
	Size        uint64   // content length in bytes
	Offset      uint64   // absolute archive offset of the content
}

// End returns the offset one past the last content byte
func (e *Entry) End() uint64 {
	return e.Offset + e.Size
}

// Index maps fingerprints to entries, preserving insertion order.
// Offset and Size of an entry never change once inserted.
// An Index is not safe for concurrent use.
type Index struct {
	entries []*Entry
	byKey   map[string]*Entry

	files       uint64
	bytesStored uint64
	bytesSaved  uint64
}

// New creates an empty index
func New() *Index {
	return &Index{byKey: make(map[string]*Entry)}
}

// FromEntries rebuilds an index from decoded entries, in the given order.
// Entries without a fingerprint are kept but cannot be looked up.
func FromEntries(entries []Entry) *Index {
	x := New()
	x.entries = make([]*Entry, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		x.entries = append(x.entries, e)
		if e.Fingerprint != "" {
			x.byKey[e.Fingerprint] = e
		}
		x.files += uint64(len(e.Paths))
		x.bytesStored += e.Size
		if n := len(e.Paths); n > 1 {
			x.bytesSaved += e.Size * uint64(n-1)
		}
	}
	return x
}

// GetOrAdd records relPath under fingerprint fp.
//
// When fp is unknown, write is called to store the content and must return
// the offset it was written at; a new entry is created and isNew is true.
// When fp is known, relPath is appended to the existing entry and write is
// not called.
func (x *Index) GetOrAdd(fp, relPath string, size uint64, write func() (offset uint64, err error)) (*Entry, bool, error) {
	if e, ok := x.byKey[fp]; ok {
		if e.Size != size {
			return e, false, fmt.Errorf("%w: %s (%d vs %d bytes)", ErrSizeMismatch, relPath, e.Size, size)
		}
		e.Paths = append(e.Paths, relPath)
		x.files++
		x.bytesSaved += size
		return e, false, nil
	}

	offset, err := write()
	if err != nil {
		return nil, false, err
	}

	e := &Entry{
		Fingerprint: fp,
		Paths:       []string{relPath},
		Size:        size,
		Offset:      offset,
	}
	x.entries = append(x.entries, e)
	x.byKey[fp] = e
	x.files++
	x.bytesStored += size
	return e, true, nil
}

// Lookup returns the entry stored under fp
func (x *Index) Lookup(fp string) (*Entry, bool) {
	e, ok := x.byKey[fp]
	return e, ok
}

// Entries returns all entries in insertion order.
// The returned entries must be treated as read-only.
func (x *Index) Entries() []*Entry {
	return x.entries
}

// Len returns the number of unique entries
func (x *Index) Len() int {
	return len(x.entries)
}

// Files returns the number of paths across all entries
func (x *Index) Files() uint64 {
	return x.files
}

// Stats returns deduplication statistics
func (x *Index) Stats() Stats {
	return Stats{
		Files:       x.files,
		Unique:      uint64(len(x.entries)),
		Duplicates:  x.files - uint64(len(x.entries)),
		BytesStored: x.bytesStored,
		BytesSaved:  x.bytesSaved,
	}
}

// Stats contains deduplication statistics
type Stats struct {
	Files       uint64 // Paths recorded
	Unique      uint64 // Entries (distinct contents)
	Duplicates  uint64 // Paths that reused an existing entry
	BytesStored uint64 // Content bytes written to the archive
	BytesSaved  uint64 // Content bytes not written thanks to dedup
}

// DedupRatio returns the share of files that were deduplicated, in percent
func (s Stats) DedupRatio() float64 {
	if s.Files == 0 {
		return 0
	}
	return float64(s.Duplicates) / float64(s.Files) * 100
}
