// internal/format/table.go
package format

import (
	"fmt"
	"io"

	"github.com/creativeyann17/go-pack/internal/errs"
	"github.com/creativeyann17/go-pack/internal/index"
)

// ReadTable reads the header of an archive of the given total size, seeks
// to the index it points at and decodes it. Errors from the header and
// index decoders are returned unchanged.
//
// An archive whose header was never patched points back at offset 0, so
// its index marker check fails with FormatError.
func ReadTable(r io.ReadSeeker, size int64) (Header, []index.Entry, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Header{}, nil, errs.IO("seek to header", "", 0, err)
	}

	h, err := ReadHeader(r)
	if err != nil {
		return Header{}, nil, err
	}

	offset := int64(h.IndexOffset)
	if offset < 0 {
		return h, nil, errs.Format("index_offset", MagicSize, fmt.Errorf("offset %d out of range", h.IndexOffset))
	}
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return h, nil, errs.IO("seek to index", "", offset, err)
	}

	entries, err := ReadIndex(r, offset, max(size-offset, 0))
	if err != nil {
		return h, nil, err
	}
	return h, entries, nil
}
