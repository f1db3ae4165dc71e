// internal/format/format_test.go
package format

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creativeyann17/go-pack/internal/errs"
	"github.com/creativeyann17/go-pack/internal/index"
)

func le64(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

func TestHeaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, Header{IndexOffset: 0x0102030405060708}))
	require.Equal(t, HeaderSize, buf.Len())

	assert.Equal(t, []byte("TMLP\x08\x07\x06\x05\x04\x03\x02\x01"), buf.Bytes())

	h, err := ReadHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), h.IndexOffset)
}

func TestPatchHeader(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "a.tmlp"))
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, WriteHeader(f, Header{}))
	_, err = f.Write([]byte("content"))
	require.NoError(t, err)

	require.NoError(t, PatchHeader(f, 19))

	pos, err := f.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(19), pos, "position restored after patch")

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)
	h, err := ReadHeader(f)
	require.NoError(t, err)
	assert.Equal(t, uint64(19), h.IndexOffset)
}

func TestReadHeaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		kind  error
	}{
		{"empty", nil, errs.ErrFormat},
		{"short magic", []byte("TM"), errs.ErrFormat},
		{"wrong magic", []byte("ZIPX\x00\x00\x00\x00\x00\x00\x00\x00"), errs.ErrFormat},
		{"magic only", []byte("TMLP"), errs.ErrTruncated},
		{"partial offset", []byte("TMLP\x01\x02\x03"), errs.ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadHeader(bytes.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestReadHeaderIOError(t *testing.T) {
	boom := errors.New("device gone")
	_, err := ReadHeader(io.MultiReader(bytes.NewReader([]byte("TM")), &failingReader{err: boom}))
	assert.ErrorIs(t, err, errs.ErrIO)
	assert.ErrorIs(t, err, boom)
}

type failingReader struct{ err error }

func (r *failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatTMLP, DetectFormat([]byte("TMLP\x00")))
	assert.Equal(t, FormatUnknown, DetectFormat([]byte("TML")))
	assert.Equal(t, FormatUnknown, DetectFormat([]byte("PK\x03\x04")))
	assert.Equal(t, "TMLP", FormatTMLP.String())
	assert.Equal(t, "UNKNOWN", FormatUnknown.String())
}

func TestWriteIndexLayout(t *testing.T) {
	entries := []*index.Entry{
		{Paths: []string{"a.txt", "d/b.txt"}, Size: 5, Offset: 12},
		{Paths: []string{"e"}, Size: 0, Offset: 17},
	}

	var buf bytes.Buffer
	n, err := WriteIndex(&buf, entries)
	require.NoError(t, err)

	var want []byte
	want = append(want, "FILETABLE"...)
	want = append(want, le64(2)...)
	want = append(want, le64(2)...)
	want = append(want, le64(5)...)
	want = append(want, "a.txt"...)
	want = append(want, le64(7)...)
	want = append(want, "d/b.txt"...)
	want = append(want, le64(5)...)
	want = append(want, le64(12)...)
	want = append(want, le64(1)...)
	want = append(want, le64(1)...)
	want = append(want, "e"...)
	want = append(want, le64(0)...)
	want = append(want, le64(17)...)

	assert.Equal(t, want, buf.Bytes())
	assert.Equal(t, int64(len(want)), n)
}

func TestIndexRoundTrip(t *testing.T) {
	entries := []*index.Entry{
		{Paths: []string{"a.txt", "sub/c.txt"}, Size: 6, Offset: 12},
		{Paths: []string{"b.txt"}, Size: 3, Offset: 18},
		{Paths: []string{"empty"}, Size: 0, Offset: 21},
	}

	var buf bytes.Buffer
	_, err := WriteIndex(&buf, entries)
	require.NoError(t, err)

	got, err := ReadIndex(bytes.NewReader(buf.Bytes()), 21, int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, e := range entries {
		assert.Equal(t, e.Paths, got[i].Paths)
		assert.Equal(t, e.Size, got[i].Size)
		assert.Equal(t, e.Offset, got[i].Offset)
	}
}

func TestEmptyIndex(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteIndex(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(IndexMarkerSize+8), n)

	got, err := ReadIndex(&buf, HeaderSize, -1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadIndexBadMarker(t *testing.T) {
	// An unpatched header points the reader back at offset 0
	data := append([]byte("TMLP"), make([]byte, 16)...)
	_, err := ReadIndex(bytes.NewReader(data), 0, int64(len(data)))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrFormat)

	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "marker", e.Field)
	assert.Equal(t, int64(0), e.Offset)
}

func TestReadIndexTruncated(t *testing.T) {
	var full bytes.Buffer
	_, err := WriteIndex(&full, []*index.Entry{
		{Paths: []string{"hello.txt"}, Size: 5, Offset: 12},
	})
	require.NoError(t, err)
	data := full.Bytes()

	tests := []struct {
		name  string
		cut   int
		field string
	}{
		{"marker", 4, "marker"},
		{"entry count", IndexMarkerSize + 3, "entry_count"},
		{"path count", IndexMarkerSize + 8 + 2, "entry_count"},
		{"path bytes", IndexMarkerSize + 8 + 8 + 8 + 4, "path_length"},
		{"offset", len(data) - 1, "offset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cut := data[:tt.cut]
			_, err := ReadIndex(bytes.NewReader(cut), 100, int64(len(cut)))
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrTruncated)

			var e *errs.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.field, e.Field)
		})
	}
}

func TestReadIndexTruncatedWithoutLimit(t *testing.T) {
	var full bytes.Buffer
	_, err := WriteIndex(&full, []*index.Entry{
		{Paths: []string{"hello.txt"}, Size: 5, Offset: 12},
	})
	require.NoError(t, err)
	data := full.Bytes()

	_, err = ReadIndex(bytes.NewReader(data[:len(data)-12]), 0, -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrTruncated)
}

func TestReadIndexHugeCountsRejected(t *testing.T) {
	var data []byte
	data = append(data, IndexMarker...)
	data = append(data, le64(1)...)
	data = append(data, le64(1)...)
	data = append(data, le64(1<<62)...)

	_, err := ReadIndex(bytes.NewReader(data), 0, int64(len(data)))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrTruncated)

	data = append([]byte(IndexMarker), le64(1<<60)...)
	_, err = ReadIndex(bytes.NewReader(data), 0, int64(len(data)))
	assert.ErrorIs(t, err, errs.ErrTruncated)
}

func TestReadTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, Header{}))
	buf.WriteString("abc")
	indexOffset := uint64(buf.Len())
	_, err := WriteIndex(&buf, []*index.Entry{{Paths: []string{"a"}, Size: 3, Offset: HeaderSize}})
	require.NoError(t, err)

	data := buf.Bytes()
	binary.LittleEndian.PutUint64(data[MagicSize:], indexOffset)

	h, entries, err := ReadTable(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, indexOffset, h.IndexOffset)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"a"}, entries[0].Paths)
}

func TestReadTableUnpatchedHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, Header{}))
	buf.WriteString("content that was being written")

	_, _, err := ReadTable(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrFormat)
}

func TestReadTableOffsetPastEnd(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, Header{IndexOffset: 1000}))

	_, _, err := ReadTable(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrTruncated)
}
