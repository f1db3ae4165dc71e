// pkg/unpack/unpack.go

// Package unpack restores the directory tree stored in a TMLP archive.
package unpack

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/creativeyann17/go-pack/internal/errs"
	"github.com/creativeyann17/go-pack/internal/format"
	"github.com/creativeyann17/go-pack/internal/index"
	"github.com/creativeyann17/go-pack/pkg/gopack"
)

// Unpack extracts every path of the archive at opts.InputPath below
// opts.OutputPath, overwriting existing files.
//
// The header and the whole index are validated before the destination is
// touched, so a corrupt archive writes nothing. Errors other than option
// validation are *errs.Error values.
func Unpack(opts *Options, progressCb ProgressCallback) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	u := &unpacker{
		opts:       opts,
		log:        gopack.LoggerOrDiscard(opts.Logger),
		buf:        make([]byte, opts.BufferSize),
		progressCb: progressCb,
		result:     &Result{},
	}

	if err := u.run(); err != nil {
		u.emit(ProgressEvent{Type: EventError})
		return nil, err
	}
	return u.result, nil
}

// unpacker holds the state of one Unpack call
type unpacker struct {
	opts       *Options
	log        *logrus.Logger
	buf        []byte
	progressCb ProgressCallback
	result     *Result

	archive *os.File
}

func (u *unpacker) run() error {
	f, err := os.Open(u.opts.InputPath)
	if err != nil {
		return errs.IO("open archive", u.opts.InputPath, errs.NoOffset, err)
	}
	defer f.Close()
	u.archive = f

	st, err := f.Stat()
	if err != nil {
		return errs.IO("stat archive", u.opts.InputPath, errs.NoOffset, err)
	}

	h, entries, err := format.ReadTable(f, st.Size())
	if err != nil {
		return withPath(err, u.opts.InputPath)
	}

	for _, e := range entries {
		for _, p := range e.Paths {
			if err := CheckPath(p); err != nil {
				return errs.Format("path", int64(h.IndexOffset), err)
			}
		}
	}

	stats := index.FromEntries(entries).Stats()
	u.result.FilesTotal = int(stats.Files)
	u.result.UniqueEntries = int(stats.Unique)
	u.result.ArchiveSize = uint64(st.Size())

	if err := os.MkdirAll(u.opts.OutputPath, 0755); err != nil {
		return errs.IO("create destination", u.opts.OutputPath, errs.NoOffset, err)
	}

	u.log.WithFields(logrus.Fields{
		"archive": u.opts.InputPath,
		"output":  u.opts.OutputPath,
		"entries": stats.Unique,
		"files":   stats.Files,
	}).Info("unpacking")

	var totalBytes uint64
	for _, e := range entries {
		totalBytes += e.Size * uint64(len(e.Paths))
	}
	u.emit(ProgressEvent{Type: EventStart, Total: int64(stats.Files), TotalBytes: totalBytes})

	for i := range entries {
		for _, p := range entries[i].Paths {
			if err := u.extract(&entries[i], p); err != nil {
				return err
			}
		}
	}

	u.log.WithFields(logrus.Fields{
		"files": u.result.FilesWritten,
		"size":  u.result.BytesWritten,
	}).Info("archive extracted")

	u.emit(ProgressEvent{
		Type:         EventComplete,
		Current:      int64(u.result.FilesWritten),
		Total:        int64(u.result.FilesTotal),
		CurrentBytes: u.result.BytesWritten,
		TotalBytes:   totalBytes,
	})
	return nil
}

// extract materializes one path of entry e. Duplicates re-read the same
// archive range once per path.
func (u *unpacker) extract(e *index.Entry, relPath string) error {
	dst := filepath.Join(u.opts.OutputPath, filepath.FromSlash(relPath))

	u.emit(ProgressEvent{Type: EventFileStart, FilePath: relPath, Total: int64(e.Size)})

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errs.IO("create directories", filepath.Dir(dst), errs.NoOffset, err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return errs.IO("create file", dst, errs.NoOffset, err)
	}

	if err := u.copyRange(out, e, relPath); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return errs.IO("close file", dst, errs.NoOffset, err)
	}

	u.result.FilesWritten++
	u.result.BytesWritten += e.Size

	level := logrus.DebugLevel
	if u.opts.Verbose {
		level = logrus.InfoLevel
	}
	u.log.WithFields(logrus.Fields{
		"path":   relPath,
		"offset": e.Offset,
		"size":   e.Size,
	}).Log(level, "extracted")

	u.emit(ProgressEvent{
		Type:         EventFileComplete,
		FilePath:     relPath,
		Current:      int64(e.Size),
		Total:        int64(e.Size),
		CurrentBytes: u.result.BytesWritten,
	})
	return nil
}

// copyRange copies exactly e.Size bytes from e.Offset into out.
// Empty entries never touch the archive.
func (u *unpacker) copyRange(out io.Writer, e *index.Entry, relPath string) error {
	if e.Size == 0 {
		return nil
	}

	if _, err := u.archive.Seek(int64(e.Offset), io.SeekStart); err != nil {
		return errs.IO("seek to content", u.opts.InputPath, int64(e.Offset), err)
	}

	var written uint64
	dst := &gopack.ProgressWriter{
		Writer: out,
		OnWrite: func(n int) {
			written += uint64(n)
			u.emit(ProgressEvent{
				Type:         EventFileProgress,
				FilePath:     relPath,
				Current:      int64(written),
				Total:        int64(e.Size),
				CurrentBytes: written,
			})
		},
	}

	n, err := io.CopyBuffer(dst, io.LimitReader(u.archive, int64(e.Size)), u.buf)
	if err != nil {
		return errs.IO("copy content", relPath, int64(e.Offset)+n, err)
	}
	if uint64(n) != e.Size {
		return errs.IO("read content", u.opts.InputPath, int64(e.Offset)+n,
			fmt.Errorf("%w: got %d of %d bytes", io.ErrUnexpectedEOF, n, e.Size))
	}
	return nil
}

func (u *unpacker) emit(event ProgressEvent) {
	if u.progressCb != nil {
		u.progressCb(event)
	}
}

// CheckPath reports whether an archived path can be extracted safely:
// it must be relative and stay below the destination. A backslash is an
// ordinary name character except on hosts where it separates paths.
func CheckPath(relPath string) error {
	if relPath == "" {
		return errors.New("empty path")
	}
	if strings.ContainsRune(relPath, 0) ||
		(filepath.Separator == '\\' && strings.Contains(relPath, `\`)) {
		return fmt.Errorf("invalid character in path %q", relPath)
	}
	if !filepath.IsLocal(filepath.FromSlash(relPath)) {
		return fmt.Errorf("path %q escapes the destination", relPath)
	}
	return nil
}

// withPath fills in the archive path of a decode error
func withPath(err error, path string) error {
	var e *errs.Error
	if errors.As(err, &e) && e.Path == "" {
		e.Path = path
	}
	return err
}
