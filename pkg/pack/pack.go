// pkg/pack/pack.go

// Package pack writes a directory tree into a single deduplicated TMLP
// archive.
//
// The archive is produced in one sequential pass: a header with a zero
// index offset is written first, unique contents follow, then the index,
// and finally the header is rewritten with the real index offset.
package pack

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/creativeyann17/go-pack/internal/errs"
	"github.com/creativeyann17/go-pack/internal/fingerprint"
	"github.com/creativeyann17/go-pack/internal/format"
	"github.com/creativeyann17/go-pack/internal/index"
	"github.com/creativeyann17/go-pack/internal/scanner"
	"github.com/creativeyann17/go-pack/pkg/gopack"
)

// Pack archives every regular file under opts.InputPath into opts.OutputPath.
//
// Any failure aborts the whole operation and removes the partial archive.
// Errors other than option validation are *errs.Error values.
func Pack(opts *Options, progressCb ProgressCallback) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	fp := opts.Fingerprinter
	if fp == nil {
		h, err := fingerprint.New(opts.Algorithm, opts.BufferSize)
		if err != nil {
			return nil, err
		}
		fp = h
	}

	p := &packer{
		opts:       opts,
		log:        gopack.LoggerOrDiscard(opts.Logger),
		fp:         fp,
		buf:        make([]byte, opts.BufferSize),
		idx:        index.New(),
		progressCb: progressCb,
		result:     &Result{},
	}

	if err := p.run(); err != nil {
		p.emit(ProgressEvent{Type: EventError})
		return nil, err
	}
	return p.result, nil
}

// packer holds the state of one Pack call. Nothing is shared between calls.
type packer struct {
	opts       *Options
	log        *logrus.Logger
	fp         fingerprint.Fingerprinter
	buf        []byte
	cmpBuf     []byte // allocated on first duplicate check
	idx        *index.Index
	progressCb ProgressCallback
	result     *Result

	outPath string
	out     *os.File
	cursor  uint64
}

func (p *packer) run() (err error) {
	outPath, err := filepath.Abs(p.opts.OutputPath)
	if err != nil {
		return errs.IO("resolve output path", p.opts.OutputPath, errs.NoOffset, err)
	}
	p.outPath = outPath

	sc, err := scanner.New(p.opts.InputPath, scanner.Options{
		UseGitignore: p.opts.UseGitignore,
		Exclude:      []string{outPath},
		Logger:       p.log,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return errs.IO("create output directory", filepath.Dir(outPath), errs.NoOffset, err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errs.IO("create archive", outPath, errs.NoOffset, err)
	}
	p.out = out
	defer func() {
		if err != nil {
			p.out.Close()
			if rmErr := os.Remove(p.outPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				p.log.WithError(rmErr).WithField("path", p.outPath).Warn("could not remove partial archive")
			}
		}
	}()

	if err := format.WriteHeader(out, format.Header{}); err != nil {
		return errs.IO("write header", outPath, 0, err)
	}
	p.cursor = format.HeaderSize

	p.log.WithFields(logrus.Fields{
		"input":     sc.Root(),
		"output":    outPath,
		"algorithm": p.opts.Algorithm,
	}).Info("packing")
	p.emit(ProgressEvent{Type: EventStart})

	for file, err := range sc.Files() {
		if err != nil {
			return err
		}
		if err := p.add(file); err != nil {
			return err
		}
	}

	indexOffset := p.cursor
	bw := bufio.NewWriter(out)
	n, err := format.WriteIndex(bw, p.idx.Entries())
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		return errs.IO("write index", outPath, int64(indexOffset), err)
	}

	if err := format.PatchHeader(out, indexOffset); err != nil {
		return errs.IO("patch header", outPath, 0, err)
	}
	if err := out.Close(); err != nil {
		return errs.IO("close archive", outPath, errs.NoOffset, err)
	}

	stats := p.idx.Stats()
	p.result.FilesScanned = int(stats.Files)
	p.result.UniqueEntries = int(stats.Unique)
	p.result.BytesStored = stats.BytesStored
	p.result.BytesSaved = stats.BytesSaved
	p.result.IndexOffset = indexOffset
	p.result.ArchiveSize = indexOffset + uint64(n)

	p.log.WithFields(logrus.Fields{
		"files":        p.result.FilesScanned,
		"entries":      p.result.UniqueEntries,
		"index_offset": indexOffset,
		"size":         p.result.ArchiveSize,
	}).Info("archive written")

	p.emit(ProgressEvent{
		Type:         EventComplete,
		Current:      int64(p.result.FilesScanned),
		Total:        int64(p.result.FilesScanned),
		CurrentBytes: p.result.BytesScanned,
		TotalBytes:   p.result.BytesScanned,
	})
	return nil
}

// add fingerprints one scanned file and either records it against an
// existing entry or appends its bytes to the archive
func (p *packer) add(file scanner.File) error {
	p.emit(ProgressEvent{Type: EventFileStart, FilePath: file.RelPath, Total: int64(file.Size)})

	sum, err := p.fp.Fingerprint(file.AbsPath)
	if err != nil {
		if errs.KindOf(err) == 0 {
			err = errs.Hash(file.AbsPath, err)
		}
		return err
	}

	key, err := p.resolveKey(sum, file)
	if err != nil {
		return err
	}

	e, isNew, err := p.idx.GetOrAdd(key, file.RelPath, file.Size, func() (uint64, error) {
		return p.store(file, sum)
	})
	if err != nil {
		return err
	}
	p.result.BytesScanned += file.Size
	if isNew && key != sum {
		p.result.Collisions++
	}

	fields := logrus.Fields{
		"path":        file.RelPath,
		"fingerprint": key,
		"offset":      e.Offset,
		"size":        e.Size,
	}
	if isNew {
		p.log.WithFields(fields).Log(p.fileLevel(), "stored")
	} else {
		p.log.WithFields(fields).Log(p.fileLevel(), "deduplicated")
	}

	p.emit(ProgressEvent{
		Type:         EventFileComplete,
		FilePath:     file.RelPath,
		Current:      int64(file.Size),
		Total:        int64(file.Size),
		CurrentBytes: p.result.BytesScanned,
		Duplicate:    !isNew,
	})
	return nil
}

// resolveKey picks the index key for a file fingerprinted as sum.
// Without VerifyDuplicates the fingerprint is trusted and a hit with a
// different size is a collision error. With it, hits are byte-compared and
// a differing content moves on to the next "sum#n" key.
func (p *packer) resolveKey(sum string, file scanner.File) (string, error) {
	key := sum
	for n := 1; ; n++ {
		e, ok := p.idx.Lookup(key)
		if !ok {
			return key, nil
		}

		if !p.opts.VerifyDuplicates {
			if e.Size != file.Size {
				return "", errs.Hash(file.AbsPath, fmt.Errorf("fingerprint collision with %s: %w", e.Paths[0], index.ErrSizeMismatch))
			}
			return key, nil
		}

		same, err := p.sameContent(e, file)
		if err != nil {
			return "", err
		}
		if same {
			return key, nil
		}
		p.log.WithFields(logrus.Fields{
			"path":        file.RelPath,
			"fingerprint": key,
			"other":       e.Paths[0],
		}).Warn("fingerprint collision, storing separately")
		key = fmt.Sprintf("%s#%d", sum, n)
	}
}

// sameContent compares a source file with the bytes already stored for e
func (p *packer) sameContent(e *index.Entry, file scanner.File) (bool, error) {
	if e.Size != file.Size {
		return false, nil
	}
	if p.cmpBuf == nil {
		p.cmpBuf = make([]byte, len(p.buf))
	}

	src, err := os.Open(file.AbsPath)
	if err != nil {
		return false, errs.Hash(file.AbsPath, err)
	}
	defer src.Close()

	stored := io.NewSectionReader(p.out, int64(e.Offset), int64(e.Size))
	for remaining := e.Size; remaining > 0; {
		chunk := min(remaining, uint64(len(p.buf)))
		if _, err := io.ReadFull(stored, p.buf[:chunk]); err != nil {
			return false, errs.IO("read stored content", p.outPath, int64(e.End()-remaining), err)
		}
		if _, err := io.ReadFull(src, p.cmpBuf[:chunk]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return false, nil
			}
			return false, errs.Hash(file.AbsPath, err)
		}
		if !bytes.Equal(p.buf[:chunk], p.cmpBuf[:chunk]) {
			return false, nil
		}
		remaining -= chunk
	}

	n, _ := src.Read(p.cmpBuf[:1])
	return n == 0, nil
}

// store appends the file's bytes at the cursor and returns their offset.
// The copy must match the size seen by the scan exactly and, when the
// fingerprinter can stream, the fingerprint taken before the copy.
func (p *packer) store(file scanner.File, sum string) (uint64, error) {
	offset := p.cursor

	var digest fingerprint.Digest
	if s, ok := p.fp.(fingerprint.Streamer); ok {
		d, err := s.Digest()
		if err != nil {
			return 0, errs.Hash(file.AbsPath, err)
		}
		digest = d
	}

	src, err := os.Open(file.AbsPath)
	if err != nil {
		return 0, errs.IO("open source", file.AbsPath, errs.NoOffset, err)
	}
	defer src.Close()

	var copied uint64
	dst := &gopack.ProgressWriter{
		Writer: p.out,
		OnWrite: func(n int) {
			copied += uint64(n)
			p.emit(ProgressEvent{
				Type:         EventFileProgress,
				FilePath:     file.RelPath,
				Current:      int64(copied),
				Total:        int64(file.Size),
				CurrentBytes: copied,
			})
		},
	}

	var from io.Reader = io.LimitReader(src, int64(file.Size))
	if digest != nil {
		from = io.TeeReader(from, digest)
	}

	n, err := io.CopyBuffer(dst, from, p.buf)
	if err != nil {
		return 0, errs.IO("copy content", file.AbsPath, int64(offset)+n, err)
	}
	if uint64(n) != file.Size {
		return 0, errs.IO("copy content", file.AbsPath, int64(offset)+n,
			fmt.Errorf("%w: shrank to %d of %d bytes", ErrContentChanged, n, file.Size))
	}
	if extra, _ := src.Read(p.buf[:1]); extra > 0 {
		return 0, errs.IO("copy content", file.AbsPath, int64(offset)+n,
			fmt.Errorf("%w: grew beyond %d bytes", ErrContentChanged, file.Size))
	}
	if digest != nil && digest.Fingerprint() != sum {
		return 0, errs.IO("copy content", file.AbsPath, int64(offset),
			fmt.Errorf("%w: fingerprint %s became %s", ErrContentChanged, sum, digest.Fingerprint()))
	}

	p.cursor += uint64(n)
	return offset, nil
}

func (p *packer) fileLevel() logrus.Level {
	if p.opts.Verbose {
		return logrus.InfoLevel
	}
	return logrus.DebugLevel
}

func (p *packer) emit(event ProgressEvent) {
	if p.progressCb != nil {
		p.progressCb(event)
	}
}
