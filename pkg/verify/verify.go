// pkg/verify/verify.go

// Package verify checks a TMLP archive without extracting it.
package verify

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/creativeyann17/go-pack/internal/errs"
	"github.com/creativeyann17/go-pack/internal/fingerprint"
	"github.com/creativeyann17/go-pack/internal/format"
	"github.com/creativeyann17/go-pack/internal/index"
	"github.com/creativeyann17/go-pack/pkg/gopack"
	"github.com/creativeyann17/go-pack/pkg/unpack"
)

// ProgressCallback is called for progress updates during verification
type ProgressCallback func(event ProgressEvent)

// ProgressEvent contains progress information
type ProgressEvent struct {
	Type     EventType
	FilePath string
	Current  int
	Total    int
	Message  string
}

// EventType indicates the type of progress event
type EventType int

const (
	EventStart EventType = iota
	EventEntryVerify
	EventComplete
	EventError
)

// Verify checks an archive and returns comprehensive results.
//
// A header or index that cannot be decoded is returned as an error along
// with the partial result. Every other problem is collected in
// Result.Errors and makes Result.IsValid false.
func Verify(opts *Options, progressCb ProgressCallback) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	log := gopack.LoggerOrDiscard(opts.Logger)
	result := &Result{
		ArchivePath: opts.InputPath,
		Format:      format.FormatUnknown.String(),
	}

	archiveFile, err := os.Open(opts.InputPath)
	if err != nil {
		return nil, errs.IO("open archive", opts.InputPath, errs.NoOffset, err)
	}
	defer archiveFile.Close()

	stat, err := archiveFile.Stat()
	if err != nil {
		return nil, errs.IO("stat archive", opts.InputPath, errs.NoOffset, err)
	}
	result.ArchiveSize = uint64(stat.Size())

	h, err := format.ReadHeader(archiveFile)
	if err != nil {
		result.Errors = append(result.Errors, err)
		return result, err
	}
	result.Format = format.FormatTMLP.String()
	result.IndexOffset = h.IndexOffset

	if h.IndexOffset < format.HeaderSize || h.IndexOffset > result.ArchiveSize {
		err := errs.Format("index_offset", format.MagicSize,
			fmt.Errorf("offset %d outside [%d, %d]", h.IndexOffset, format.HeaderSize, result.ArchiveSize))
		result.Errors = append(result.Errors, err)
		return result, err
	}
	result.HeaderValid = true

	_, entries, err := format.ReadTable(archiveFile, stat.Size())
	if err != nil {
		result.Errors = append(result.Errors, err)
		return result, err
	}
	result.IndexValid = true

	stats := index.FromEntries(entries).Stats()
	result.EntryCount = int(stats.Unique)
	result.FileCount = int(stats.Files)
	result.StoredSize = stats.BytesStored
	result.TotalSize = stats.BytesStored + stats.BytesSaved
	result.SharedPaths = int(stats.Duplicates)

	log.WithFields(logrus.Fields{
		"archive":      opts.InputPath,
		"entries":      result.EntryCount,
		"files":        result.FileCount,
		"index_offset": h.IndexOffset,
	}).Info("verifying")

	if progressCb != nil {
		progressCb(ProgressEvent{
			Type:    EventStart,
			Total:   len(entries),
			Message: fmt.Sprintf("Verifying %d entries", len(entries)),
		})
	}

	inRange := checkStructure(entries, h.IndexOffset, result)

	if opts.VerifyData {
		if err := verifyData(archiveFile, entries, inRange, opts, progressCb, result); err != nil {
			return result, err
		}
	}

	result.StructureValid = result.OutOfRange == 0 && result.OverlappingRanges == 0 &&
		result.DuplicatePaths == 0 && result.UnsafePaths == 0 && result.EmptyEntries == 0

	for _, e := range result.Errors {
		log.WithError(e).Warn("archive problem")
	}

	if progressCb != nil {
		progressCb(ProgressEvent{
			Type:    EventComplete,
			Current: len(entries),
			Total:   len(entries),
		})
	}

	return result, nil
}

// checkStructure validates ranges and paths and reports, per entry,
// whether its range lies inside the content region
func checkStructure(entries []index.Entry, indexOffset uint64, result *Result) []bool {
	inRange := make([]bool, len(entries))
	paths := gopack.NewPathTracker()

	for i, e := range entries {
		if len(e.Paths) == 0 {
			result.EmptyEntries++
			result.Errors = append(result.Errors, fmt.Errorf("entry %d: %w", i, ErrEmptyEntry))
		}

		end := e.Offset + e.Size
		if e.Offset < format.HeaderSize || end < e.Offset || end > indexOffset {
			result.OutOfRange++
			result.Errors = append(result.Errors,
				fmt.Errorf("entry %d [%d, +%d): %w", i, e.Offset, e.Size, ErrRangeOutOfBounds))
		} else {
			inRange[i] = true
		}

		for _, p := range e.Paths {
			if e.Size == 0 {
				result.EmptyFiles++
			}
			if err := unpack.CheckPath(p); err != nil {
				result.UnsafePaths++
				result.Errors = append(result.Errors, fmt.Errorf("%w: %v", ErrUnsafePath, err))
			}
			if paths.CheckDuplicate(p) {
				result.DuplicatePaths++
				result.Errors = append(result.Errors, fmt.Errorf("%w: %s", ErrDuplicatePath, p))
			}
		}
	}

	// Overlap check over non-empty in-range entries, ordered by offset
	order := make([]int, 0, len(entries))
	for i, e := range entries {
		if inRange[i] && e.Size > 0 {
			order = append(order, i)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(entries[a].Offset, entries[b].Offset)
	})
	var maxEnd uint64
	for k, i := range order {
		e := entries[i]
		if k > 0 && e.Offset < maxEnd {
			result.OverlappingRanges++
			result.Errors = append(result.Errors,
				fmt.Errorf("entry %d [%d, +%d): %w", i, e.Offset, e.Size, ErrOverlappingRanges))
		}
		maxEnd = max(maxEnd, e.End())
	}

	return inRange
}

// verifyData fingerprints every in-range entry and flags entries whose
// bytes were stored twice
func verifyData(r io.ReaderAt, entries []index.Entry, inRange []bool, opts *Options, progressCb ProgressCallback, result *Result) error {
	h, err := fingerprint.New(opts.Algorithm, 0)
	if err != nil {
		return err
	}
	result.DataVerified = true
	result.Algorithm = string(h.Algorithm())

	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		name := fmt.Sprintf("entry %d", i)
		if len(e.Paths) > 0 {
			name = e.Paths[0]
		}

		if progressCb != nil {
			progressCb(ProgressEvent{
				Type:     EventEntryVerify,
				FilePath: name,
				Current:  i + 1,
				Total:    len(entries),
			})
		}

		if !inRange[i] {
			continue
		}

		sum, err := h.Sum(io.NewSectionReader(r, int64(e.Offset), int64(e.Size)))
		if err != nil {
			result.UnreadEntries++
			result.Errors = append(result.Errors,
				errs.IO("read content", opts.InputPath, int64(e.Offset), err))
			if progressCb != nil {
				progressCb(ProgressEvent{Type: EventError, FilePath: name})
			}
			continue
		}
		result.EntriesVerified++

		if first, ok := seen[sum]; ok && entries[first].Size == e.Size {
			result.DuplicateContent++
			result.Errors = append(result.Errors,
				fmt.Errorf("entries %d and %d: %w", first, i, ErrDuplicateContent))
			continue
		}
		seen[sum] = i
	}
	return nil
}
