// pkg/gopack/helpers.go
package gopack

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// OperationType selects the summary layout
type OperationType string

const (
	OperationPack   OperationType = "pack"
	OperationUnpack OperationType = "unpack"
)

// ProgressEvent is the operation-neutral form of pack and unpack events
type ProgressEvent struct {
	Type         EventType
	FilePath     string
	Current      int64
	Total        int64 // <= 0 on EventStart when the file count is not known yet
	CurrentBytes uint64
	TotalBytes   uint64
}

// EventType indicates the type of progress event
type EventType int

const (
	EventStart EventType = iota
	EventFileStart
	EventFileProgress
	EventFileComplete
	EventComplete
	EventError
)

// Result is the common view of pack and unpack results
type Result interface {
	GetFilesTotal() int
	GetFilesProcessed() int
	GetOriginalSize() uint64
	GetArchiveSize() uint64
}

// ProgressBarCallback renders events as one bar per file plus an overall
// bar. Call Wait on the returned container once the operation returns.
func ProgressBarCallback() (func(ProgressEvent), *mpb.Progress) {
	progress := mpb.New(
		mpb.WithWidth(60),
		mpb.WithRefreshRate(100),
	)

	var overallBar *mpb.Bar
	var openEnded bool
	var fileBars sync.Map

	callback := func(event ProgressEvent) {
		switch event.Type {
		case EventStart:
			// Pack scans lazily, so its total grows with each file
			openEnded = event.Total <= 0
			overallBar = progress.AddBar(max(event.Total, 0),
				mpb.PrependDecorators(
					decor.Name("Total", decor.WC{C: decor.DindentRight | decor.DextraSpace}),
					decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
				),
				mpb.AppendDecorators(
					decor.Percentage(decor.WC{W: 5}),
				),
				mpb.BarPriority(1000),
			)

		case EventFileStart:
			if event.Total == 0 {
				return
			}
			shortName := TruncateLeft(event.FilePath, 30)
			bar := progress.AddBar(event.Total,
				mpb.PrependDecorators(
					decor.Name(shortName, decor.WC{C: decor.DindentRight | decor.DextraSpace, W: 32}),
				),
				mpb.AppendDecorators(
					decor.CountersKibiByte("% .1f / % .1f", decor.WC{W: 18}),
					decor.Percentage(decor.WC{W: 5}),
				),
				mpb.BarRemoveOnComplete(),
			)
			fileBars.Store(event.FilePath, bar)

		case EventFileProgress:
			if bar, ok := fileBars.Load(event.FilePath); ok {
				bar.(*mpb.Bar).SetCurrent(event.Current)
			}

		case EventFileComplete:
			if bar, ok := fileBars.Load(event.FilePath); ok {
				b := bar.(*mpb.Bar)
				if event.Total > 0 {
					b.SetCurrent(event.Total)
				} else {
					b.Abort(true)
				}
				fileBars.Delete(event.FilePath)
			}
			if overallBar != nil {
				overallBar.Increment()
				if openEnded {
					overallBar.SetTotal(-1, false)
				}
			}

		case EventError:
			fileBars.Range(func(key, bar any) bool {
				bar.(*mpb.Bar).Abort(true)
				fileBars.Delete(key)
				return true
			})
			if overallBar != nil {
				overallBar.Abort(false)
			}

		case EventComplete:
			if overallBar != nil {
				overallBar.SetTotal(-1, true)
			}
		}
	}

	return callback, progress
}

// FormatSummary renders the totals shared by pack and unpack results
func FormatSummary(result Result, operation OperationType) string {
	var sb strings.Builder

	sb.WriteString("Summary:\n")
	if operation == OperationPack {
		fmt.Fprintf(&sb, "  Files packed:    %d\n", result.GetFilesProcessed())
		fmt.Fprintf(&sb, "  Original size:   %s\n", FormatSize(result.GetOriginalSize()))
		fmt.Fprintf(&sb, "  Archive size:    %s\n", FormatSize(result.GetArchiveSize()))
		if result.GetOriginalSize() > 0 {
			ratio := float64(result.GetArchiveSize()) / float64(result.GetOriginalSize()) * 100
			fmt.Fprintf(&sb, "  Ratio:           %.1f%%\n", ratio)
		}
	} else {
		fmt.Fprintf(&sb, "  Files extracted: %d / %d\n", result.GetFilesProcessed(), result.GetFilesTotal())
		fmt.Fprintf(&sb, "  Archive size:    %s\n", FormatSize(result.GetArchiveSize()))
		fmt.Fprintf(&sb, "  Extracted size:  %s\n", FormatSize(result.GetOriginalSize()))
	}

	return sb.String()
}

// FormatSize renders a byte count with a binary unit
func FormatSize(bytes uint64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
		TB = 1024 * GB
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.2f TB", float64(bytes)/float64(TB))
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// TruncateLeft shortens path from the left to at most maxLen bytes
func TruncateLeft(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}

	filename := filepath.Base(path)
	if len(filename) >= maxLen-3 {
		return "..." + filename[len(filename)-(maxLen-3):]
	}

	return "..." + path[len(path)-(maxLen-3):]
}

// LoggerOrDiscard returns l, or a logger that drops everything when l is nil
func LoggerOrDiscard(l *logrus.Logger) *logrus.Logger {
	if l != nil {
		return l
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	discard.SetLevel(logrus.PanicLevel)
	return discard
}
