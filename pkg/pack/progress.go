// pkg/pack/progress.go
package pack

import (
	"fmt"
	"strings"

	"github.com/vbauerster/mpb/v8"

	"github.com/creativeyann17/go-pack/pkg/gopack"
)

// ProgressCallback is called for various progress events
type ProgressCallback func(event ProgressEvent)

// ProgressEvent contains progress information
type ProgressEvent struct {
	Type         EventType
	FilePath     string
	Current      int64
	Total        int64
	CurrentBytes uint64
	TotalBytes   uint64
	Duplicate    bool // EventFileComplete: no bytes were copied
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

// ProgressBarCallback creates a progress callback that displays multi-progress bars
// Returns the callback function and the progress container (call Wait() after packing)
func ProgressBarCallback() (ProgressCallback, *mpb.Progress) {
	genericCb, progress := gopack.ProgressBarCallback()

	callback := func(event ProgressEvent) {
		genericCb(gopack.ProgressEvent{
			Type:         gopack.EventType(event.Type),
			FilePath:     event.FilePath,
			Current:      event.Current,
			Total:        event.Total,
			CurrentBytes: event.CurrentBytes,
			TotalBytes:   event.TotalBytes,
		})
	}

	return callback, progress
}

// FormatSummary formats a pack result into a human-readable summary string
func FormatSummary(result *Result) string {
	var sb strings.Builder

	sb.WriteString(gopack.FormatSummary(result, gopack.OperationPack))

	sb.WriteString("\nDeduplication:\n")
	fmt.Fprintf(&sb, "  Unique entries:  %d\n", result.UniqueEntries)
	fmt.Fprintf(&sb, "  Duplicates:      %d\n", result.Duplicates())
	fmt.Fprintf(&sb, "  Dedup ratio:     %.1f%%\n", result.DedupRatio())
	fmt.Fprintf(&sb, "  Bytes saved:     %s\n", gopack.FormatSize(result.BytesSaved))
	if result.Collisions > 0 {
		fmt.Fprintf(&sb, "  Collisions:      %d (stored separately)\n", result.Collisions)
	}

	return sb.String()
}
