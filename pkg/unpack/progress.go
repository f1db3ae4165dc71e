// pkg/unpack/progress.go
package unpack

import (
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
// Returns the callback function and the progress container (call Wait() after unpacking)
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

// FormatSummary formats an unpack result into a human-readable summary string
func FormatSummary(result *Result) string {
	return gopack.FormatSummary(result, gopack.OperationUnpack)
}
