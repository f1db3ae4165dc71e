// pkg/unpack/result.go
package unpack

// Result contains statistics about the unpack operation
type Result struct {
	// Paths listed in the archive index
	FilesTotal int

	// Files created or overwritten in the destination
	FilesWritten int

	// Distinct contents stored in the archive
	UniqueEntries int

	// Bytes written to the destination (duplicates counted once per path)
	BytesWritten uint64

	// Size of the archive file
	ArchiveSize uint64
}

// GetFilesTotal implements gopack.Result
func (r *Result) GetFilesTotal() int { return r.FilesTotal }

// GetFilesProcessed implements gopack.Result
func (r *Result) GetFilesProcessed() int { return r.FilesWritten }

// GetOriginalSize implements gopack.Result
func (r *Result) GetOriginalSize() uint64 { return r.BytesWritten }

// GetArchiveSize implements gopack.Result
func (r *Result) GetArchiveSize() uint64 { return r.ArchiveSize }
