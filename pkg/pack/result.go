// pkg/pack/result.go
package pack

// Result contains statistics about the pack operation
type Result struct {
	// Regular files found by the scan (sum of paths over all entries)
	FilesScanned int

	// Distinct contents stored in the archive
	UniqueEntries int

	// Entries created by the collision guard for fingerprint hits whose
	// bytes differed
	Collisions int

	// Total size of all scanned files
	BytesScanned uint64

	// Content bytes written to the archive
	BytesStored uint64

	// Content bytes not written thanks to deduplication
	BytesSaved uint64

	// Final archive size, header and index included
	ArchiveSize uint64

	// Absolute offset of the index block
	IndexOffset uint64
}

// Duplicates returns the number of files that reused stored content
func (r *Result) Duplicates() int {
	return r.FilesScanned - r.UniqueEntries
}

// DedupRatio returns the share of deduplicated files as a percentage
func (r *Result) DedupRatio() float64 {
	if r.FilesScanned == 0 {
		return 0
	}
	return float64(r.Duplicates()) / float64(r.FilesScanned) * 100
}

// GetFilesTotal implements gopack.Result
func (r *Result) GetFilesTotal() int { return r.FilesScanned }

// GetFilesProcessed implements gopack.Result
func (r *Result) GetFilesProcessed() int { return r.FilesScanned }

// GetOriginalSize implements gopack.Result
func (r *Result) GetOriginalSize() uint64 { return r.BytesScanned }

// GetArchiveSize implements gopack.Result
func (r *Result) GetArchiveSize() uint64 { return r.ArchiveSize }
