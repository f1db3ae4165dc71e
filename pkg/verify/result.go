// pkg/verify/result.go
package verify

import (
	"fmt"

	"github.com/creativeyann17/go-pack/pkg/gopack"
)

// Result contains comprehensive verification results
type Result struct {
	// Archive metadata
	Format      string // "TMLP" or "UNKNOWN"
	ArchivePath string // Path to the verified archive
	ArchiveSize uint64 // Total archive file size in bytes
	IndexOffset uint64 // Offset recorded in the header

	// Header and index decoding
	HeaderValid bool // Magic and index offset are readable
	IndexValid  bool // Index block decoded completely

	// Content statistics
	EntryCount  int    // Unique contents stored
	FileCount   int    // Paths across all entries
	StoredSize  uint64 // Sum of entry sizes
	TotalSize   uint64 // Size of the tree once extracted
	EmptyFiles  int    // Paths with zero-byte content
	SharedPaths int    // Paths that reuse another path's content

	// Structural integrity
	StructureValid    bool // No range, overlap or path problem found
	OutOfRange        int  // Entries outside [header, index)
	OverlappingRanges int  // Entries overlapping a previous entry
	DuplicatePaths    int  // Paths listed more than once
	UnsafePaths       int  // Paths that would escape the destination
	EmptyEntries      int  // Entries without any path

	// Data integrity (only populated when VerifyData=true)
	DataVerified     bool   // Whether data verification was performed
	Algorithm        string // Fingerprint algorithm used for the data pass
	EntriesVerified  int    // Entries read back completely
	UnreadEntries    int    // Entries whose bytes could not be read
	DuplicateContent int    // Entries whose bytes equal an earlier entry

	// Errors found during verification
	Errors []error
}

// DedupRatio returns the share of paths that reuse stored content as a percentage
func (r *Result) DedupRatio() float64 {
	if r.FileCount == 0 {
		return 0
	}
	return float64(r.SharedPaths) / float64(r.FileCount) * 100
}

// SpaceSaved returns bytes saved by deduplication
func (r *Result) SpaceSaved() uint64 {
	if r.StoredSize >= r.TotalSize {
		return 0
	}
	return r.TotalSize - r.StoredSize
}

// IsValid returns true if the archive passed all validation checks
func (r *Result) IsValid() bool {
	return r.HeaderValid && r.IndexValid && r.StructureValid &&
		len(r.Errors) == 0 && r.UnreadEntries == 0
}

// Summary returns a human-readable summary of the verification result
func (r *Result) Summary() string {
	status := "VALID"
	if !r.IsValid() {
		status = "INVALID"
	}

	s := fmt.Sprintf("Archive: %s [%s]\n", r.ArchivePath, status)
	s += fmt.Sprintf("Format:  %s\n", r.Format)
	s += fmt.Sprintf("Size:    %s\n", gopack.FormatSize(r.ArchiveSize))
	s += fmt.Sprintf("Files:   %d\n", r.FileCount)
	s += fmt.Sprintf("Entries: %d\n", r.EntryCount)

	if r.TotalSize > 0 {
		s += fmt.Sprintf("Extracted: %s\n", gopack.FormatSize(r.TotalSize))
		s += fmt.Sprintf("Stored:    %s\n", gopack.FormatSize(r.StoredSize))
		s += fmt.Sprintf("Saved:     %s (%.1f%% of files deduplicated)\n",
			gopack.FormatSize(r.SpaceSaved()), r.DedupRatio())
	}

	if r.DataVerified {
		s += "\nData Integrity:\n"
		s += fmt.Sprintf("  Algorithm:        %s\n", r.Algorithm)
		s += fmt.Sprintf("  Entries Verified: %d/%d\n", r.EntriesVerified, r.EntryCount)
		if r.UnreadEntries > 0 {
			s += fmt.Sprintf("  Unreadable:       %d\n", r.UnreadEntries)
		}
		if r.DuplicateContent > 0 {
			s += fmt.Sprintf("  Stored Twice:     %d\n", r.DuplicateContent)
		}
	}

	if len(r.Errors) > 0 {
		s += fmt.Sprintf("\nErrors (%d):\n", len(r.Errors))
		for i, err := range r.Errors {
			if i >= 10 {
				s += fmt.Sprintf("  ... and %d more errors\n", len(r.Errors)-10)
				break
			}
			s += fmt.Sprintf("  - %v\n", err)
		}
	}

	return s
}
