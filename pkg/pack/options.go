// pkg/pack/options.go
package pack

import (
	"github.com/sirupsen/logrus"

	"github.com/creativeyann17/go-pack/internal/fingerprint"
)

const (
	// DefaultOutputPath is used when OutputPath is empty
	DefaultOutputPath = "archive.tmlp"

	// DefaultBufferSize is the copy buffer size used when BufferSize is 0
	DefaultBufferSize = fingerprint.DefaultBufferSize

	MinBufferSize = 4 * 1024
	MaxBufferSize = 256 * 1024 * 1024
)

// Options configures the pack behavior
type Options struct {
	// Input directory to archive
	InputPath string

	// Output archive path
	// Default: archive.tmlp
	OutputPath string

	// Fingerprint algorithm: "xxh3", "blake3" or "sha256"
	// Default: xxh3
	Algorithm fingerprint.Algorithm

	// Copy and hash buffer size in bytes, owned by one Pack call
	// Default: 4 MiB
	BufferSize int

	// UseGitignore respects .gitignore files to exclude matching paths
	UseGitignore bool

	// VerifyDuplicates byte-compares every fingerprint hit with the stored
	// content; a mismatch is stored as a separate entry instead of merged
	VerifyDuplicates bool

	// Fingerprinter overrides Algorithm (library use only)
	Fingerprinter fingerprint.Fingerprinter

	// Verbose enables detailed logging
	Verbose bool

	// Quiet suppresses all output except errors
	Quiet bool

	// Logger receives engine logs (nil = discard)
	Logger *logrus.Logger
}

// DefaultOptions returns options with sensible defaults
func DefaultOptions() *Options {
	return &Options{
		OutputPath: DefaultOutputPath,
		Algorithm:  fingerprint.Default,
		BufferSize: DefaultBufferSize,
	}
}

// Validate checks if options are valid and fills in defaults
func (o *Options) Validate() error {
	if o.InputPath == "" {
		return ErrInputRequired
	}
	if o.OutputPath == "" {
		o.OutputPath = DefaultOutputPath
	}

	alg, err := fingerprint.Parse(string(o.Algorithm))
	if err != nil {
		return err
	}
	o.Algorithm = alg

	if o.BufferSize == 0 {
		o.BufferSize = DefaultBufferSize
	}
	if o.BufferSize < MinBufferSize || o.BufferSize > MaxBufferSize {
		return ErrInvalidBufferSize
	}

	if o.Quiet {
		o.Verbose = false
	}
	return nil
}
