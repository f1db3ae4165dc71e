// pkg/unpack/options.go
package unpack

import (
	"github.com/sirupsen/logrus"

	"github.com/creativeyann17/go-pack/pkg/pack"
)

// Options configures the unpack behavior
type Options struct {
	// Input archive path
	InputPath string

	// Destination directory, created if missing
	// Default: current directory
	OutputPath string

	// Copy buffer size in bytes, owned by one Unpack call
	// Default: 4 MiB
	BufferSize int

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
		OutputPath: ".",
		BufferSize: pack.DefaultBufferSize,
	}
}

// Validate checks if options are valid and fills in defaults
func (o *Options) Validate() error {
	if o.InputPath == "" {
		return ErrInputRequired
	}
	if o.OutputPath == "" {
		o.OutputPath = "."
	}
	if o.BufferSize == 0 {
		o.BufferSize = pack.DefaultBufferSize
	}
	if o.BufferSize < pack.MinBufferSize || o.BufferSize > pack.MaxBufferSize {
		return ErrInvalidBufferSize
	}
	if o.Quiet {
		o.Verbose = false
	}
	return nil
}
