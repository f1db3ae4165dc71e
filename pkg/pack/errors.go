// pkg/pack/errors.go
package pack

import (
	"errors"

	"github.com/creativeyann17/go-pack/internal/fingerprint"
)

var (
	// ErrInputRequired is returned when input path is not specified
	ErrInputRequired = errors.New("input path is required")

	// ErrInvalidBufferSize is returned when the buffer size is out of range
	ErrInvalidBufferSize = errors.New("buffer size must be between 4 KiB and 256 MiB")

	// ErrContentChanged is returned when a source file changes between its
	// fingerprint and its copy into the archive
	ErrContentChanged = errors.New("file changed while packing")

	// ErrUnknownAlgorithm is returned for an unsupported fingerprint algorithm
	ErrUnknownAlgorithm = fingerprint.ErrUnknownAlgorithm
)
