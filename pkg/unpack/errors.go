// pkg/unpack/errors.go
package unpack

import (
	"errors"

	"github.com/creativeyann17/go-pack/pkg/pack"
)

var (
	// ErrInputRequired is returned when input path is not specified
	ErrInputRequired = errors.New("input archive path is required")

	// ErrInvalidBufferSize is returned when the buffer size is out of range
	ErrInvalidBufferSize = pack.ErrInvalidBufferSize
)
