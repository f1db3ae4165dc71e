// pkg/verify/errors.go
package verify

import "errors"

var (
	// ErrInputRequired is returned when input path is not specified
	ErrInputRequired = errors.New("input path is required")

	// ErrRangeOutOfBounds is reported for an entry whose bytes are not
	// between the header and the index
	ErrRangeOutOfBounds = errors.New("content range outside the content region")

	// ErrOverlappingRanges is reported when two entries share stored bytes
	ErrOverlappingRanges = errors.New("content ranges overlap")

	// ErrDuplicatePath is reported when a path appears more than once
	ErrDuplicatePath = errors.New("duplicate path")

	// ErrUnsafePath is reported for a path that would escape the destination
	ErrUnsafePath = errors.New("unsafe path")

	// ErrEmptyEntry is reported for an entry that lists no path
	ErrEmptyEntry = errors.New("entry without paths")

	// ErrDuplicateContent is reported when two entries store identical bytes
	ErrDuplicateContent = errors.New("content stored more than once")
)
