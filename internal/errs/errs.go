// internal/errs/errs.go

// Package errs defines the error kinds shared by the pack and unpack engines.
//
// Every failure surfaced by the engine is an *Error carrying one Kind plus
// whatever context (path, offset, field) is known at the failure site.
// Callers match kinds with errors.Is against the sentinel values.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an engine failure
type Kind int

const (
	KindScan Kind = iota + 1
	KindIO
	KindHash
	KindFormat
	KindTruncated
)

// Sentinels matched by errors.Is for each Kind
var (
	ErrScan      = errors.New("scan error")
	ErrIO        = errors.New("i/o error")
	ErrHash      = errors.New("hash error")
	ErrFormat    = errors.New("format error")
	ErrTruncated = errors.New("truncated data")
)

// String returns the name used in error messages
func (k Kind) String() string {
	switch k {
	case KindScan:
		return "ScanError"
	case KindIO:
		return "IOError"
	case KindHash:
		return "HashError"
	case KindFormat:
		return "FormatError"
	case KindTruncated:
		return "TruncatedDataError"
	default:
		return "UnknownError"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindScan:
		return ErrScan
	case KindIO:
		return ErrIO
	case KindHash:
		return ErrHash
	case KindFormat:
		return ErrFormat
	case KindTruncated:
		return ErrTruncated
	default:
		return nil
	}
}

// NoOffset marks an Error that has no meaningful archive offset
const NoOffset int64 = -1

// Error is the typed failure returned by every engine operation
type Error struct {
	Kind   Kind
	Op     string // operation that failed, e.g. "write content"
	Path   string // file or archive path involved, if any
	Offset int64  // archive offset involved, NoOffset if none
	Field  string // on-disk field being decoded, if any
	Err    error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	sb.WriteString(": ")
	sb.WriteString(e.Op)
	if e.Path != "" {
		fmt.Fprintf(&sb, " %s", e.Path)
	}
	if e.Field != "" {
		fmt.Fprintf(&sb, " (field %s)", e.Field)
	}
	if e.Offset != NoOffset {
		fmt.Fprintf(&sb, " at offset %d", e.Offset)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's Kind
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Scan builds a ScanError for path
func Scan(op, path string, err error) *Error {
	return &Error{Kind: KindScan, Op: op, Path: path, Offset: NoOffset, Err: err}
}

// IO builds an IOError for path at offset (NoOffset if not applicable)
func IO(op, path string, offset int64, err error) *Error {
	return &Error{Kind: KindIO, Op: op, Path: path, Offset: offset, Err: err}
}

// Hash builds a HashError for the source file at path
func Hash(path string, err error) *Error {
	return &Error{Kind: KindHash, Op: "fingerprint", Path: path, Offset: NoOffset, Err: err}
}

// Format builds a FormatError for a malformed field
func Format(field string, offset int64, err error) *Error {
	return &Error{Kind: KindFormat, Op: "decode", Field: field, Offset: offset, Err: err}
}

// Truncated builds a TruncatedDataError for a field that ran past the
// available bytes
func Truncated(field string, offset int64, err error) *Error {
	return &Error{Kind: KindTruncated, Op: "decode", Field: field, Offset: offset, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or 0
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
