// pkg/gopack/errors.go
package gopack

import "github.com/creativeyann17/go-pack/internal/errs"

// Error is the typed failure returned by pack, unpack and verify.
// Use errors.As to read its Kind, Path, Offset and Field.
type Error = errs.Error

// Kind classifies an Error
type Kind = errs.Kind

const (
	KindScan      = errs.KindScan
	KindIO        = errs.KindIO
	KindHash      = errs.KindHash
	KindFormat    = errs.KindFormat
	KindTruncated = errs.KindTruncated
)

// Sentinels for errors.Is, one per Kind
var (
	ErrScan      = errs.ErrScan
	ErrIO        = errs.ErrIO
	ErrHash      = errs.ErrHash
	ErrFormat    = errs.ErrFormat
	ErrTruncated = errs.ErrTruncated
)

// KindOf returns the Kind of the first *Error in err's chain, or 0
func KindOf(err error) Kind {
	return errs.KindOf(err)
}
