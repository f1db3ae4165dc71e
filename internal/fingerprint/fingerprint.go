// internal/fingerprint/fingerprint.go
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"

	"github.com/creativeyann17/go-pack/internal/errs"
)

// Fingerprinter maps the bytes of a file to a deterministic string.
// Equal content must always produce equal fingerprints.
type Fingerprinter interface {
	Fingerprint(path string) (string, error)
}

// Func adapts a plain function to the Fingerprinter interface
type Func func(path string) (string, error)

// Fingerprint calls f(path)
func (f Func) Fingerprint(path string) (string, error) {
	return f(path)
}

// Algorithm names a supported content digest
type Algorithm string

const (
	// XXH3 is the 64-bit xxHash3 digest (fast, non-cryptographic)
	XXH3 Algorithm = "xxh3"
	// BLAKE3 is the 256-bit BLAKE3 digest
	BLAKE3 Algorithm = "blake3"
	// SHA256 is the 256-bit SHA-2 digest
	SHA256 Algorithm = "sha256"

	// Default is used when no algorithm is configured
	Default = XXH3

	// DefaultBufferSize matches the archive copy buffer
	DefaultBufferSize = 4 * 1024 * 1024
)

// ErrUnknownAlgorithm is returned by Parse for unsupported names
var ErrUnknownAlgorithm = errors.New("unknown fingerprint algorithm")

// Algorithms lists the supported algorithms, default first
func Algorithms() []Algorithm {
	return []Algorithm{XXH3, BLAKE3, SHA256}
}

// Parse resolves an algorithm name, case-insensitively.
// An empty name resolves to Default.
func Parse(name string) (Algorithm, error) {
	if name == "" {
		return Default, nil
	}
	alg := Algorithm(strings.ToLower(name))
	for _, known := range Algorithms() {
		if alg == known {
			return alg, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Hasher computes fingerprints by streaming input through a digest.
// It owns one read buffer reused across calls, so a Hasher must not be
// shared between goroutines.
type Hasher struct {
	alg Algorithm
	buf []byte
}

// New creates a Hasher for alg reading with a bufSize buffer
// (DefaultBufferSize if bufSize <= 0)
func New(alg Algorithm, bufSize int) (*Hasher, error) {
	alg, err := Parse(string(alg))
	if err != nil {
		return nil, err
	}
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &Hasher{alg: alg, buf: make([]byte, bufSize)}, nil
}

// Algorithm returns the configured algorithm
func (h *Hasher) Algorithm() Algorithm {
	return h.alg
}

// Fingerprint digests the file at path.
// Any open or read failure is reported as a HashError.
func (h *Hasher) Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errs.Hash(path, err)
	}
	defer f.Close()

	sum, err := h.Sum(f)
	if err != nil {
		return "", errs.Hash(path, err)
	}
	return sum, nil
}

// Sum digests everything read from r and returns the lowercase hex form
func (h *Hasher) Sum(r io.Reader) (string, error) {
	d, err := h.Digest()
	if err != nil {
		return "", err
	}
	// Hide any WriterTo so the copy goes through our bounded buffer
	if _, err := io.CopyBuffer(d, struct{ io.Reader }{r}, h.buf); err != nil {
		return "", err
	}
	return d.Fingerprint(), nil
}

// Digest accumulates written bytes into a fingerprint
type Digest interface {
	io.Writer
	// Fingerprint returns the lowercase hex form of everything written so far
	Fingerprint() string
}

// Streamer is implemented by fingerprinters that can digest bytes as
// they flow through another copy
type Streamer interface {
	Digest() (Digest, error)
}

// Digest returns a fresh digest for the configured algorithm. Its
// fingerprints equal those of Sum over the same bytes.
func (h *Hasher) Digest() (Digest, error) {
	switch h.alg {
	case XXH3:
		return &xxh3Digest{h: xxh3.New()}, nil
	case BLAKE3:
		return &hashDigest{h: blake3.New()}, nil
	case SHA256:
		return &hashDigest{h: sha256.New()}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, h.alg)
}

type xxh3Digest struct {
	h *xxh3.Hasher
}

func (d *xxh3Digest) Write(p []byte) (int, error) { return d.h.Write(p) }

func (d *xxh3Digest) Fingerprint() string {
	return fmt.Sprintf("%016x", d.h.Sum64())
}

type hashDigest struct {
	h hash.Hash
}

func (d *hashDigest) Write(p []byte) (int, error) { return d.h.Write(p) }

func (d *hashDigest) Fingerprint() string {
	return hex.EncodeToString(d.h.Sum(nil))
}
