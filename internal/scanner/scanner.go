// internal/scanner/scanner.go

// Package scanner enumerates the regular files under a directory tree.
package scanner

import (
	"errors"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/creativeyann17/go-pack/internal/errs"
)

// File is one regular file found by a scan
type File struct {
	RelPath string // slash-separated, relative to the scan root
	AbsPath string // absolute filesystem path
	Size    uint64 // byte length at scan time
}

// Options tunes a scan
type Options struct {
	// UseGitignore skips paths matched by .gitignore files under the root
	UseGitignore bool

	// Exclude lists absolute paths that are never yielded,
	// e.g. the archive being written when it lives inside the root
	Exclude []string

	// Logger receives debug output about skipped entries (nil = silent)
	Logger *logrus.Logger
}

// Scanner walks one root directory. A Scanner's sequence can be consumed
// only once.
type Scanner struct {
	root     string
	rules    *ignoreRules
	exclude  map[string]struct{}
	log      *logrus.Logger
	consumed bool
}

// New validates root and prepares a scan. It fails with a ScanError when
// root does not exist or is not a directory. A symlinked root is followed;
// symlinks below it are not.
func New(root string, opts Options) (*Scanner, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errs.Scan("resolve root", root, err)
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, errs.Scan("resolve root", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, errs.Scan("stat root", root, err)
	}
	if !info.IsDir() {
		return nil, errs.Scan("stat root", root, errors.New("not a directory"))
	}

	s := &Scanner{
		root:    absRoot,
		exclude: make(map[string]struct{}, len(opts.Exclude)),
		log:     opts.Logger,
	}
	if s.log == nil {
		s.log = logrus.New()
		s.log.SetOutput(io.Discard)
	}

	for _, p := range opts.Exclude {
		if abs, err := filepath.Abs(p); err == nil {
			s.exclude[resolve(abs)] = struct{}{}
		}
	}

	if opts.UseGitignore {
		rules, err := loadIgnoreRules(absRoot)
		if err != nil {
			return nil, errs.Scan("load .gitignore", root, err)
		}
		s.rules = rules
	}

	return s, nil
}

// Root returns the absolute scan root
func (s *Scanner) Root() string {
	return s.root
}

// Files returns the lazy sequence of regular files under the root.
// Symlinks, devices, sockets and pipes are skipped without error.
// An unreadable directory yields an IOError and ends the sequence.
// Callers must not rely on the order of the yielded files.
func (s *Scanner) Files() iter.Seq2[File, error] {
	return func(yield func(File, error) bool) {
		if s.consumed {
			yield(File{}, errs.Scan("walk", s.root, errors.New("scan already consumed")))
			return
		}
		s.consumed = true

		stopped := false
		err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return errs.IO("read directory", p, errs.NoOffset, walkErr)
			}

			rel, err := filepath.Rel(s.root, p)
			if err != nil {
				return errs.IO("relative path", p, errs.NoOffset, err)
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if rel != "." && s.rules.IgnoredDir(rel) {
					s.log.WithField("path", rel).Debug("skipping ignored directory")
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() {
				s.log.WithField("path", rel).Debug("skipping non-regular entry")
				return nil
			}
			if _, skip := s.exclude[p]; skip {
				s.log.WithField("path", rel).Debug("skipping excluded file")
				return nil
			}
			if s.rules.Ignored(rel) {
				s.log.WithField("path", rel).Debug("skipping ignored file")
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return errs.IO("stat", p, errs.NoOffset, err)
			}

			if !yield(File{RelPath: rel, AbsPath: p, Size: uint64(info.Size())}, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})

		if err != nil && !stopped {
			yield(File{}, err)
		}
	}
}

// resolve evaluates the symlinks of the longest existing prefix of an
// absolute path, so it compares equal to paths found under a resolved root
// even when its last elements do not exist yet
func resolve(abs string) string {
	dir, rest := abs, ""
	for {
		if r, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(r, rest)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
	}
}
