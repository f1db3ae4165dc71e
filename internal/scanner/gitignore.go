// internal/scanner/gitignore.go
package scanner

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreRules holds every .gitignore found under a scan root, keyed by the
// slash-separated directory that contains it ("" for the root itself).
type ignoreRules struct {
	byDir map[string]*ignore.GitIgnore
}

// loadIgnoreRules pre-scans root for .gitignore files.
// Returns nil when none exist so callers can skip matching entirely.
// Unreadable or invalid .gitignore files are skipped.
func loadIgnoreRules(root string) (*ignoreRules, error) {
	rules := &ignoreRules{byDir: make(map[string]*ignore.GitIgnore)}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// The real scan reports unreadable directories
			return nil
		}
		if d.IsDir() || d.Name() != ".gitignore" || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, filepath.Dir(p))
		if err != nil {
			return nil
		}
		dir := filepath.ToSlash(rel)
		if dir == "." {
			dir = ""
		}

		compiled, err := ignore.CompileIgnoreFile(p)
		if err != nil {
			return nil
		}
		rules.byDir[dir] = compiled
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(rules.byDir) == 0 {
		return nil, nil
	}
	return rules, nil
}

// Ignored reports whether the slash-separated relPath matches a rule from
// any .gitignore in its ancestor directories. Each rule file sees the path
// relative to its own directory.
func (r *ignoreRules) Ignored(relPath string) bool {
	if r == nil {
		return false
	}

	for _, dir := range ancestors(relPath) {
		rules, ok := r.byDir[dir]
		if !ok {
			continue
		}
		candidate := relPath
		if dir != "" {
			candidate = strings.TrimPrefix(relPath, dir+"/")
		}
		if rules.MatchesPath(candidate) {
			return true
		}
	}
	return false
}

// IgnoredDir reports whether a whole directory can be pruned.
// Only directory-only patterns ("build/") prune; a file pattern such as
// "*.log" that happens to match a directory name does not.
func (r *ignoreRules) IgnoredDir(relPath string) bool {
	if r == nil {
		return false
	}
	return r.Ignored(relPath+"/") && !r.Ignored(relPath)
}

// ancestors returns the directories from the root down to relPath's parent.
// "a/b/c.txt" yields ["", "a", "a/b"].
func ancestors(relPath string) []string {
	dirs := []string{""}
	parent := path.Dir(strings.TrimSuffix(relPath, "/"))
	if parent == "." || parent == "/" {
		return dirs
	}

	current := ""
	for _, part := range strings.Split(parent, "/") {
		if part == "" {
			continue
		}
		if current == "" {
			current = part
		} else {
			current += "/" + part
		}
		dirs = append(dirs, current)
	}
	return dirs
}
