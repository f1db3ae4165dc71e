// internal/scanner/gitignore_test.go
package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnoreRulesBasicPatterns(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, ".gitignore", "*.log\nbuild/\n*.tmp\n")

	rules, err := loadIgnoreRules(root)
	require.NoError(t, err)
	require.NotNil(t, rules)

	tests := []struct {
		path string
		want bool
	}{
		{"keep.txt", false},
		{"debug.log", true},
		{"cache.tmp", true},
		{"build/output.bin", true},
		{"src/main.go", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, rules.Ignored(tc.path), tc.path)
	}
}

func TestIgnoreRulesDirectoryPruning(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, ".gitignore", "build/\n*.log\n")

	rules, err := loadIgnoreRules(root)
	require.NoError(t, err)

	assert.True(t, rules.IgnoredDir("build"))
	// A file pattern must not prune a directory named like it
	assert.False(t, rules.IgnoredDir("app.log"))
	assert.False(t, rules.IgnoredDir("src"))
}

func TestIgnoreRulesNested(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, ".gitignore", "*.log\n")
	createFile(t, root, "src/.gitignore", "*.tmp\n")

	rules, err := loadIgnoreRules(root)
	require.NoError(t, err)

	assert.True(t, rules.Ignored("src/debug.log"))
	assert.True(t, rules.Ignored("src/file.tmp"))
	assert.False(t, rules.Ignored("file.tmp"))
	assert.False(t, rules.Ignored("src/main.go"))
}

func TestIgnoreRulesNegation(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, ".gitignore", "*.log\n!important.log\n")

	rules, err := loadIgnoreRules(root)
	require.NoError(t, err)

	assert.True(t, rules.Ignored("debug.log"))
	assert.False(t, rules.Ignored("important.log"))
}

func TestIgnoreRulesAbsent(t *testing.T) {
	root := t.TempDir()
	createFile(t, root, "file.txt", "content")

	rules, err := loadIgnoreRules(root)
	require.NoError(t, err)
	assert.Nil(t, rules)

	// A nil rule set ignores nothing
	assert.False(t, rules.Ignored("file.txt"))
	assert.False(t, rules.IgnoredDir("any"))
}

func TestAncestors(t *testing.T) {
	assert.Equal(t, []string{""}, ancestors("file.txt"))
	assert.Equal(t, []string{"", "a", "a/b"}, ancestors("a/b/c.txt"))
	assert.Equal(t, []string{""}, ancestors("build/"))
}

func createFile(t *testing.T, base, relPath, content string) {
	t.Helper()
	full := filepath.Join(base, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func createDir(t *testing.T, base, relPath string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(base, filepath.FromSlash(relPath)), 0755))
}
