package varc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

func TestAddDirectoryAndExtractAll(t *testing.T) {
	src := filepath.Join(t.TempDir(), "project")
	files := map[string]string{
		"main.go":          "package main\n",
		"docs/guide.md":    "# Guide\n",
		"assets/logo.bin":  "\x00\x01\x02\x03binarydata",
		".hidden/note.txt": "hidden note",
	}
	writeTree(t, src, files)

	a := New()
	require.NoError(t, a.Create(archivePath(t)))

	opts := DefaultCreateOptions()
	result, err := a.AddDirectory(src, opts)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), result.FilesProcessed)

	// Paths are relative to the parent of the walked root.
	assert.True(t, a.EntryExists("project/main.go"))
	assert.True(t, a.EntryExists("project/docs/guide.md"))
	assert.True(t, a.EntryExists("project/.hidden/note.txt"))

	out := t.TempDir()
	extracted, err := a.ExtractAll(out, "", ExtractOptions{Overwrite: true})
	require.NoError(t, err)
	assert.Equal(t, uint64(4), extracted.FilesProcessed)

	for name, content := range files {
		got, err := os.ReadFile(filepath.Join(out, "project", filepath.FromSlash(name)))
		require.NoError(t, err)
		assert.Equal(t, content, string(got))
	}
}

func TestAddDirectorySkipsHidden(t *testing.T) {
	src := filepath.Join(t.TempDir(), "tree")
	writeTree(t, src, map[string]string{
		"visible.txt":      "v",
		".dotfile":         "d",
		".dotdir/file.txt": "n",
	})

	a := New()
	require.NoError(t, a.Create(archivePath(t)))

	opts := DefaultCreateOptions()
	opts.IncludeHidden = false
	_, err := a.AddDirectory(src, opts)
	require.NoError(t, err)

	assert.True(t, a.EntryExists("tree/visible.txt"))
	assert.False(t, a.EntryExists("tree/.dotfile"))
	assert.False(t, a.EntryExists("tree/.dotdir/file.txt"))
}

func TestAddDirectoryExcludePatterns(t *testing.T) {
	src := filepath.Join(t.TempDir(), "tree")
	writeTree(t, src, map[string]string{
		"keep.go":   "k",
		"skip.log":  "s",
		"sub/a.log": "s",
		"sub/b.go":  "k",
	})

	a := New()
	require.NoError(t, a.Create(archivePath(t)))

	opts := DefaultCreateOptions()
	opts.ExcludePatterns = []string{"*.log"}
	_, err := a.AddDirectory(src, opts)
	require.NoError(t, err)

	assert.True(t, a.EntryExists("tree/keep.go"))
	assert.True(t, a.EntryExists("tree/sub/b.go"))
	assert.False(t, a.EntryExists("tree/skip.log"))
	assert.False(t, a.EntryExists("tree/sub/a.log"))
}

func TestExtractAllFilterAndOverwrite(t *testing.T) {
	a := New()
	require.NoError(t, a.Create(archivePath(t)))
	require.NoError(t, a.AddBytes("docs/one.txt", []byte("one"), CreateOptions{}))
	require.NoError(t, a.AddBytes("docs/two.txt", []byte("two"), CreateOptions{}))
	require.NoError(t, a.AddBytes("src/main.go", []byte("package main"), CreateOptions{}))

	out := t.TempDir()

	result, err := a.ExtractAll(out, "", ExtractOptions{Filter: []string{"docs/"}})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.FilesProcessed)
	_, err = os.Stat(filepath.Join(out, "src", "main.go"))
	assert.True(t, os.IsNotExist(err))

	// Existing files are skipped without overwrite but still counted.
	require.NoError(t, os.WriteFile(filepath.Join(out, "docs", "one.txt"), []byte("stale"), 0644))
	result, err = a.ExtractAll(out, "", ExtractOptions{Filter: []string{"docs/"}})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.FilesProcessed)
	got, err := os.ReadFile(filepath.Join(out, "docs", "one.txt"))
	require.NoError(t, err)
	assert.Equal(t, "stale", string(got))

	// With overwrite the stale copy is replaced.
	_, err = a.ExtractAll(out, "", ExtractOptions{Overwrite: true, Filter: []string{"docs/"}})
	require.NoError(t, err)
	got, err = os.ReadFile(filepath.Join(out, "docs", "one.txt"))
	require.NoError(t, err)
	assert.Equal(t, "one", string(got))
}

func TestExtractPattern(t *testing.T) {
	a := New()
	require.NoError(t, a.Create(archivePath(t)))
	require.NoError(t, a.AddBytes("a.txt", []byte("a"), CreateOptions{}))
	require.NoError(t, a.AddBytes("b.md", []byte("b"), CreateOptions{}))

	out := t.TempDir()
	result, err := a.ExtractPattern("*.txt", out, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), result.FilesProcessed)

	_, err = os.Stat(filepath.Join(out, "a.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "b.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestExtractOne(t *testing.T) {
	a := New()
	require.NoError(t, a.Create(archivePath(t)))
	require.NoError(t, a.AddBytes("deep/nested/file.txt", []byte("payload"), CreateOptions{Compress: true}))

	out := filepath.Join(t.TempDir(), "sub", "dir", "file.txt")
	require.NoError(t, a.ExtractOne("deep/nested/file.txt", out, ""))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	err = a.ExtractOne("missing", filepath.Join(t.TempDir(), "x"), "")
	assert.Error(t, err)
}

func TestProgressCallback(t *testing.T) {
	a := New()
	require.NoError(t, a.Create(archivePath(t)))
	require.NoError(t, a.AddBytes("a.txt", []byte("aaa"), CreateOptions{}))
	require.NoError(t, a.AddBytes("b.txt", []byte("bbb"), CreateOptions{}))

	var calls []string
	a.SetProgressCallback(func(current, total, bytesDone, bytesTotal uint64, path string) {
		calls = append(calls, path)
	})

	_, err := a.ExtractAll(t.TempDir(), "", ExtractOptions{Overwrite: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt"}, calls)
}

func TestAddPathSetsFileMetadata(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "sample.txt")
	require.NoError(t, os.WriteFile(p, []byte("sample text content"), 0644))

	a := New()
	require.NoError(t, a.Create(archivePath(t)))
	require.NoError(t, a.AddPath(p, CreateOptions{}))

	fi, err := os.Stat(p)
	require.NoError(t, err)

	entries := a.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, fi.ModTime(), entries[0].Modified)
	assert.False(t, entries[0].IsDirectory())
}
