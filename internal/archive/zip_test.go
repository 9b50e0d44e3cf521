package archive_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/artifetch-go/internal/archive"
	"github.com/quantmind-br/artifetch-go/internal/domain"
)

// writeZip creates a zip file whose entries live under the given synthetic
// top folder, the way hosting APIs wrap their archives.
func writeZip(t *testing.T, top string, files map[string]string) string {
	t.Helper()

	zipPath := filepath.Join(t.TempDir(), "archive.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for rel, content := range files {
		w, err := zw.Create(top + "/" + rel)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return zipPath
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestExtractSubset_StripsTopFolder(t *testing.T) {
	zipPath := writeZip(t, "repo-main-abc123", map[string]string{
		"README.md":  "readme",
		"src/app.go": "package app",
	})
	dest := t.TempDir()

	err := archive.ExtractSubset(zipPath, dest, "")

	require.NoError(t, err)
	assert.Equal(t, "readme", readFile(t, filepath.Join(dest, "README.md")))
	assert.Equal(t, "package app", readFile(t, filepath.Join(dest, "src", "app.go")))
	assert.NoDirExists(t, filepath.Join(dest, "repo-main-abc123"))
}

func TestExtractSubset_FlattensPrefix(t *testing.T) {
	zipPath := writeZip(t, "top", map[string]string{
		"a/b/c.txt": "c",
		"a/d.txt":   "d",
		"other.txt": "other",
	})
	dest := t.TempDir()

	err := archive.ExtractSubset(zipPath, dest, "a")

	require.NoError(t, err)
	assert.Equal(t, "c", readFile(t, filepath.Join(dest, "b", "c.txt")))
	assert.Equal(t, "d", readFile(t, filepath.Join(dest, "d.txt")))
	assert.NoDirExists(t, filepath.Join(dest, "a"))
	assert.NoFileExists(t, filepath.Join(dest, "other.txt"))
}

func TestExtractSubset_Idempotent(t *testing.T) {
	zipPath := writeZip(t, "top", map[string]string{
		"a/b/c.txt": "content",
	})
	dest := t.TempDir()

	require.NoError(t, archive.ExtractSubset(zipPath, dest, "a"))
	require.NoError(t, archive.ExtractSubset(zipPath, dest, "a"))

	assert.Equal(t, "content", readFile(t, filepath.Join(dest, "b", "c.txt")))
}

func TestExtractSubset_OverwritesExistingFiles(t *testing.T) {
	zipPath := writeZip(t, "top", map[string]string{
		"file.txt": "new",
	})
	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "file.txt"), []byte("old"), 0644))

	err := archive.ExtractSubset(zipPath, dest, "")

	require.NoError(t, err)
	assert.Equal(t, "new", readFile(t, filepath.Join(dest, "file.txt")))
}

func TestExtractSubset_NoMatchingPrefixIsEmptyNotError(t *testing.T) {
	zipPath := writeZip(t, "top", map[string]string{
		"a/file.txt": "x",
	})
	dest := t.TempDir()

	err := archive.ExtractSubset(zipPath, dest, "does/not/exist")

	require.NoError(t, err)
	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExtractSubset_EmptyArchiveIsNoop(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "empty.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	dest := t.TempDir()
	err = archive.ExtractSubset(zipPath, dest, "")

	require.NoError(t, err)
	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExtractSubset_SkipsDirectoryEntries(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "dirs.zip")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	_, err = zw.Create("top/")
	require.NoError(t, err)
	_, err = zw.Create("top/sub/")
	require.NoError(t, err)
	w, err := zw.Create("top/sub/file.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	dest := t.TempDir()
	require.NoError(t, archive.ExtractSubset(zipPath, dest, ""))

	assert.Equal(t, "data", readFile(t, filepath.Join(dest, "sub", "file.txt")))
}

func TestExtractSubset_CorruptArchive(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "corrupt.zip")
	require.NoError(t, os.WriteFile(zipPath, []byte("this is not a zip"), 0644))

	err := archive.ExtractSubset(zipPath, t.TempDir(), "")

	require.Error(t, err)
	var extErr *domain.ExtractionError
	assert.ErrorAs(t, err, &extErr)
}

func TestExtractSubset_PrefixWithSurroundingSlashes(t *testing.T) {
	zipPath := writeZip(t, "top", map[string]string{
		"a/d.txt": "d",
	})
	dest := t.TempDir()

	err := archive.ExtractSubset(zipPath, dest, "/a/")

	require.NoError(t, err)
	assert.Equal(t, "d", readFile(t, filepath.Join(dest, "d.txt")))
}
