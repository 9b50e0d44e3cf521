// Package archive extracts subsets of hosting-API zip archives.
//
// Archive endpoints wrap every download in a single synthetic top-level
// directory named after the repository and a content hash. Extraction
// always strips it; an optional subset prefix selects a subtree and
// flattens it so the prefix itself never appears under the destination.
package archive

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/quantmind-br/artifetch-go/internal/domain"
)

// ExtractSubset extracts the files of the zip archive at zipPath into
// destDir. When subsetPrefix is non-empty, only entries under that prefix
// are extracted and the prefix is stripped from their paths. Existing files
// at colliding paths are overwritten. An empty archive, or a prefix that
// matches nothing, leaves destDir untouched and is not an error.
func ExtractSubset(zipPath, destDir, subsetPrefix string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return &domain.ExtractionError{Archive: zipPath, Err: err}
	}
	defer zr.Close()

	if len(zr.File) == 0 {
		return nil
	}

	// Synthetic top folder, e.g. "repo-main-abc123/"
	top, _, _ := strings.Cut(zr.File[0].Name, "/")
	top += "/"

	prefix := strings.Trim(subsetPrefix, "/")

	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") || f.FileInfo().IsDir() {
			continue
		}

		rel := strings.TrimPrefix(f.Name, top)
		if prefix != "" {
			if rel == prefix {
				continue // the directory marker itself
			}
			if !strings.HasPrefix(rel, prefix+"/") {
				continue // outside the requested subtree
			}
			rel = rel[len(prefix)+1:]
		}

		if err := writeEntry(f, destDir, rel); err != nil {
			return &domain.ExtractionError{Archive: zipPath, Err: err}
		}
	}

	return nil
}

func writeEntry(f *zip.File, destDir, rel string) error {
	target := filepath.Join(destDir, filepath.FromSlash(rel))

	// Zip-slip guard: entries must stay inside destDir
	if !strings.HasPrefix(filepath.Clean(target), filepath.Clean(destDir)+string(os.PathSeparator)) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
