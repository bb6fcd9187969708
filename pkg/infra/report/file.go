package report

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// fileStampLayout is appended to every generated file name
const fileStampLayout = "20060102150405"

// BaseName returns the file name of path without directory and without
// anything after its first dot
func BaseName(path string) string {
	name := filepath.Base(path)
	if i := strings.Index(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}

// Title derives the report title from the repository file path
func Title(path string) string {
	title := strings.NewReplacer("_", " ", "-", " ").Replace(BaseName(path))
	return strings.ToUpper(title)
}

// FileName returns "<base>_<YYYYmmddHHMMSS>.<ext>"
func FileName(base string, generatedAt time.Time, ext string) string {
	return base + "_" + generatedAt.Format(fileStampLayout) + "." + ext
}

// createFile creates path and its parent directory
func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create output directory", goerr.V("path", path))
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create output file", goerr.V("path", path))
	}
	return f, nil
}
