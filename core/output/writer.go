// Package output handles file naming and writing for opuspipe outputs.
// Files are named after the opus id (e.g. opus_1133181564352462851.md).
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilePrefix starts every output file name.
const FilePrefix = "opus_"

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Path returns the file path used for id and ext.
func (w *Writer) Path(id, ext string) string {
	return filepath.Join(w.OutputDir, Filename(id, ext))
}

// Write stores data for id and returns the written path.
func (w *Writer) Write(id string, data []byte, ext string) (string, error) {
	path := w.Path(id, ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// Filename converts an id into a flat file name: opus_{id}{ext}.
func Filename(id, ext string) string {
	return FilePrefix + sanitize(id) + ext
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	return strings.Map(func(ch rune) rune {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			return ch
		}
		return '_'
	}, s)
}
