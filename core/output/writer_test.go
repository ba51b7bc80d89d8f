package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		id, ext, want string
	}{
		{"1133181564352462851", ".md", "opus_1133181564352462851.md"},
		{"12/../34", ".html", "opus_12____34.html"},
		{"abc", ".fragment.html", "opus_abc.fragment.html"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.id, tt.ext))
		})
	}
}

func TestWriterWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w, err := New(dir)
	require.NoError(t, err)

	path, err := w.Write("42", []byte("<p>x</p>"), ".html")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "opus_42.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", string(data))
}

func TestWriterDefaultsToWorkingDir(t *testing.T) {
	w, err := New("")
	require.NoError(t, err)
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, w.OutputDir)
}
