package cmd

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/opuspipe/common"
	"github.com/gaurav-prasanna/opuspipe/core/render"
)

func TestValidateFlags(t *testing.T) {
	tests := []struct {
		name    string
		flags   renderFlags
		wantErr bool
	}{
		{"none", renderFlags{}, true},
		{"html", renderFlags{HTML: true}, false},
		{"pdf", renderFlags{PDF: true}, false},
		{"two formats", renderFlags{HTML: true, JSON: true}, true},
		{"stdout", renderFlags{Fragment: true, Stdout: true}, false},
		{"stdout with dir", renderFlags{Fragment: true, Stdout: true, OutputDir: "out"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFlags(tt.flags)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSelectRenderer(t *testing.T) {
	cfg := common.NewDefaultConfig()
	tests := []struct {
		flags renderFlags
		ext   string
	}{
		{renderFlags{HTML: true}, ".html"},
		{renderFlags{Fragment: true}, ".fragment.html"},
		{renderFlags{Markdown: true}, ".md"},
		{renderFlags{JSON: true}, ".json"},
		{renderFlags{PDF: true}, ".pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			r, err := selectRenderer(tt.flags, cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.ext, r.Extension())
		})
	}

	r, err := selectRenderer(renderFlags{HTML: true}, cfg)
	require.NoError(t, err)
	assert.Equal(t, render.DefaultStylesheets, r.(*render.PageRenderer).Stylesheets)

	_, err = selectRenderer(renderFlags{}, cfg)
	assert.Error(t, err)
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []string{"3", "1", "2"}, uniqueIDs([]string{"3", "1", "3", "2", "1"}))
	assert.Empty(t, uniqueIDs(nil))
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	resetFlags(renderCmd)
	t.Cleanup(func() {
		resetFlags(rootCmd)
		resetFlags(renderCmd)
	})

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	var calls = map[string]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		calls[id]++
		assert.Equal(t, "SESSDATA=flag", r.Header.Get("Cookie"))
		switch id {
		case "1":
			_, _ = w.Write([]byte(`{"code":0,"data":{"item":{"modules":[{"module_type":"MODULE_TYPE_CONTENT","module_content":{"paragraphs":[
				{"para_type":1,"text":{"nodes":[{"type":"TEXT_NODE_TYPE_WORD","word":{"words":"hello"}}]}}]}}]}}}`))
		case "2":
			_, _ = w.Write([]byte(`{"code":0,"data":{"item":{"modules":[]}}}`))
		default:
			_, _ = w.Write([]byte(`{"code":-404,"message":"missing","data":null}`))
		}
	}))
	t.Cleanup(func() {
		srv.Close()
		assert.LessOrEqual(t, calls["1"], 1)
	})
	return srv
}

func TestRenderCommandWritesFiles(t *testing.T) {
	srv := newUpstream(t)
	t.Setenv("OPUSPIPE_UPSTREAM_BASE_URL", srv.URL)
	dir := t.TempDir()

	out, err := execute(t, "render", "1", "1", "--fragment", "--output_dir", dir, "--cookie", "SESSDATA=flag", "--log-level", "error")
	require.NoError(t, err)

	path := filepath.Join(dir, "opus_1.fragment.html")
	assert.Contains(t, out, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `<p style="text-align:left;" data-v-2505e99a=""><span data-v-2505e99a="">hello</span></p>`, string(data))
}

func TestRenderCommandCountsFailures(t *testing.T) {
	srv := newUpstream(t)
	t.Setenv("OPUSPIPE_UPSTREAM_BASE_URL", srv.URL)

	out, err := execute(t, "render", "1", "2", "3", "abc", "--fragment", "--stdout", "--cookie", "SESSDATA=flag", "--log-level", "error")
	require.Error(t, err)
	assert.Equal(t, "3/4 opus failed", err.Error())
	assert.Contains(t, out, "hello")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestRenderCommandCountsStdoutWriteFailure(t *testing.T) {
	srv := newUpstream(t)
	t.Setenv("OPUSPIPE_UPSTREAM_BASE_URL", srv.URL)
	resetFlags(rootCmd)
	resetFlags(renderCmd)
	t.Cleanup(func() {
		resetFlags(rootCmd)
		resetFlags(renderCmd)
		rootCmd.SetOut(nil)
	})

	rootCmd.SetOut(failingWriter{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"render", "1", "--fragment", "--stdout", "--cookie", "SESSDATA=flag", "--log-level", "error"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Equal(t, "1/1 opus failed", err.Error())
}
