package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/endpointkit/internal/domain"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestLoadEndpoints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "endpoints.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoints:\n  - https://a.example/\n  - https://b.example/\n"), 0o644))

	got, err := loadEndpoints(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/", "https://b.example/"}, got)

	require.NoError(t, os.WriteFile(path, []byte("endpoints: [unterminated"), 0o644))
	_, err = loadEndpoints(path)
	assert.Error(t, err)
}

func TestPrintResults(t *testing.T) {
	msg := "HTTP Error: 404 Not Found"
	var buf bytes.Buffer
	require.NoError(t, printResults(&buf, []domain.RankedResult{
		{URL: "https://a.example/", ElapsedTimeMS: 12.34, IsFastest: true},
		{URL: "https://b.example/", ElapsedTimeMS: 3.5, Failed: true, ErrorMessage: &msg},
	}))
	out := buf.String()
	assert.Contains(t, out, "FASTEST")
	assert.Contains(t, out, msg)
	assert.Contains(t, out, "12.34ms")
}

func TestSelectCommand_FileAndArgs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/missing/") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "endpoints.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoints:\n  - "+srv.URL+"\n"), 0o644))

	out, err := run(t, "select", "--file", path, "--timeout", "2s", srv.URL+"/missing/")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], srv.URL)
	assert.Contains(t, lines[1], "FASTEST")
	assert.Contains(t, lines[2], "/missing/")
	assert.Contains(t, lines[2], "HTTP Error: 404")
}

func TestPutThenGet(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "put", "--storage-dir", dir, "app", "settings", "theme", "dark")
	require.NoError(t, err)

	out, err := run(t, "get", "--storage-dir", dir, "app", "settings", "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	_, err = run(t, "get", "--storage-dir", dir, "app", "settings", "missing")
	assert.ErrorContains(t, err, "not found")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "endpointkit dev\n", out)
}

func TestEnvStorageDir_AcrossFreshRoots(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ENDPOINTKIT_STORAGE_DIR", dir)

	_, err := run(t, "put", "app", "settings", "theme", "light")
	require.NoError(t, err)

	out, err := run(t, "get", "app", "settings", "theme")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)
	assert.FileExists(t, filepath.Join(dir, "app.db"))
}
