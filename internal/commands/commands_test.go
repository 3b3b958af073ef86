package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/simonhull/heron"
	"github.com/simonhull/heron/internal/logger"
	"github.com/simonhull/heron/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const movieSource = `package models

//meili:index indexName="movies" maxTotalHits=500
type Movie struct {
	ID    string ` + "`meili:\"primaryKey\"`" + `
	Title string ` + "`meili:\"displayed,searchable,sortable\"`" + `
	Year  int    ` + "`meili:\"filterable\"`" + `
}
`

const duplicateSource = `package models

//meili:index
type Broken struct {
	A string ` + "`meili:\"primaryKey\"`" + `
	B string ` + "`meili:\"primaryKey\"`" + `
}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { logger.SetDefault(logger.NewDefaultLogger()) })

	root := NewApp()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append(args, "--log-level", "silent"))
	err := root.Execute()
	return buf.String(), err
}

func writePackage(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestGenerate(t *testing.T) {
	dir := writePackage(t, map[string]string{"movie.go": movieSource})

	out, err := execute(t, "generate", dir)
	require.NoError(t, err, out)

	content, err := os.ReadFile(filepath.Join(dir, "meili_index_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "// Code generated by heron. DO NOT EDIT.")
	assert.Contains(t, string(content), `const MovieIndexName = "movies"`)
	assert.Contains(t, out, "Create ")
	assert.Contains(t, out, "1 index provider(s) in 1 package(s)")

	// Second run leaves the file untouched.
	out, err = execute(t, "generate", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Unchanged ")
}

func TestGenerateDryRun(t *testing.T) {
	dir := writePackage(t, map[string]string{"movie.go": movieSource})

	out, err := execute(t, "generate", dir, "--dry-run", "--diff")
	require.NoError(t, err)
	assert.Contains(t, out, "[DRY RUN] Create ")
	assert.Contains(t, out, "+const MovieIndexName")
	assert.NoFileExists(t, filepath.Join(dir, "meili_index_gen.go"))
}

func TestGenerateOutputFlag(t *testing.T) {
	dir := writePackage(t, map[string]string{"movie.go": movieSource})

	_, err := execute(t, "generate", dir, "--output", "search_gen.go")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "search_gen.go"))
	assert.NoFileExists(t, filepath.Join(dir, "meili_index_gen.go"))
}

func TestGenerateConfigFile(t *testing.T) {
	dir := writePackage(t, map[string]string{"movie.go": movieSource})
	cfgPath := filepath.Join(t.TempDir(), "heron.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("output: index_gen.go\nregister: true\n"), 0644))

	_, err := execute(t, "generate", dir, "--config", cfgPath)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "index_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "MustRegister")
}

func TestGenerateMissingConfigFile(t *testing.T) {
	dir := writePackage(t, map[string]string{"movie.go": movieSource})

	_, err := execute(t, "generate", dir, "--config", filepath.Join(dir, "nope.yml"))
	assert.Error(t, err)
}

func TestGenerateDiagnostics(t *testing.T) {
	dir := writePackage(t, map[string]string{
		"movie.go":  movieSource,
		"broken.go": duplicateSource,
	})

	out, err := execute(t, "generate", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 annotated type(s) failed validation")
	assert.Contains(t, out, "broken.go:")
	assert.Contains(t, out, "only one field can be marked as primary key")

	// The valid type is still generated.
	content, err := os.ReadFile(filepath.Join(dir, "meili_index_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "MovieIndexName")
	assert.NotContains(t, string(content), "BrokenIndexName")
}

func TestGenerateRefusesHandWrittenFile(t *testing.T) {
	dir := writePackage(t, map[string]string{
		"movie.go":           movieSource,
		"meili_index_gen.go": "package models\n\n// hand written\n",
	})

	_, err := execute(t, "generate", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a generated file")

	_, err = execute(t, "generate", dir, "--force")
	require.NoError(t, err)
	content, err := os.ReadFile(filepath.Join(dir, "meili_index_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "DO NOT EDIT")
}

func TestGenerateSkipKeepsHandWrittenFile(t *testing.T) {
	dir := writePackage(t, map[string]string{
		"movie.go":           movieSource,
		"meili_index_gen.go": "package models\n\n// hand written\n",
	})

	out, err := execute(t, "generate", dir, "--skip")
	require.NoError(t, err, out)
	assert.Contains(t, out, "⊘ Skip ")

	content, err := os.ReadFile(filepath.Join(dir, "meili_index_gen.go"))
	require.NoError(t, err)
	assert.Equal(t, "package models\n\n// hand written\n", string(content))
}

func TestGenerateForceAndSkipConflict(t *testing.T) {
	dir := writePackage(t, map[string]string{"movie.go": movieSource})

	_, err := execute(t, "generate", dir, "--force", "--skip")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be combined")
}

func TestGenerateRecursive(t *testing.T) {
	root := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, sub), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(root, sub, "movie.go"), []byte(movieSource), 0644))
	}

	out, err := execute(t, "generate", root+"/...")
	require.NoError(t, err, out)
	assert.FileExists(t, filepath.Join(root, "a", "meili_index_gen.go"))
	assert.FileExists(t, filepath.Join(root, "b", "meili_index_gen.go"))
	assert.Contains(t, out, "2 index provider(s) in 2 package(s)")
}

func TestCheck(t *testing.T) {
	dir := writePackage(t, map[string]string{"movie.go": movieSource})

	_, err := execute(t, "check", dir)
	require.Error(t, err, "missing file is stale")
	assert.Contains(t, err.Error(), "out of date")

	_, err = execute(t, "generate", dir)
	require.NoError(t, err)

	out, err := execute(t, "check", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "up to date")

	changed := bytes.Replace([]byte(movieSource), []byte(`"movies"`), []byte(`"films"`), 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "movie.go"), changed, 0644))

	out, err = execute(t, "check", dir)
	require.Error(t, err)
	assert.Contains(t, out, `-const MovieIndexName = "movies"`)
	assert.Contains(t, out, `+const MovieIndexName = "films"`)
}

func TestCheckDiagnostics(t *testing.T) {
	dir := writePackage(t, map[string]string{"broken.go": duplicateSource})

	out, err := execute(t, "check", dir)
	require.Error(t, err)
	assert.Contains(t, out, "primary key")
	assert.NoFileExists(t, filepath.Join(dir, "meili_index_gen.go"))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heron.yml")

	_, err := execute(t, "init", "--config", path)
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "tag: meili")
	assert.Contains(t, string(content), "output: meili_index_gen.go")

	_, err = execute(t, "init", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "init", "--config", path, "--force")
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "heron "+heron.Version)
}

func TestWatcherRelevant(t *testing.T) {
	w := &watcher{output: "meili_index_gen.go"}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write go file", fsnotify.Event{Name: "/p/movie.go", Op: fsnotify.Write}, true},
		{"create go file", fsnotify.Event{Name: "/p/new.go", Op: fsnotify.Create}, true},
		{"remove go file", fsnotify.Event{Name: "/p/old.go", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "/p/movie.go", Op: fsnotify.Chmod}, false},
		{"generated output", fsnotify.Event{Name: "/p/meili_index_gen.go", Op: fsnotify.Write}, false},
		{"test file", fsnotify.Event{Name: "/p/movie_test.go", Op: fsnotify.Write}, false},
		{"temp file", fsnotify.Event{Name: "/p/.meili_index_gen.go.123", Op: fsnotify.Create}, false},
		{"not go", fsnotify.Event{Name: "/p/README.md", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.event))
		})
	}
}

func TestWatcherDebounces(t *testing.T) {
	dir := writePackage(t, map[string]string{"movie.go": movieSource})

	output.SetOutput(io.Discard)
	t.Cleanup(func() { output.SetOutput(nil) })

	var runs atomic.Int32
	w := &watcher{
		dirs:     []string{dir},
		output:   "meili_index_gen.go",
		debounce: 50 * time.Millisecond,
		logger:   logger.NewSilentLogger(),
		regenerate: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.run(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "movie.go"), []byte(movieSource), 0644))
	}
	require.Eventually(t, func() bool { return runs.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	// Writes to the generated file never trigger.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meili_index_gen.go"), []byte("package models\n"), 0644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(2), runs.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
