package driver_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leapstack-labs/plc/internal/driver"
	"github.com/leapstack-labs/plc/internal/testutil"
	"github.com/leapstack-labs/plc/pkg/ast"
	"github.com/leapstack-labs/plc/pkg/diag"
	"github.com/leapstack-labs/plc/pkg/sema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	}
	return dir
}

func TestDiscover(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"b.pl":           "func b() i32;",
		"a.pl":           "func a() i32;",
		"nested/c.pl":    "func c() i32;",
		"nested/skip.pl": "func skip() i32;",
		"notes.txt":      "not source",
	})

	d := driver.New(driver.Config{
		Exclude: func(path string) bool { return filepath.Base(path) == "skip.pl" },
	})
	files, err := d.Discover([]string{dir, filepath.Join(dir, "a.pl"), filepath.Join(dir, "notes.txt")})
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "a.pl"),
		filepath.Join(dir, "b.pl"),
		filepath.Join(dir, "nested", "c.pl"),
		filepath.Join(dir, "notes.txt"),
	}
	assert.Equal(t, want, files, "sorted, de-duplicated, explicit files always kept")
}

func TestDiscoverMissingPath(t *testing.T) {
	d := driver.New(driver.Config{})
	_, err := d.Discover([]string{filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheckCleanModule(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"math.pl": "func add(a i32, b i32) i32 { return a + b; }",
		"main.pl": "func main() i32 { return add(1, 2); }",
	})

	logger, logs := testutil.NewCaptureLogger()
	d := driver.New(driver.Config{Module: "app", Logger: logger})
	res, err := d.Check(context.Background(), []string{dir})
	require.NoError(t, err)

	assert.True(t, res.OK())
	assert.Equal(t, "app", res.Module)
	require.Len(t, res.Files, 2)
	assert.Equal(t, filepath.Join(dir, "main.pl"), res.Files[0].Path)
	assert.Equal(t, 2, res.Functions())
	assert.Contains(t, logs.String(), "parsed source")
}

func TestCheckCollectsAllDomains(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.pl": "func f() i32 { return @; }\n",
		"b.pl": "func f() i32;\nreturn 0;\n",
	})

	d := driver.New(driver.Config{Module: "app"})
	res, err := d.Check(context.Background(), []string{dir})
	require.NoError(t, err)

	assert.False(t, res.OK())
	assert.Equal(t, 1, res.Count(diag.Lexical))
	assert.GreaterOrEqual(t, res.Count(diag.Syntax), 1)
	assert.Equal(t, 2, res.Count(diag.Semantic))

	sem := res.Semantic
	assert.Equal(t, "app:"+filepath.Join(dir, "b.pl"), sem[0].Context)
	assert.Equal(t, fmt.Sprintf(sema.ErrFunctionRedefined, "f"), sem[0].Message)

	all := res.Diagnostics()
	assert.Equal(t, diag.Lexical, all[0].Kind, "lexical diagnostics come first for a file")
	assert.Equal(t, diag.Semantic, all[len(all)-1].Kind, "semantic diagnostics come last")
}

func TestLazyAndEagerAgree(t *testing.T) {
	src := map[string]string{
		"a.pl": "func a(x i32) i32 { return x * (2 + 3); }\nfunc b() i32 { 1 + ; return a(1)[0]; }\n",
		"b.pl": "func c() i32 { return \"open; }\n",
	}
	dir := writeFiles(t, src)

	check := func(mode string) *driver.Result {
		res, err := driver.New(driver.Config{ParseMode: mode, Jobs: 1}).Check(context.Background(), []string{dir})
		require.NoError(t, err)
		return res
	}
	eager, lazy := check(driver.ModeEager), check(driver.ModeLazy)

	assert.Equal(t, eager.Diagnostics(), lazy.Diagnostics())
	require.Len(t, lazy.Files, len(eager.Files))
	for i := range eager.Files {
		assert.Equal(t, ast.SexprFile(eager.Files[i].File), ast.SexprFile(lazy.Files[i].File))
	}
}

func TestParseFilesKeepsOrderUnderConcurrency(t *testing.T) {
	files := map[string]string{}
	for i := range 20 {
		files[fmt.Sprintf("f%02d.pl", i)] = fmt.Sprintf("func f%02d() i32 { return %d; }", i, i)
	}
	dir := writeFiles(t, files)

	d := driver.New(driver.Config{Jobs: 4})
	paths, err := d.Discover([]string{dir})
	require.NoError(t, err)

	parsed, err := d.ParseFiles(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, parsed, 20)
	for i, fr := range parsed {
		assert.Equal(t, paths[i], fr.Path)
		funcs := fr.File.Funcs()
		require.Len(t, funcs, 1)
		assert.Equal(t, fmt.Sprintf("f%02d", i), funcs[0].Name)
	}
}

func TestParseFilesErrors(t *testing.T) {
	d := driver.New(driver.Config{})

	_, err := d.ParseFiles(context.Background(), []string{filepath.Join(t.TempDir(), "gone.pl")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read source")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := writeFiles(t, map[string]string{"a.pl": "func a() i32;"})
	_, err = d.ParseFiles(ctx, []string{filepath.Join(dir, "a.pl")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWatchRerunsOnChange(t *testing.T) {
	dir := writeFiles(t, map[string]string{"main.pl": "func main() i32;"})
	logger, _ := testutil.NewCaptureLogger()
	d := driver.New(driver.Config{Debounce: 10 * time.Millisecond, Logger: logger})

	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32
	var changed atomic.Value
	done := make(chan error, 1)
	go func() {
		done <- d.Watch(ctx, []string{dir}, func(path string) {
			changed.Store(path)
			runs.Add(1)
		})
	}()

	target := filepath.Join(dir, "main.pl")
	ignored := filepath.Join(dir, "notes.txt")
	assert.Eventually(t, func() bool {
		// Rewrite until the watcher is up and has seen a change.
		_ = os.WriteFile(ignored, []byte("x"), 0600)
		_ = os.WriteFile(target, []byte("func main() i32 { return 0; }"), 0600)
		return runs.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	got, _ := changed.Load().(string)
	assert.True(t, strings.HasSuffix(got, "main.pl"), "only source files trigger a run, got %q", got)
}

func TestWatchMissingPath(t *testing.T) {
	d := driver.New(driver.Config{})
	err := d.Watch(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}, func(string) {})
	require.Error(t, err)
}
