package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/plc/internal/cli/commands"
	"github.com/leapstack-labs/plc/internal/cli/config"
	"github.com/leapstack-labs/plc/internal/cli/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func project(t *testing.T, files map[string]string) string {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
	}
	t.Chdir(dir)
	return dir
}

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd()
	assert.Equal(t, "plc", root.Use)

	for _, name := range []string{"check", "tokens", "ast", "repl", "version", "completion"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
	for _, flag := range []string{"config", "module", "source-ext", "parse-mode", "jobs", "exclude", "log-level", "verbose", "output"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestVersion(t *testing.T) {
	project(t, nil)
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "plc v"+Version)
}

func TestCheckUsesConfigFileAndFlags(t *testing.T) {
	project(t, map[string]string{
		"plc.yaml": "module: fromfile\nexclude: [\"skip*\"]\n",
		"main.pl":  "func main() i32 { return 0; }\n",
		"skip.pl":  "this does not parse",
	})

	out, _, err := run(t, "check", "--format", "json")
	require.NoError(t, err)

	var doc output.CheckOutput
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "fromfile", doc.Module)
	assert.Equal(t, 1, doc.Summary.Files, "excluded files are not checked")
	assert.True(t, doc.Summary.OK)

	out, _, err = run(t, "check", "-m", "fromflag", "--parse-mode", "lazy", "-o", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "fromflag", doc.Module)
	assert.Equal(t, config.ParseModeLazy, currentParseMode(t))
}

// currentParseMode returns the parse mode of the last loaded config.
func currentParseMode(t *testing.T) string {
	t.Helper()
	cfg := config.GetCurrentConfig()
	require.NotNil(t, cfg)
	return cfg.ParseMode
}

func TestCheckFailureIsDiagnosticsError(t *testing.T) {
	project(t, map[string]string{"main.pl": "func main() i32;\nfunc main() i32;\n"})

	out, _, err := run(t, "check", "--format", "text")
	require.ErrorIs(t, err, commands.ErrDiagnostics)
	assert.Contains(t, out, "Semantic Errors")
	assert.Contains(t, out, "Function 'main' already defined.")
}

func TestInvalidConfigFails(t *testing.T) {
	project(t, map[string]string{"plc.yaml": "parse_mode: sideways\n"})

	_, _, err := run(t, "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse_mode")
}

func TestVerboseLogsToStderr(t *testing.T) {
	project(t, map[string]string{"main.pl": "func main() i32;\n"})

	_, errOut, err := run(t, "check", "-v", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, errOut, "configuration loaded")
	assert.Contains(t, errOut, "parsed source")
}

func TestCompletion(t *testing.T) {
	project(t, nil)
	out, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "plc")

	_, _, err = run(t, "completion", "tcsh")
	require.Error(t, err)
}

func TestContextAccessorsFallBack(t *testing.T) {
	cfg := GetConfig(context.Background())
	assert.Equal(t, config.DefaultModule, cfg.Module)
	assert.NotNil(t, GetRenderer(context.Background()))
}
