package commands_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/sienote/internal/config"
)

var (
	binaryPath string
	samplePath string
)

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "sienote-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "sienote")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/sienote")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	samplePath, err = filepath.Abs("../../testdata/sample.se")
	if err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

// runSienote returns stdout on success, and stdout followed by stderr when
// the command fails.
func runSienote(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runSienoteIn(t, "", args...)
}

func runSienoteIn(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.String() + stderr.String(), err
	}
	return stdout.String(), nil
}

func TestInit_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	out, err := runSienote(t, "init", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Initialized sienote rules")

	rules, err := os.ReadFile(filepath.Join(dir, "rules.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultYAML(), rules)

	aliases, err := config.LoadAliases(filepath.Join(dir, "aliases.yaml"))
	require.NoError(t, err)
	assert.Empty(t, aliases.Group)

	env, err := os.ReadFile(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Contains(t, string(env), "SIENOTE_RULES=rules.yaml")
	assert.Contains(t, string(env), "SIENOTE_ALIASES=aliases.yaml")
}

func TestInit_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "rules")
	_, err := runSienote(t, "init", dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "rules.yaml"))
	assert.NoError(t, err)
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.yaml"), []byte("mine\n"), 0o644))

	out, err := runSienote(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, out, "rules.yaml already exists")

	data, err := os.ReadFile(filepath.Join(dir, "rules.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "mine\n", string(data))

	_, err = runSienote(t, "init", dir, "--force")
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(dir, "rules.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultYAML(), data)
}

func TestInit_EnvIsPickedUp(t *testing.T) {
	dir := t.TempDir()
	_, err := runSienote(t, "init", dir)
	require.NoError(t, err)
	aliases := "group:\n  - Syster AB\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "aliases.yaml"), []byte(aliases), 0o644))

	out, err := runSienoteIn(t, dir, "classify", samplePath, "--verbose")
	require.NoError(t, err, out)
	assert.Contains(t, out, "group_shares")
}

func TestVersion(t *testing.T) {
	out, err := runSienote(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "sienote version dev (commit: none")
}
