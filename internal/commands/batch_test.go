package commands_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/sienote/internal/engine"
	"github.com/cleared-dev/sienote/internal/runlog"
)

func ledgerDir(t *testing.T, names ...string) string {
	t.Helper()
	sample, err := os.ReadFile(samplePath)
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), sample, 0o644))
	}
	return dir
}

func TestBatch_Table(t *testing.T) {
	dir := ledgerDir(t, "b.se", "a.sie")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	out, err := runSienote(t, "batch", dir, "--jobs", "2")
	require.NoError(t, err, out)

	a := strings.Index(out, "a.sie")
	b := strings.Index(out, "b.se")
	require.True(t, a >= 0 && b >= 0, out)
	assert.Less(t, a, b, "files are listed in name order")
	assert.NotContains(t, out, "notes.txt")
	assert.Equal(t, 2, strings.Count(out, "Exempel Holding AB"))
}

func TestBatch_JSON(t *testing.T) {
	dir := ledgerDir(t, "one.se", "two.se", "three.se")

	out, err := runSienote(t, "batch", dir, "--format", "json")
	require.NoError(t, err, out)

	var items []struct {
		File   string         `json:"file"`
		Result *engine.Result `json:"result"`
		Error  string         `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 3)
	assert.Equal(t, "one.se", items[0].File)
	assert.Equal(t, "three.se", items[1].File)
	assert.Equal(t, "two.se", items[2].File)

	// Every copy of the same ledger gives the same result.
	first, err := json.Marshal(items[0].Result)
	require.NoError(t, err)
	for _, item := range items[1:] {
		assert.Empty(t, item.Error)
		got, err := json.Marshal(item.Result)
		require.NoError(t, err)
		assert.JSONEq(t, string(first), string(got))
	}
}

func TestBatch_Archive(t *testing.T) {
	dir := ledgerDir(t, "a.se")

	_, err := runSienote(t, "batch", dir, "--archive")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "processed", "a.se"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "a.se"))
	assert.True(t, os.IsNotExist(err))
}

func TestBatch_EmptyLedgerFails(t *testing.T) {
	dir := ledgerDir(t, "good.se")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.se"), []byte("#FLAGGA 0\n"), 0o644))

	out, err := runSienote(t, "batch", dir, "--archive")
	require.Error(t, err)
	assert.Contains(t, out, "no ledger data")
	assert.Contains(t, out, "1 of 2 files failed")

	// Only the classified file is archived.
	_, err = os.Stat(filepath.Join(dir, "empty.se"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "processed", "good.se"))
	assert.NoError(t, err)

	entries, err := runlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "empty.se", entries[0].File)
	assert.Equal(t, runlog.StatusFailed, entries[0].Status)
	assert.Contains(t, entries[0].Details, "no ledger data")
	assert.Equal(t, "good.se", entries[1].File)
	assert.Equal(t, runlog.StatusOK, entries[1].Status)
	assert.Equal(t, "Exempel Holding AB", entries[1].Company)
	assert.Equal(t, 1, entries[1].Warnings)
}

func TestBatch_Errors(t *testing.T) {
	out, err := runSienote(t, "batch", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, out, "reading ledger dir")

	out, err = runSienote(t, "batch", t.TempDir(), "--jobs", "0")
	require.Error(t, err)
	assert.Contains(t, out, "--jobs must be at least 1")
}

func TestBatch_NoFiles(t *testing.T) {
	out, err := runSienote(t, "batch", t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, out)
}
