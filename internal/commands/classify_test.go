package commands_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/sienote/internal/accounts"
	"github.com/cleared-dev/sienote/internal/engine"
	"github.com/cleared-dev/sienote/internal/journal"
	"github.com/cleared-dev/sienote/internal/model"
)

func classifyJSON(t *testing.T, args ...string) *engine.Result {
	t.Helper()
	out, err := runSienote(t, append([]string{"classify", samplePath, "--format", "json"}, args...)...)
	require.NoError(t, err, out)

	var res engine.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	return &res
}

func TestClassify_Table(t *testing.T) {
	out, err := runSienote(t, "classify", samplePath)
	require.NoError(t, err, out)

	assert.Contains(t, out, "Exempel Holding AB (556000-0001)")
	assert.Contains(t, out, "buildings")
	assert.Contains(t, out, "1000000.00")
	assert.Contains(t, out, "1350000.00")
	assert.Contains(t, out, "revaluation")
	assert.Contains(t, out, "Andelar i Dotter AB")
	assert.Contains(t, out, "aux_code")
	assert.Contains(t, out, "warning: unmapped_account account 1380")
	assert.NotContains(t, out, "delta")
}

func TestClassify_JSON(t *testing.T) {
	res := classifyJSON(t)

	assert.Equal(t, "Exempel Holding AB", res.Company.Name)
	rf, ok := res.RollForward(model.CategoryBuildings)
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("1350000").Equal(rf.Closing))
	assert.True(t, rf.Balanced)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, model.WarnUnmappedAccount, res.Warnings[0].Code)
	assert.Empty(t, res.Vouchers, "vouchers are not part of the JSON output")
}

func TestClassify_WritesTables(t *testing.T) {
	dir := t.TempDir()
	accountsPath := filepath.Join(dir, "accounts.csv")
	tracePath := filepath.Join(dir, "trace.csv")

	out, err := runSienote(t, "classify", samplePath, "--accounts-out", accountsPath, "--trace-out", tracePath)
	require.NoError(t, err, out)

	f, err := os.Open(accountsPath)
	require.NoError(t, err)
	defer f.Close()
	accts, err := accounts.ReadAccounts(f)
	require.NoError(t, err)
	a, ok := accounts.NewService(accts).Get(1310)
	require.True(t, ok)
	assert.Equal(t, model.CategoryGroupShares, a.Category)

	entries, err := journal.ReadFile(tracePath)
	require.NoError(t, err)
	got := journal.ForVoucher(entries, "A-6")
	require.Len(t, got, 1)
	assert.Equal(t, model.MovePurchase, got[0].Kind)
}

func TestClassify_AccountTableAsOverrides(t *testing.T) {
	accountsPath := filepath.Join(t.TempDir(), "accounts.csv")
	_, err := runSienote(t, "classify", samplePath, "--accounts-out", accountsPath)
	require.NoError(t, err)

	first := classifyJSON(t)
	second := classifyJSON(t, "--overrides", accountsPath)

	want, err := json.Marshal(first.RollForwards)
	require.NoError(t, err)
	got, err := json.Marshal(second.RollForwards)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))

	a, ok := second.Account(1310)
	require.True(t, ok)
	assert.Equal(t, model.RuleOverride, a.Rule)
}

func TestClassify_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.csv")
	require.NoError(t, os.WriteFile(path, []byte("account,category\n1380,other_owned_shares\n"), 0o644))

	res := classifyJSON(t, "--overrides", path)
	a, ok := res.Account(1380)
	require.True(t, ok)
	assert.Equal(t, model.CategoryOtherOwnedShares, a.Category)
	assert.Empty(t, res.Warnings)
}

func TestClassify_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"classify", "nope.se"}, "reading ledger"},
		{"bad format", []string{"classify", samplePath, "--format", "xml"}, `unknown format "xml"`},
		{"missing rules", []string{"classify", samplePath, "--rules", "nope.yaml"}, "reading rules"},
		{"no args", []string{"classify"}, "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runSienote(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestClassify_EnvRules(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("keywords:\n  receivable: \"(\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SIENOTE_RULES=bad.yaml\n"), 0o644))

	out, err := runSienoteIn(t, dir, "classify", samplePath)
	require.Error(t, err)
	assert.Contains(t, out, "compiling bad.yaml")

	// An explicit flag wins over the environment.
	out, err = runSienoteIn(t, dir, "classify", samplePath, "--rules", "other.yaml")
	require.Error(t, err)
	assert.Contains(t, out, "reading rules")
	assert.NotContains(t, out, "bad.yaml")
}
