package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/sienote/internal/model"
)

func TestGet(t *testing.T) {
	svc := NewService(sampleAccounts())

	acct, ok := svc.Get(1250)
	assert.True(t, ok)
	assert.Equal(t, "Datorer", acct.Name)

	acct, ok = svc.Get(1229)
	assert.True(t, ok, "unused accounts can still be looked up")
	assert.False(t, acct.Used)

	_, ok = svc.Get(9999)
	assert.False(t, ok)
}

func TestByCategory(t *testing.T) {
	accts := append(sampleAccounts(), model.Account{
		Number:   1311,
		Name:     "Andelar i Syster AB",
		Category: model.CategoryGroupShares,
		Used:     true,
	})
	svc := NewService(accts)

	shares := svc.ByCategory(model.CategoryGroupShares)
	require.Len(t, shares, 2)
	assert.Equal(t, 1310, shares[0].Number)
	assert.Equal(t, 1311, shares[1].Number)

	assert.Empty(t, svc.ByCategory(model.CategoryUnclassified), "unused accounts are left out")
	assert.Empty(t, svc.ByCategory(model.CategoryBuildings))
}

func TestCategories(t *testing.T) {
	accts := append(sampleAccounts(), model.Account{
		Number:   1930,
		Name:     "Företagskonto",
		Category: model.CategoryUnclassified,
		Used:     true,
	})
	svc := NewService(accts)

	assert.Equal(t, []model.Category{
		model.CategoryGroupShares,
		model.CategoryMachinery,
		model.CategoryUnclassified,
	}, svc.Categories())
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.csv")
	require.NoError(t, NewService(sampleAccounts()).Save(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := ReadAccounts(f)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 1229, got[2].Number)

	err = NewService(nil).Save(filepath.Join(t.TempDir(), "missing", "accounts.csv"))
	assert.ErrorContains(t, err, "creating account table")
}
