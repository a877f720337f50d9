package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/sienote/internal/model"
)

func TestRoundTrip(t *testing.T) {
	r := Default()
	r.Settlement.RequireBankOnly = true
	r.Ranges = append(r.Ranges, CategoryRange{
		Category: model.CategoryMachinery,
		Accounts: Ranges{{Low: 1220, High: 1228}},
	})

	path := filepath.Join(t.TempDir(), "rules.yaml")
	err := Save(path, r)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, r.Version, got.Version)
	assert.InDelta(t, r.Tolerances.Identity, got.Tolerances.Identity, 1e-12)
	assert.True(t, got.Settlement.RequireBankOnly)
	require.Len(t, got.Ranges, len(r.Ranges))
	last := got.Ranges[len(got.Ranges)-1]
	assert.Equal(t, model.CategoryMachinery, last.Category)
	assert.Equal(t, Ranges{{Low: 1220, High: 1228}}, last.Accounts)
	assert.Equal(t, r.Families, got.Families)
	assert.Equal(t, r.Normalize.Mojibake, got.Normalize.Mojibake)
}

func TestDefaults(t *testing.T) {
	r := Default()

	assert.Equal(t, 1, r.Version)
	assert.InDelta(t, 1e-9, r.Tolerances.Used, 1e-15)
	assert.InDelta(t, 1e-6, r.Tolerances.Identity, 1e-12)
	assert.True(t, r.Settlement.Enabled)
	assert.True(t, r.Report.ImpairmentStoredNegative)
	assert.Len(t, r.Families, 5)
	assert.NotEmpty(t, r.Normalize.StopWords)
}

func TestDefaultYAML(t *testing.T) {
	data := DefaultYAML()
	assert.Contains(t, string(data), "group_shares")
	data[0] = 'X'
	assert.NotEqual(t, byte('X'), DefaultYAML()[0])
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	err := Save(path, Default())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "category: group_shares")
	assert.Contains(t, contents, "- 1310-1317")
	assert.Contains(t, contents, "impairment_stored_negative: true")
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		input   string
		want    Range
		wantErr bool
	}{
		{"1310-1317", Range{1310, 1317}, false},
		{"1318", Range{1318, 1318}, false},
		{" 8220 - 8229 ", Range{8220, 8229}, false},
		{"1320-1310", Range{}, true},
		{"abc", Range{}, true},
		{"1310-", Range{}, true},
	}
	for _, tt := range tests {
		got, err := ParseRange(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "ParseRange(%q)", tt.input)
			continue
		}
		require.NoError(t, err, "ParseRange(%q)", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestRangeYAMLErrors(t *testing.T) {
	_, err := Parse([]byte("ranges:\n  - {category: buildings, accounts: [\"11x0\"]}\n"))
	require.Error(t, err)

	_, err = Parse([]byte("ranges:\n  - {category: buildings, accounts: [[1110]]}\n"))
	require.Error(t, err)
}

func TestCompileDefault(t *testing.T) {
	rs, err := Default().Compile()
	require.NoError(t, err)

	c, ok := rs.RangeCategory(1315)
	require.True(t, ok)
	assert.Equal(t, model.CategoryGroupShares, c)

	c, ok = rs.RangeCategory(1159)
	require.True(t, ok)
	assert.Equal(t, model.CategoryBuildingDepreciation, c)

	_, ok = rs.RangeCategory(1930)
	assert.False(t, ok)

	f, ok := rs.AuxFamily(7214)
	require.True(t, ok)
	assert.Equal(t, model.FamilyBuildings, f)

	assert.Equal(t, model.RoleImpairment, rs.DigitRole(1228))
	assert.Equal(t, model.RoleDepreciation, rs.DigitRole(1229))
	assert.Equal(t, model.RoleAsset, rs.DigitRole(1225))

	h, ok := rs.HarvestFamily(1321)
	require.True(t, ok)
	assert.Equal(t, model.FamilyGroup, h)

	fr, ok := rs.Family(model.FamilyBuildings)
	require.True(t, ok)
	assert.True(t, fr.RevaluationReserve.Contains(2085))

	assert.True(t, rs.IsSignal(8224))
	assert.False(t, rs.IsSignal(1930))

	assert.True(t, Match(rs.Receivable, "fordringar hos koncernforetag"))
	assert.True(t, Match(rs.Impairment, "ack. nedskrivningar andelar"))
	assert.True(t, Match(rs.Impairment, "ackumulerade nedskrivningar"))
	assert.True(t, Match(rs.Depreciation, "ack avskrivningar byggnader"))
	assert.False(t, Match(rs.Receivable, "langfristiga vardepapper"))
	assert.False(t, Match(nil, "anything"))
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Rules)
	}{
		{"unknown category", func(r *Rules) { r.Ranges[0].Category = "inventory" }},
		{"unknown aux family", func(r *Rules) { r.AuxCodes[0].Family = "vehicles" }},
		{"bad digit", func(r *Rules) { r.DigitRoles[0].Digit = 12 }},
		{"bad role", func(r *Rules) { r.DigitRoles[0].Role = "owner" }},
		{"bad keyword", func(r *Rules) { r.Keywords.Receivable = "fordr(" }},
		{"duplicate family", func(r *Rules) { r.Families = append(r.Families, r.Families[0]) }},
		{"bad leading phrase", func(r *Rules) { r.Normalize.LeadingPhrases = []string{"[a-"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Default()
			tt.mutate(r)
			_, err := r.Compile()
			assert.Error(t, err)
		})
	}
}

func TestDefaultRulesetShared(t *testing.T) {
	assert.Same(t, DefaultRuleset(), DefaultRuleset())
}
