package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNormalizer() *Normalizer {
	return New(Options{
		Mojibake: []Replacement{
			{From: "intressefîretag", To: "intresseföretag"},
			{From: "fîretag", To: "företag"},
			{From: "Ñ", To: "ä"},
			{From: "Ü", To: "å"},
			{From: "î", To: "ö"},
		},
		LegalSuffixes: []string{"ab", "aktiebolag", "hb", "kb", "kommanditbolag", "publ"},
		StopWords:     []string{"andelar", "i", "koncernföretag", "övriga", "företag"},
	})
}

func TestSoftAndFold(t *testing.T) {
	n := testNormalizer()
	tests := []struct {
		input string
		soft  string
		fold  string
	}{
		{`  "Andelar i  DOTTER AB" `, "andelar i dotter ab", "andelar i dotter ab"},
		{"Intresseföretag", "intresseföretag", "intresseforetag"},
		{"Andelar i intressefîretag", "andelar i intresseföretag", "andelar i intresseforetag"},
		{"Ack nedskr Ñndelar", "ack nedskr ändelar", "ack nedskr andelar"},
		{"Byggnad Göteborg", "byggnad göteborg", "byggnad goteborg"},
		{"ＡＢＣ Fullwidth", "abc fullwidth", "abc fullwidth"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.soft, n.Soft(tt.input), "Soft(%q)", tt.input)
		assert.Equal(t, tt.fold, n.Fold(tt.input), "Fold(%q)", tt.input)
	}
}

func TestRepairKeepsCase(t *testing.T) {
	n := testNormalizer()
	assert.Equal(t, "Andelar i Dotter AB", n.Repair("Andelar  i\tDotter AB"))
}

func TestHaystack(t *testing.T) {
	n := testNormalizer()
	assert.Equal(t, "åkeri ab || akeri ab", n.Haystack("Åkeri AB"))
}

func TestStripSuffixes(t *testing.T) {
	n := testNormalizer()
	assert.Equal(t, "nordic fastighet", n.StripSuffixes("nordic fastighet ab (publ)"))
	assert.Equal(t, "byggbolaget", n.StripSuffixes("byggbolaget kb."))
	assert.Equal(t, "", n.StripSuffixes("ab"))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c", "d"}, Tokens("a, b&c/d"))
	assert.Empty(t, Tokens(" - "))
}

func TestPack(t *testing.T) {
	n := testNormalizer()
	p := n.Pack("Nordic Fastighet AB (publ)")
	assert.Equal(t, "nordic fastighet ab (publ)", p.Full)
	assert.Equal(t, "nordic fastighet", p.Base)
	assert.Equal(t, []string{"nordic", "fastighet"}, p.Tokens)
	assert.Equal(t, "nordic fastighet", p.Short)
	assert.Equal(t, "nf", p.Acronym)

	assert.Equal(t, []string{"fastighet", "nordic", "nordic fastighet", "nordic fastighet ab (publ)"}, n.Variants(p))
}

func TestPack_TokenLimit(t *testing.T) {
	n := testNormalizer()
	p := n.Pack("Alfa Beta Gamma Delta AB")
	assert.Equal(t, []string{"alfa", "beta", "gamma"}, p.Tokens)
	assert.Equal(t, "abgd", p.Acronym)
}

func TestVariants_DropsWeakForms(t *testing.T) {
	n := testNormalizer()
	p := n.Pack("AB 12")
	for _, v := range n.Variants(p) {
		assert.GreaterOrEqual(t, len([]rune(v)), MinAliasLength)
		assert.NotEqual(t, "12", v)
	}

	p = n.Pack("Övriga Företag AB")
	assert.NotContains(t, n.Variants(p), "övriga")
	assert.NotContains(t, n.Variants(p), "ovriga")
}

func TestVariants_IncludesFolded(t *testing.T) {
	n := testNormalizer()
	vars := n.Variants(n.Pack("Örebro Åkeri AB"))
	assert.Contains(t, vars, "örebro åkeri")
	assert.Contains(t, vars, "orebro akeri")
}

func TestAliasSetMatch(t *testing.T) {
	n := testNormalizer()
	set := n.NewAliasSet([]AliasPack{n.Pack("Dotter AB"), n.Pack("Örebro Åkeri AB")})
	require.False(t, set.Empty())
	assert.Equal(t, []string{"dotter ab", "örebro åkeri ab"}, set.Names)

	tests := []struct {
		name  string
		want  bool
		match string
	}{
		{"Andelar i Dotter AB", true, "dotter ab"},
		{"Aktier DOTTER", true, "dotter"},
		{"Andelar i dotterbolag", false, ""},
		{"Fordran Orebro-Akeri", true, "orebro-akeri"},
		{"Kassa", false, ""},
	}
	for _, tt := range tests {
		got, ok := set.Match(n.Haystack(tt.name))
		assert.Equal(t, tt.want, ok, "Match(%q)", tt.name)
		assert.Equal(t, tt.match, got, "Match(%q)", tt.name)
	}
}

func TestAliasSetEmpty(t *testing.T) {
	n := testNormalizer()
	set := n.NewAliasSet(nil)
	assert.True(t, set.Empty())
	_, ok := set.Match("anything")
	assert.False(t, ok)

	var nilSet *AliasSet
	assert.True(t, nilSet.Empty())
}

func TestCompile_LongestFirst(t *testing.T) {
	re := Compile([]string{"nordic", "nordic fastighet"})
	require.NotNil(t, re)
	assert.Equal(t, " nordic fastighet ", re.FindString("andelar nordic fastighet ab"))
	assert.Nil(t, Compile(nil))
}
