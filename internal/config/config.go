// Package config holds the rule tables that drive classification: account
// ranges, keyword patterns, signal accounts and tolerances.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/sienote/internal/model"
	"github.com/cleared-dev/sienote/internal/normalize"
)

//go:embed default_rules.yaml
var defaultRules []byte

// Rules is the YAML rules file.
type Rules struct {
	Version    int             `yaml:"version"`
	Tolerances Tolerances      `yaml:"tolerances"`
	Normalize  NormalizeRules  `yaml:"normalize"`
	Ranges     []CategoryRange `yaml:"ranges"`
	AuxCodes   []AuxCode       `yaml:"aux_codes"`
	DigitRoles []DigitRole     `yaml:"digit_roles"`
	Keywords   Keywords        `yaml:"keywords"`
	Scopes     Scopes          `yaml:"scopes"`
	Harvest    []HarvestBucket `yaml:"harvest"`
	Families   []FamilyRules   `yaml:"families"`
	Settlement Settlement      `yaml:"settlement"`
	Report     Report          `yaml:"report"`
}

// Tolerances are magnitudes below which amounts count as zero.
type Tolerances struct {
	Used     float64 `yaml:"used"`
	Identity float64 `yaml:"identity"`
}

// NormalizeRules configures the name normalizer and company-name harvesting.
type NormalizeRules struct {
	Mojibake       []normalize.Replacement `yaml:"mojibake"`
	LegalSuffixes  []string                `yaml:"legal_suffixes"`
	StopWords      []string                `yaml:"stop_words"`
	LeadingPhrases []string                `yaml:"leading_phrases"`
}

// CategoryRange assigns account numbers to a category.
type CategoryRange struct {
	Category model.Category `yaml:"category"`
	Accounts Ranges         `yaml:"accounts"`
}

// AuxCode maps an auxiliary (SRU) code to an asset family.
type AuxCode struct {
	Code   int          `yaml:"code"`
	Family model.Family `yaml:"family"`
}

// DigitRole maps the last digit of an account number to a sub-role.
type DigitRole struct {
	Digit int        `yaml:"digit"`
	Role  model.Role `yaml:"role"`
}

// Keywords are regular expressions run against folded text.
type Keywords struct {
	Receivable       string           `yaml:"receivable"`
	Payable          string           `yaml:"payable"`
	Impairment       string           `yaml:"impairment"`
	Depreciation     string           `yaml:"depreciation"`
	Contribution     string           `yaml:"contribution"`
	Intercompany     string           `yaml:"intercompany"`
	AssociateLiteral string           `yaml:"associate_literal"`
	ShareNoun        string           `yaml:"share_noun"`
	Shares           []FamilyKeywords `yaml:"shares"`
	Merger           string           `yaml:"merger"`
	Sale             string           `yaml:"sale"`
	Settlement       string           `yaml:"settlement"`
}

// FamilyKeywords marks names that point at one share family.
type FamilyKeywords struct {
	Family  model.Family `yaml:"family"`
	Pattern string       `yaml:"pattern"`
}

// Scopes limit where the text-based rules may fire.
type Scopes struct {
	Shares       Ranges `yaml:"shares"`
	Intercompany Ranges `yaml:"intercompany"`
	Unmapped     Ranges `yaml:"unmapped"`
}

// HarvestBucket sends company names found in these accounts to a family's alias set.
type HarvestBucket struct {
	Family   model.Family `yaml:"family"`
	Accounts Ranges       `yaml:"accounts"`
}

// FamilyRules lists the signal accounts for one asset family.
type FamilyRules struct {
	Family              model.Family `yaml:"family"`
	ResultShare         Ranges       `yaml:"result_share,omitempty"`
	RevaluationReserve  Ranges       `yaml:"revaluation_reserve,omitempty"`
	DisposalPnL         Ranges       `yaml:"disposal_pnl,omitempty"`
	DepreciationExpense Ranges       `yaml:"depreciation_expense,omitempty"`
	ImpairmentExpense   Ranges       `yaml:"impairment_expense,omitempty"`
	ImpairmentReversal  Ranges       `yaml:"impairment_reversal,omitempty"`
	Contribution        bool         `yaml:"contribution,omitempty"`
	Settlement          bool         `yaml:"settlement,omitempty"`
}

// Settlement controls how a share credit without any disposal signal is booked.
type Settlement struct {
	Enabled         bool    `yaml:"enabled"`
	RequireBankOnly bool    `yaml:"require_bank_only"`
	BankAccounts    Ranges  `yaml:"bank_accounts"`
	AmountTolerance float64 `yaml:"amount_tolerance"`
}

// Report controls derived figures.
type Report struct {
	ImpairmentStoredNegative bool `yaml:"impairment_stored_negative"`
}

// Load reads a rules file from disk.
func Load(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	return Parse(data)
}

// Parse decodes a rules document.
func Parse(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	return &r, nil
}

// Save writes Rules to a YAML file.
func Save(path string, r *Rules) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}

// Default returns the built-in Swedish BAS rule tables.
func Default() *Rules {
	r, err := Parse(defaultRules)
	if err != nil {
		panic("embedded default rules: " + err.Error())
	}
	return r
}

// DefaultYAML returns the built-in rules file as shipped, comments included.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultRules))
	copy(out, defaultRules)
	return out
}
