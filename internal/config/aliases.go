package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/sienote/internal/model"
)

// AliasTemplate is written by `sienote init` next to the rules file.
const AliasTemplate = `# Company names known to belong to each group. Names are matched after
# normalization, so casing, diacritics and legal suffixes do not matter.
group: []
associate: []
other: []
`

// LoadAliases reads an alias file.
func LoadAliases(path string) (*model.AliasInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading aliases: %w", err)
	}
	var in model.AliasInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parsing aliases: %w", err)
	}
	return &in, nil
}

// LoadRuleset reads a rules file and compiles it. An empty path gives the
// built-in rules.
func LoadRuleset(path string) (*Ruleset, error) {
	if path == "" {
		return DefaultRuleset(), nil
	}
	r, err := Load(path)
	if err != nil {
		return nil, err
	}
	rs, err := r.Compile()
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", path, err)
	}
	return rs, nil
}
