package commands

import (
	"cmp"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/sienote/internal/accounts"
	"github.com/cleared-dev/sienote/internal/config"
	"github.com/cleared-dev/sienote/internal/engine"
)

// inputFlags are the flags that shape an engine.Input.
type inputFlags struct {
	rules     string
	aliases   string
	overrides string
}

func (f *inputFlags) register(cmd *cobra.Command, withOverrides bool) {
	cmd.Flags().StringVar(&f.rules, "rules", "", "rules YAML file (default: built-in rules, or $"+envRules+")")
	cmd.Flags().StringVar(&f.aliases, "aliases", "", "company alias YAML file (or $"+envAliases+")")
	if withOverrides {
		cmd.Flags().StringVar(&f.overrides, "overrides", "", "CSV with account and category columns")
	}
}

// load reads the files named by the flags. Environment variables are read
// here rather than as flag defaults so that a .env file loaded by the root
// command is honored.
func (f *inputFlags) load() (engine.Input, error) {
	var in engine.Input

	rulesPath := cmp.Or(f.rules, os.Getenv(envRules))
	rs, err := config.LoadRuleset(rulesPath)
	if err != nil {
		return in, err
	}
	in.Rules = rs
	if rulesPath != "" {
		slog.Debug("loaded rules", "path", rulesPath)
	}

	if path := cmp.Or(f.aliases, os.Getenv(envAliases)); path != "" {
		aliases, err := config.LoadAliases(path)
		if err != nil {
			return in, err
		}
		in.Aliases = aliases
		slog.Debug("loaded aliases", "path", path,
			"group", len(aliases.Group), "associate", len(aliases.Associate), "other", len(aliases.Other))
	}

	if f.overrides != "" {
		overrides, err := accounts.LoadOverrides(f.overrides)
		if err != nil {
			return in, err
		}
		in.Overrides = overrides
		slog.Debug("loaded overrides", "path", f.overrides, "count", len(overrides))
	}
	return in, nil
}
