package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/sienote/internal/config"
)

const (
	rulesFile   = "rules.yaml"
	aliasesFile = "aliases.yaml"
	envFile     = ".env"
)

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write the default rules and an alias template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")

	return cmd
}

func runInit(out io.Writer, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	files := []struct {
		name    string
		content []byte
	}{
		{rulesFile, config.DefaultYAML()},
		{aliasesFile, []byte(config.AliasTemplate)},
		{envFile, []byte(fmt.Sprintf("%s=%s\n%s=%s\n", envRules, rulesFile, envAliases, aliasesFile))},
	}

	if !force {
		for _, f := range files {
			_, err := os.Stat(filepath.Join(dir, f.name))
			if err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", f.name)
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("checking %s: %w", f.name, err)
			}
		}
	}

	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), f.content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
	}

	fmt.Fprintln(out, okStyle.Render("Initialized sienote rules at "+dir))
	return nil
}
