package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/sienote/internal/accounts"
	"github.com/cleared-dev/sienote/internal/engine"
	"github.com/cleared-dev/sienote/internal/importer"
	"github.com/cleared-dev/sienote/internal/journal"
)

type classifyOptions struct {
	input       inputFlags
	format      string
	accountsOut string
	traceOut    string
}

func newClassifyCommand() *cobra.Command {
	var opts classifyOptions

	cmd := &cobra.Command{
		Use:   "classify <file>",
		Short: "Classify one ledger and print its roll-forwards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd.OutOrStdout(), args[0], opts)
		},
	}

	opts.input.register(cmd, true)
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table or json")
	cmd.Flags().StringVar(&opts.accountsOut, "accounts-out", "", "write the classified account table as CSV")
	cmd.Flags().StringVar(&opts.traceOut, "trace-out", "", "write the movement trace as CSV")

	return cmd
}

func runClassify(out io.Writer, path string, opts classifyOptions) error {
	if err := checkFormat(opts.format); err != nil {
		return err
	}

	in, err := opts.input.load()
	if err != nil {
		return err
	}
	res, err := classifyFile(path, in)
	if err != nil {
		return err
	}

	if opts.accountsOut != "" {
		if err := accounts.NewService(res.Accounts).Save(opts.accountsOut); err != nil {
			return err
		}
		slog.Debug("wrote account table", "path", opts.accountsOut)
	}
	if opts.traceOut != "" {
		if err := journal.WriteFile(opts.traceOut, res.Trace); err != nil {
			return err
		}
		slog.Debug("wrote trace", "path", opts.traceOut, "entries", len(res.Trace))
	}

	if opts.format == "json" {
		return writeJSON(out, res)
	}
	writeResult(out, res)
	return nil
}

func classifyFile(path string, in engine.Input) (*engine.Result, error) {
	text, err := importer.Read(path)
	if err != nil {
		return nil, err
	}
	res, err := engine.Classify(text, in)
	if err != nil {
		return nil, fmt.Errorf("classifying %s: %w", path, err)
	}
	slog.Debug("classified", "file", path,
		"accounts", len(res.Accounts), "roll_forwards", len(res.RollForwards), "warnings", len(res.Warnings))
	return res, nil
}

func checkFormat(format string) error {
	switch format {
	case "table", "json":
		return nil
	}
	return fmt.Errorf("unknown format %q (want table or json)", format)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
