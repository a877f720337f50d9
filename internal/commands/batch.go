package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/sienote/internal/engine"
	"github.com/cleared-dev/sienote/internal/importer"
	"github.com/cleared-dev/sienote/internal/runlog"
)

type batchOptions struct {
	input   inputFlags
	format  string
	jobs    int
	archive bool
}

// batchItem is one file's outcome. Exactly one of Result and Error is set.
type batchItem struct {
	File   string         `json:"file"`
	Result *engine.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`

	err error
}

func newBatchCommand() *cobra.Command {
	var opts batchOptions

	cmd := &cobra.Command{
		Use:   "batch <directory>",
		Short: "Classify every ledger file in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.OutOrStdout(), args[0], opts)
		},
	}

	opts.input.register(cmd, false)
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table or json")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "files classified in parallel")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "move classified files to <directory>/processed")

	return cmd
}

func runBatch(out io.Writer, dir string, opts batchOptions) error {
	if err := checkFormat(opts.format); err != nil {
		return err
	}
	if opts.jobs < 1 {
		return fmt.Errorf("--jobs must be at least 1, got %d", opts.jobs)
	}

	files, err := importer.Scan(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		slog.Info("no ledger files found", "dir", dir)
		return nil
	}

	in, err := opts.input.load()
	if err != nil {
		return err
	}

	items := make([]batchItem, len(files))
	var g errgroup.Group
	g.SetLimit(opts.jobs)
	for i, f := range files {
		g.Go(func() error {
			items[i].File = f.Name
			res, err := classifyFile(f.Path, in)
			if err != nil {
				items[i].err = err
				items[i].Error = err.Error()
				slog.Warn("classification failed", "file", f.Name, "err", err)
				return nil
			}
			items[i].Result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var failed int
	for _, item := range items {
		if item.err != nil {
			failed++
		}
	}
	if opts.archive {
		if err := archive(dir, items, time.Now()); err != nil {
			return err
		}
	}
	slog.Info("batch finished", "files", len(files), "failed", failed)

	if opts.format == "json" {
		if err := writeJSON(out, items); err != nil {
			return err
		}
	} else {
		writeBatch(out, items)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

// archive moves classified files to the processed directory and records
// every file, failed ones included, in the run log. A file that cannot be
// moved is logged as failed; the log is written either way.
func archive(dir string, items []batchItem, now time.Time) error {
	var errs []error
	entries := make([]runlog.Entry, 0, len(items))
	for _, item := range items {
		e := runlog.Entry{Timestamp: now, File: item.File, Status: itemStatus(item)}
		if item.Result == nil {
			e.Details = item.Error
		} else {
			e.Company = item.Result.Company.Name
			e.Warnings = len(item.Result.Warnings)
			if err := importer.MarkProcessed(dir, item.File); err != nil {
				e.Status = runlog.StatusFailed
				e.Details = err.Error()
				errs = append(errs, err)
			}
		}
		entries = append(entries, e)
	}
	if err := runlog.Append(dir, entries); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func itemStatus(item batchItem) string {
	if item.Result == nil {
		return runlog.StatusFailed
	}
	for _, rf := range item.Result.RollForwards {
		if !rf.Balanced {
			return runlog.StatusUnbalanced
		}
	}
	return runlog.StatusOK
}

func writeBatch(w io.Writer, items []batchItem) {
	t := newTable("file", "company", "accounts", "roll-forwards", "warnings", "status").alignRight(2, 3, 4)
	for _, item := range items {
		if item.Result == nil {
			status := errStyle.Render(item.Error)
			if errors.Is(item.err, engine.ErrNoLedgerData) {
				status = warnStyle.Render("no ledger data")
			}
			t.add(item.File, "", "", "", "", status)
			continue
		}
		res := item.Result
		status := okStyle.Render(runlog.StatusOK)
		if itemStatus(item) == runlog.StatusUnbalanced {
			status = warnStyle.Render(runlog.StatusUnbalanced)
		}
		t.add(item.File, res.Company.Name, fmt.Sprint(len(res.Accounts)),
			fmt.Sprint(len(res.RollForwards)), fmt.Sprint(len(res.Warnings)), status)
	}
	t.write(w)
}
