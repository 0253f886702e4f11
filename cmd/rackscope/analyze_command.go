package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"rackscope/internal/analyzer"
	"rackscope/internal/rack"
)

type analyzeView struct {
	SourcePath string           `json:"source_path"`
	Outcome    analyzer.Outcome `json:"outcome"`
	ID         string           `json:"id,omitempty"`
	Artifacts  []string         `json:"artifacts,omitempty"`
	Error      string           `json:"error,omitempty"`
	Document   *rack.Document   `json:"document,omitempty"`
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOut  bool
		noStore  bool
		noExport bool
		force    bool
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <file|dir>...",
		Short: "Decode rack presets and record them in the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := ctx.analyzerService(!noStore)
			if err != nil {
				return err
			}
			paths, err := svc.CollectFiles(args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return errors.New("no rack presets found")
			}

			results, err := svc.AnalyzeBatch(cmd.Context(), paths, analyzer.Options{
				Force:      force,
				SkipStore:  noStore,
				SkipExport: noExport,
			})
			if err != nil {
				return err
			}

			views := make([]analyzeView, 0, len(results))
			for _, res := range results {
				views = append(views, toAnalyzeView(res))
			}
			if jsonOut {
				if err := writeJSON(cmd, views); err != nil {
					return err
				}
			} else {
				printAnalyzeResults(cmd.OutOrStdout(), results, verbose)
			}

			counts := analyzer.Summarize(results)
			if failed := counts[analyzer.OutcomeFailed]; failed > 0 {
				return fmt.Errorf("%d of %d presets failed to decode", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print results as JSON")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Do not record results in the library")
	cmd.Flags().BoolVar(&noExport, "no-export", false, "Do not write export artifacts")
	cmd.Flags().BoolVar(&force, "force", false, "Decode again even if the library has the same file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print chains, macros, and diagnostics for each preset")
	return cmd
}

func toAnalyzeView(res analyzer.Result) analyzeView {
	view := analyzeView{
		SourcePath: res.SourcePath,
		Outcome:    res.Outcome,
		Document:   res.Document,
	}
	if res.Analysis != nil {
		view.ID = res.Analysis.ID
	}
	for _, artifact := range res.Artifacts {
		view.Artifacts = append(view.Artifacts, artifact.Path)
	}
	if res.Err != nil {
		view.Error = res.Err.Error()
	}
	return view
}

func printAnalyzeResults(out io.Writer, results []analyzer.Result, verbose bool) {
	for i, res := range results {
		if res.Err != nil {
			fmt.Fprintf(out, "FAILED  %s: %v\n", res.SourcePath, res.Err)
			continue
		}
		doc := res.Document
		stats := doc.Stats()
		id := "-"
		if res.Analysis != nil {
			id = res.Analysis.ID
		}
		fmt.Fprintf(out, "%-7s %s  %s  chains=%d devices=%d macros=%d warnings=%d errors=%d  id=%s  (%s)\n",
			outcomeLabel(res.Outcome), doc.Name, doc.Category.Label(),
			stats.Chains, stats.Devices, stats.Macros,
			len(doc.Warnings()), len(doc.Errors()), id,
			res.Duration.Round(time.Millisecond))
		for _, artifact := range res.Artifacts {
			fmt.Fprintf(out, "        wrote %s\n", artifact.Path)
		}
		if verbose {
			fmt.Fprintln(out)
			renderDocument(out, doc)
			if i < len(results)-1 {
				fmt.Fprintln(out)
			}
		}
	}
}

func outcomeLabel(outcome analyzer.Outcome) string {
	switch outcome {
	case analyzer.OutcomeDecoded:
		return "OK"
	case analyzer.OutcomeCached:
		return "CACHED"
	default:
		return "FAILED"
	}
}
