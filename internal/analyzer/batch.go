package analyzer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"rackscope/internal/logging"
)

// AnalyzeBatch analyses paths concurrently, bounded by analysis.workers.
// Results keep the input order. A failing file is reported in its Result and
// never stops the others; only context cancellation is returned as an error.
func (s *Service) AnalyzeBatch(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	results := make([]Result, len(paths))
	workers := s.cfg.Analysis.Workers
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			res, err := s.AnalyzeFile(gctx, path, opts)
			if err != nil {
				results[i] = Result{SourcePath: path, Outcome: OutcomeFailed, Err: err}
				s.logger.Warn("rack analysis failed",
					logging.String(logging.FieldSourcePath, path),
					logging.Error(err),
					logging.String(logging.FieldEventType, "analysis_failed"),
				)
				return nil
			}
			results[i] = *res
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// CollectFiles expands inputs into preset paths. Directories are walked
// recursively and filtered by the configured extensions; explicit file
// arguments are kept as given so unsupported files surface as errors.
func (s *Service) CollectFiles(inputs []string) ([]string, error) {
	var out []string
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}
		if !info.IsDir() {
			out = append(out, input)
			continue
		}
		var found []string
		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !s.cfg.SupportsExtension(path) {
				return nil
			}
			found = append(found, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", input, err)
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}

// Summarize counts batch results by outcome.
func Summarize(results []Result) map[Outcome]int {
	counts := make(map[Outcome]int, 3)
	for _, res := range results {
		counts[res.Outcome]++
	}
	return counts
}
