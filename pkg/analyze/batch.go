package analyze

import (
	"context"
	"io/fs"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Batch analyzes paths concurrently, at most opts.Concurrency at a time.
//
// Reports are returned in the order of paths. A file that cannot be analyzed
// gets a report with Error set and does not stop the batch; only context
// cancellation does. With opts.Hash, identical files are marked with
// MarkDuplicates.
func Batch(ctx context.Context, fsys fs.FS, paths []string, opts Options) ([]Report, error) {
	opts = opts.withDefaults()
	reports := make([]Report, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	var failed atomic.Int64

	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			rep, err := File(fsys, p, opts)
			if err != nil {
				failed.Add(1)
				zap.L().Warn("analysis failed", zap.String("path", p), zap.Error(err))
				reports[i] = Report{Path: p, Error: err.Error()}
				return nil
			}
			reports[i] = *rep
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "analyze: batch")
	}

	var duplicates int
	if opts.Hash {
		duplicates = MarkDuplicates(reports)
	}

	zap.L().Debug("batch complete",
		zap.Int("files", len(paths)),
		zap.Int64("failed", failed.Load()),
		zap.Int("duplicates", duplicates),
	)
	return reports, nil
}
