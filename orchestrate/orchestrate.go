// Package orchestrate drives a search across several staged log files: it
// stages every target, consults plan to decide serial vs. bounded-parallel
// execution, and runs search.Run over each target while preserving the
// caller's input order in the returned results regardless of which worker
// finishes first.
package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/smartertools/smlogtool/indexcache"
	"github.com/smartertools/smlogtool/lineparse"
	"github.com/smartertools/smlogtool/logfile"
	"github.com/smartertools/smlogtool/logkind"
	"github.com/smartertools/smlogtool/matcher"
	"github.com/smartertools/smlogtool/plan"
	"github.com/smartertools/smlogtool/search"
	"github.com/smartertools/smlogtool/staging"
)

// ErrCancelled is returned when ctx is cancelled before or during a run.
var ErrCancelled = errors.New("orchestrate: cancelled")

// Orchestrator coordinates staging and search execution for a set of
// target log files belonging to one kind.
type Orchestrator struct {
	StagingDir  string
	MaxWorkers  int
	IndexCache  *indexcache.Cache // nil disables the index-cache hint entirely
	Force       bool
	RefreshDate time.Time
}

// Run stages every target, plans a worker count, and searches each staged
// file for term using mode/ignoreCase/fuzzyThreshold. Results are returned
// in the same order as targets, independent of completion order.
func (o *Orchestrator) Run(
	ctx context.Context,
	targets []logfile.Info,
	kind logkind.Kind,
	term string,
	mode matcher.Mode,
	ignoreCase bool,
	fuzzyThreshold float64,
) ([]search.Result, error) {
	if len(targets) == 0 {
		return nil, nil
	}

	m, err := matcher.Compile(term, mode, ignoreCase, fuzzyThreshold)
	if err != nil {
		return nil, err
	}
	strategy := lineparse.StrategyFor(kind)

	stagedPaths := make([]string, len(targets))
	stagedSizes := make([]int64, len(targets))
	var totalBytes int64
	for i, target := range targets {
		select {
		case <-ctx.Done():
			return nil, ErrCancelled
		default:
		}

		staged, err := staging.Stage(target.Path, o.StagingDir, o.Force, o.RefreshDate)
		if err != nil {
			return nil, fmt.Errorf("orchestrate: staging %s: %w", target.Path, err)
		}
		stagedPaths[i] = staged.StagedPath

		if stat, err := os.Stat(staged.StagedPath); err == nil {
			stagedSizes[i] = stat.Size()
			totalBytes += stat.Size()
		}
	}

	useIndexCache := o.allCached(stagedPaths)
	chosen := plan.Choose(len(targets), totalBytes, useIndexCache, o.maxWorkers())

	results := make([]search.Result, len(targets))
	if chosen.Workers <= 1 {
		for i, path := range stagedPaths {
			result, err := search.Run(ctx, path, term, strategy, m)
			if err != nil {
				if errors.Is(err, search.ErrCancelled) {
					return nil, ErrCancelled
				}
				return nil, fmt.Errorf("orchestrate: searching %s: %w", path, err)
			}
			results[i] = result
			o.remember(path, stagedSizes[i], chosen.Workers)
		}
		return results, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(chosen.Workers)
	for i, path := range stagedPaths {
		i, path := i, path
		group.Go(func() error {
			result, err := search.Run(groupCtx, path, term, strategy, m)
			if err != nil {
				return fmt.Errorf("orchestrate: searching %s: %w", path, err)
			}
			results[i] = result
			o.remember(path, stagedSizes[i], chosen.Workers)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		if errors.Is(err, search.ErrCancelled) || errors.Is(err, context.Canceled) {
			return nil, ErrCancelled
		}
		return nil, err
	}
	return results, nil
}

func (o *Orchestrator) maxWorkers() int {
	if o.MaxWorkers <= 0 {
		return 1
	}
	return o.MaxWorkers
}

func (o *Orchestrator) allCached(paths []string) bool {
	if o.IndexCache == nil || len(paths) == 0 {
		return false
	}
	for _, path := range paths {
		if !o.IndexCache.Has(path) {
			return false
		}
	}
	return true
}

func (o *Orchestrator) remember(path string, size int64, workers int) {
	if o.IndexCache == nil {
		return
	}
	o.IndexCache.Put(path, indexcache.Stat{Bytes: size, Workers: workers})
}
