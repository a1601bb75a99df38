package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/smartertools/smlogtool/indexcache"
	"github.com/smartertools/smlogtool/logfile"
	"github.com/smartertools/smlogtool/logkind"
	"github.com/smartertools/smlogtool/matcher"
	"github.com/smartertools/smlogtool/orchestrate"
	"github.com/smartertools/smlogtool/retention"
	"github.com/smartertools/smlogtool/search"
)

// globalIndexCache is process-lifetime so repeated searches in a long-lived
// invocation (or a future interactive mode) can benefit from --use-index-cache
// across calls, not just within one orchestrate.Run.
var globalIndexCache, _ = indexcache.New(indexcache.DefaultCapacity)

func defaultStagingDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "smlogtool-staging")
	}
	return filepath.Join(home, ".cache", "smlogtool", "staging")
}

// run is the main execution function for the root command: it validates
// flags, discovers targets, sweeps stale staged files, runs the search, and
// writes the results to w.
func run(ctx context.Context, w io.Writer) error {
	if logsDirFlag == "" {
		return fmt.Errorf("--logs-dir is required")
	}
	if kindFlag == "" {
		return fmt.Errorf("--kind is required")
	}
	if termFlag == "" {
		return fmt.Errorf("--term is required")
	}

	kind := logkind.Normalize(kindFlag)
	if !logkind.IsSupported(kind) {
		return fmt.Errorf("unsupported --kind %q", kindFlag)
	}

	targets, err := collectTargets(kind)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		fmt.Fprintf(w, "[INFO] No %s logs found in %s\n", kind, logsDirFlag)
		return nil
	}

	if retentionDays > 0 {
		removals, warnings, err := retention.Sweep(stagingDirFlag, time.Duration(retentionDays)*24*time.Hour, time.Now())
		if err != nil {
			fmt.Fprintf(w, "[WARN] retention sweep failed: %v\n", err)
		}
		for _, warning := range warnings {
			fmt.Fprintf(w, "[WARN] retention: %s\n", warning)
		}
		for _, removal := range removals {
			if removal.Err != nil {
				fmt.Fprintf(w, "[WARN] retention: failed to delete %s: %v\n", removal.Path, removal.Err)
			}
		}
	}

	refresh, err := parseOptionalStamp(refreshDate)
	if err != nil {
		return err
	}

	var cache *indexcache.Cache
	if useIndexCacheFlag {
		cache = globalIndexCache
	}

	o := &orchestrate.Orchestrator{
		StagingDir:  stagingDirFlag,
		MaxWorkers:  maxWorkersFlag,
		IndexCache:  cache,
		Force:       forceFlag,
		RefreshDate: refresh,
	}

	results, err := o.Run(ctx, targets, kind, termFlag, matcher.Mode(modeFlag), ignoreCaseFlag, fuzzyThreshold)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return writeResults(w, results)
}

func collectTargets(kind logkind.Kind) ([]logfile.Info, error) {
	if dateFlag == "" {
		return logfile.Discover(logsDirFlag, kind)
	}
	stamp, err := logfile.ParseStamp(dateFlag)
	if err != nil {
		return nil, err
	}
	info, ok := logfile.FindByDate(logsDirFlag, kind, stamp)
	if !ok {
		return nil, nil
	}
	return []logfile.Info{info}, nil
}

func parseOptionalStamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return logfile.ParseStamp(value)
}

func writeResults(w io.Writer, results []search.Result) error {
	if jsonFlag {
		return json.NewEncoder(w).Encode(results)
	}
	return writeText(w, results)
}

func writeText(w io.Writer, results []search.Result) error {
	for _, result := range results {
		fmt.Fprintf(w, "=== %s (%d lines scanned) ===\n", result.LogPath, result.TotalLines)
		for _, conv := range result.Conversations {
			fmt.Fprintf(w, "--- conversation %s (first line %d) ---\n", conv.FlowID, conv.FirstLine)
			for _, line := range conv.Lines {
				fmt.Fprintln(w, line)
			}
		}
		for _, row := range result.OrphanMatches {
			fmt.Fprintf(w, "orphan match, line %d: %s\n", row.LineNumber, row.Line)
		}
		fmt.Fprintf(w, "%d matching rows, %d conversations, %d orphan matches\n\n",
			len(result.MatchingRows), len(result.Conversations), len(result.OrphanMatches))
	}
	return nil
}
