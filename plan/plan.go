// Package plan implements the adaptive serial/parallel execution planner:
// given how many files a search targets, their combined size, and whether
// an index cache is warm, it decides how many workers the orchestrator
// should spin up.
package plan

// Byte thresholds the decision table below is tuned against.
const (
	SmallTwoTarget int64 = 96 << 20
	SmallPerTarget int64 = 48 << 20
	MediumTotal    int64 = 512 << 20
)

// Plan is the chosen worker count and the reason it was chosen, kept
// alongside the count so a caller can log or display why a run went serial
// or parallel.
type Plan struct {
	Workers int
	Reason  string
}

// Choose returns the execution Plan for a search spanning targetCount
// files totalling totalBytes. useIndexCache reports whether a warm index
// cache hint is available for the targets (see indexcache); it selects a
// separate, less size-driven branch of the table. maxWorkers bounds the
// result from above regardless of path taken.
//
// totalBytes <= 0 means the caller couldn't determine file sizes (e.g. a
// staging failure partway through); the table treats that as "unknown"
// rather than "empty" and falls back to the bounded worker count.
func Choose(targetCount int, totalBytes int64, useIndexCache bool, maxWorkers int) Plan {
	if targetCount <= 1 {
		return Plan{Workers: 1, Reason: "single target"}
	}

	boundedWorkers := targetCount
	if maxWorkers < boundedWorkers {
		boundedWorkers = maxWorkers
	}
	if boundedWorkers < 1 {
		boundedWorkers = 1
	}

	if useIndexCache {
		return chooseIndexed(targetCount, totalBytes, boundedWorkers)
	}
	return chooseUnindexed(targetCount, totalBytes, boundedWorkers)
}

func chooseIndexed(targetCount int, totalBytes int64, boundedWorkers int) Plan {
	if targetCount == 2 {
		return Plan{Workers: 1, Reason: "indexed two-target workload"}
	}
	if totalBytes <= 0 {
		return Plan{Workers: boundedWorkers, Reason: "indexed workload size unavailable"}
	}
	if totalBytes < MediumTotal {
		workers := 2
		if boundedWorkers < workers {
			workers = boundedWorkers
		}
		return Plan{Workers: workers, Reason: "indexed medium workload"}
	}
	return Plan{Workers: boundedWorkers, Reason: "indexed large workload"}
}

func chooseUnindexed(targetCount int, totalBytes int64, boundedWorkers int) Plan {
	if totalBytes <= 0 {
		return Plan{Workers: boundedWorkers, Reason: "workload size unavailable"}
	}

	perTarget := totalBytes / int64(targetCount)

	if targetCount == 2 && totalBytes < SmallTwoTarget {
		return Plan{Workers: 1, Reason: "small two-target workload"}
	}
	if targetCount <= 3 && perTarget < SmallPerTarget {
		return Plan{Workers: 1, Reason: "small per-target workload"}
	}
	if totalBytes < MediumTotal && boundedWorkers > 2 {
		return Plan{Workers: 2, Reason: "medium workload"}
	}
	return Plan{Workers: boundedWorkers, Reason: "large workload"}
}
