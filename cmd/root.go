// Package cmd implements the command-line interface for smlogtool.
// It uses the Cobra library to handle commands, flags, and execution.
package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
)

// Version information (passed from main).
var (
	version string
	commit  string
	date    string
)

// Flag variables for command-line options. Package-level as required by
// Cobra's flag binding.
var (
	logsDirFlag    string // --logs-dir: directory containing raw SmarterMail logs
	stagingDirFlag string // --staging-dir: directory staged copies are written to
	kindFlag       string // --kind: log kind to search (e.g. smtp, imap, administrative)
	termFlag       string // --term: search term
	modeFlag       string // --mode: literal|wildcard|regex|fuzzy
	ignoreCaseFlag bool   // --ignore-case
	fuzzyThreshold float64 // --fuzzy-threshold: minimum similarity in [0, 1] for fuzzy mode

	maxWorkersFlag   int  // --max-workers: upper bound on parallel search workers
	useIndexCacheFlag bool // --use-index-cache: consult the in-process index cache hint

	dateFlag    string // --date: restrict the search to a single day's log (YYYY.MM.DD)
	forceFlag   bool   // --force: re-stage even if a cached copy looks current
	refreshDate string // --refresh-date: date stamp that always triggers a staging refresh (YYYY.MM.DD)

	jsonFlag bool // --json: emit results as JSON instead of text

	retentionDays int // --retention-days: prune staged files older than this many days before searching
)

// rootCmd is the main command for the smlogtool CLI.
var rootCmd = &cobra.Command{
	Use:   "smlogtool",
	Short: "SmarterMail log search and conversation grouping tool",
	Long: `smlogtool searches SmarterMail's daily log files for a term and groups
the matching lines into conversations (SMTP/IMAP/POP sessions, delivery
attempts, administrative actions) instead of returning bare matching lines.

Point it at a SmarterMail logs directory with --logs-dir, pick a log kind
with --kind, and give it a search term with --term.`,
	RunE: runSearch,
}

// Execute runs the root command. Called by main.go to start the CLI.
func Execute(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func init() {
	rootCmd.Flags().StringVar(&logsDirFlag, "logs-dir", "", "Directory containing raw SmarterMail log files (required)")
	rootCmd.Flags().StringVar(&stagingDirFlag, "staging-dir", defaultStagingDir(), "Directory staged (decompressed) log copies are written to")
	rootCmd.Flags().StringVar(&kindFlag, "kind", "", "Log kind to search, e.g. smtp, imap, pop, delivery, administrative (required)")
	rootCmd.Flags().StringVar(&termFlag, "term", "", "Search term (required)")
	rootCmd.Flags().StringVar(&modeFlag, "mode", "literal", "Match mode: literal, wildcard, regex, or fuzzy")
	rootCmd.Flags().BoolVar(&ignoreCaseFlag, "ignore-case", true, "Fold case when matching")
	rootCmd.Flags().Float64Var(&fuzzyThreshold, "fuzzy-threshold", 0.75, "Minimum similarity in [0, 1] required for a fuzzy match")

	rootCmd.Flags().IntVar(&maxWorkersFlag, "max-workers", 4, "Upper bound on parallel search workers")
	rootCmd.Flags().BoolVar(&useIndexCacheFlag, "use-index-cache", false, "Consult the process-local index cache hint when planning worker count")

	rootCmd.Flags().StringVar(&dateFlag, "date", "", "Restrict the search to a single day's log (YYYY.MM.DD); default is all discovered logs for --kind")
	rootCmd.Flags().BoolVar(&forceFlag, "force", false, "Re-stage every target even if a cached copy looks current")
	rootCmd.Flags().StringVar(&refreshDate, "refresh-date", time.Now().Format("2006.01.02"), "Date stamp (YYYY.MM.DD) whose staged copy is always refreshed, since SmarterMail keeps appending to it")

	rootCmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit results as JSON instead of text")

	rootCmd.Flags().IntVar(&retentionDays, "retention-days", 14, "Prune staged files older than this many days before searching; 0 disables the sweep")
}

// runSearch is bound to rootCmd.RunE and wires the flags gathered above
// into the core search pipeline.
func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	return run(ctx, cmd.OutOrStdout())
}
