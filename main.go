// Command smlogtool searches SmarterMail log files for a term and groups
// the matching lines into conversations.
package main

import "github.com/smartertools/smlogtool/cmd"

// Build metadata, set via -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
