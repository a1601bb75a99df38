// Package search implements the single-pass conversation grouper and
// search driver: it streams a staged log file once, attributes each line
// to a conversation (flow) per the kind's lineparse.Strategy, evaluates the
// compiled matcher against every line, and assembles a Result.
package search

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/smartertools/smlogtool/lineparse"
	"github.com/smartertools/smlogtool/matcher"
)

// ErrRead indicates an I/O failure while scanning a staged file.
var ErrRead = errors.New("search: read error")

// ErrCancelled indicates the caller's context was cancelled mid-scan.
var ErrCancelled = errors.New("search: cancelled")

// Buffer sizing for the line scanner: long SmarterMail log lines (stack
// traces, large SQL-like payloads in contentfilter/generalerrors logs) can
// exceed bufio.Scanner's default 64 KiB token limit.
const (
	scannerBuffer    = 4 * 1024 * 1024
	scannerMaxBuffer = 100 * 1024 * 1024
)

// Row is a single (1-based line number, line text) pair.
type Row struct {
	LineNumber int
	Line       string
}

// Conversation is a contiguous, flow-attributed sequence of lines.
type Conversation struct {
	FlowID     string
	FirstLine  int
	Lines      []string
}

// Result is the outcome of running the driver against one staged file.
type Result struct {
	Term          string
	LogPath       string
	Conversations []Conversation
	TotalLines    int
	OrphanMatches []Row
	MatchingRows  []Row
}

// conversationBuilder accumulates the lines of one open or matched flow.
type conversationBuilder struct {
	firstLine int
	lines     []string
}

// Run streams stagedPath once, grouping lines per strategy and evaluating m
// against every line, and returns the assembled Result. ctx is checked
// periodically so a caller can abort a long scan; on cancellation,
// ErrCancelled is returned and no partial Result.
func Run(ctx context.Context, stagedPath, term string, strategy lineparse.Strategy, m matcher.Matcher) (Result, error) {
	f, err := os.Open(stagedPath)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrRead, stagedPath, err)
	}
	defer f.Close()

	builders := make(map[string]*conversationBuilder)
	matchedIDs := make(map[string]struct{})
	var orphanMatches, matchingRows []Row
	currentID := ""
	haveCurrent := false
	totalLines := 0

	scanner := bufio.NewScanner(f)
	buf := make([]byte, scannerBuffer)
	scanner.Buffer(buf, scannerMaxBuffer)

	for scanner.Scan() {
		totalLines++

		if totalLines%4096 == 0 {
			select {
			case <-ctx.Done():
				return Result{}, ErrCancelled
			default:
			}
		}

		line := strings.ToValidUTF8(scanner.Text(), "�")
		lineNumber := totalLines

		ownerID, ownerOK := attributeLine(line, lineNumber, strategy, builders, &currentID, &haveCurrent)

		if m.Match(line) {
			matchingRows = append(matchingRows, Row{LineNumber: lineNumber, Line: line})
			if ownerOK {
				matchedIDs[ownerID] = struct{}{}
			} else {
				orphanMatches = append(orphanMatches, Row{LineNumber: lineNumber, Line: line})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrRead, stagedPath, err)
	}

	select {
	case <-ctx.Done():
		return Result{}, ErrCancelled
	default:
	}

	conversations := make([]Conversation, 0, len(matchedIDs))
	for id := range matchedIDs {
		b := builders[id]
		if b == nil {
			continue
		}
		conversations = append(conversations, Conversation{
			FlowID:    id,
			FirstLine: b.firstLine,
			Lines:     append([]string(nil), b.lines...),
		})
	}
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].FirstLine < conversations[j].FirstLine
	})

	return Result{
		Term:          term,
		LogPath:       stagedPath,
		Conversations: conversations,
		TotalLines:    totalLines,
		OrphanMatches: orphanMatches,
		MatchingRows:  matchingRows,
	}, nil
}

// attributeLine implements the state-machine in the spec's §4.6: it updates
// *currentID/*haveCurrent in place and returns the flow id that owns line
// (ok=false if the line is an orphan candidate).
func attributeLine(
	line string,
	lineNumber int,
	strategy lineparse.Strategy,
	builders map[string]*conversationBuilder,
	currentID *string,
	haveCurrent *bool,
) (id string, ok bool) {
	if strategy.Parse != nil {
		if parsedID, parsed := strategy.Parse(line); parsed {
			appendToFlow(builders, parsedID, line, lineNumber)
			*currentID, *haveCurrent = parsedID, true
			return parsedID, true
		}
	}

	if lineparse.StartsWithTimestamp(line) {
		if strategy.OpensFlowOnTimestamp {
			newID := strconv.Itoa(lineNumber)
			appendToFlow(builders, newID, line, lineNumber)
			*currentID, *haveCurrent = newID, true
			return newID, true
		}
		// Timestamped but unparseable under a grouped strategy: the flow
		// id is unknown, so the run of lines that follows is ownerless
		// until the next parseable or ungrouped-boundary line.
		*haveCurrent = false
		return "", false
	}

	// Continuation line.
	if *haveCurrent {
		appendToFlow(builders, *currentID, line, lineNumber)
		return *currentID, true
	}
	return "", false
}

func appendToFlow(builders map[string]*conversationBuilder, id, line string, lineNumber int) {
	b, ok := builders[id]
	if !ok {
		b = &conversationBuilder{firstLine: lineNumber}
		builders[id] = b
	}
	b.lines = append(b.lines, line)
}
