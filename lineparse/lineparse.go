// Package lineparse provides the per-kind SmarterMail log line parsers and
// the parametric Strategy abstraction the search driver uses to assign
// lines to conversations without a duplicated scanning routine per kind.
package lineparse

import (
	"regexp"

	"github.com/smartertools/smlogtool/logkind"
)

// timeFragment is shared by every anchored line pattern below.
const timeFragment = `\d{2}:\d{2}:\d{2}(?:\.\d{3})?`

var (
	timestampPrefix = regexp.MustCompile(`^` + timeFragment)

	// smtpLike matches "HH:MM:SS[.mmm] [ip][log_id] message" — used by
	// smtp, imap, and pop, which share one wire format.
	smtpLike = regexp.MustCompile(`^(` + timeFragment + `) \[([^\]]+)\]\[([^\]]+)\] (.*)$`)

	// deliveryLine matches "HH:MM:SS[.mmm] [delivery_id] message".
	deliveryLine = regexp.MustCompile(`^(` + timeFragment + `) \[([^\]]+)\] (.*)$`)

	// adminLine matches "HH:MM:SS[.mmm] [ip] message" — structurally
	// identical to deliveryLine, but composite-keyed by (ip, timestamp)
	// rather than by the bracketed field alone.
	adminLine = regexp.MustCompile(`^(` + timeFragment + `) \[([^\]]+)\] (.*)$`)

	// retrievalLine matches "HH:MM:SS[.mmm] [retrieval_id] message",
	// parallel in structure to deliveryLine per spec.
	retrievalLine = regexp.MustCompile(`^(` + timeFragment + `) \[([^\]]+)\] (.*)$`)
)

// StartsWithTimestamp reports whether line begins with the shared
// "HH:MM:SS[.mmm]" fragment. It is the event-boundary test for ungrouped
// kinds and the "timestamped but unparseable" test for grouped kinds.
func StartsWithTimestamp(line string) bool {
	return timestampPrefix.MatchString(line)
}

// Strategy is the per-kind parsing/grouping behaviour consulted by the
// search driver. It replaces a duplicated per-kind scan routine with one
// parametric scanner driven by a small strategy value.
type Strategy struct {
	// Parse extracts the flow id from a single line. ok is false when the
	// line doesn't match this kind's event-line shape (continuation line,
	// blank line, or a line belonging to a different format entirely).
	// Ungrouped kinds have a nil Parse; the caller synthesises the flow id
	// from the line number instead.
	Parse func(line string) (flowID string, ok bool)

	// OpensFlowOnTimestamp is true for ungrouped kinds: a line starting
	// with the timestamp fragment always begins a new flow, even when
	// Parse (which is nil for these kinds) would have nothing to say.
	// It is false for id-keyed and composite kinds, where a timestamped
	// line that fails to parse clears the current flow instead of
	// starting a new one (see search.Run's state machine).
	OpensFlowOnTimestamp bool
}

// StrategyFor returns the Strategy for k, selected via logkind.StrategyFor.
func StrategyFor(k logkind.Kind) Strategy {
	switch logkind.StrategyFor(k) {
	case logkind.StrategyIDKeyed:
		return idKeyedStrategy(k)
	case logkind.StrategyComposite:
		return Strategy{Parse: parseAdminFlowID}
	default:
		return Strategy{OpensFlowOnTimestamp: true}
	}
}

func idKeyedStrategy(k logkind.Kind) Strategy {
	if k == logkind.Delivery {
		return Strategy{Parse: parseWithPattern(deliveryLine)}
	}
	if k == logkind.IMAPRetrieval {
		return Strategy{Parse: parseWithPattern(retrievalLine)}
	}
	// smtp, imap, pop
	return Strategy{Parse: parseSMTPLikeFlowID}
}

func parseSMTPLikeFlowID(line string) (string, bool) {
	m := smtpLike.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[3], true // log_id
}

func parseWithPattern(pattern *regexp.Regexp) func(string) (string, bool) {
	return func(line string) (string, bool) {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			return "", false
		}
		return m[2], true // bracketed id
	}
}

func parseAdminFlowID(line string) (string, bool) {
	m := adminLine.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	ip, timestamp := m[2], m[1]
	return ip + " " + timestamp, true
}

// SMTPEntry is the structured decomposition of an smtp/imap/pop line.
type SMTPEntry struct {
	Time    string
	IP      string
	LogID   string
	Message string
}

// ParseSMTP decodes a single smtp/imap/pop line, or reports ok=false.
func ParseSMTP(line string) (SMTPEntry, bool) {
	m := smtpLike.FindStringSubmatch(line)
	if m == nil {
		return SMTPEntry{}, false
	}
	return SMTPEntry{Time: m[1], IP: m[2], LogID: m[3], Message: m[4]}, true
}

// DeliveryEntry is the structured decomposition of a delivery line.
type DeliveryEntry struct {
	Time       string
	DeliveryID string
	Message    string
}

// ParseDelivery decodes a single delivery line, or reports ok=false.
func ParseDelivery(line string) (DeliveryEntry, bool) {
	m := deliveryLine.FindStringSubmatch(line)
	if m == nil {
		return DeliveryEntry{}, false
	}
	return DeliveryEntry{Time: m[1], DeliveryID: m[2], Message: m[3]}, true
}

// AdminEntry is the structured decomposition of an administrative line.
type AdminEntry struct {
	Time    string
	IP      string
	Message string
}

// ParseAdmin decodes a single administrative line, or reports ok=false.
func ParseAdmin(line string) (AdminEntry, bool) {
	m := adminLine.FindStringSubmatch(line)
	if m == nil {
		return AdminEntry{}, false
	}
	return AdminEntry{Time: m[1], IP: m[2], Message: m[3]}, true
}

// RetrievalEntry is the structured decomposition of an imapretrieval line.
type RetrievalEntry struct {
	Time         string
	RetrievalID  string
	Message      string
}

// ParseRetrieval decodes a single imapretrieval line, or reports ok=false.
func ParseRetrieval(line string) (RetrievalEntry, bool) {
	m := retrievalLine.FindStringSubmatch(line)
	if m == nil {
		return RetrievalEntry{}, false
	}
	return RetrievalEntry{Time: m[1], RetrievalID: m[2], Message: m[3]}, true
}
