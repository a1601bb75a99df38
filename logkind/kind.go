// Package logkind defines the canonical SmarterMail log kinds and the
// grouping strategy each one uses when conversations are assembled from
// a staged log file.
package logkind

import "strings"

// Kind is a canonical, lowercase SmarterMail log kind tag.
type Kind string

// Canonical log kinds.
const (
	SMTP              Kind = "smtp"
	IMAP              Kind = "imap"
	POP               Kind = "pop"
	Delivery          Kind = "delivery"
	Administrative    Kind = "administrative"
	IMAPRetrieval     Kind = "imapretrieval"
	Activation        Kind = "activation"
	AutoCleanFolders  Kind = "autocleanfolders"
	Calendars         Kind = "calendars"
	ContentFilter     Kind = "contentfilter"
	Event             Kind = "event"
	GeneralErrors     Kind = "generalerrors"
	Indexing          Kind = "indexing"
	LDAP              Kind = "ldap"
	Maintenance       Kind = "maintenance"
	Profiler          Kind = "profiler"
	SpamChecks        Kind = "spamchecks"
	WebDAV            Kind = "webdav"
)

// Strategy describes how lines in a log of a given kind are attributed
// to conversations (flows).
type Strategy int

const (
	// StrategyIDKeyed groups lines by a bracketed identifier parsed from
	// the line (smtp/imap/pop log id, delivery id, retrieval id).
	StrategyIDKeyed Strategy = iota
	// StrategyComposite groups lines by a composite "<ip> <timestamp>" key
	// (administrative).
	StrategyComposite
	// StrategyUngrouped starts a new single-line flow at every timestamped
	// line; continuation lines attach to the most recently opened flow.
	StrategyUngrouped
)

// aliases maps recognised spellings (including legacy "...Log" suffixes)
// to their canonical Kind.
var aliases = map[string]Kind{
	string(SMTP):             SMTP,
	"smtplog":                SMTP,
	string(IMAP):             IMAP,
	"imaplog":                IMAP,
	string(POP):              POP,
	"poplog":                 POP,
	string(Delivery):         Delivery,
	string(Administrative):   Administrative,
	string(IMAPRetrieval):    IMAPRetrieval,
	"imapretrievallog":       IMAPRetrieval,
	string(Activation):       Activation,
	string(AutoCleanFolders): AutoCleanFolders,
	string(Calendars):        Calendars,
	string(ContentFilter):    ContentFilter,
	string(Event):            Event,
	string(GeneralErrors):    GeneralErrors,
	string(Indexing):         Indexing,
	string(LDAP):             LDAP,
	"ldaplog":                LDAP,
	string(Maintenance):      Maintenance,
	string(Profiler):         Profiler,
	string(SpamChecks):       SpamChecks,
	string(WebDAV):           WebDAV,
}

// strategies maps every canonical kind to its grouping strategy.
var strategies = map[Kind]Strategy{
	SMTP:             StrategyIDKeyed,
	IMAP:             StrategyIDKeyed,
	POP:              StrategyIDKeyed,
	Delivery:         StrategyIDKeyed,
	IMAPRetrieval:    StrategyIDKeyed,
	Administrative:   StrategyComposite,
	Activation:       StrategyUngrouped,
	AutoCleanFolders: StrategyUngrouped,
	Calendars:        StrategyUngrouped,
	ContentFilter:    StrategyUngrouped,
	Event:            StrategyUngrouped,
	GeneralErrors:    StrategyUngrouped,
	Indexing:         StrategyUngrouped,
	LDAP:             StrategyUngrouped,
	Maintenance:      StrategyUngrouped,
	Profiler:         StrategyUngrouped,
	SpamChecks:       StrategyUngrouped,
	WebDAV:           StrategyUngrouped,
}

// Normalize lower-cases and trims value, then resolves it through the
// alias table. Unrecognised input is returned unchanged (lower-cased) so
// callers can compare it against Supported and raise UnsupportedKind.
func Normalize(value string) Kind {
	key := strings.ToLower(strings.TrimSpace(value))
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return Kind(key)
}

// IsSupported reports whether k is one of the closed set of canonical kinds.
func IsSupported(k Kind) bool {
	_, ok := strategies[k]
	return ok
}

// StrategyFor returns the grouping strategy for k. It panics if k is not a
// supported kind; callers must validate with IsSupported (or Normalize
// followed by IsSupported) first.
func StrategyFor(k Kind) Strategy {
	s, ok := strategies[k]
	if !ok {
		panic("logkind: StrategyFor called with unsupported kind " + string(k))
	}
	return s
}

// Supported returns every canonical kind, in a stable order.
func Supported() []Kind {
	return []Kind{
		SMTP, IMAP, POP, Delivery, Administrative, IMAPRetrieval,
		Activation, AutoCleanFolders, Calendars, ContentFilter, Event,
		GeneralErrors, Indexing, LDAP, Maintenance, Profiler, SpamChecks,
		WebDAV,
	}
}
