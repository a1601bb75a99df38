package logkind

import "testing"

func TestNormalizeAliases(t *testing.T) {
	cases := map[string]Kind{
		"smtp":             SMTP,
		"SMTPLog":          SMTP,
		" imapLog ":         IMAP,
		"POPLOG":           POP,
		"delivery":         Delivery,
		"administrative":   Administrative,
		"imapretrievallog": IMAPRetrieval,
		"ldapLog":          LDAP,
		"webdav":           WebDAV,
		"bogus":            Kind("bogus"),
	}

	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported(Normalize("smtplog")) {
		t.Error("expected smtplog to normalize into a supported kind")
	}
	if IsSupported(Normalize("bogus")) {
		t.Error("expected bogus to be unsupported")
	}
}

func TestStrategyFor(t *testing.T) {
	cases := []struct {
		kind Kind
		want Strategy
	}{
		{SMTP, StrategyIDKeyed},
		{IMAP, StrategyIDKeyed},
		{POP, StrategyIDKeyed},
		{Delivery, StrategyIDKeyed},
		{IMAPRetrieval, StrategyIDKeyed},
		{Administrative, StrategyComposite},
		{GeneralErrors, StrategyUngrouped},
		{WebDAV, StrategyUngrouped},
	}
	for _, tc := range cases {
		if got := StrategyFor(tc.kind); got != tc.want {
			t.Errorf("StrategyFor(%q) = %v, want %v", tc.kind, got, tc.want)
		}
	}
}

func TestStrategyForUnsupportedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unsupported kind")
		}
	}()
	StrategyFor(Kind("bogus"))
}

func TestSupportedCoversAllStrategies(t *testing.T) {
	for _, k := range Supported() {
		if !IsSupported(k) {
			t.Errorf("Supported() returned %q which IsSupported rejects", k)
		}
		_ = StrategyFor(k) // must not panic
	}
}
