package lineparse

import (
	"testing"

	"github.com/smartertools/smlogtool/logkind"
)

func TestStartsWithTimestamp(t *testing.T) {
	cases := map[string]bool{
		"00:00:01 [1.1.1.1][ABC] hi":  true,
		"00:00:01.100 hi":             true,
		"  continuation":              false,
		"not a timestamp at all":      false,
	}
	for line, want := range cases {
		if got := StartsWithTimestamp(line); got != want {
			t.Errorf("StartsWithTimestamp(%q) = %v, want %v", line, got, want)
		}
	}
}

func TestParseSMTP(t *testing.T) {
	entry, ok := ParseSMTP("00:00:00 [1.1.1.1][ABC123] Connection initiated")
	if !ok {
		t.Fatal("expected match")
	}
	if entry.IP != "1.1.1.1" || entry.LogID != "ABC123" || entry.Message != "Connection initiated" {
		t.Fatalf("got %+v", entry)
	}

	if _, ok := ParseSMTP("  continuation line"); ok {
		t.Fatal("expected no match for continuation line")
	}
}

func TestParseDelivery(t *testing.T) {
	entry, ok := ParseDelivery("00:00:00 [DELIV-1] queued for delivery")
	if !ok || entry.DeliveryID != "DELIV-1" || entry.Message != "queued for delivery" {
		t.Fatalf("got %+v ok=%v", entry, ok)
	}
}

func TestParseAdmin(t *testing.T) {
	entry, ok := ParseAdmin("10:13:13.367 [23.127.140.125] IMAP Attempting login")
	if !ok || entry.IP != "23.127.140.125" || entry.Message != "IMAP Attempting login" {
		t.Fatalf("got %+v ok=%v", entry, ok)
	}
}

func TestParseRetrieval(t *testing.T) {
	entry, ok := ParseRetrieval("00:00:00 [RETR-9] fetched 3 messages")
	if !ok || entry.RetrievalID != "RETR-9" {
		t.Fatalf("got %+v ok=%v", entry, ok)
	}
}

func TestStrategyForIDKeyed(t *testing.T) {
	for _, k := range []logkind.Kind{logkind.SMTP, logkind.IMAP, logkind.POP} {
		s := StrategyFor(k)
		if s.Parse == nil {
			t.Fatalf("%s: expected non-nil Parse", k)
		}
		if s.OpensFlowOnTimestamp {
			t.Fatalf("%s: expected OpensFlowOnTimestamp=false", k)
		}
		id, ok := s.Parse("00:00:00 [1.1.1.1][XID] hello")
		if !ok || id != "XID" {
			t.Fatalf("%s: Parse = %q, %v", k, id, ok)
		}
	}
}

func TestStrategyForDeliveryAndRetrieval(t *testing.T) {
	s := StrategyFor(logkind.Delivery)
	id, ok := s.Parse("00:00:00 [D1] queued")
	if !ok || id != "D1" {
		t.Fatalf("delivery: got %q %v", id, ok)
	}

	s = StrategyFor(logkind.IMAPRetrieval)
	id, ok = s.Parse("00:00:00 [R1] fetched")
	if !ok || id != "R1" {
		t.Fatalf("imapretrieval: got %q %v", id, ok)
	}
}

func TestStrategyForComposite(t *testing.T) {
	s := StrategyFor(logkind.Administrative)
	if s.OpensFlowOnTimestamp {
		t.Fatal("expected OpensFlowOnTimestamp=false for administrative")
	}
	id, ok := s.Parse("10:13:13.367 [23.127.140.125] IMAP Logout")
	if !ok || id != "23.127.140.125 10:13:13.367" {
		t.Fatalf("got %q %v", id, ok)
	}
}

func TestStrategyForUngrouped(t *testing.T) {
	s := StrategyFor(logkind.GeneralErrors)
	if s.Parse != nil {
		t.Fatal("expected nil Parse for ungrouped kind")
	}
	if !s.OpensFlowOnTimestamp {
		t.Fatal("expected OpensFlowOnTimestamp=true for ungrouped kind")
	}
}
