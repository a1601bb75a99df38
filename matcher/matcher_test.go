package matcher

import "testing"

func TestCompileUnsupportedMode(t *testing.T) {
	if _, err := Compile("x", Mode("bogus"), true, DefaultFuzzyThreshold); err == nil {
		t.Fatal("expected error")
	}
}

func TestLiteralModeIgnoresRegexMetachars(t *testing.T) {
	m, err := Compile("a.b(c", Literal, true, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Match("xxa.b(cxx") {
		t.Fatal("expected literal substring match")
	}
	if m.Match("xxaXbXcxx") {
		t.Fatal("regex metacharacters must not be interpreted in literal mode")
	}
}

func TestLiteralCaseFolding(t *testing.T) {
	m, err := Compile("HELLO", Literal, true, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Match("say hello there") {
		t.Fatal("expected case-insensitive match")
	}

	exact, err := Compile("HELLO", Literal, false, 0)
	if err != nil {
		t.Fatal(err)
	}
	if exact.Match("say hello there") {
		t.Fatal("expected case-exact mismatch")
	}
	if !exact.Match("say HELLO there") {
		t.Fatal("expected case-exact match")
	}
}

func TestWildcardMode(t *testing.T) {
	m, err := Compile("Login failed: User [*] not found", Wildcard, true, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Match("Login failed: User [sales] not found") {
		t.Fatal("expected wildcard match")
	}
	if m.Match("Login successful: User [sales]") {
		t.Fatal("unexpected match")
	}
}

func TestWildcardQuestionMark(t *testing.T) {
	m, err := Compile("ca?", Wildcard, true, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Match("a cat ran") {
		t.Fatal("expected ? to match a single char")
	}
	if m.Match("ends with ca") {
		t.Fatal("? must match exactly one character")
	}
}

func TestRegexModeRejectsInvalidPattern(t *testing.T) {
	if _, err := Compile("(", Regex, true, 0); err == nil {
		t.Fatal("expected InvalidRegex error")
	}
}

func TestRegexModeUnanchored(t *testing.T) {
	m, err := Compile(`\d+`, Regex, true, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Match("order number 42 confirmed") {
		t.Fatal("expected regex match")
	}
}

func TestFuzzyInvalidThreshold(t *testing.T) {
	if _, err := Compile("x", Fuzzy, true, 1.5); err == nil {
		t.Fatal("expected InvalidFuzzyThreshold error")
	}
	if _, err := Compile("x", Fuzzy, true, -0.1); err == nil {
		t.Fatal("expected InvalidFuzzyThreshold error")
	}
}

func TestFuzzyThresholdGating(t *testing.T) {
	line := "Authentication failed for user [sales]"
	term := "Authentcation faild for user [sales]"

	loose, err := Compile(term, Fuzzy, true, 0.70)
	if err != nil {
		t.Fatal(err)
	}
	if !loose.Match(line) {
		t.Fatal("expected match at 0.70 threshold")
	}

	strict, err := Compile(term, Fuzzy, true, 0.95)
	if err != nil {
		t.Fatal(err)
	}
	if strict.Match(line) {
		t.Fatal("expected no match at 0.95 threshold")
	}
}

func TestPartialRatioExactSubstring(t *testing.T) {
	if got := partialRatio("needle", "a haystack with needle inside", 1.0); got < 0.999 {
		t.Fatalf("expected ~1.0 for exact substring, got %v", got)
	}
}
