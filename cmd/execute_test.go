package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func resetFlags(t *testing.T, logsDir, stagingDir string) {
	t.Helper()
	logsDirFlag = logsDir
	stagingDirFlag = stagingDir
	kindFlag = "smtp"
	termFlag = "needle"
	modeFlag = "literal"
	ignoreCaseFlag = true
	fuzzyThreshold = 0.75
	maxWorkersFlag = 4
	useIndexCacheFlag = false
	dateFlag = ""
	forceFlag = false
	refreshDate = ""
	jsonFlag = false
	retentionDays = 0
}

func TestRunRequiresLogsDir(t *testing.T) {
	resetFlags(t, "", t.TempDir())
	logsDirFlag = ""
	if err := run(context.Background(), &bytes.Buffer{}); err == nil {
		t.Fatal("expected error when --logs-dir is missing")
	}
}

func TestRunRequiresSupportedKind(t *testing.T) {
	resetFlags(t, t.TempDir(), t.TempDir())
	kindFlag = "not-a-real-kind"
	if err := run(context.Background(), &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unsupported --kind")
	}
}

func TestRunNoTargetsIsNotAnError(t *testing.T) {
	resetFlags(t, t.TempDir(), t.TempDir())
	var out bytes.Buffer
	if err := run(context.Background(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Len() == 0 {
		t.Fatal("expected an informational message for an empty logs dir")
	}
}

func TestRunEndToEndTextOutput(t *testing.T) {
	logsDir := t.TempDir()
	stagingDir := t.TempDir()
	path := filepath.Join(logsDir, "2025.01.01-SMTP.log")
	if err := os.WriteFile(path, []byte("00:00:00 [1.1.1.1][ABC] needle found here\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	resetFlags(t, logsDir, stagingDir)

	var out bytes.Buffer
	if err := run(context.Background(), &out); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out.Bytes(), []byte("ABC")) {
		t.Fatalf("expected output to mention the matched conversation, got %q", out.String())
	}
}

func TestRunEndToEndJSONOutput(t *testing.T) {
	logsDir := t.TempDir()
	stagingDir := t.TempDir()
	path := filepath.Join(logsDir, "2025.01.01-SMTP.log")
	if err := os.WriteFile(path, []byte("00:00:00 [1.1.1.1][ABC] needle found here\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	resetFlags(t, logsDir, stagingDir)
	jsonFlag = true

	var out bytes.Buffer
	if err := run(context.Background(), &out); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out.Bytes(), []byte(`"FlowID":"ABC"`)) {
		t.Fatalf("expected JSON output to contain the flow id, got %q", out.String())
	}
}
