package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "posted_matches.txt")
	content := "m2 | 2025-06-01 20:30 | WIN | Alpha\n" +
		"m1 | 2025-06-01 19:00 | LOSS | Alpha, Bravo\n" +
		"m2 | 2025-06-01 20:30 | WIN | Alpha\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runApp(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	if err := app.Run(append([]string{"dinnerwatch", "--config", ""}, args...)); err != nil {
		t.Fatalf("app.Run(%v): %v", args, err)
	}
	return out.String()
}

func TestLedgerCommand(t *testing.T) {
	t.Setenv("LEDGER_URL", writeLedger(t))
	t.Setenv("LOG_LEVEL", "error")

	got := runApp(t, "ledger")
	want := "file ledger: 2 matches\nm1\nm2\n"
	if got != want {
		t.Errorf("ledger output = %q, want %q", got, want)
	}
}

func TestLedgerCommand_Count(t *testing.T) {
	t.Setenv("LEDGER_URL", "file://"+writeLedger(t))
	t.Setenv("LOG_LEVEL", "error")

	if got := runApp(t, "ledger", "--count"); got != "2\n" {
		t.Errorf("ledger --count output = %q, want %q", got, "2\n")
	}
}

func TestLedgerCommand_MissingFile(t *testing.T) {
	t.Setenv("LEDGER_URL", filepath.Join(t.TempDir(), "none.txt"))
	t.Setenv("LOG_LEVEL", "error")

	if got := runApp(t, "ledger", "--count"); got != "0\n" {
		t.Errorf("ledger --count output = %q, want %q", got, "0\n")
	}
}
