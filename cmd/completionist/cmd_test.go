package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/epic-tm/completionist/internal/achievements"
	"github.com/epic-tm/completionist/internal/version"
)

// execute runs the root command with args against a private progress
// database and demo data, returning stdout.
func execute(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args, "--db", db, "--data", ""))
	err := rootCmd.Execute()
	return out.String(), err
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "progress.db")
}

func TestRootCmd_Subcommands(t *testing.T) {
	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range []string{"summary", "export", "complete", "admin", "layout", "version"} {
		if !registered[name] {
			t.Errorf("expected %q subcommand to be registered on rootCmd", name)
		}
	}

	admin := map[string]bool{}
	for _, c := range adminCmd.Commands() {
		admin[c.Name()] = true
	}
	for _, name := range []string{"set-status", "set-title", "set-desc", "unlock-all", "reset"} {
		if !admin[name] {
			t.Errorf("expected %q subcommand to be registered on admin", name)
		}
	}
}

func TestRootCmd_Flags(t *testing.T) {
	for _, name := range []string{"config", "data", "db", "ephemeral", "log-level", "log-file"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent flag %q", name)
		}
	}
	for _, name := range []string{"ascii", "watch"} {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected root flag %q", name)
		}
	}
	if summaryCmd.Flags().Lookup("watch") == nil {
		t.Error("expected summary --watch")
	}
	if exportCmd.Flags().ShorthandLookup("o") == nil {
		t.Error("expected export -o")
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		args    []string
		want    achievements.Ref
		wantErr string
	}{
		{[]string{"1", "2", "3"}, achievements.Ref{Domain: 0, Tier: 1, Index: 2}, ""},
		{[]string{"5", "5", "6", "extra"}, achievements.Ref{Domain: 4, Tier: 4, Index: 5}, ""},
		{[]string{"0", "1", "1"}, achievements.Ref{}, "domain \"0\": numbers start at 1"},
		{[]string{"1", "x", "1"}, achievements.Ref{}, "tier \"x\": not a number"},
		{[]string{"1", "1"}, achievements.Ref{}, "need DOMAIN TIER ACHIEVEMENT"},
	}
	for _, tt := range tests {
		got, err := parseRef(tt.args)
		if tt.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("parseRef(%v) error = %v, want %q", tt.args, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseRef(%v): %v", tt.args, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("parseRef(%v) mismatch (-want +got):\n%s", tt.args, diff)
		}
	}
}

func TestEncoderFor(t *testing.T) {
	for _, format := range []string{"json", "toml"} {
		if _, err := encoderFor(format); err != nil {
			t.Errorf("encoderFor(%q): %v", format, err)
		}
	}
	if _, err := encoderFor("yaml"); err == nil {
		t.Error("yaml should be rejected")
	}
}

func TestCompleteThenSummary(t *testing.T) {
	db := tempDB(t)

	out, err := execute(t, db, "complete", "1", "1", "1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !strings.Contains(out, "Completed 1-1-1 ACH 1-1-1") {
		t.Errorf("complete output = %q", out)
	}

	out, err = execute(t, db, "summary")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	for _, want := range []string{"Physical", "Creative", "Total: 1/150 completed (1%)", "demo data"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestCompleteLocked(t *testing.T) {
	_, err := execute(t, tempDB(t), "complete", "1", "2", "1")
	if err == nil || !strings.Contains(err.Error(), "1-2-1 is locked") {
		t.Errorf("complete locked error = %v", err)
	}
}

func TestAdmin(t *testing.T) {
	db := tempDB(t)

	_, err := execute(t, db, "admin", "unlock-all", "--password", "nope")
	if !errors.Is(err, errWrongPassword) {
		t.Fatalf("wrong password error = %v", err)
	}

	out, err := execute(t, db, "admin", "unlock-all", "--password", "admin")
	if err != nil {
		t.Fatalf("unlock-all: %v", err)
	}
	for _, want := range []string{"Unlocked 120 achievements", "UNLOCKED"} {
		if !strings.Contains(out, want) {
			t.Errorf("unlock-all output missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, db, "admin", "set-title", "1", "1", "1", "Run", "a", "marathon", "--password", "admin"); err != nil {
		t.Fatalf("set-title: %v", err)
	}
	if _, err := execute(t, db, "admin", "set-status", "1", "1", "1", "done", "--password", "admin"); !errors.Is(err, achievements.ErrBadStatus) {
		t.Errorf("bad status error = %v", err)
	}

	out, err = execute(t, db, "export", "--format", "json", "-o", "-")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, `"title": "Run a marathon"`) {
		t.Error("title edit not persisted")
	}
	if strings.Contains(out, `"status": "locked"`) {
		t.Error("unlock-all not persisted")
	}
}

func TestExportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.toml")
	out, err := execute(t, tempDB(t), "export", "--format", "toml", "-o", path)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if out != "" {
		t.Errorf("export to file wrote to stdout: %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Physical", "ACH 5-5-6", "available"} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("toml export missing %q", want)
		}
	}
}

func TestLayoutCmd(t *testing.T) {
	out, err := execute(t, tempDB(t), "layout", "--width", "40", "--height", "12", "--coords")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	for _, want := range []string{"1 Physical", "5 Creative", "Extent:"} {
		if !strings.Contains(out, want) {
			t.Errorf("layout output missing %q:\n%s", want, out)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, tempDB(t), "version")
	if err != nil {
		t.Fatal(err)
	}
	if want := "completionist v" + version.Version + "\n"; out != want {
		t.Errorf("version = %q, want %q", out, want)
	}
}

func TestRunTUI_RequiresTerminal(t *testing.T) {
	err := runTUI(rootCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "needs a terminal") {
		t.Errorf("runTUI without a terminal = %v", err)
	}
}
