package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Yates-Labs/recap/internal/feed"
	"github.com/Yates-Labs/recap/internal/orchestrator"
)

func TestRootCommand_Subcommands(t *testing.T) {
	want := []string{"run", "page", "transcript", "append", "ingest"}
	for _, name := range want {
		c, _, err := rootCmd.Find([]string{name})
		if err != nil || c.Name() != name {
			t.Errorf("expected subcommand %q to be registered, got %v (%v)", name, c, err)
		}
	}

	if rootCmd.PersistentFlags().Lookup("config") == nil {
		t.Error("expected persistent --config flag")
	}
}

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"page", []string{}, true},
		{"page", []string{"p1"}, false},
		{"append", []string{"p1"}, true},
		{"append", []string{"p1", "file.txt"}, false},
		{"run", []string{"extra"}, true},
		{"run", []string{}, false},
	}

	for _, tt := range tests {
		c, _, err := rootCmd.Find([]string{tt.name})
		if err != nil {
			t.Fatalf("find %s: %v", tt.name, err)
		}
		err = c.Args(c, tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s %v: expected error=%v, got %v", tt.name, tt.args, tt.wantErr, err)
		}
	}
}

func TestFlagDefaults(t *testing.T) {
	if f := runCmd.Flags().Lookup("limit"); f == nil || f.DefValue != "1" {
		t.Errorf("expected --limit default 1, got %v", f)
	}
	if f := appendCmd.Flags().Lookup("heading"); f == nil || f.DefValue != defaultAppendHeading {
		t.Errorf("expected --heading default %q, got %v", defaultAppendHeading, f)
	}
	if f := transcriptCmd.Flags().Lookup("max"); f == nil || f.DefValue != "0" {
		t.Errorf("expected --max default 0, got %v", f)
	}
}

func TestOutputReport(t *testing.T) {
	var buf bytes.Buffer
	outputReport(&buf, []orchestrator.Result{
		{PageID: "page-1", Title: "家用 NAS", Outcome: orchestrator.OutcomeDone, Archived: 4, Appended: 9},
		{PageID: "page-2", Title: "壞掉", Outcome: orchestrator.OutcomeFailed, Archived: 2, ArchiveFailures: 1, Err: errors.New("append rejected")},
	})

	out := buf.String()
	for _, want := range []string{"PAGE", "OUTCOME", "page-1", "done", "page-2", "failed", "2 (!1)", "append rejected"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestOutputIngest(t *testing.T) {
	var buf bytes.Buffer
	outputIngest(&buf, feed.IngestReport{Results: []feed.ChannelResult{
		{Channel: "Tech", Video: "家用 NAS 選購", Outcome: feed.OutcomeCreated},
		{Channel: "News", Outcome: feed.OutcomeFailed, Err: errors.New("feed down")},
	}})

	out := buf.String()
	for _, want := range []string{"CHANNEL", "Tech", "created", "News", "failed", "feed down"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
