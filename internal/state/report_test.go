package state

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/epic-tm/completionist/internal/achievements"
)

func TestGenerateSummaryRows(t *testing.T) {
	m := newManager(t, nil)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := m.Complete(ctx, achievements.Ref{Domain: 0, Tier: 0, Index: i}); err != nil {
			t.Fatalf("Complete: %v", err)
		}
	}

	rows := GenerateSummaryRows(m.Snapshot())
	want := []SummaryRow{
		{Domain: "Planet 1", Completed: 2, Available: 2, Locked: 2, Fraction: 2.0 / 6, NextTier: "Tier 2"},
		{Domain: "Planet 2", Completed: 0, Available: 2, Locked: 4, Fraction: 0, NextTier: "Tier 1"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	if GenerateSummaryRows(Snapshot{}) != nil {
		t.Error("empty snapshot should produce no rows")
	}
}

func TestWriteSummaryTable(t *testing.T) {
	m := newManager(t, nil)
	m.Complete(context.Background(), achievements.Ref{})

	var buf bytes.Buffer
	WriteSummaryTable(&buf, m.Snapshot(), t0)
	out := buf.String()

	for _, want := range []string{"Progress @ 2025-03-04T05:06:07Z", "Planet 1", "Planet 2", "Total: 1/12 completed (8%)"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	WriteSummaryTable(&buf, Snapshot{}, t0)
	if !strings.Contains(buf.String(), "No achievements loaded") {
		t.Errorf("empty summary = %q", buf.String())
	}
}

func TestWriteEvents(t *testing.T) {
	events := []Event{
		{Type: EventReloaded, Timestamp: t0, Detail: "achievements.json"},
		{Type: EventCompleted, Timestamp: t0, Title: "ACH 1-1-1"},
		{Type: EventUnlocked, Timestamp: t0, Count: 3},
	}

	var buf bytes.Buffer
	WriteEvents(&buf, events, 2)
	out := buf.String()
	if strings.Contains(out, "achievements.json") {
		t.Error("limit not applied")
	}
	for _, want := range []string{"COMPLETED", "ACH 1-1-1", "3 achievements"} {
		if !strings.Contains(out, want) {
			t.Errorf("events missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	WriteEvents(&buf, nil, 10)
	if !strings.Contains(buf.String(), "No events") {
		t.Errorf("empty events = %q", buf.String())
	}
}

func TestEventDescribe(t *testing.T) {
	tests := []struct {
		e    Event
		want string
	}{
		{Event{Title: "Run", Detail: "title"}, "Run · title"},
		{Event{Title: "Run"}, "Run"},
		{Event{Detail: "reset"}, "reset"},
		{Event{Count: 4}, "4 achievements"},
		{Event{}, ""},
	}
	for _, tt := range tests {
		if got := tt.e.Describe(); got != tt.want {
			t.Errorf("Describe(%+v) = %q, want %q", tt.e, got, tt.want)
		}
	}
}
