package state

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/epic-tm/completionist/internal/achievements"
)

// Describe renders the human part of an event for logs and tables.
func (e Event) Describe() string {
	switch {
	case e.Title != "" && e.Detail != "":
		return e.Title + " · " + e.Detail
	case e.Title != "":
		return e.Title
	case e.Detail != "":
		return e.Detail
	case e.Count > 0:
		return fmt.Sprintf("%d achievements", e.Count)
	}
	return ""
}

// SummaryRow represents one domain in the summary table.
type SummaryRow struct {
	Domain    string
	Completed int
	Available int
	Locked    int
	Fraction  float64
	NextTier  string // first tier with unfinished work, "" when all done
}

// GenerateSummaryRows creates one row per domain of the snapshot.
func GenerateSummaryRows(snap Snapshot) []SummaryRow {
	if snap.Document == nil {
		return nil
	}
	rows := make([]SummaryRow, 0, len(snap.Document.Domains))
	for i, d := range snap.Document.Domains {
		var c achievements.Count
		if i < len(snap.PerDomain) {
			c = snap.PerDomain[i]
		} else {
			c = d.Progress()
		}
		row := SummaryRow{
			Domain:    d.Name,
			Completed: c.Completed,
			Available: c.Available,
			Locked:    c.Locked,
			Fraction:  c.Fraction(),
		}
		for _, t := range d.Tiers {
			if !t.Done() {
				row.NextTier = t.Name
				break
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteSummaryTable writes a text progress table to w.
func WriteSummaryTable(w io.Writer, snap Snapshot, timestamp time.Time) {
	rows := GenerateSummaryRows(snap)

	fmt.Fprintf(w, "Progress @ %s\n", timestamp.Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 78))

	if len(rows) == 0 {
		fmt.Fprintln(w, "No achievements loaded")
		return
	}

	fmt.Fprintf(w, "%-18s %-22s %5s %5s %6s %6s\n", "Domain", "Next tier", "Done", "Open", "Locked", "Pct")
	fmt.Fprintln(w, strings.Repeat("─", 78))

	for _, r := range rows {
		next := r.NextTier
		if next == "" {
			next = "(complete)"
		}
		fmt.Fprintf(w, "%-18s %-22s %5d %5d %6d %5.0f%%\n",
			truncateStr(r.Domain, 18),
			truncateStr(next, 22),
			r.Completed,
			r.Available,
			r.Locked,
			r.Fraction*100,
		)
	}

	o := snap.Overall
	fmt.Fprintf(w, "\nTotal: %d/%d completed (%.0f%%)\n", o.Completed, o.Total(), o.Fraction()*100)
}

// WriteEvents writes the last n events, oldest first.
func WriteEvents(w io.Writer, events []Event, n int) {
	fmt.Fprintln(w, "Recent events")
	fmt.Fprintln(w, strings.Repeat("─", 78))
	if len(events) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}
	if n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}
	for _, e := range events {
		fmt.Fprintf(w, "%s  %-9s %s\n", e.Timestamp.Format("15:04:05"), e.Type, e.Describe())
	}
}

func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-2]) + ".."
}
