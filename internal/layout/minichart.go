package layout

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// MiniChartConfig sizes the ASCII overview printed by the layout command.
type MiniChartConfig struct {
	Width  int
	Height int
}

// DefaultMiniChartConfig fits an 80 column terminal.
func DefaultMiniChartConfig() MiniChartConfig {
	return MiniChartConfig{Width: 72, Height: 24}
}

// WriteMiniChart draws every domain core (its index digit) and tier (+) of l
// scaled to fit the grid. Cells are twice as tall as wide, so y is halved.
func WriteMiniChart(w io.Writer, l *Layout, cfg MiniChartConfig) {
	if cfg.Width < 8 || cfg.Height < 4 {
		cfg = DefaultMiniChartConfig()
	}
	grid := make([][]rune, cfg.Height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cfg.Width))
	}

	extent := 1.0
	if l != nil {
		extent = math.Max(l.Extent(), 1)
	}
	cx, cy := float64(cfg.Width-1)/2, float64(cfg.Height-1)/2
	scale := math.Min(cx/extent, 2*cy/extent)

	plot := func(p Point, ch rune) {
		x := int(math.Round(cx + p.X*scale))
		y := int(math.Round(cy + p.Y*scale/2))
		if x < 0 || y < 0 || x >= cfg.Width || y >= cfg.Height {
			return
		}
		grid[y][x] = ch
	}

	plot(Point{}, '·')
	if l != nil {
		for _, d := range l.Domains {
			for _, t := range d.Tiers[min(1, len(d.Tiers)):] {
				plot(t.Pos, '+')
			}
		}
		// Cores last so they stay visible over crowded tiers.
		for _, d := range l.Domains {
			plot(d.Pos, domainGlyph(d.Index))
		}
	}

	border := "+" + strings.Repeat("-", cfg.Width) + "+"
	fmt.Fprintln(w, border)
	for _, row := range grid {
		fmt.Fprintf(w, "|%s|\n", string(row))
	}
	fmt.Fprintln(w, border)
}

func domainGlyph(i int) rune {
	if i < 9 {
		return rune('1' + i)
	}
	return '#'
}

// WriteCoordinates lists the world position of every domain and tier.
func WriteCoordinates(w io.Writer, l *Layout) {
	if l == nil || len(l.Domains) == 0 {
		fmt.Fprintln(w, "No domains")
		return
	}
	fmt.Fprintf(w, "%-4s %-20s %-5s %10s %10s %8s %5s\n", "#", "Name", "Tier", "X", "Y", "Visual", "Nodes")
	fmt.Fprintln(w, strings.Repeat("─", 68))
	for _, d := range l.Domains {
		for _, t := range d.Tiers {
			name := d.Name
			if t.Index > 0 {
				name = "  " + t.Name
			}
			fmt.Fprintf(w, "%-4d %-20s %-5d %10.1f %10.1f %8.0f %5d\n",
				d.Index+1, truncate(name, 20), t.Index, t.Pos.X, t.Pos.Y, t.Visual, len(t.Nodes))
		}
	}
	fmt.Fprintf(w, "\nExtent: %.1f world units\n", l.Extent())
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-2]) + ".."
}
