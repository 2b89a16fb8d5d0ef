package achievements

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/epic-tm/completionist/internal/layout"
)

// WriteJSON writes the document in its wire format.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

type tomlDocument struct {
	Domains []tomlDomain `toml:"domain"`
}

type tomlDomain struct {
	Name     string        `toml:"name"`
	Badges   []string      `toml:"badges,omitempty"`
	Tiers    []tomlTier    `toml:"tier"`
	Missions []tomlMission `toml:"mission,omitempty"`
}

type tomlMission struct {
	Title  string `toml:"title"`
	Status string `toml:"status"`
	XP     int    `toml:"xp"`
}

type tomlTier struct {
	Name         string            `toml:"name"`
	Achievements []tomlAchievement `toml:"achievement"`
}

type tomlAchievement struct {
	Title         string `toml:"title"`
	Description   string `toml:"description"`
	Status        string `toml:"status"`
	DateCompleted string `toml:"date_completed,omitempty"`
}

// EncodeTOML writes the document as TOML arrays of tables.
func (d *Document) EncodeTOML(w io.Writer) error {
	var out tomlDocument
	for _, dom := range d.Domains {
		td := tomlDomain{Name: dom.Name, Badges: dom.Badges}
		for _, m := range dom.Missions {
			td.Missions = append(td.Missions, tomlMission{Title: m.Title, Status: string(m.Status), XP: m.XP})
		}
		for _, t := range dom.Tiers {
			tt := tomlTier{Name: t.Name}
			for _, a := range t.Achievements {
				ta := tomlAchievement{Title: a.Title, Description: a.Description, Status: string(a.Status)}
				if a.DateCompleted != nil {
					ta.DateCompleted = a.DateCompleted.Format(time.RFC3339)
				}
				tt.Achievements = append(tt.Achievements, ta)
			}
			td.Tiers = append(td.Tiers, tt)
		}
		out.Domains = append(out.Domains, td)
	}
	if err := toml.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	return nil
}

// LayoutShape describes the document's geometry for the layout engine.
func (d *Document) LayoutShape() layout.Shape {
	var s layout.Shape
	if d == nil {
		return s
	}
	for _, dom := range d.Domains {
		s.DomainNames = append(s.DomainNames, dom.Name)
		names := make([]string, len(dom.Tiers))
		counts := make([]int, len(dom.Tiers))
		for j, t := range dom.Tiers {
			names[j] = t.Name
			counts[j] = len(t.Achievements)
		}
		s.TierNames = append(s.TierNames, names)
		s.NodeCounts = append(s.NodeCounts, counts)
	}
	return s
}
