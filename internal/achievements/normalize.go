package achievements

import (
	"encoding/json"
	"fmt"
	"time"
)

// Parse decodes a document. Syntax errors fail; content is normalised
// leniently to the given shape.
func Parse(data []byte, shape Shape) (*Document, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse achievements: %w", err)
	}
	return Normalize(raw, shape), nil
}

// Default returns the demo document: every slot synthesised, plus demo
// missions and badges for the stock domain names.
func Default(shape Shape) *Document {
	doc := Normalize(nil, shape)
	seedDemo(doc)
	return doc
}

// Normalize turns any decoded JSON value into a document covering at least
// the full shape. Domains or tiers beyond the shape are kept.
func Normalize(raw any, shape Shape) *Document {
	root, _ := raw.(map[string]any)
	planets, _ := root["planets"].([]any)

	n := max(shape.Domains, len(planets))
	doc := &Document{Domains: make([]Domain, n)}
	for i := range n {
		var rp map[string]any
		if i < len(planets) {
			rp, _ = planets[i].(map[string]any)
		}
		doc.Domains[i] = normalizeDomain(rp, i, shape)
	}
	return doc
}

func normalizeDomain(rp map[string]any, i int, shape Shape) Domain {
	name, ok := rp["planetName"].(string)
	if !ok {
		name = shape.DomainName(i)
	}
	tiers, _ := rp["tiers"].([]any)

	n := max(shape.Tiers, len(tiers))
	d := Domain{
		Name:     name,
		Tiers:    make([]Tier, n),
		Missions: normalizeMissions(rp["missions"]),
		Badges:   normalizeBadges(rp["badges"]),
	}
	for t := range n {
		var rt map[string]any
		if t < len(tiers) {
			rt, _ = tiers[t].(map[string]any)
		}
		d.Tiers[t] = normalizeTier(rt, i, t, shape)
	}
	return d
}

func normalizeTier(rt map[string]any, i, t int, shape Shape) Tier {
	name, ok := rt["tierName"].(string)
	if !ok {
		name = fmt.Sprintf("Tier %d", t+1)
	}
	items, _ := rt["achievements"].([]any)

	tier := Tier{Name: name}
	if len(items) == 0 {
		for a := range shape.NodesPerTier {
			tier.Achievements = append(tier.Achievements, placeholder(i, t, a))
		}
		return tier
	}

	tier.Achievements = make([]Achievement, len(items))
	for a, item := range items {
		ra, _ := item.(map[string]any)
		tier.Achievements[a] = normalizeAchievement(ra, i, t, a)
	}
	return tier
}

func normalizeAchievement(ra map[string]any, i, t, a int) Achievement {
	ach := Achievement{Status: initialStatus(t)}
	if s, ok := ra["title"].(string); ok {
		ach.Title = s
	} else {
		ach.Title = placeholderTitle(i, t, a)
	}
	if s, ok := ra["description"].(string); ok {
		ach.Description = s
	}
	if s, ok := ra["status"].(string); ok {
		if st, err := ParseStatus(s); err == nil {
			ach.Status = st
		}
	}
	if s, ok := ra["dateCompleted"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			ach.DateCompleted = &ts
		}
	}
	return ach
}

func placeholder(i, t, a int) Achievement {
	title := placeholderTitle(i, t, a)
	return Achievement{
		Title:       title,
		Description: "How to get " + title,
		Status:      initialStatus(t),
	}
}

func placeholderTitle(i, t, a int) string {
	return fmt.Sprintf("ACH %d-%d-%d", i+1, t+1, a+1)
}

// initialStatus is the fresh status of an achievement in tier t.
func initialStatus(t int) Status {
	if t == 0 {
		return StatusAvailable
	}
	return StatusLocked
}
