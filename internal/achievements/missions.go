package achievements

import (
	"math"
	"strconv"
	"strings"
)

// MissionStatus is the state of a domain mission.
type MissionStatus string

const (
	MissionReady   MissionStatus = "READY"
	MissionOngoing MissionStatus = "ONGOING"
	MissionLocked  MissionStatus = "LOCKED"
)

// Mission is a side quest attached to a domain, worth XP.
type Mission struct {
	Title  string        `json:"title"`
	Status MissionStatus `json:"status"`
	XP     int           `json:"xp"`
}

// Open reports whether the mission can be worked on.
func (m Mission) Open() bool {
	return m.Status == MissionReady || m.Status == MissionOngoing
}

// XP sums the domain's mission XP: what is open now, and everything.
func (d Domain) XP() (open, total int) {
	for _, m := range d.Missions {
		total += m.XP
		if m.Open() {
			open += m.XP
		}
	}
	return open, total
}

// parseMissionStatus is case-insensitive; anything unknown is locked.
func parseMissionStatus(v any) MissionStatus {
	s, _ := v.(string)
	switch st := MissionStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case MissionReady, MissionOngoing:
		return st
	default:
		return MissionLocked
	}
}

// parseXP accepts JSON numbers and numeric strings. Negative, fractional
// or unreadable values round down or become 0.
func parseXP(v any) int {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = n
	default:
		return 0
	}
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

func normalizeMissions(raw any) []Mission {
	items, _ := raw.([]any)
	if len(items) == 0 {
		return nil
	}
	out := make([]Mission, 0, len(items))
	for n, item := range items {
		rm, _ := item.(map[string]any)
		title, ok := rm["title"].(string)
		if !ok || title == "" {
			title = "MISSION " + strconv.Itoa(n+1)
		}
		out = append(out, Mission{
			Title:  title,
			Status: parseMissionStatus(rm["status"]),
			XP:     parseXP(rm["xp"]),
		})
	}
	return out
}

func normalizeBadges(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// demoDomains is the side data the demo document carries per domain name.
var demoDomains = map[string]struct {
	missions []Mission
	badges   []string
}{
	"Physical": {
		missions: []Mission{{"AM_DRILL", MissionReady, 200}, {"HYDRATION_CHECK", MissionOngoing, 50}, {"REST_PROTOCOL", MissionLocked, 150}},
		badges:   []string{"MARATHON_I", "STRENGTH_TRAINER", "IRON_LUNGS"},
	},
	"Cognitive": {
		missions: []Mission{{"NEURAL_LINK", MissionReady, 400}, {"FOCUS_SESSION", MissionOngoing, 100}},
		badges:   []string{"DEEP_THINKER", "LOGIC_GATE"},
	},
	"Social": {
		missions: []Mission{{"NETWORK_EXPANSION", MissionReady, 150}, {"CHARISMA_MOD", MissionLocked, 500}},
		badges:   []string{"CONNECTOR"},
	},
	"Technical": {
		missions: []Mission{{"CORE_REWRITE", MissionReady, 1000}, {"DEBUG_VOID", MissionReady, 250}},
		badges:   []string{"NULL_POINTER", "SYS_ADMIN", "ARCHITECT"},
	},
	"Creative": {
		missions: []Mission{{"PROJECT_ZENITH", MissionReady, 300}, {"UI_POLISH", MissionReady, 150}},
		badges:   []string{"ARTISAN", "CODE_MASTER", "INNOVATOR"},
	},
	"Financial": {
		missions: []Mission{{"BUDGET_AUDIT", MissionReady, 500}, {"ASSET_ACQUISITION", MissionReady, 2000}},
		badges:   []string{"SAVER_I", "DEBT_FREE_2025"},
	},
	"Spiritual": {
		missions: []Mission{{"SILENCE_PROTOCOL", MissionReady, 100}, {"ZENITH_ALIGN", MissionLocked, 999}},
		badges:   []string{"AWAKENED"},
	},
}

// seedDemo gives every domain with a known name its demo missions and badges.
func seedDemo(doc *Document) {
	for i := range doc.Domains {
		d := &doc.Domains[i]
		demo, ok := demoDomains[d.Name]
		if !ok {
			continue
		}
		d.Missions = append([]Mission(nil), demo.missions...)
		d.Badges = append([]string(nil), demo.badges...)
	}
}
