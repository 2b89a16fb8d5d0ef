// Package achievements holds the achievement document: domains of tiers of
// achievements, with the status rules the chart and the CLI share.
package achievements

import (
	"errors"
	"fmt"
	"time"
)

// Status is the progress state of one achievement.
type Status string

const (
	StatusLocked    Status = "locked"
	StatusAvailable Status = "available"
	StatusCompleted Status = "completed"
)

var (
	// ErrNotFound is returned for a reference outside the document.
	ErrNotFound = errors.New("achievement not found")
	// ErrLocked is returned when completing an achievement that is still locked.
	ErrLocked = errors.New("achievement is locked")
	// ErrBadStatus is returned for a status outside locked/available/completed.
	ErrBadStatus = errors.New("invalid status")
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusLocked, StatusAvailable, StatusCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrBadStatus, s)
	}
}

// Achievement is a single leaf of the chart.
type Achievement struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        Status     `json:"status"`
	DateCompleted *time.Time `json:"dateCompleted"`
}

// Tier is one ring of achievements around a domain.
type Tier struct {
	Name         string        `json:"tierName"`
	Achievements []Achievement `json:"achievements"`
}

// Domain is a top-level chart body. Missions and badges are optional
// side data shown in the domain detail; they never affect progress.
type Domain struct {
	Name     string    `json:"planetName"`
	Tiers    []Tier    `json:"tiers"`
	Missions []Mission `json:"missions,omitempty"`
	Badges   []string  `json:"badges,omitempty"`
}

// Document is the full achievement tree.
type Document struct {
	Domains []Domain `json:"planets"`
}

// Ref addresses one achievement.
type Ref struct {
	Domain int
	Tier   int
	Index  int
}

func (r Ref) String() string {
	return fmt.Sprintf("%d-%d-%d", r.Domain+1, r.Tier+1, r.Index+1)
}

// Shape is the grid a document is normalised to.
type Shape struct {
	Domains      int      `mapstructure:"domains"`
	Tiers        int      `mapstructure:"tiers"`
	NodesPerTier int      `mapstructure:"nodes_per_tier"`
	Names        []string `mapstructure:"names"`
}

// DefaultShape is five domains of five tiers with six achievements each.
// Names run past five so documents with a sixth or seventh domain still get
// a proper name.
func DefaultShape() Shape {
	return Shape{
		Domains:      5,
		Tiers:        5,
		NodesPerTier: 6,
		Names:        []string{"Physical", "Cognitive", "Social", "Technical", "Creative", "Financial", "Spiritual"},
	}
}

// DomainName returns the configured name for domain i.
func (s Shape) DomainName(i int) string {
	if i >= 0 && i < len(s.Names) && s.Names[i] != "" {
		return s.Names[i]
	}
	return fmt.Sprintf("Planet %d", i+1)
}

// Get returns a pointer into the document for ref.
func (d *Document) Get(ref Ref) (*Achievement, error) {
	t, err := d.tier(ref.Domain, ref.Tier)
	if err != nil {
		return nil, err
	}
	if ref.Index < 0 || ref.Index >= len(t.Achievements) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return &t.Achievements[ref.Index], nil
}

func (d *Document) tier(domain, tier int) (*Tier, error) {
	if d == nil || domain < 0 || domain >= len(d.Domains) {
		return nil, fmt.Errorf("%w: domain %d", ErrNotFound, domain+1)
	}
	dom := &d.Domains[domain]
	if tier < 0 || tier >= len(dom.Tiers) {
		return nil, fmt.Errorf("%w: tier %d-%d", ErrNotFound, domain+1, tier+1)
	}
	return &dom.Tiers[tier], nil
}

// Count tallies achievements.
type Count struct {
	Completed int
	Available int
	Locked    int
}

// Total is the number of achievements counted.
func (c Count) Total() int {
	return c.Completed + c.Available + c.Locked
}

// Fraction is completed/total, or 0 for an empty count.
func (c Count) Fraction() float64 {
	if c.Total() == 0 {
		return 0
	}
	return float64(c.Completed) / float64(c.Total())
}

func (c *Count) add(s Status) {
	switch s {
	case StatusCompleted:
		c.Completed++
	case StatusAvailable:
		c.Available++
	default:
		c.Locked++
	}
}

// Progress counts the tier's achievements.
func (t Tier) Progress() Count {
	var c Count
	for _, a := range t.Achievements {
		c.add(a.Status)
	}
	return c
}

// Done reports whether every achievement of a non-empty tier is completed.
func (t Tier) Done() bool {
	c := t.Progress()
	return c.Total() > 0 && c.Completed == c.Total()
}

// Progress counts the domain's achievements.
func (d Domain) Progress() Count {
	var c Count
	for _, t := range d.Tiers {
		tc := t.Progress()
		c.Completed += tc.Completed
		c.Available += tc.Available
		c.Locked += tc.Locked
	}
	return c
}

// Progress counts every achievement per domain and overall.
func (d *Document) Progress() (overall Count, perDomain []Count) {
	if d == nil {
		return Count{}, nil
	}
	perDomain = make([]Count, len(d.Domains))
	for i, dom := range d.Domains {
		c := dom.Progress()
		perDomain[i] = c
		overall.Completed += c.Completed
		overall.Available += c.Available
		overall.Locked += c.Locked
	}
	return overall, perDomain
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{Domains: make([]Domain, len(d.Domains))}
	for i, dom := range d.Domains {
		nd := Domain{Name: dom.Name, Tiers: make([]Tier, len(dom.Tiers))}
		if dom.Missions != nil {
			nd.Missions = append([]Mission(nil), dom.Missions...)
		}
		if dom.Badges != nil {
			nd.Badges = append([]string(nil), dom.Badges...)
		}
		for j, t := range dom.Tiers {
			nt := Tier{Name: t.Name, Achievements: make([]Achievement, len(t.Achievements))}
			for k, a := range t.Achievements {
				if a.DateCompleted != nil {
					ts := *a.DateCompleted
					a.DateCompleted = &ts
				}
				nt.Achievements[k] = a
			}
			nd.Tiers[j] = nt
		}
		out.Domains[i] = nd
	}
	return out
}
