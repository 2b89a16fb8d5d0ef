// Package hover resolves pointer positions to chart entities.
package hover

import (
	"fmt"
	"math"

	"github.com/epic-tm/completionist/internal/layout"
)

// Kind is the type of entity under the pointer.
type Kind int

const (
	KindNone Kind = iota
	KindDomain
	KindTier
	KindNode
)

func (k Kind) String() string {
	switch k {
	case KindDomain:
		return "domain"
	case KindTier:
		return "tier"
	case KindNode:
		return "node"
	default:
		return "none"
	}
}

// specificity ranks kinds for tie-breaking; higher wins.
func (k Kind) specificity() int {
	return int(k)
}

// Target identifies a hovered entity. Unused indices are -1.
type Target struct {
	Kind   Kind
	Domain int
	Tier   int
	Node   int
}

// None is the empty hover target.
var None = Target{Kind: KindNone, Domain: -1, Tier: -1, Node: -1}

// IsNone reports whether t points at nothing.
func (t Target) IsNone() bool {
	return t.Kind == KindNone
}

func (t Target) String() string {
	switch t.Kind {
	case KindDomain:
		return fmt.Sprintf("domain[%d]", t.Domain)
	case KindTier:
		return fmt.Sprintf("tier[%d/%d]", t.Domain, t.Tier)
	case KindNode:
		return fmt.Sprintf("node[%d/%d/%d]", t.Domain, t.Tier, t.Node)
	default:
		return "none"
	}
}

// Radii are the hit radii of each entity kind in world units. Node hit
// radii scale with zoom: max(NodeMin, r/scale + NodePad).
type Radii struct {
	Domain  float64
	Tier    float64
	NodeMin float64
	NodePad float64
}

// RadiiFor derives hit radii from the chart geometry.
func RadiiFor(cfg layout.Config) Radii {
	return Radii{
		Domain:  math.Max(30, cfg.CoreVisual*0.16),
		Tier:    math.Max(20, cfg.TierVisual*0.4),
		NodeMin: 12,
		NodePad: 6,
	}
}

// Eligibility reports whether the leaf nodes of a tier accept the pointer.
type Eligibility func(domain, tier int) bool

// ShowNodes is the stock eligibility rule: nodes are interactive when the
// camera is zoomed in past showScale or their tier is the focused one.
func ShowNodes(scale, showScale float64, focusDomain, focusTier int) Eligibility {
	return func(d, t int) bool {
		return scale >= showScale || (focusDomain == d && focusTier == t)
	}
}

// Resolve finds the entity under world point w. Every eligible entity whose
// hit circle contains w is a candidate; the closest wins, and equal
// distances go to the most specific kind (node, then tier, then domain).
func Resolve(l *layout.Layout, w layout.Point, scale float64, eligible Eligibility, r Radii) Target {
	best := None
	bestDist := math.Inf(1)

	consider := func(t Target, d float64) {
		if d < bestDist || (d == bestDist && t.Kind.specificity() > best.Kind.specificity()) {
			best, bestDist = t, d
		}
	}

	if l == nil {
		return best
	}
	if scale <= 0 {
		scale = 1
	}

	for _, dom := range l.Domains {
		if d := w.Dist(dom.Pos); d < r.Domain {
			consider(Target{Kind: KindDomain, Domain: dom.Index, Tier: -1, Node: -1}, d)
		}
		for _, tier := range dom.Tiers {
			if d := w.Dist(tier.Pos); d < r.Tier {
				consider(Target{Kind: KindTier, Domain: dom.Index, Tier: tier.Index, Node: -1}, d)
			}
			if eligible != nil && !eligible(dom.Index, tier.Index) {
				continue
			}
			for _, n := range tier.Nodes {
				hit := math.Max(r.NodeMin, n.R/scale+r.NodePad)
				if d := w.Dist(n.Pos); d <= hit {
					consider(Target{Kind: KindNode, Domain: dom.Index, Tier: tier.Index, Node: n.Index}, d)
				}
			}
		}
	}
	return best
}

// Router tracks the hovered entity and fires enter/leave callbacks only
// when it changes.
type Router struct {
	current Target

	OnEnter func(Target)
	OnLeave func(Target)
}

// NewRouter creates a router hovering nothing.
func NewRouter() *Router {
	return &Router{current: None}
}

// Current returns the hovered entity.
func (r *Router) Current() Target {
	return r.current
}

// Update records the newly resolved target. It returns the current target
// and whether it changed; callbacks run only on a change.
func (r *Router) Update(t Target) (Target, bool) {
	if t == r.current {
		return r.current, false
	}
	prev := r.current
	r.current = t
	if !prev.IsNone() && r.OnLeave != nil {
		r.OnLeave(prev)
	}
	if !t.IsNone() && r.OnEnter != nil {
		r.OnEnter(t)
	}
	return r.current, true
}

// Clear drops the hover, firing OnLeave if something was hovered.
func (r *Router) Clear() bool {
	_, changed := r.Update(None)
	return changed
}
